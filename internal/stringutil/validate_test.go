package stringutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type formatCase struct {
	name  string
	input string
	want  bool
}

func runFormatCases(t *testing.T, fn func(string) bool, tests []formatCase) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fn(tt.input), "input %q", tt.input)
		})
	}
}

func TestIsValidEmail(t *testing.T) {
	runFormatCases(t, IsValidEmail, []formatCase{
		{name: "valid simple email", input: "user@example.com", want: true},
		{name: "valid with dots", input: "first.last@example.com", want: true},
		{name: "valid with plus", input: "user+tag@example.com", want: true},
		{name: "valid with subdomain", input: "user@sub.example.com", want: true},
		{name: "valid with hyphen in domain", input: "user@my-domain.com", want: true},
		{name: "missing at sign", input: "userexample.com", want: false},
		{name: "missing domain", input: "user@", want: false},
		{name: "missing local part", input: "@example.com", want: false},
		{name: "missing TLD", input: "user@example", want: false},
		{name: "bad-email", input: "bad-email", want: false},
		{name: "empty string", input: "", want: false},
		{name: "spaces", input: "user @example.com", want: false},
	})
}

func TestIsValidUUID(t *testing.T) {
	runFormatCases(t, IsValidUUID, []formatCase{
		{name: "lowercase", input: "123e4567-e89b-12d3-a456-426614174000", want: true},
		{name: "uppercase", input: "123E4567-E89B-12D3-A456-426614174000", want: true},
		{name: "nil uuid", input: "00000000-0000-0000-0000-000000000000", want: true},
		{name: "truncated", input: "00000000", want: false},
		{name: "bad chars", input: "00000000-0000-0000-0000-xxxx", want: false},
		{name: "no hyphens", input: "123e4567e89b12d3a456426614174000", want: false},
		{name: "braces", input: "{123e4567-e89b-12d3-a456-426614174000}", want: false},
	})
}

func TestIsValidDate(t *testing.T) {
	runFormatCases(t, IsValidDate, []formatCase{
		{name: "plain", input: "2024-01-15", want: true},
		{name: "leap day", input: "2024-02-29", want: true},
		{name: "non-leap day", input: "2023-02-29", want: false},
		{name: "century non-leap", input: "1900-02-29", want: false},
		{name: "month 13", input: "2024-13-01", want: false},
		{name: "day 31 in april", input: "2024-04-31", want: false},
		{name: "single digit month", input: "2024-1-15", want: false},
		{name: "with time", input: "2024-01-15T00:00:00Z", want: false},
	})
}

func TestIsValidTime(t *testing.T) {
	runFormatCases(t, IsValidTime, []formatCase{
		{name: "plain", input: "13:45:30", want: true},
		{name: "fraction", input: "13:45:30.123", want: true},
		{name: "utc", input: "13:45:30Z", want: true},
		{name: "offset", input: "13:45:30+02:00", want: true},
		{name: "leap second", input: "23:59:60Z", want: true},
		{name: "hour 24", input: "24:00:00", want: false},
		{name: "missing seconds", input: "13:45", want: false},
		{name: "bad offset", input: "13:45:30+2", want: false},
	})
}

func TestIsValidDateTime(t *testing.T) {
	runFormatCases(t, IsValidDateTime, []formatCase{
		{name: "utc", input: "2024-01-15T13:45:30Z", want: true},
		{name: "lowercase t", input: "2024-01-15t13:45:30Z", want: true},
		{name: "fraction and offset", input: "2024-01-15T13:45:30.5-07:00", want: true},
		{name: "missing zone", input: "2024-01-15T13:45:30", want: false},
		{name: "space separator", input: "2024-01-15 13:45:30Z", want: false},
		{name: "bad date", input: "2024-02-30T00:00:00Z", want: false},
		{name: "date only", input: "2024-01-15", want: false},
	})
}

func TestIsValidIPv4(t *testing.T) {
	runFormatCases(t, IsValidIPv4, []formatCase{
		{name: "loopback", input: "127.0.0.1", want: true},
		{name: "max", input: "255.255.255.255", want: true},
		{name: "octet too large", input: "256.0.0.1", want: false},
		{name: "leading zero", input: "01.2.3.4", want: false},
		{name: "three octets", input: "1.2.3", want: false},
		{name: "ipv6", input: "::1", want: false},
	})
}

func TestIsValidIPv6(t *testing.T) {
	runFormatCases(t, IsValidIPv6, []formatCase{
		{name: "loopback", input: "::1", want: true},
		{name: "full", input: "2001:0db8:85a3:0000:0000:8a2e:0370:7334", want: true},
		{name: "compressed", input: "2001:db8::8a2e:370:7334", want: true},
		{name: "ipv4 mapped", input: "::ffff:192.0.2.1", want: true},
		{name: "double compression", input: "2001::db8::1", want: false},
		{name: "zone", input: "fe80::1%eth0", want: false},
		{name: "ipv4", input: "192.0.2.1", want: false},
	})
}

func TestIsValidBase64(t *testing.T) {
	runFormatCases(t, IsValidBase64, []formatCase{
		{name: "padded", input: "aGVsbG8=", want: true},
		{name: "no padding needed", input: "aGVsbG8h", want: true},
		{name: "empty", input: "", want: true},
		{name: "missing padding", input: "aGVsbG8", want: false},
		{name: "url alphabet", input: "a-_b", want: false},
		{name: "bad chars", input: "not base64!", want: false},
		{name: "newline", input: "aGVs\nbG8=", want: false},
	})
}
