package httpvalidator

import (
	"slices"

	"github.com/baerwang/openapi-rs/internal/stringutil"
)

// formatCheckers maps each recognized string format to its check.
var formatCheckers = map[string]func(string) bool{
	"email":     stringutil.IsValidEmail,
	"uuid":      stringutil.IsValidUUID,
	"date":      stringutil.IsValidDate,
	"time":      stringutil.IsValidTime,
	"date-time": stringutil.IsValidDateTime,
	"ipv4":      stringutil.IsValidIPv4,
	"ipv6":      stringutil.IsValidIPv6,
	"base64":    stringutil.IsValidBase64,
	"binary":    func(string) bool { return true },
}

// CheckFormat reports whether s satisfies format. Unknown formats always pass.
func CheckFormat(format, s string) bool {
	check, ok := formatCheckers[format]
	if !ok {
		return true
	}
	return check(s)
}

// KnownFormats returns the recognized string formats, sorted.
func KnownFormats() []string {
	names := make([]string, 0, len(formatCheckers))
	for name := range formatCheckers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
