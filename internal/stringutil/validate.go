// Package stringutil holds the string format checks used when validating
// values that declare an OpenAPI format.
package stringutil

import (
	"encoding/base64"
	"net/netip"
	"regexp"
	"strings"
	"time"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	uuidRegex  = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
	// HH:MM:SS with optional fraction and optional offset; 60 allows leap seconds
	timeRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]:([0-5][0-9]|60)(\.[0-9]+)?([Zz]|[+-]([01][0-9]|2[0-3]):[0-5][0-9])?$`)
)

// IsValidEmail checks if s is a valid email address.
func IsValidEmail(s string) bool {
	return emailRegex.MatchString(s)
}

// IsValidUUID checks for the canonical 8-4-4-4-12 hex form, in either case.
func IsValidUUID(s string) bool {
	return uuidRegex.MatchString(s)
}

// IsValidDate checks for an ISO 8601 calendar date (YYYY-MM-DD) that
// exists, leap years included.
func IsValidDate(s string) bool {
	if len(s) != len(time.DateOnly) {
		return false
	}
	_, err := time.Parse(time.DateOnly, s)
	return err == nil
}

// IsValidTime checks for an ISO 8601 time of day.
func IsValidTime(s string) bool {
	return timeRegex.MatchString(s)
}

// IsValidDateTime checks for an RFC 3339 timestamp.
func IsValidDateTime(s string) bool {
	i := strings.IndexAny(s, "Tt")
	if i != len(time.DateOnly) || !IsValidDate(s[:i]) {
		return false
	}
	_, err := time.Parse(time.RFC3339Nano, s[:i]+"T"+s[i+1:])
	return err == nil
}

// IsValidIPv4 checks for dotted-quad notation without leading zeros.
func IsValidIPv4(s string) bool {
	addr, err := netip.ParseAddr(s)
	return err == nil && addr.Is4()
}

// IsValidIPv6 checks for RFC 4291 text form, :: compression included.
// Zones are rejected.
func IsValidIPv6(s string) bool {
	if !strings.Contains(s, ":") {
		return false
	}
	addr, err := netip.ParseAddr(s)
	return err == nil && addr.Is6() && addr.Zone() == ""
}

// IsValidBase64 checks the standard alphabet with correct padding.
// The empty string is valid.
func IsValidBase64(s string) bool {
	if strings.ContainsAny(s, "\r\n") {
		return false
	}
	_, err := base64.StdEncoding.Strict().DecodeString(s)
	return err == nil
}
