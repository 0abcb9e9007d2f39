// Package httputil provides HTTP method and media type helpers shared by the
// contract loader and the request validator.
package httputil

import (
	"mime"
	"slices"
	"strings"
)

// HTTP Method Constants
const (
	MethodGet     = "get"
	MethodPut     = "put"
	MethodPost    = "post"
	MethodDelete  = "delete"
	MethodOptions = "options"
	MethodHead    = "head"
	MethodPatch   = "patch"
	MethodTrace   = "trace" // OAS 3.0+ only
)

// Methods lists the operation keys a path item may declare, in canonical order.
var Methods = []string{MethodGet, MethodPut, MethodPost, MethodDelete, MethodOptions, MethodHead, MethodPatch, MethodTrace}

// IsMethod reports whether key (any case) names an operation of a path item.
func IsMethod(key string) bool {
	return slices.Contains(Methods, strings.ToLower(key))
}

// Well-known body media types.
const (
	MediaTypeJSON = "application/json"
	MediaTypeForm = "application/x-www-form-urlencoded"
)

// IsValidMediaType validates a media type string according to RFC 2045/2046.
// Handles wildcards (*/* and type/*) and prevents invalid combinations (*/subtype).
func IsValidMediaType(mediaType string) bool {
	if mediaType == "*/*" {
		return true
	}

	if major, ok := strings.CutSuffix(mediaType, "/*"); ok {
		return major != "" && major != "*" && !strings.Contains(major, "/")
	}

	_, _, err := mime.ParseMediaType(mediaType)
	return err == nil
}

// ParseMediaType returns the lower-cased media type of a Content-Type value
// with its parameters stripped. Values mime cannot parse fall back to the
// text before the first ';'.
func ParseMediaType(s string) string {
	mediaType, _, err := mime.ParseMediaType(s)
	if err != nil {
		mediaType, _, _ = strings.Cut(s, ";")
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

// IsJSONMediaType reports application/json and any +json structured suffix.
func IsJSONMediaType(mediaType string) bool {
	return mediaType == MediaTypeJSON || strings.HasSuffix(mediaType, "+json")
}

// IsYAMLMediaType reports the registered and customary YAML media types.
func IsYAMLMediaType(mediaType string) bool {
	switch mediaType {
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return true
	}
	return strings.HasSuffix(mediaType, "+yaml")
}
