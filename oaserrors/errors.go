// Package oaserrors provides structured error types for loading OpenAPI
// contracts and configuring validators.
//
// These error types enable programmatic error handling via errors.Is() and
// errors.As(), allowing callers to distinguish between a malformed document,
// a broken $ref and a bad option.
//
// # Error Categories
//
//   - ParseError: contract-load failures, classified by ParseErrorKind
//   - ReferenceError: $ref resolution failures and circular references
//   - ResourceLimitError: request bodies or documents exceeding configured limits
//   - ConfigError: Invalid configuration or input options
//
// # Usage with errors.Is
//
//	doc, err := parser.ParseWithOptions(parser.WithFilePath("api.yaml"))
//	if errors.Is(err, oaserrors.ErrCircularReference) {
//	    // the contract contains a recursive schema
//	}
package oaserrors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrParse indicates a contract failed to load.
	ErrParse = errors.New("parse error")

	// ErrMissingField indicates a required section or schema keyword is absent.
	ErrMissingField = errors.New("missing field")

	// ErrUnresolvedReference indicates a $ref points outside the document or at nothing.
	ErrUnresolvedReference = errors.New("unresolved reference")

	// ErrCircularReference indicates a circular $ref was detected.
	ErrCircularReference = errors.New("circular reference")

	// ErrMalformedSyntax indicates the document text or a schema value is malformed.
	ErrMalformedSyntax = errors.New("malformed syntax")

	// ErrReference indicates a reference resolution failure.
	ErrReference = errors.New("reference error")

	// ErrResourceLimit indicates a resource limit was exceeded.
	ErrResourceLimit = errors.New("resource limit exceeded")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// ParseErrorKind classifies a ParseError.
type ParseErrorKind int

const (
	// KindMalformedSyntax is the zero value so that an unclassified ParseError
	// still reports something meaningful.
	KindMalformedSyntax ParseErrorKind = iota
	KindMissingField
	KindUnresolvedReference
	KindCircularReference
)

// String returns the kind name.
func (k ParseErrorKind) String() string {
	switch k {
	case KindMissingField:
		return "MissingField"
	case KindUnresolvedReference:
		return "UnresolvedReference"
	case KindCircularReference:
		return "CircularReference"
	default:
		return "MalformedSyntax"
	}
}

func (k ParseErrorKind) sentinel() error {
	switch k {
	case KindMissingField:
		return ErrMissingField
	case KindUnresolvedReference:
		return ErrUnresolvedReference
	case KindCircularReference:
		return ErrCircularReference
	default:
		return ErrMalformedSyntax
	}
}

// ParseError represents a failure to load an OpenAPI document.
// No partial document is ever returned alongside a ParseError.
type ParseError struct {
	// Kind classifies the failure
	Kind ParseErrorKind
	// Path is the file path or source identifier
	Path string
	// Pointer is the JSON pointer of the offending node (e.g. "#/paths/~1pets/get")
	Pointer string
	// Line is the line number where the error occurred (0 if unknown)
	Line int
	// Column is the column number where the error occurred (0 if unknown)
	Column int
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("parse error (")
	b.WriteString(e.Kind.String())
	b.WriteString(")")
	if e.Path != "" {
		b.WriteString(" in " + e.Path)
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, " at line %d", e.Line)
		if e.Column > 0 {
			fmt.Fprintf(&b, ", column %d", e.Column)
		}
	}
	if e.Pointer != "" {
		b.WriteString(" at " + e.Pointer)
	}
	if e.Message != "" {
		b.WriteString(": " + e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": " + e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
// Matches ErrParse and the sentinel for the error's Kind.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse || target == e.Kind.sentinel()
}

// ReferenceError represents a failure to resolve a $ref.
type ReferenceError struct {
	// Ref is the reference string that failed to resolve
	Ref string
	// RefType indicates the reference type: "local", "file", or "http"
	RefType string
	// Chain lists the refs being resolved when a cycle was found, ending with Ref
	Chain []string
	// IsCircular is true if this error is due to a circular reference
	IsCircular bool
	// Message provides additional context about the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ReferenceError) Error() string {
	msg := "reference error"
	if e.IsCircular {
		msg = "circular reference"
	}
	if e.Ref != "" {
		msg += ": " + e.Ref
	}
	if len(e.Chain) > 1 {
		msg += " (" + strings.Join(e.Chain, " -> ") + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ReferenceError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
// Matches ErrReference, and also ErrCircularReference when IsCircular is set.
func (e *ReferenceError) Is(target error) bool {
	if target == ErrReference {
		return true
	}
	return target == ErrCircularReference && e.IsCircular
}

// ResourceLimitError represents a resource exhaustion condition.
type ResourceLimitError struct {
	// ResourceType identifies what limit was exceeded
	// Common values: "body_size", "document_size"
	ResourceType string
	// Limit is the configured maximum value
	Limit int64
	// Actual is the value that exceeded the limit (may be 0 if unknown)
	Actual int64
	// Message provides additional context
	Message string
}

// Error returns a human-readable error message.
func (e *ResourceLimitError) Error() string {
	msg := "resource limit exceeded"
	if e.ResourceType != "" {
		msg += ": " + e.ResourceType
	}
	if e.Limit > 0 {
		msg += fmt.Sprintf(" (limit: %d", e.Limit)
		if e.Actual > 0 {
			msg += fmt.Sprintf(", actual: %d", e.Actual)
		}
		msg += ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *ResourceLimitError) Is(target error) bool {
	return target == ErrResourceLimit
}

// ConfigError represents an invalid configuration or input.
// This includes invalid options, missing required inputs, and conflicting settings.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
