package httpvalidator

import (
	"fmt"
	"strings"

	"github.com/baerwang/openapi-rs/internal/severity"
)

// Severity levels for validation findings.
type Severity = severity.Severity

// Severity constants re-exported for convenience.
const (
	SeverityError   = severity.SeverityError
	SeverityWarning = severity.SeverityWarning
	SeverityInfo    = severity.SeverityInfo
)

// Location roots. The first element of every ValidationError.Location is
// one of these.
const (
	LocationPath  = "path"
	LocationQuery = "query"
	LocationBody  = "body"
)

// ErrorKind classifies a request validation failure.
type ErrorKind int

const (
	RouteNotFound ErrorKind = iota + 1
	MethodNotAllowed
	MissingRequiredParameter
	MissingRequiredBody
	UnsupportedContentType
	InvalidBody
	TypeMismatch
	MissingRequiredProperty
	ConstraintViolation
	FormatViolation
	// UnknownParameter is only reported in strict mode.
	UnknownParameter
)

var errorKindNames = map[ErrorKind]string{
	RouteNotFound:            "RouteNotFound",
	MethodNotAllowed:         "MethodNotAllowed",
	MissingRequiredParameter: "MissingRequiredParameter",
	MissingRequiredBody:      "MissingRequiredBody",
	UnsupportedContentType:   "UnsupportedContentType",
	InvalidBody:              "InvalidBody",
	TypeMismatch:             "TypeMismatch",
	MissingRequiredProperty:  "MissingRequiredProperty",
	ConstraintViolation:      "ConstraintViolation",
	FormatViolation:          "FormatViolation",
	UnknownParameter:         "UnknownParameter",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// MarshalText renders the kind name in JSON and YAML output.
func (k ErrorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Constraint names the schema keyword a ConstraintViolation failed.
type Constraint int

const (
	ConstraintNone Constraint = iota
	ConstraintMinimum
	ConstraintMaximum
	ConstraintMinLength
	ConstraintMaxLength
	ConstraintMinItems
	ConstraintMaxItems
	ConstraintPattern
	ConstraintEnum
	ConstraintNoVariantMatched
	ConstraintAdditionalProperties
)

var constraintNames = [...]string{
	ConstraintNone:                 "",
	ConstraintMinimum:              "Minimum",
	ConstraintMaximum:              "Maximum",
	ConstraintMinLength:            "MinLength",
	ConstraintMaxLength:            "MaxLength",
	ConstraintMinItems:             "MinItems",
	ConstraintMaxItems:             "MaxItems",
	ConstraintPattern:              "Pattern",
	ConstraintEnum:                 "Enum",
	ConstraintNoVariantMatched:     "NoVariantMatched",
	ConstraintAdditionalProperties: "AdditionalProperties",
}

func (c Constraint) String() string {
	if c >= 0 && int(c) < len(constraintNames) {
		return constraintNames[c]
	}
	return fmt.Sprintf("Constraint(%d)", int(c))
}

// MarshalText renders the constraint name in JSON and YAML output.
func (c Constraint) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// ValidationError is one path-qualified, leaf-level violation.
type ValidationError struct {
	// Location starts with "path", "query" or "body", followed by parameter
	// or property names and array indices rendered as "[i]".
	Location   []string   `json:"location"`
	Kind       ErrorKind  `json:"kind"`
	Constraint Constraint `json:"constraint,omitempty"`
	// Format is set for FormatViolation.
	Format   string `json:"format,omitempty"`
	Expected string `json:"expected,omitempty"`
	Actual   string `json:"actual,omitempty"`
	Message  string `json:"message"`
	// Severity is SeverityError for everything in Errors.
	Severity Severity `json:"severity"`
	// Variants holds one error set per union variant for NoVariantMatched.
	Variants [][]ValidationError `json:"variants,omitempty"`
}

// Path renders Location as a dotted path, e.g. "body.items[2].name".
func (e ValidationError) Path() string {
	var b strings.Builder
	for i, seg := range e.Location {
		if i > 0 && !strings.HasPrefix(seg, "[") {
			b.WriteByte('.')
		}
		b.WriteString(seg)
	}
	return b.String()
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if p := e.Path(); p != "" {
		return p + ": " + e.Message
	}
	return e.Message
}

// Label is the kind, qualified by constraint or format when present,
// e.g. "ConstraintViolation(Maximum)".
func (e ValidationError) Label() string {
	switch {
	case e.Constraint != ConstraintNone:
		return e.Kind.String() + "(" + e.Constraint.String() + ")"
	case e.Format != "":
		return e.Kind.String() + "(" + e.Format + ")"
	}
	return e.Kind.String()
}

// RequestValidationResult contains the results of validating one request.
type RequestValidationResult struct {
	// Valid is true if the request passes all validation checks.
	Valid bool

	// Errors contains every violation found.
	Errors []ValidationError

	// Warnings contains tolerated findings (if IncludeWarnings is enabled).
	Warnings []ValidationError

	// MatchedPath is the path template that matched the request
	// (e.g., "/users/{user_id}"). Empty if no path matched.
	MatchedPath string

	// MatchedMethod is the upper-cased request method.
	MatchedMethod string

	// OperationID of the matched operation, if declared.
	OperationID string

	// PathParams contains the coerced path parameters.
	PathParams map[string]any

	// QueryParams contains the coerced query parameters, defaults included.
	QueryParams map[string]any

	// Body is the decoded request body, nil when absent or undecodable.
	Body any
}

func newRequestResult(method string) *RequestValidationResult {
	return &RequestValidationResult{
		Valid:         true,
		MatchedMethod: strings.ToUpper(method),
		PathParams:    make(map[string]any),
		QueryParams:   make(map[string]any),
	}
}

// addErrors appends errs and marks the result invalid when any were given.
func (r *RequestValidationResult) addErrors(errs ...ValidationError) {
	if len(errs) == 0 {
		return
	}
	r.Valid = false
	r.Errors = append(r.Errors, errs...)
}

func (r *RequestValidationResult) addWarning(location []string, message string) {
	r.Warnings = append(r.Warnings, ValidationError{
		Location: location,
		Message:  message,
		Severity: SeverityWarning,
	})
}

// Summary joins every error as "path: message" with "; ".
func (r *RequestValidationResult) Summary() string {
	parts := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "; ")
}

// HasKind reports whether any error has kind k.
func (r *RequestValidationResult) HasKind(k ErrorKind) bool {
	for _, e := range r.Errors {
		if e.Kind == k {
			return true
		}
	}
	return false
}
