// Package oaserrors provides structured error types for openapi-validate.
//
// Import path: github.com/baerwang/openapi-rs/oaserrors
//
// Contract loading either succeeds completely or fails with one of these
// errors. Per-request validation problems are never errors; they are
// reported as data by the httpvalidator package.
//
// # Error Types
//
//   - [ParseError]: contract-load failures, classified by [ParseErrorKind]
//   - [ReferenceError]: $ref resolution failures and circular references
//   - [ResourceLimitError]: size limits (request bodies, documents)
//   - [ConfigError]: Invalid configuration or input options
//
// # Sentinel Errors
//
//   - [ErrParse]: Matches any [ParseError]
//   - [ErrMissingField]: Matches [ParseError] with Kind=KindMissingField
//   - [ErrUnresolvedReference]: Matches [ParseError] with Kind=KindUnresolvedReference
//   - [ErrCircularReference]: Matches [ParseError] with Kind=KindCircularReference,
//     and [ReferenceError] with IsCircular=true
//   - [ErrMalformedSyntax]: Matches [ParseError] with Kind=KindMalformedSyntax
//   - [ErrReference]: Matches any [ReferenceError]
//   - [ErrResourceLimit]: Matches any [ResourceLimitError]
//   - [ErrConfig]: Matches any [ConfigError]
//
// # Usage Examples
//
// Extract the reference chain of a cycle:
//
//	var refErr *oaserrors.ReferenceError
//	if errors.As(err, &refErr) && refErr.IsCircular {
//	    fmt.Println(strings.Join(refErr.Chain, " -> "))
//	}
package oaserrors
