// Package middleware holds framework adapters for httpvalidator.
//
// The net/http adapter is httpvalidator.Middleware. Subpackages ginmw and
// echomw wrap the same Validator for gin and echo. Every adapter answers an
// invalid request with httpvalidator.StatusCode and an
// httpvalidator.ErrorResponse JSON body. A valid request reaches the next
// handler with the result stored in the request context.
package middleware
