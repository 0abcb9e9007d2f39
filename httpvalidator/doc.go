// Package httpvalidator validates HTTP requests against a loaded OpenAPI
// document.
//
// A request is described by a framework-neutral [RequestView]. The
// validator resolves the route, checks path and query parameters and
// checks the request body. It reports every violation it finds rather
// than stopping at the first one.
//
// # Basic Usage
//
//	doc, _ := parser.ParseWithOptions(parser.WithFilePath("openapi.yaml"))
//	v, err := httpvalidator.New(doc)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result := v.Validate(httpvalidator.RequestView{
//	    Method:      "POST",
//	    Path:        "/users",
//	    Body:        body,
//	    ContentType: "application/json",
//	})
//	for _, e := range result.Errors {
//	    log.Printf("%s: %s", e.Path(), e.Message)
//	}
//
// # Routing
//
// Paths are matched segment by segment. A literal template wins over one
// with captures ("/users/active" beats "/users/{id}"), and ties go to the
// template declared first. An unknown path yields RouteNotFound; a known
// path without the requested method yields MethodNotAllowed. Both are
// terminal.
//
// # Parameters
//
// Path captures and query values arrive as text and are coerced per schema
// kind before validation: integer and number literals, true/false in any
// case, null, comma-separated arrays. Text that cannot be coerced is
// reported as a TypeMismatch. An absent optional query parameter takes its
// declared default without being validated.
//
// # Bodies
//
// The Content-Type header is matched against the declared media types,
// exact first, then "type/*", then "*/*". JSON bodies are decoded with
// numbers preserved as json.Number; YAML, form and text bodies are also
// understood.
//
// # Observability
//
// Every Validate call hands an [Outcome] to the configured [Sink]. The
// package itself does no logging; see the observability package for a
// slog-backed sink.
//
// # Middleware
//
// [Middleware] wraps a net/http handler. The gin and echo adapters live in
// middleware/ginmw and middleware/echomw.
package httpvalidator
