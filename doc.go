// Package openapirs validates HTTP requests against OpenAPI 3.x contracts.
//
// The module is organized as a small pipeline:
//
//   - parser loads a YAML or JSON contract into an immutable, fully resolved
//     Document
//   - httpvalidator matches a request to an operation and checks its path
//     parameters, query parameters and body against the declared schemas
//   - observability logs one record per validated request
//   - middleware adapts a Validator to net/http, gin and echo
//
// # Quick Start
//
//	doc, err := parser.ParseWithOptions(parser.WithFilePath("openapi.yaml"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	v, err := httpvalidator.New(doc,
//		httpvalidator.WithSink(observability.NewLogSink(slog.Default())),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	result := v.Validate(httpvalidator.RequestView{
//		Method: "GET",
//		Path:   "/users/42",
//		Query:  "page=1",
//	})
//	for _, e := range result.Errors {
//		fmt.Println(e.Error())
//	}
//
// # Command line
//
// The openapi-validate command wraps the same packages: check, validate,
// batch, routes and an MCP server for agents (see cmd/openapi-validate).
//
// Per-request problems are never returned as Go errors. They are collected
// in a RequestValidationResult; errors are reserved for contracts that fail
// to load and for invalid configuration.
package openapirs
