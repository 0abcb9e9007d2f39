package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/baerwang/openapi-rs/httpvalidator"
	"github.com/baerwang/openapi-rs/observability"
)

type validateRequestInput struct {
	Spec        *specInput `json:"spec,omitempty"         jsonschema:"The OpenAPI contract; omit to use the contract the server was started with"`
	Method      string     `json:"method"                 jsonschema:"HTTP method, e.g. GET"`
	Path        string     `json:"path"                   jsonschema:"Request path without query string, e.g. /users/42"`
	Query       string     `json:"query,omitempty"        jsonschema:"Raw query string without the leading '?', e.g. page=1&limit=20"`
	Body        string     `json:"body,omitempty"         jsonschema:"Raw request body"`
	ContentType string     `json:"content_type,omitempty" jsonschema:"Content-Type header value, e.g. application/json"`
	Strict      *bool      `json:"strict,omitempty"       jsonschema:"Reject undeclared query parameters"`
	Offset      int        `json:"offset,omitempty"       jsonschema:"Skip the first N errors (for pagination)"`
	Limit       int        `json:"limit,omitempty"        jsonschema:"Maximum number of errors to return (default 100)"`
}

type requestIssue struct {
	Path    string `json:"path"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type validateRequestOutput struct {
	Valid         bool           `json:"valid"`
	MatchedPath   string         `json:"matched_path,omitempty"`
	MatchedMethod string         `json:"matched_method,omitempty"`
	OperationID   string         `json:"operation_id,omitempty"`
	ErrorCount    int            `json:"error_count"`
	WarningCount  int            `json:"warning_count"`
	Returned      int            `json:"returned"`
	Errors        []requestIssue `json:"errors,omitempty"`
	Warnings      []requestIssue `json:"warnings,omitempty"`
}

func (t *tools) handleValidateRequest(_ context.Context, _ *mcp.CallToolRequest, input validateRequestInput) (*mcp.CallToolResult, validateRequestOutput, error) {
	// Apply config defaults when input fields are omitted (nil).
	strict := cfg.ValidateStrict
	if input.Strict != nil {
		strict = *input.Strict
	}

	doc, err := t.document(input.Spec)
	if err != nil {
		return errResult(err), validateRequestOutput{}, nil
	}

	sink := t.sink
	if sink == nil {
		sink = observability.NewLogSink(t.logger)
	}
	v, err := httpvalidator.New(doc,
		httpvalidator.WithStrictMode(strict),
		httpvalidator.WithMaxBodySize(cfg.MaxBodySize),
		httpvalidator.WithSink(sink),
	)
	if err != nil {
		return errResult(err), validateRequestOutput{}, nil
	}

	result := v.Validate(httpvalidator.RequestView{
		Method:      input.Method,
		Path:        input.Path,
		Query:       input.Query,
		Body:        []byte(input.Body),
		ContentType: input.ContentType,
	})

	output := validateRequestOutput{
		Valid:         result.Valid,
		MatchedPath:   result.MatchedPath,
		MatchedMethod: result.MatchedMethod,
		OperationID:   result.OperationID,
		ErrorCount:    len(result.Errors),
		WarningCount:  len(result.Warnings),
		Errors:        issues(paginate(result.Errors, input.Offset, input.Limit)),
		Warnings:      issues(result.Warnings),
	}
	output.Returned = len(output.Errors)
	return nil, output, nil
}

func issues(errs []httpvalidator.ValidationError) []requestIssue {
	out := makeSlice[requestIssue](len(errs))
	for _, e := range errs {
		out = append(out, requestIssue{Path: e.Path(), Kind: e.Label(), Message: e.Message})
	}
	return out
}
