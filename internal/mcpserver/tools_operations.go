package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type listOperationsInput struct {
	Spec *specInput `json:"spec,omitempty" jsonschema:"The OpenAPI contract; omit to use the contract the server was started with"`
}

type routeSummary struct {
	Path         string   `json:"path"`
	Methods      []string `json:"methods"`
	OperationIDs []string `json:"operation_ids,omitempty"`
	Deprecated   []string `json:"deprecated,omitempty"`
}

type listOperationsOutput struct {
	Title          string         `json:"title"`
	Version        string         `json:"version"`
	OpenAPI        string         `json:"openapi"`
	OperationCount int            `json:"operation_count"`
	Routes         []routeSummary `json:"routes"`
}

func (t *tools) handleListOperations(_ context.Context, _ *mcp.CallToolRequest, input listOperationsInput) (*mcp.CallToolResult, listOperationsOutput, error) {
	doc, err := t.document(input.Spec)
	if err != nil {
		return errResult(err), listOperationsOutput{}, nil
	}

	output := listOperationsOutput{
		Title:          doc.Info.Title,
		Version:        doc.Info.Version,
		OpenAPI:        doc.OpenAPI,
		OperationCount: doc.Stats.OperationCount,
		Routes:         make([]routeSummary, 0, len(doc.Paths)),
	}
	for _, item := range doc.Paths {
		route := routeSummary{Path: item.Template, Methods: item.Methods()}
		if route.Methods == nil {
			route.Methods = []string{}
		}
		for _, m := range route.Methods {
			op, _ := item.Operation(m)
			if op.OperationID != "" {
				route.OperationIDs = append(route.OperationIDs, op.OperationID)
			}
			if op.Deprecated {
				route.Deprecated = append(route.Deprecated, m)
			}
		}
		output.Routes = append(output.Routes, route)
	}
	return nil, output, nil
}
