package mcpserver

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baerwang/openapi-rs/httpvalidator"
	"github.com/baerwang/openapi-rs/internal/testutil"
)

type staticSource struct {
	v *httpvalidator.Validator
}

func (s staticSource) Validator() *httpvalidator.Validator { return s.v }

func boolPtr(b bool) *bool { return &b }

func TestValidateRequestTool(t *testing.T) {
	docCache.reset()
	spec := &specInput{Content: testutil.UsersSpec}
	tl := newTools()

	tests := []struct {
		name      string
		input     validateRequestInput
		wantValid bool
		wantPath  string
		wantKinds []string
	}{
		{
			name: "valid body",
			input: validateRequestInput{
				Spec: spec, Method: "POST", Path: "/users",
				Body:        `{"name": "John Doe", "email": "john.doe@example.com", "age": 30}`,
				ContentType: "application/json",
			},
			wantValid: true,
			wantPath:  "/users",
		},
		{
			name:      "query constraint",
			input:     validateRequestInput{Spec: spec, Method: "GET", Path: "/users", Query: "page=0"},
			wantPath:  "/users",
			wantKinds: []string{"ConstraintViolation(Minimum)"},
		},
		{
			name:      "unknown route is a result not a tool error",
			input:     validateRequestInput{Spec: spec, Method: "GET", Path: "/nope"},
			wantKinds: []string{"RouteNotFound"},
		},
		{
			name:      "strict rejects undeclared query",
			input:     validateRequestInput{Spec: spec, Method: "GET", Path: "/users", Query: "page=1&debug=1", Strict: boolPtr(true)},
			wantPath:  "/users",
			wantKinds: []string{"UnknownParameter"},
		},
		{
			name:      "lenient ignores undeclared query",
			input:     validateRequestInput{Spec: spec, Method: "GET", Path: "/users", Query: "page=1&debug=1", Strict: boolPtr(false)},
			wantValid: true,
			wantPath:  "/users",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, output, err := tl.handleValidateRequest(context.Background(), &mcp.CallToolRequest{}, tt.input)
			require.NoError(t, err)
			assert.Nil(t, result)
			assert.Equal(t, tt.wantValid, output.Valid)
			assert.Equal(t, tt.wantPath, output.MatchedPath)
			assert.Equal(t, len(tt.wantKinds), output.ErrorCount)

			kinds := make([]string, len(output.Errors))
			for i, e := range output.Errors {
				kinds[i] = e.Kind
				assert.NotEmpty(t, e.Message)
			}
			if len(tt.wantKinds) == 0 {
				assert.Empty(t, kinds)
			} else {
				assert.Equal(t, tt.wantKinds, kinds)
			}
		})
	}
}

func TestValidateRequestTool_Pagination(t *testing.T) {
	docCache.reset()
	input := validateRequestInput{
		Spec: &specInput{Content: testutil.UsersSpec}, Method: "POST", Path: "/users",
		Body: `{"age": -1}`, ContentType: "application/json",
		Offset: 1, Limit: 1,
	}
	_, output, err := newTools().handleValidateRequest(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	assert.False(t, output.Valid)
	assert.Equal(t, 3, output.ErrorCount)
	assert.Equal(t, 1, output.Returned)
	require.Len(t, output.Errors, 1)
	assert.Equal(t, "body.email", output.Errors[0].Path)
}

func TestValidateRequestTool_DefaultSpec(t *testing.T) {
	v, err := httpvalidator.New(testutil.LoadUsersSpec(t))
	require.NoError(t, err)

	var outcomes []httpvalidator.Outcome
	tl := newTools(
		WithDefaultSpec(staticSource{v}),
		WithSink(httpvalidator.SinkFunc(func(o httpvalidator.Outcome) { outcomes = append(outcomes, o) })),
	)

	result, output, err := tl.handleValidateRequest(context.Background(), &mcp.CallToolRequest{},
		validateRequestInput{Method: "GET", Path: "/example/550e8400-e29b-41d4-a716-446655440000"})
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.True(t, output.Valid)
	assert.Equal(t, "/example/{uuid}", output.MatchedPath)
	assert.Equal(t, "getExample", output.OperationID)

	require.Len(t, outcomes, 1)
	assert.Equal(t, "/example/{uuid}", outcomes[0].Path)
	assert.True(t, outcomes[0].Success)
}

func TestValidateRequestTool_MissingSpec(t *testing.T) {
	result, _, err := newTools().handleValidateRequest(context.Background(), &mcp.CallToolRequest{},
		validateRequestInput{Method: "GET", Path: "/"})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}

func TestListOperationsTool(t *testing.T) {
	docCache.reset()
	_, output, err := newTools().handleListOperations(context.Background(), &mcp.CallToolRequest{},
		listOperationsInput{Spec: &specInput{Content: testutil.UsersSpec}})
	require.NoError(t, err)

	assert.Equal(t, "3.1.0", output.OpenAPI)
	assert.Equal(t, 7, output.OperationCount)
	require.Len(t, output.Routes, 5)
	assert.Equal(t, routeSummary{
		Path:         "/users/{user_id}",
		Methods:      []string{"GET", "DELETE"},
		OperationIDs: []string{"getUser", "deleteUser"},
		Deprecated:   []string{"DELETE"},
	}, output.Routes[0])
	assert.Equal(t, "/users/active", output.Routes[1].Path)
	assert.Equal(t, []string{"GET", "POST"}, output.Routes[2].Methods)

	t.Run("parse failure is a tool error", func(t *testing.T) {
		result, _, err := newTools().handleListOperations(context.Background(), &mcp.CallToolRequest{},
			listOperationsInput{Spec: &specInput{Content: "openapi: [broken\n"}})
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.True(t, result.IsError)
	})
}
