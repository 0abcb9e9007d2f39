package mcpserver

import (
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginate(t *testing.T) {
	items := []int{0, 1, 2, 3, 4}

	tests := []struct {
		name   string
		offset int
		limit  int
		want   []int
	}{
		{name: "default limit returns all", offset: 0, limit: 0, want: []int{0, 1, 2, 3, 4}},
		{name: "explicit limit", offset: 0, limit: 2, want: []int{0, 1}},
		{name: "offset and limit", offset: 1, limit: 2, want: []int{1, 2}},
		{name: "offset beyond end", offset: 5, limit: 2, want: nil},
		{name: "negative offset", offset: -1, limit: 2, want: nil},
		{name: "limit exceeds remaining", offset: 3, limit: 10, want: []int{3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, paginate(items, tt.offset, tt.limit))
		})
	}
}

func TestMakeSlice(t *testing.T) {
	assert.Nil(t, makeSlice[string](0))
	s := makeSlice[string](3)
	assert.Empty(t, s)
	assert.Equal(t, 3, cap(s))
}

func TestSanitizeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "no path", err: errors.New("bad input"), want: "bad input"},
		{
			name: "absolute path",
			err:  errors.New("parser: failed to read file: open /home/user/specs/api.yaml: no such file"),
			want: "parser: failed to read file: open <path>: no such file",
		},
		{
			name: "tmp path",
			err:  errors.New("stat /tmp/TestX123/001/spec.yaml failed"),
			want: "stat <path> failed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeError(tt.err))
		})
	}
}

func TestErrResult(t *testing.T) {
	result := errResult(errors.New("boom"))
	assert.True(t, result.IsError)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, "boom", text.Text)
}
