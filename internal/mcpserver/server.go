// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes request validation as MCP tools over stdio.
package mcpserver

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	openapirs "github.com/baerwang/openapi-rs"
	"github.com/baerwang/openapi-rs/httpvalidator"
	"github.com/baerwang/openapi-rs/parser"
)

const serverInstructions = `openapi-validate MCP server: checks HTTP requests against an OpenAPI 3.x contract.

Tools:
- validate_request: validate one request (method, path, query, body, content_type) and get leaf-level errors with locations such as body.items[0].name
- list_operations: list path templates with their methods and operationIds

Pass the contract as spec.file or spec.content. When the server was started with a contract, spec may be omitted.

Configuration comes from OPENAPI_VALIDATE_* environment variables set in your MCP client config:
- OPENAPI_VALIDATE_STRICT (default: false) reject undeclared query parameters by default
- OPENAPI_VALIDATE_MAX_BODY_SIZE (default: 10485760) body size limit in bytes
- OPENAPI_VALIDATE_CACHE_TTL (default: 15m) and OPENAPI_VALIDATE_CACHE_SIZE (default: 10) bound the document cache
- OPENAPI_VALIDATE_LOG_LEVEL (default: info) server log level; logs go to stderr

Caching: loaded contracts are cached per session. File entries use path+mtime+size as key, so edits are picked up automatically.`

// ValidatorSource supplies the contract used when a tool call omits spec.
// *specwatch.Holder implements it.
type ValidatorSource interface {
	Validator() *httpvalidator.Validator
}

// Option configures Run.
type Option func(*tools)

// WithDefaultSpec makes src the contract for calls that omit spec.
func WithDefaultSpec(src ValidatorSource) Option {
	return func(t *tools) {
		t.defaultSpec = src
	}
}

// WithLogger sets the logger that receives one record per validated request.
func WithLogger(l *slog.Logger) Option {
	return func(t *tools) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithSink sets the sink attached to validators built for tool calls.
func WithSink(s httpvalidator.Sink) Option {
	return func(t *tools) {
		t.sink = s
	}
}

// tools carries the per-server state the handlers share.
type tools struct {
	defaultSpec ValidatorSource
	logger      *slog.Logger
	sink        httpvalidator.Sink
}

func newTools(opts ...Option) *tools {
	t := &tools{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context, opts ...Option) error {
	if cfg.CacheEnabled {
		docCache.startSweeper(ctx, cfg.CacheSweepInterval)
	}

	server := newServer(newTools(opts...))
	return server.Run(ctx, &mcp.StdioTransport{})
}

func newServer(t *tools) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "openapi-validate", Version: openapirs.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server, t)
	return server
}

func registerAllTools(server *mcp.Server, t *tools) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate_request",
		Description: "Validate an HTTP request against an OpenAPI 3.x contract. Give method and path (without query string); optionally query (raw, without '?'), body (raw text) and content_type. Returns valid, the matched path template, and leaf-level errors with locations such as query.page or body.items[0].name. Unknown routes and undeclared methods are reported as errors, not tool failures. strict=true rejects undeclared query parameters; the default is configurable via OPENAPI_VALIDATE_STRICT. Use offset/limit to paginate through errors.",
	}, t.handleValidateRequest)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_operations",
		Description: "List the routes of an OpenAPI 3.x contract in declaration order: each path template with its HTTP methods and operationIds. Use this to discover valid method/path pairs before calling validate_request.",
	}, t.handleListOperations)
}

// document returns the contract named by input, or the default contract
// when input is empty.
func (t *tools) document(input *specInput) (*parser.Document, error) {
	if input.empty() {
		if t.defaultSpec == nil {
			return nil, fmt.Errorf("spec is required: provide spec.file or spec.content")
		}
		return t.defaultSpec.Validator().Document(), nil
	}
	return input.resolve()
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.ErrorLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.ErrorLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
