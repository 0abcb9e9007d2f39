package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/baerwang/openapi-rs/httpvalidator"
	"github.com/baerwang/openapi-rs/internal/mcpserver"
	"github.com/baerwang/openapi-rs/internal/specwatch"
)

const mcpCmdName = "mcp"

// mcpLogLevel is the level used by the mcp command when --log-level is not given.
var mcpLogLevel = mcpserver.LogLevel

// newMCPCmd serves the MCP tools over stdio.
func newMCPCmd(s *session) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   mcpCmdName + " [spec]",
		Short: "Run the MCP server over stdio",
		Long: `Run a Model Context Protocol server on stdin/stdout exposing the
validate_request and list_operations tools. When a spec is given, tool calls
may omit their own contract; with --watch the contract is reloaded whenever
the file changes. Logs are written to stderr.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := s.Logger()
			opts := []mcpserver.Option{mcpserver.WithLogger(logger)}

			if len(args) == 1 {
				holder, err := specwatch.New(args[0],
					specwatch.WithLogger(logger),
					specwatch.OnReload(func(_ *httpvalidator.Validator, err error) {
						if err == nil {
							logger.Info("mcp default contract updated")
						}
					}),
				)
				if err != nil {
					return err
				}
				opts = append(opts, mcpserver.WithDefaultSpec(holder))

				if watch {
					go func() {
						if err := holder.Watch(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
							logger.Error("watch stopped", "error", err)
						}
					}()
				}
			} else if watch {
				return errors.New("--watch requires a spec path")
			}

			return mcpserver.Run(cmd.Context(), opts...)
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reload the spec when the file changes")
	return cmd
}
