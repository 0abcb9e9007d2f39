// Package commands provides the cobra command tree for openapi-validate.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	openapirs "github.com/baerwang/openapi-rs"
	"github.com/baerwang/openapi-rs/observability"
)

const longDescription = `
openapi-validate checks HTTP requests against an OpenAPI 3.x contract.

It matches the method and path to a declared operation, then validates path
parameters, query parameters and the request body against their schemas,
reporting every violation with its location (e.g. body.items[0].name).
`

// session carries state shared by every subcommand of one invocation.
type session struct {
	logLevel string
	logFile  string
	stderr   io.Writer

	logger *slog.Logger
	closer io.Closer
}

// Logger returns the logger built in PersistentPreRunE, or a discarding
// logger before that.
func (s *session) Logger() *slog.Logger {
	if s.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.logger
}

func (s *session) setupLogger(level string) error {
	cfg := observability.DefaultConfig()
	cfg.Level = level
	cfg.LogFile = s.logFile
	cfg.Console = s.stderr
	logger, closer, err := observability.NewLogger(cfg)
	if err != nil {
		return err
	}
	s.logger, s.closer = logger, closer
	return nil
}

func (s *session) close() {
	if s.closer != nil {
		_ = s.closer.Close()
	}
}

// Run executes the command line args (including the program name) and
// returns the command's error after printing it to stderr.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	s := &session{stderr: stderr}
	defer s.close()

	rootCmd := newRootCmd(s)
	rootCmd.SetArgs(args[1:]) // Skip the program name
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Print error to stderr for scripts and CLI users (SilenceErrors is set)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// newRootCmd creates the root command and wires up the subcommands.
func newRootCmd(s *session) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "openapi-validate",
		Short:         "Validate HTTP requests against an OpenAPI contract",
		Long:          longDescription,
		Version:       openapirs.Version(),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || isCompletionCommand(cmd) {
				return nil
			}
			level := s.logLevel
			if cmd.Name() == mcpCmdName && !cmd.Flags().Changed("log-level") {
				level = mcpLogLevel()
			}
			return s.setupLogger(level)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&s.logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&s.logFile, "log-file", "", "Also append log records to this file")

	rootCmd.AddCommand(newCheckCmd(s))
	rootCmd.AddCommand(newValidateCmd(s))
	rootCmd.AddCommand(newBatchCmd(s))
	rootCmd.AddCommand(newRoutesCmd(s))
	rootCmd.AddCommand(newMCPCmd(s))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// isCompletionCommand returns true if the command or any of its parents is the "completion" command.
func isCompletionCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "completion" {
			return true
		}
	}
	return false
}
