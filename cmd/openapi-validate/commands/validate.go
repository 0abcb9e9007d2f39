package commands

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/baerwang/openapi-rs/httpvalidator"
)

// ErrInvalidRequest is returned when at least one request fails validation.
var ErrInvalidRequest = errors.New("request does not conform to the contract")

// ValidateFlags contains flags for the validate command
type ValidateFlags struct {
	Method      string
	Path        string
	Query       string
	Body        string
	BodyFile    string
	ContentType string
	Strict      bool
	NoWarnings  bool
	MaxBodySize int64
	Output      formatValue
}

// newValidateCmd validates a single request described by flags.
func newValidateCmd(s *session) *cobra.Command {
	flags := &ValidateFlags{Output: FormatText}

	cmd := &cobra.Command{
		Use:   "validate <spec>",
		Short: "Validate one HTTP request against a contract",
		Args:  cobra.ExactArgs(1),
		Example: `  openapi-validate validate openapi.yaml --method GET --path /users --query 'page=1&limit=20'
  openapi-validate validate openapi.yaml --method POST --path /users \
      --content-type application/json --body '{"name": "Ada", "email": "ada@example.com", "age": 36}'
  cat body.json | openapi-validate validate openapi.yaml -X POST -p /users --body-file - -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(args[0], s.Logger())
			if err != nil {
				return err
			}
			v, err := newValidator(doc, s.Logger(),
				httpvalidator.WithStrictMode(flags.Strict),
				httpvalidator.WithIncludeWarnings(!flags.NoWarnings),
				httpvalidator.WithMaxBodySize(flags.MaxBodySize),
			)
			if err != nil {
				return err
			}

			body, err := readBody(flags.Body, flags.BodyFile, cmd.InOrStdin())
			if err != nil {
				return err
			}
			req := httpvalidator.RequestView{
				Method:      flags.Method,
				Path:        flags.Path,
				Query:       strings.TrimPrefix(flags.Query, "?"),
				Body:        body,
				ContentType: flags.ContentType,
			}
			report := newRequestReport(req, v.Validate(req))

			if flags.Output == FormatText {
				writeTextReport(cmd.OutOrStdout(), report)
			} else if err := OutputStructured(cmd.OutOrStdout(), report, string(flags.Output)); err != nil {
				return err
			}
			if !report.Valid {
				return ErrInvalidRequest
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.Method, "method", "X", "GET", "HTTP method")
	cmd.Flags().StringVarP(&flags.Path, "path", "p", "", "Request path without query string, e.g. /users/42")
	cmd.Flags().StringVarP(&flags.Query, "query", "q", "", "Raw query string, e.g. 'page=1&limit=20'")
	cmd.Flags().StringVarP(&flags.Body, "body", "d", "", "Inline request body")
	cmd.Flags().StringVar(&flags.BodyFile, "body-file", "", "Read the request body from a file ('-' for stdin)")
	cmd.Flags().StringVarP(&flags.ContentType, "content-type", "H", "", "Content-Type of the body")
	cmd.Flags().BoolVar(&flags.Strict, "strict", false, "Reject query parameters the operation does not declare")
	cmd.Flags().BoolVar(&flags.NoWarnings, "no-warnings", false, "Suppress warnings (deprecated operations, malformed query strings)")
	cmd.Flags().Int64Var(&flags.MaxBodySize, "max-body-size", httpvalidator.DefaultMaxBodySize, "Reject bodies larger than this many bytes")
	cmd.Flags().VarP(&flags.Output, "output", "o", "Output format (text, json, yaml)")
	_ = cmd.MarkFlagRequired("path")
	cmd.MarkFlagsMutuallyExclusive("body", "body-file")

	return cmd
}
