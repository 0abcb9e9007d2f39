package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"go.yaml.in/yaml/v4"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/baerwang/openapi-rs/httpvalidator"
	"github.com/baerwang/openapi-rs/observability"
	"github.com/baerwang/openapi-rs/parser"
)

// Output format constants
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// StdinFilePath is the special file path used to indicate reading from stdin.
const StdinFilePath = "-"

// formatValue implements pflag.Value to provide a custom type name in help text
// and validation for output formats.
type formatValue string

func (f *formatValue) String() string {
	return string(*f)
}

func (f *formatValue) Set(v string) error {
	if err := ValidateOutputFormat(v); err != nil {
		return err
	}
	*f = formatValue(v)
	return nil
}

func (f *formatValue) Type() string {
	return "<format>"
}

// ValidateOutputFormat validates an output format and returns an error if invalid.
func ValidateOutputFormat(format string) error {
	if format != FormatText && format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s, %s", format, FormatText, FormatJSON, FormatYAML)
	}
	return nil
}

// OutputStructured writes data to w in the specified format (json or yaml).
func OutputStructured(w io.Writer, data any, format string) error {
	var bytes []byte
	var err error

	switch format {
	case FormatJSON:
		bytes, err = json.MarshalIndent(data, "", "  ")
		bytes = append(bytes, '\n')
	case FormatYAML:
		bytes, err = yaml.Marshal(data)
	default:
		return fmt.Errorf("invalid format for structured output: %s", format)
	}
	if err != nil {
		return fmt.Errorf("marshaling to %s: %w", format, err)
	}

	_, err = w.Write(bytes)
	return err
}

// loadDocument parses the contract at specPath, logging through logger.
func loadDocument(specPath string, logger *slog.Logger) (*parser.Document, error) {
	doc, err := parser.ParseWithOptions(
		parser.WithFilePath(specPath),
		parser.WithLogger(parser.NewSlogAdapter(logger)),
	)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", specPath, err)
	}
	return doc, nil
}

// newValidator builds a Validator that logs one record per request.
func newValidator(doc *parser.Document, logger *slog.Logger, opts ...httpvalidator.Option) (*httpvalidator.Validator, error) {
	opts = append([]httpvalidator.Option{httpvalidator.WithSink(observability.NewLogSink(logger))}, opts...)
	return httpvalidator.New(doc, opts...)
}

// readBody returns the request body from an inline value or a file, where
// "-" reads stdin.
func readBody(inline, file string, stdin io.Reader) ([]byte, error) {
	switch {
	case file == StdinFilePath:
		return io.ReadAll(stdin)
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading body file: %w", err)
		}
		return data, nil
	case inline != "":
		return []byte(inline), nil
	}
	return nil, nil
}

// Issue is one finding in structured output.
type Issue struct {
	Path    string `json:"path"    yaml:"path"`
	Kind    string `json:"kind"    yaml:"kind"`
	Message string `json:"message" yaml:"message"`
}

// RequestReport is the structured form of one validation result.
type RequestReport struct {
	Method      string  `json:"method"                 yaml:"method"`
	Path        string  `json:"path"                   yaml:"path"`
	Valid       bool    `json:"valid"                  yaml:"valid"`
	MatchedPath string  `json:"matched_path,omitempty" yaml:"matched_path,omitempty"`
	OperationID string  `json:"operation_id,omitempty" yaml:"operation_id,omitempty"`
	ErrorCount  int     `json:"error_count"            yaml:"error_count"`
	Errors      []Issue `json:"errors,omitempty"       yaml:"errors,omitempty"`
	Warnings    []Issue `json:"warnings,omitempty"     yaml:"warnings,omitempty"`
}

func newRequestReport(req httpvalidator.RequestView, result *httpvalidator.RequestValidationResult) RequestReport {
	return RequestReport{
		Method:      strings.ToUpper(req.Method),
		Path:        req.Path,
		Valid:       result.Valid,
		MatchedPath: result.MatchedPath,
		OperationID: result.OperationID,
		ErrorCount:  len(result.Errors),
		Errors:      toIssues(result.Errors),
		Warnings:    toIssues(result.Warnings),
	}
}

func toIssues(errs []httpvalidator.ValidationError) []Issue {
	if len(errs) == 0 {
		return nil
	}
	out := make([]Issue, len(errs))
	for i, e := range errs {
		out[i] = Issue{Path: e.Path(), Kind: e.Label(), Message: e.Message}
	}
	return out
}

// writeTextReport renders r for humans, grouping issues by location.
func writeTextReport(w io.Writer, r RequestReport) {
	fmt.Fprintf(w, "%s %s", r.Method, r.Path)
	if r.MatchedPath != "" {
		fmt.Fprintf(w, " -> %s", r.MatchedPath)
		if r.OperationID != "" {
			fmt.Fprintf(w, " (%s)", r.OperationID)
		}
	}
	fmt.Fprintln(w)

	if r.Valid {
		fmt.Fprintln(w, "  valid")
	} else {
		fmt.Fprintf(w, "  invalid: %d error(s)\n", r.ErrorCount)
	}

	title := cases.Title(language.English)
	groups := groupByLocation(r.Errors)
	for _, loc := range []string{httpvalidator.LocationPath, httpvalidator.LocationQuery, httpvalidator.LocationBody, ""} {
		issues := groups[loc]
		if len(issues) == 0 {
			continue
		}
		heading := "Request"
		if loc != "" {
			heading = title.String(loc)
		}
		fmt.Fprintf(w, "  %s:\n", heading)
		for _, is := range issues {
			fmt.Fprintf(w, "    %s [%s] %s\n", is.Path, is.Kind, is.Message)
		}
	}
	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "  Warnings:")
		for _, is := range r.Warnings {
			fmt.Fprintf(w, "    %s [%s] %s\n", is.Path, is.Kind, is.Message)
		}
	}
}

// groupByLocation buckets issues by their root location; issues outside
// path, query and body land under "".
func groupByLocation(issues []Issue) map[string][]Issue {
	groups := make(map[string][]Issue)
	for _, is := range issues {
		root, _, _ := strings.Cut(is.Path, ".")
		root, _, _ = strings.Cut(root, "[")
		switch root {
		case httpvalidator.LocationPath, httpvalidator.LocationQuery, httpvalidator.LocationBody:
		default:
			root = ""
		}
		groups[root] = append(groups[root], is)
	}
	return groups
}
