package commands

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v4"
	"golang.org/x/sync/errgroup"

	"github.com/baerwang/openapi-rs/httpvalidator"
)

// BatchRequest is one entry of a batch file.
type BatchRequest struct {
	Method      string `yaml:"method"`
	Path        string `yaml:"path"`
	Query       string `yaml:"query"`
	Body        string `yaml:"body"`
	ContentType string `yaml:"content_type"`
}

func (r BatchRequest) view() httpvalidator.RequestView {
	method := r.Method
	if method == "" {
		method = "GET"
	}
	var body []byte
	if r.Body != "" {
		body = []byte(r.Body)
	}
	return httpvalidator.RequestView{
		Method:      method,
		Path:        r.Path,
		Query:       strings.TrimPrefix(r.Query, "?"),
		Body:        body,
		ContentType: r.ContentType,
	}
}

// BatchReport is the structured output of the batch command.
type BatchReport struct {
	Total   int             `json:"total"   yaml:"total"`
	Valid   int             `json:"valid"   yaml:"valid"`
	Invalid int             `json:"invalid" yaml:"invalid"`
	Results []RequestReport `json:"results" yaml:"results"`
}

// loadBatch reads a YAML (or JSON) list of requests.
func loadBatch(path string) ([]BatchRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading batch file: %w", err)
	}
	var reqs []BatchRequest
	if err := yaml.Unmarshal(data, &reqs); err != nil {
		return nil, fmt.Errorf("parsing batch file %s: %w", path, err)
	}
	for i, r := range reqs {
		if r.Path == "" {
			return nil, fmt.Errorf("batch entry %d: path is required", i+1)
		}
	}
	return reqs, nil
}

// newBatchCmd validates a file of requests concurrently.
func newBatchCmd(s *session) *cobra.Command {
	var strict bool
	var concurrency int
	output := formatValue(FormatText)

	cmd := &cobra.Command{
		Use:   "batch <spec> <requests.yaml>",
		Short: "Validate a list of requests concurrently",
		Long: `Validate every request listed in a YAML or JSON file. Each entry has
method, path, and optionally query, body and content_type. Results are
printed in input order; the command fails if any request is invalid.`,
		Args: cobra.ExactArgs(2),
		Example: `  openapi-validate batch openapi.yaml requests.yaml --concurrency 8 -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if concurrency < 1 {
				return fmt.Errorf("--concurrency must be at least 1, got %d", concurrency)
			}
			doc, err := loadDocument(args[0], s.Logger())
			if err != nil {
				return err
			}
			reqs, err := loadBatch(args[1])
			if err != nil {
				return err
			}
			v, err := newValidator(doc, s.Logger(), httpvalidator.WithStrictMode(strict))
			if err != nil {
				return err
			}

			reports := make([]RequestReport, len(reqs))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(concurrency)
			for i, r := range reqs {
				g.Go(func() error {
					if err := ctx.Err(); err != nil {
						return err
					}
					view := r.view()
					reports[i] = newRequestReport(view, v.Validate(view))
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			report := BatchReport{Total: len(reports), Results: reports}
			for _, r := range reports {
				if r.Valid {
					report.Valid++
				} else {
					report.Invalid++
				}
			}

			w := cmd.OutOrStdout()
			if output == FormatText {
				for _, r := range reports {
					writeTextReport(w, r)
				}
				fmt.Fprintf(w, "%d request(s): %d valid, %d invalid\n", report.Total, report.Valid, report.Invalid)
			} else if err := OutputStructured(w, report, string(output)); err != nil {
				return err
			}
			if report.Invalid > 0 {
				return ErrInvalidRequest
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", runtime.GOMAXPROCS(0), "Number of requests validated in parallel")
	cmd.Flags().BoolVar(&strict, "strict", false, "Reject query parameters the operation does not declare")
	cmd.Flags().VarP(&output, "output", "o", "Output format (text, json, yaml)")
	return cmd
}
