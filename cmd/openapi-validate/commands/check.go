package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// CheckReport is the structured output of the check command.
type CheckReport struct {
	Source         string `json:"source"          yaml:"source"`
	Format         string `json:"format"          yaml:"format"`
	OpenAPI        string `json:"openapi"         yaml:"openapi"`
	Title          string `json:"title"           yaml:"title"`
	Version        string `json:"version"         yaml:"version"`
	PathCount      int    `json:"path_count"      yaml:"path_count"`
	OperationCount int    `json:"operation_count" yaml:"operation_count"`
	ParameterCount int    `json:"parameter_count" yaml:"parameter_count"`
	SchemaCount    int    `json:"schema_count"    yaml:"schema_count"`
	SizeBytes      int64  `json:"size_bytes"      yaml:"size_bytes"`
}

// newCheckCmd loads a contract and reports its statistics.
func newCheckCmd(s *session) *cobra.Command {
	output := formatValue(FormatText)

	cmd := &cobra.Command{
		Use:   "check <spec>",
		Short: "Load a contract and report its statistics",
		Long:  "Load an OpenAPI 3.x contract, resolve its references, and report what it declares. Exits non-zero when the contract cannot be loaded.",
		Args:  cobra.ExactArgs(1),
		Example: `  openapi-validate check openapi.yaml
  openapi-validate check -o json openapi.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(args[0], s.Logger())
			if err != nil {
				return err
			}
			report := CheckReport{
				Source:         doc.SourcePath,
				Format:         string(doc.SourceFormat),
				OpenAPI:        doc.OpenAPI,
				Title:          doc.Info.Title,
				Version:        doc.Info.Version,
				PathCount:      doc.Stats.PathCount,
				OperationCount: doc.Stats.OperationCount,
				ParameterCount: doc.Stats.ParameterCount,
				SchemaCount:    doc.Stats.SchemaCount,
				SizeBytes:      doc.SourceSize,
			}
			if output != FormatText {
				return OutputStructured(cmd.OutOrStdout(), report, string(output))
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s (%s)\n", report.Source, report.Format)
			fmt.Fprintf(w, "  OpenAPI:    %s\n", report.OpenAPI)
			fmt.Fprintf(w, "  Title:      %s %s\n", report.Title, report.Version)
			fmt.Fprintf(w, "  Paths:      %d\n", report.PathCount)
			fmt.Fprintf(w, "  Operations: %d\n", report.OperationCount)
			fmt.Fprintf(w, "  Parameters: %d\n", report.ParameterCount)
			fmt.Fprintf(w, "  Schemas:    %d\n", report.SchemaCount)
			fmt.Fprintln(w, "  OK")
			return nil
		},
	}
	cmd.Flags().VarP(&output, "output", "o", "Output format (text, json, yaml)")
	return cmd
}
