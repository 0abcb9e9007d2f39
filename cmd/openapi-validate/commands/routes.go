package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// Route is one method on one path template.
type Route struct {
	Method      string `json:"method"                 yaml:"method"`
	Path        string `json:"path"                   yaml:"path"`
	OperationID string `json:"operation_id,omitempty" yaml:"operation_id,omitempty"`
	Deprecated  bool   `json:"deprecated,omitempty"   yaml:"deprecated,omitempty"`
}

// newRoutesCmd lists the routes a contract declares.
func newRoutesCmd(s *session) *cobra.Command {
	output := formatValue(FormatText)

	cmd := &cobra.Command{
		Use:   "routes <spec>",
		Short: "List path templates and their methods",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(args[0], s.Logger())
			if err != nil {
				return err
			}

			var routes []Route
			for _, item := range doc.Paths {
				for _, m := range item.Methods() {
					op, _ := item.Operation(m)
					routes = append(routes, Route{Method: m, Path: item.Template, OperationID: op.OperationID, Deprecated: op.Deprecated})
				}
			}
			if output != FormatText {
				return OutputStructured(cmd.OutOrStdout(), routes, string(output))
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, r := range routes {
				note := ""
				if r.Deprecated {
					note = "deprecated"
				}
				fmt.Fprintln(tw, strings.Join([]string{r.Method, r.Path, r.OperationID, note}, "\t"))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().VarP(&output, "output", "o", "Output format (text, json, yaml)")
	return cmd
}
