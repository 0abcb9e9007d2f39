package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	openapirs "github.com/baerwang/openapi-rs"
)

// newVersionCmd prints build metadata.
func newVersionCmd() *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), openapirs.Version())
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "openapi-validate %s\n%s\n", openapirs.Version(), openapirs.BuildInfo())
			return nil
		},
	}
	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only the version")
	return cmd
}
