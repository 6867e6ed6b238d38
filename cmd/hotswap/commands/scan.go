package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "List the reloadable methods of the current modules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Scan(cmd.Context(), overrides(cmd), cmd.OutOrStdout())
		},
	}
}
