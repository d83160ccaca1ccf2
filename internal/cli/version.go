package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const modulePath = "github.com/wgross/treesor"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the treesor version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "treesor v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
