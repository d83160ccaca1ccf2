package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wgross/treesor/pkg/treesor"
)

func (a *app) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize treesor storage",
		Long:  "Create the configuration file and data directory, then initialize the storage backend.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withModel(func(m *treesor.Model) error {
				root, err := m.GetItem(rootPath)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Treesor initialized (root %s)\n", root.ID)
				return nil
			})
		},
	}
}
