package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wgross/treesor/pkg/treesor"
	"github.com/wgross/treesor/pkg/types"
)

func (a *app) newColumnCmd() *cobra.Command {
	col := &cobra.Command{
		Use:   "column",
		Short: "Manage typed property columns",
	}

	col.AddCommand(&cobra.Command{
		Use:   "create <name> <type>",
		Short: "Declare a column (types: string, int, int64, float64, bool, time, uuid, bytes)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := types.ParseValueKind(args[1])
			if err != nil {
				return err
			}
			return a.withModel(func(m *treesor.Model) error {
				c, err := m.CreateColumn(args[0], kind)
				if err != nil {
					return err
				}
				return a.emit(cmd.OutOrStdout(), c, func() {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", c.Name, c.Kind)
				})
			})
		},
	})

	col.AddCommand(&cobra.Command{
		Use:   "rm <name>",
		Short: "Remove a column and all its values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withModel(func(m *treesor.Model) error {
				removed, err := m.RemoveColumn(args[0])
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("column %q: %w", args[0], types.ErrColumnNotFound)
				}
				return nil
			})
		},
	})

	col.AddCommand(&cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a column, keeping its values",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withModel(func(m *treesor.Model) error {
				return m.RenameColumn(args[0], args[1])
			})
		},
	})

	col.AddCommand(&cobra.Command{
		Use:   "ls",
		Short: "List columns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withModel(func(m *treesor.Model) error {
				cols, err := m.GetColumns()
				if err != nil {
					return err
				}
				if cols == nil {
					cols = []types.Column{}
				}
				return a.emit(cmd.OutOrStdout(), cols, func() {
					for _, c := range cols {
						fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", c.Name, c.Kind)
					}
				})
			})
		},
	})

	return col
}
