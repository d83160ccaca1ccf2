package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wgross/treesor/pkg/treesor"
	"github.com/wgross/treesor/pkg/types"
)

// propView is the JSON form of one property value.
type propView struct {
	Path  string `json:"path"`
	Name  string `json:"name"`
	Value any    `json:"value"`
	Set   bool   `json:"set"`
}

// columnKind finds the declared kind of a column so text can be parsed.
func columnKind(m *treesor.Model, name string) (types.ValueKind, error) {
	cols, err := m.GetColumns()
	if err != nil {
		return "", err
	}
	for _, c := range cols {
		if c.Name == name {
			return c.Kind, nil
		}
	}
	return "", fmt.Errorf("%q: %w", name, types.ErrColumnNotFound)
}

func (a *app) newPropCmd() *cobra.Command {
	prop := &cobra.Command{
		Use:   "prop",
		Short: "Read and write item properties",
	}

	prop.AddCommand(&cobra.Command{
		Use:   "set <path> <name> <value>",
		Short: "Set a property; the value is parsed as the column's type",
		Long:  "Set a property of an item. The item is checked first, then the column.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := types.ParsePath(args[0])
			return a.withModel(func(m *treesor.Model) error {
				if args[1] == "" {
					return fmt.Errorf("%w: property name", types.ErrArgumentMissing)
				}
				exists, err := m.ItemExists(path)
				if err != nil {
					return err
				}
				if !exists {
					return fmt.Errorf("%s: %w", path, types.ErrNodeNotFound)
				}
				kind, err := columnKind(m, args[1])
				if err != nil {
					return err
				}
				v, err := kind.Parse(args[2])
				if err != nil {
					return fmt.Errorf("%w: %q is not a %s: %v", types.ErrTypeMismatch, args[2], kind, err)
				}
				return m.SetPropertyValue(path, args[1], v)
			})
		},
	})

	prop.AddCommand(&cobra.Command{
		Use:   "get <path> <name>",
		Short: "Print a property value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := types.ParsePath(args[0])
			return a.withModel(func(m *treesor.Model) error {
				v, ok, err := m.GetPropertyValue(path, args[1])
				if err != nil {
					return err
				}
				view := propView{Path: path.String(), Name: args[1], Value: v, Set: ok}
				return a.emit(cmd.OutOrStdout(), view, func() {
					if ok {
						fmt.Fprintln(cmd.OutOrStdout(), v)
					}
				})
			})
		},
	})

	prop.AddCommand(&cobra.Command{
		Use:   "clear <path> <name>",
		Short: "Unset a property",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withModel(func(m *treesor.Model) error {
				return m.ClearPropertyValue(types.ParsePath(args[0]), args[1])
			})
		},
	})

	prop.AddCommand(&cobra.Command{
		Use:   "cp <src-path> <src-name> <dst-path> <dst-name>",
		Short: "Copy a property value to another item or column",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withModel(func(m *treesor.Model) error {
				return m.CopyPropertyValue(types.ParsePath(args[0]), args[1], types.ParsePath(args[2]), args[3])
			})
		},
	})

	prop.AddCommand(&cobra.Command{
		Use:   "mv <src-path> <src-name> <dst-path> <dst-name>",
		Short: "Move a property value to another item or column",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withModel(func(m *treesor.Model) error {
				return m.MovePropertyValue(types.ParsePath(args[0]), args[1], types.ParsePath(args[2]), args[3])
			})
		},
	})

	return prop
}
