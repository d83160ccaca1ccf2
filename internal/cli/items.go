package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wgross/treesor/pkg/treesor"
	"github.com/wgross/treesor/pkg/types"
)

var rootPath = types.RootPath

// itemView is the JSON form of an item.
type itemView struct {
	Path string `json:"path"`
	ID   string `json:"id"`
}

func viewOf(item types.Item) itemView {
	return itemView{Path: item.Path.String(), ID: item.ID.String()}
}

func (a *app) itemCmds() []*cobra.Command {
	var recursive bool

	newCmd := &cobra.Command{
		Use:   "new <path>",
		Short: "Create an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withModel(func(m *treesor.Model) error {
				item, err := m.NewItem(types.ParsePath(args[0]), nil)
				if err != nil {
					return err
				}
				return a.emit(cmd.OutOrStdout(), viewOf(item), func() {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", item.ID, item.Path)
				})
			})
		},
	}

	lsCmd := &cobra.Command{
		Use:   "ls [path]",
		Short: "List child items, or all descendants with -r",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := rootPath
			if len(args) == 1 {
				path = types.ParsePath(args[0])
			}
			return a.withModel(func(m *treesor.Model) error {
				list := m.GetChildItems
				if recursive {
					list = m.GetDescendants
				}
				items, err := list(path)
				if err != nil {
					return err
				}
				views := make([]itemView, 0, len(items))
				for _, it := range items {
					views = append(views, viewOf(it))
				}
				return a.emit(cmd.OutOrStdout(), views, func() {
					for _, v := range views {
						fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", v.ID, v.Path)
					}
				})
			})
		},
	}
	lsCmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "list all descendants breadth-first")

	getCmd := &cobra.Command{
		Use:   "get <path>",
		Short: "Show one item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := types.ParsePath(args[0])
			return a.withModel(func(m *treesor.Model) error {
				item, err := m.GetItem(path)
				if err != nil {
					return err
				}
				if item == nil {
					return fmt.Errorf("%s: %w", path, types.ErrNodeNotFound)
				}
				return a.emit(cmd.OutOrStdout(), viewOf(*item), func() {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", item.ID, item.Path)
				})
			})
		},
	}

	rmCmd := &cobra.Command{
		Use:   "rm <path>",
		Short: "Remove an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withModel(func(m *treesor.Model) error {
				return m.RemoveItem(types.ParsePath(args[0]), recursive)
			})
		},
	}
	rmCmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "remove the whole subtree")

	renameCmd := &cobra.Command{
		Use:   "rename <path> <new-name>",
		Short: "Rename an item in place",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withModel(func(m *treesor.Model) error {
				return m.RenameItem(types.ParsePath(args[0]), args[1])
			})
		},
	}

	cpCmd := &cobra.Command{
		Use:   "cp <source> <destination>",
		Short: "Copy an item; copies get fresh ids",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withModel(func(m *treesor.Model) error {
				return m.CopyItem(types.ParsePath(args[0]), types.ParsePath(args[1]), recursive)
			})
		},
	}
	cpCmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "copy the whole subtree")

	mvCmd := &cobra.Command{
		Use:   "mv <source> <destination>",
		Short: "Move an item with its subtree; ids are kept",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withModel(func(m *treesor.Model) error {
				return m.MoveItem(types.ParsePath(args[0]), types.ParsePath(args[1]))
			})
		},
	}

	return []*cobra.Command{newCmd, lsCmd, getCmd, rmCmd, renameCmd, cpCmd, mvCmd}
}
