// file:arbor/cmd/cmd_tree/nodes.go
package cmd_tree

import (
	"github.com/spf13/cobra"
)

// initCmd replaces the whole tree with a single root node.
func initCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "init [key=value...]",
		Short: "Wipe the tree and create a root node",
		Example: `  arbor init label=Catalog
  arbor --backend adjacency init label="Org chart"`,
		RunE: action(o, "tree.root"),
	}
}

func addCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:     "add <parent> [key=value...]",
		Short:   "Add a child node under parent",
		Example: `  arbor add 1 label="Child A" rank=2`,
		Args:    cobra.MinimumNArgs(1),
		RunE:    action(o, "tree.add"),
	}
}

func getCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one node",
		Args:  cobra.ExactArgs(1),
		RunE:  action(o, "tree.get"),
	}
}

func setCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "set <id> key=value...",
		Short: "Merge fields into a node payload",
		Args:  cobra.MinimumNArgs(2),
		RunE:  action(o, "tree.set"),
	}
}

func moveCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <parent>",
		Short: "Move a node and its subtree under a new parent",
		Args:  cobra.ExactArgs(2),
		RunE:  action(o, "tree.move"),
	}
}

func rmCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a node with its whole subtree",
		Args:    cobra.ExactArgs(1),
		RunE:    action(o, "tree.delete"),
	}
}
