// file:arbor/cmd/cmd_tree/lists.go
package cmd_tree

import (
	"github.com/spf13/cobra"
)

func lsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "ls <id>",
		Short: "List the children of a node",
		Args:  cobra.ExactArgs(1),
		RunE:  action(o, "tree.children"),
	}
}

func pathCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "path <id>",
		Short: "List the nodes from the root down to id",
		Args:  cobra.ExactArgs(1),
		RunE:  action(o, "tree.path"),
	}
}

func subtreeCmd(o *options) *cobra.Command {
	var order string
	cmd := &cobra.Command{
		Use:   "subtree <id>",
		Short: "List a node and all of its descendants",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, o, func(s *session) error {
				return s.exec(cmd, o, "tree.subtree", args[0], order)
			})
		},
	}
	cmd.Flags().StringVar(&order, "order", "dfs", "traversal order: dfs | bfs")
	return cmd
}
