// file:arbor/cmd/cmd_tree/admin.go
package cmd_tree

import (
	"github.com/spf13/cobra"
)

func statsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count nodes, leaves and depth",
		Args:  cobra.NoArgs,
		RunE:  action(o, "tree.stats"),
	}
}

// checkCmd verifies the stored encoding; only the nested-set backend has
// structural invariants to check.
func checkCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the stored tree structure",
		Args:  cobra.NoArgs,
		RunE:  action(o, "tree.check"),
	}
}

func actionsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "actions",
		Short: "List the actions available to exec scripts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, o, func(s *session) error {
				defs := s.reg.Defs()
				if o.asJSON {
					names := make([]string, len(defs))
					for i, d := range defs {
						names[i] = d.Name
					}
					return writeJSON(cmd.OutOrStdout(), names)
				}
				actionTable(cmd.OutOrStdout(), defs)
				return nil
			})
		},
	}
}
