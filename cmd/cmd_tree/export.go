// file:arbor/cmd/cmd_tree/export.go
package cmd_tree

import (
	"github.com/spf13/cobra"

	"github.com/rskv-p/arbor/mod/m_tree"
)

func showCmd(o *options) *cobra.Command {
	var ascii bool
	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Draw the tree, or the subtree below id",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := m_tree.FormatText
			if ascii {
				format = m_tree.FormatASCII
			}
			var root any
			if len(args) == 1 {
				root = args[0]
			}
			return run(cmd, o, func(s *session) error {
				return s.exec(cmd, o, "tree.show", root, format)
			})
		},
	}
	cmd.Flags().BoolVar(&ascii, "ascii", false, "draw with plain ASCII characters")
	return cmd
}

func exportCmd(o *options) *cobra.Command {
	var (
		format string
		root   string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the tree as json, dot, text or ascii",
		Example: `  arbor export --format dot | dot -Tsvg > tree.svg
  arbor export --format json --root 4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			args := []any{format}
			if root != "" {
				args = append(args, root)
			}
			return run(cmd, o, func(s *session) error {
				out, err := s.reg.Exec(cmd.Context(), "tree.export", args...)
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), out, false)
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", m_tree.FormatJSON, "json | dot | text | ascii")
	cmd.Flags().StringVar(&root, "root", "", "export only the subtree below this id")
	return cmd
}
