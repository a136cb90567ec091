// file:arbor/cmd/cmd_tree/exec.go
package cmd_tree

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rskv-p/arbor/act"
)

// execCmd runs a script of actions, one per line. A failing line stops the
// script; earlier lines stay applied.
func execCmd(o *options) *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "exec <script|->",
		Short: "Run a script of tree actions",
		Long: `Run a script of tree actions. Each line is an action name followed by
shell-quoted arguments; blank lines and lines starting with # are skipped.

  tree.root label=Catalog
  tree.add 1 label="Child A"
  tree.move 2 1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var src io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open script: %w", err)
				}
				defer f.Close()
				src = f
			}

			return run(cmd, o, func(s *session) error {
				w := cmd.OutOrStdout()
				var rerr error
				err := s.reg.RunScript(cmd.Context(), src, func(st act.Step, out any) {
					if quiet || rerr != nil {
						return
					}
					heading(w, fmt.Sprintf("%d: %s", st.Line, st.Name))
					rerr = render(w, out, o.asJSON)
				})
				if err != nil {
					return err
				}
				return rerr
			})
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print nothing on success")
	return cmd
}
