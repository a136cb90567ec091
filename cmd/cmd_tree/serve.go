// file:arbor/cmd/cmd_tree/serve.go
package cmd_tree

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rskv-p/arbor/pkg/x_log"
	"github.com/rskv-p/arbor/servs/s_tree/tree_api"
)

func serveCmd(o *options) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tree over HTTP until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if o.remote != "" {
				return errRemoteUnsupported
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(cmd, o, func(s *session) error {
				listen := addr
				if listen == "" {
					listen = fmt.Sprintf(":%d", s.cfg.Port)
				}
				x_log.Info().
					Str("backend", s.cfg.Tree.Backend).
					Str("db", string(s.cfg.DB.Type)).
					Msg("serving tree")
				return tree_api.Serve(ctx, listen, tree_api.NewRouter(s.tree.Tree()))
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :<port> from config)")
	return cmd
}
