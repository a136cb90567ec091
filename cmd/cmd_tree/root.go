// file:arbor/cmd/cmd_tree/root.go

// Package cmd_tree implements the arbor command line: every tree command runs
// the matching tree.* action against a local database or a remote tree API.
package cmd_tree

import (
	"github.com/spf13/cobra"
)

// options are the persistent flags shared by every command.
type options struct {
	config   string
	dbType   string
	dsn      string
	backend  string
	prefix   string
	logLevel string
	remote   string
	asJSON   bool
}

// NewRoot builds the arbor command tree.
func NewRoot() *cobra.Command {
	o := &options{}

	root := &cobra.Command{
		Use:           "arbor",
		Short:         "Hierarchical tree storage",
		Long:          "arbor stores trees in SQL tables using an adjacency list or nested sets.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&o.config, "config", "", "config file (default $ARBOR_CONFIG, then ARBOR_* variables)")
	pf.StringVar(&o.dbType, "db", "", "database type: sqlite | postgres")
	pf.StringVar(&o.dsn, "dsn", "", "database connection string")
	pf.StringVar(&o.backend, "backend", "", "tree encoding: adjacency | nestedset")
	pf.StringVar(&o.prefix, "prefix", "", "table name prefix")
	pf.StringVar(&o.logLevel, "log-level", "", "log level: debug | info | warn | error")
	pf.StringVar(&o.remote, "remote", "", "tree API base URL; skips the local database")
	pf.BoolVar(&o.asJSON, "json", false, "print results as JSON")

	root.AddCommand(
		initCmd(o),
		addCmd(o),
		getCmd(o),
		setCmd(o),
		moveCmd(o),
		rmCmd(o),
		lsCmd(o),
		pathCmd(o),
		subtreeCmd(o),
		showCmd(o),
		exportCmd(o),
		statsCmd(o),
		checkCmd(o),
		execCmd(o),
		actionsCmd(o),
		serveCmd(o),
	)
	return root
}
