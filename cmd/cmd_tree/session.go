// file:arbor/cmd/cmd_tree/session.go
package cmd_tree

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rskv-p/arbor/act"
	"github.com/rskv-p/arbor/config"
	"github.com/rskv-p/arbor/mod"
	"github.com/rskv-p/arbor/mod/m_db"
	"github.com/rskv-p/arbor/mod/m_sys"
	"github.com/rskv-p/arbor/mod/m_tree"
	"github.com/rskv-p/arbor/pkg/x_db"
	"github.com/rskv-p/arbor/pkg/x_log"
	"github.com/rskv-p/arbor/servs/s_tree/tree_client"
)

var errRemoteUnsupported = errors.New("command needs a local database, drop --remote")

//---------------------
// Session
//---------------------

// session is one command invocation: loaded config, an action registry and
// the started modules.
type session struct {
	cfg  *config.Config
	reg  *act.Registry
	tree *m_tree.Module // nil in remote mode
	mods []mod.Module
}

// load resolves the configuration: --config, then ARBOR_CONFIG, then
// ARBOR_* variables, with explicit flags applied last.
func (o *options) load() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.config != "" {
		cfg, err = config.Load(o.config)
	} else {
		cfg, err = config.LoadWithFallback()
	}
	if err != nil {
		return nil, err
	}

	if o.dbType != "" {
		cfg.DB.Type = x_db.DbType(o.dbType)
	}
	if o.dsn != "" {
		cfg.DB.DSN = o.dsn
	}
	if o.backend != "" {
		cfg.Tree.Backend = o.backend
	}
	if o.prefix != "" {
		cfg.Tree.Prefix = o.prefix
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
		cfg.Log.Level = o.logLevel
	}
	cfg.DB.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// open starts the modules for one command. With --remote the tree actions
// come from the API client and no database is opened.
func (o *options) open(ctx context.Context) (*session, error) {
	cfg, err := o.load()
	if err != nil {
		return nil, err
	}
	x_log.InitWithConfig(&cfg.Log, cfg.ServiceName)

	s := &session{cfg: cfg, reg: act.NewRegistry()}
	sys := m_sys.NewModule(cfg.ServiceName, s.reg)
	if o.remote != "" {
		s.reg.Add(tree_client.NewRESTClient(o.remote).Actions()...)
		if err := s.start(ctx, sys); err != nil {
			return nil, err
		}
		return s, nil
	}

	db := m_db.NewModule(cfg.DB, s.reg)
	if err := s.start(ctx, sys, db); err != nil {
		return nil, err
	}
	s.tree = m_tree.NewModule(db.DB(), cfg.Tree, s.reg)
	if err := s.start(ctx, s.tree); err != nil {
		return nil, err
	}
	return s, nil
}

// start appends mods to the session. On failure every module started so
// far is stopped.
func (s *session) start(ctx context.Context, mods ...mod.Module) error {
	if err := mod.Start(ctx, mods...); err != nil {
		_ = s.close()
		return err
	}
	s.mods = append(s.mods, mods...)
	return nil
}

func (s *session) close() error {
	err := mod.Stop(s.mods...)
	s.mods = nil
	return err
}

// exec runs one action and prints its result.
func (s *session) exec(cmd *cobra.Command, o *options, name string, args ...any) error {
	out, err := s.reg.Exec(cmd.Context(), name, args...)
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), out, o.asJSON)
}

// run opens a session for the duration of fn.
func run(cmd *cobra.Command, o *options, fn func(s *session) error) (err error) {
	s, err := o.open(cmd.Context())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.close(); err == nil && cerr != nil {
			err = fmt.Errorf("close: %w", cerr)
		}
	}()
	return fn(s)
}

// action returns a RunE that forwards the positional args to one action.
func action(o *options, name string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return run(cmd, o, func(s *session) error {
			return s.exec(cmd, o, name, strArgs(args)...)
		})
	}
}

func strArgs(args []string) []any {
	out := make([]any, len(args))
	for i, a := range args {
		out[i] = a
	}
	return out
}
