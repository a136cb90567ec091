// file:arbor/mod/m_db/db.go

// Package m_db owns the shared database connection for the other modules.
package m_db

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/rskv-p/arbor/act"
	"github.com/rskv-p/arbor/mod"
	"github.com/rskv-p/arbor/pkg/x_db"
	"github.com/rskv-p/arbor/pkg/x_log"
)

var ErrNotOpen = errors.New("m_db: database is not open")

//---------------------
// DB Module
//---------------------

// Module opens the database on Init and closes it on Stop. A module built
// with an existing connection leaves closing to its owner.
type Module struct {
	Config   x_db.Config
	Registry *act.Registry // nil uses act.Default

	mu    sync.RWMutex
	db    *gorm.DB
	owned bool
	log   zerolog.Logger
}

var _ mod.Module = (*Module)(nil)

func NewModule(cfg x_db.Config, reg *act.Registry) *Module {
	return &Module{Config: cfg, Registry: reg, log: x_log.New("m_db")}
}

// FromDB wraps an already open connection.
func FromDB(db *gorm.DB, reg *act.Registry) *Module {
	return &Module{db: db, Registry: reg, log: x_log.New("m_db")}
}

func (m *Module) Name() string { return "m_db" }

func (m *Module) Init(ctx context.Context) error {
	m.mu.Lock()
	if m.db == nil {
		db, err := x_db.Open(m.Config)
		if err != nil {
			m.mu.Unlock()
			m.log.Error().Err(err).Str("type", string(m.Config.Type)).Msg("open database failed")
			return err
		}
		m.db, m.owned = db, true
	}
	m.mu.Unlock()

	if err := m.ping(ctx); err != nil {
		_ = m.Stop()
		return err
	}

	reg := m.Registry
	if reg == nil {
		reg = act.Default
	}
	reg.Add(m.Actions()...)
	m.log.Debug().Str("type", string(m.Config.Type)).Msg("database ready")
	return nil
}

func (m *Module) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.db == nil {
		return nil
	}
	var err error
	if m.owned {
		err = x_db.Close(m.db)
	}
	m.db, m.owned = nil, false
	return err
}

// DB returns the open connection, or nil before Init and after Stop.
func (m *Module) DB() *gorm.DB {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.db
}

//---------------------
// Actions
//---------------------

func (m *Module) Actions() []act.Def {
	return []act.Def{
		{Name: "db.ping", Func: func(a *act.Action) (any, error) {
			if err := m.ping(a.Context()); err != nil {
				return nil, err
			}
			return map[string]bool{"pong": true}, nil
		}},
		{Name: "db.stats", Func: m.stats},
	}
}

func (m *Module) ping(ctx context.Context) error {
	db := m.DB()
	if db == nil {
		return ErrNotOpen
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// stats reports the connection pool counters.
func (m *Module) stats(a *act.Action) (any, error) {
	db := m.DB()
	if db == nil {
		return nil, ErrNotOpen
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	st := sqlDB.Stats()
	return map[string]any{
		"dialect":          db.Dialector.Name(),
		"max_open":         st.MaxOpenConnections,
		"open":             st.OpenConnections,
		"in_use":           st.InUse,
		"idle":             st.Idle,
		"wait_count":       st.WaitCount,
		"wait_duration_ms": st.WaitDuration.Milliseconds(),
	}, nil
}
