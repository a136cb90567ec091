// file:arbor/mod/m_tree/module.go
package m_tree

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/rskv-p/arbor/act"
	"github.com/rskv-p/arbor/mod"
	"github.com/rskv-p/arbor/pkg/x_log"
	"github.com/rskv-p/arbor/pkg/x_tree"
)

var ErrNotInitialized = errors.New("m_tree: module is not initialized")

//---------------------
// Tree Module
//---------------------

// Module owns one configured tree and registers its actions.
type Module struct {
	DB       *gorm.DB
	Settings Settings
	Registry *act.Registry // nil uses act.Default

	mu   sync.RWMutex
	tree x_tree.Tree
	log  zerolog.Logger
}

var _ mod.Module = (*Module)(nil)

// NewModule creates an uninitialized module.
func NewModule(db *gorm.DB, s Settings, reg *act.Registry) *Module {
	return &Module{DB: db, Settings: s, Registry: reg, log: x_log.New("m_tree")}
}

func (m *Module) Name() string { return "m_tree" }

// Init builds the tree, migrating its tables, and registers the actions.
func (m *Module) Init(ctx context.Context) error {
	if m.Settings.Hooks.Logger == nil {
		m.Settings.Hooks.Logger = &m.log
	}
	tr, err := New(ctx, m.DB, m.Settings)
	if err != nil {
		m.log.Error().Err(err).Str("backend", m.Settings.Backend).Msg("tree init failed")
		return err
	}

	m.mu.Lock()
	m.tree = tr
	m.mu.Unlock()

	reg := m.Registry
	if reg == nil {
		reg = act.Default
	}
	reg.Add(m.Actions()...)

	rows, data := m.Settings.Tables()
	m.log.Debug().Str("backend", m.Settings.Backend).Str("rows", rows).Str("data", data).Msg("tree ready")
	return nil
}

func (m *Module) Stop() error {
	m.mu.Lock()
	m.tree = nil
	m.mu.Unlock()
	m.log.Debug().Msg("tree module stopped")
	return nil
}

// Tree returns the module tree. It panics before Init, since every caller
// is an action registered by Init itself.
func (m *Module) Tree() x_tree.Tree {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.tree == nil {
		panic(ErrNotInitialized)
	}
	return m.tree
}
