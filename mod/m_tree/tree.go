// file:arbor/mod/m_tree/tree.go

// Package m_tree builds configured trees over a database and exposes them
// as tree.* actions.
package m_tree

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"
	"gorm.io/gorm"

	"github.com/rskv-p/arbor/mod/m_tree/tree_adj"
	"github.com/rskv-p/arbor/mod/m_tree/tree_db"
	"github.com/rskv-p/arbor/mod/m_tree/tree_nset"
	"github.com/rskv-p/arbor/mod/m_tree/tree_store"
	"github.com/rskv-p/arbor/pkg/x_tree"
)

//---------------------
// Settings
//---------------------

// Settings selects the backend and the table names of one tree.
type Settings struct {
	Backend string `json:"backend" mapstructure:"backend"` // "adjacency" or "nestedset"
	Prefix  string `json:"prefix" mapstructure:"prefix"`   // tables <prefix>_rows and <prefix>_data

	Hooks tree_db.Settings `json:"-" mapstructure:"-"`
}

// DefaultSettings uses the nested-set backend on tree_rows / tree_data.
func DefaultSettings() Settings {
	return Settings{Backend: tree_nset.Name, Prefix: "tree"}
}

// DecodeSettings reads settings from a raw map on top of the defaults.
func DecodeSettings(raw map[string]any) (Settings, error) {
	s := DefaultSettings()
	if err := mapstructure.WeakDecode(raw, &s); err != nil {
		return s, fmt.Errorf("%w: %v", x_tree.ErrConfig, err)
	}
	return s, s.Validate()
}

// Tables returns the structure and data table names.
func (s Settings) Tables() (rows, data string) {
	return s.Prefix + "_rows", s.Prefix + "_data"
}

func (s Settings) Validate() error {
	switch s.Backend {
	case tree_adj.Name, tree_nset.Name:
	default:
		return fmt.Errorf("%w: unknown backend %q", x_tree.ErrConfig, s.Backend)
	}
	rows, data := s.Tables()
	if !tree_store.ValidTable(rows) || !tree_store.ValidTable(data) {
		return fmt.Errorf("%w: invalid table prefix %q", x_tree.ErrConfig, s.Prefix)
	}
	return nil
}

//---------------------
// Construction
//---------------------

// New migrates the tables named by s and returns the configured backend.
func New(ctx context.Context, db *gorm.DB, s Settings) (x_tree.Tree, error) {
	if db == nil {
		return nil, fmt.Errorf("%w: database is nil", x_tree.ErrConfig)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	rowTable, dataTable := s.Tables()
	rows := tree_store.NewStructureStore(db, rowTable)
	data := tree_store.NewDataStore(db, dataTable)
	if err := rows.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("migrate %s: %w", rowTable, err)
	}
	if err := data.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("migrate %s: %w", dataTable, err)
	}

	switch s.Backend {
	case tree_adj.Name:
		return tree_adj.New(rows, data, s.Hooks)
	default:
		return tree_nset.New(rows, data, s.Hooks)
	}
}
