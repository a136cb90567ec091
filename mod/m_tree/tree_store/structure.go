// file:arbor/mod/m_tree/tree_store/structure.go
package tree_store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/rskv-p/arbor/mod/m_tree/tree_type"
	"github.com/rskv-p/arbor/pkg/x_db"
)

//---------------------
// Structure Store
//---------------------

// StructureStore keeps tree rows in one gorm table.
type StructureStore struct {
	db    *gorm.DB
	table string
}

var _ tree_type.StructureStore = (*StructureStore)(nil)

// NewStructureStore binds a store to table.
func NewStructureStore(db *gorm.DB, table string) *StructureStore {
	return &StructureStore{db: db, table: table}
}

// Table returns the table name.
func (s *StructureStore) Table() string { return s.table }

// Migrate creates or updates the table and its lookup indexes.
func (s *StructureStore) Migrate(ctx context.Context) error {
	if err := s.q(ctx).AutoMigrate(&tree_type.Row{}); err != nil {
		return err
	}
	for _, col := range []string{"parent_id", "lft", "rgt"} {
		stmt := fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_%s ON %s (%s)", s.table, col, s.table, col)
		if err := x_db.Conn(ctx, s.db).Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *StructureStore) q(ctx context.Context) *gorm.DB {
	return x_db.Conn(ctx, s.db).Table(s.table)
}

//---------------------
// Reads
//---------------------

func (s *StructureStore) Find(ctx context.Context, id int64) (*tree_type.Row, error) {
	var rows []tree_type.Row
	if err := s.q(ctx).Where("id = ?", id).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (s *StructureStore) Exists(ctx context.Context, id int64) (bool, error) {
	var n int64
	err := s.q(ctx).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

func (s *StructureStore) Root(ctx context.Context) (*tree_type.Row, error) {
	var rows []tree_type.Row
	if err := s.q(ctx).Where("parent_id IS NULL").Order("id").Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (s *StructureStore) Children(ctx context.Context, parentID int64) ([]tree_type.Row, error) {
	var rows []tree_type.Row
	err := s.q(ctx).Where("parent_id = ?", parentID).Order("lft, id").Find(&rows).Error
	return rows, err
}

func (s *StructureStore) ChildrenOf(ctx context.Context, parentIDs []int64) ([]tree_type.Row, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	var rows []tree_type.Row
	err := s.q(ctx).Where("parent_id IN ?", parentIDs).Order("lft, id").Find(&rows).Error
	return rows, err
}

func (s *StructureStore) CountChildren(ctx context.Context, parentID int64) (int64, error) {
	var n int64
	err := s.q(ctx).Where("parent_id = ?", parentID).Count(&n).Error
	return n, err
}

func (s *StructureStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.q(ctx).Count(&n).Error
	return n, err
}

func (s *StructureStore) All(ctx context.Context) ([]tree_type.Row, error) {
	var rows []tree_type.Row
	err := s.q(ctx).Order("id").Find(&rows).Error
	return rows, err
}

func (s *StructureStore) Range(ctx context.Context, lft, rgt int64) ([]tree_type.Row, error) {
	var rows []tree_type.Row
	err := s.q(ctx).Where("lft BETWEEN ? AND ?", lft, rgt).Order("lft").Find(&rows).Error
	return rows, err
}

func (s *StructureStore) Ancestors(ctx context.Context, lft, rgt int64) ([]tree_type.Row, error) {
	var rows []tree_type.Row
	err := s.q(ctx).Where("lft <= ? AND rgt >= ?", lft, rgt).Order("lft").Find(&rows).Error
	return rows, err
}

//---------------------
// Writes
//---------------------

func (s *StructureStore) Insert(ctx context.Context, row *tree_type.Row) error {
	return s.q(ctx).Create(row).Error
}

func (s *StructureStore) SetParent(ctx context.Context, id int64, parentID *int64) error {
	return s.q(ctx).Where("id = ?", id).UpdateColumn("parent_id", parentID).Error
}

func (s *StructureStore) DeleteIDs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return s.q(ctx).Where("id IN ?", ids).Delete(&tree_type.Row{}).Error
}

func (s *StructureStore) Truncate(ctx context.Context) error {
	return s.q(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&tree_type.Row{}).Error
}

func (s *StructureStore) ShiftRight(ctx context.Context, from, delta int64, exclude []int64) error {
	return s.shift(ctx, ">=", from, delta, exclude)
}

func (s *StructureStore) ShiftLeft(ctx context.Context, after, delta int64, exclude []int64) error {
	return s.shift(ctx, ">", after, -delta, exclude)
}

// shift moves rgt before lft; each column is updated by its own statement.
func (s *StructureStore) shift(ctx context.Context, cmp string, bound, delta int64, exclude []int64) error {
	for _, col := range []string{"rgt", "lft"} {
		q := s.q(ctx).Where(col+" "+cmp+" ?", bound)
		if len(exclude) > 0 {
			q = q.Where("id NOT IN ?", exclude)
		}
		if err := q.UpdateColumn(col, gorm.Expr(col+" + ?", delta)).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *StructureStore) Offset(ctx context.Context, ids []int64, delta int64) error {
	if len(ids) == 0 || delta == 0 {
		return nil
	}
	return s.q(ctx).Where("id IN ?", ids).UpdateColumns(map[string]any{
		"lft": gorm.Expr("lft + ?", delta),
		"rgt": gorm.Expr("rgt + ?", delta),
	}).Error
}

func (s *StructureStore) DeleteRange(ctx context.Context, lft, rgt int64) error {
	return s.q(ctx).Where("lft BETWEEN ? AND ?", lft, rgt).Delete(&tree_type.Row{}).Error
}

//---------------------
// Transactions
//---------------------

func (s *StructureStore) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return x_db.RunInTx(ctx, s.db, fn)
}

// ValidTable reports whether name is usable as a table identifier.
func ValidTable(name string) bool {
	if name == "" || len(name) > 63 {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
