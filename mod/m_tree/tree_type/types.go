// file:arbor/mod/m_tree/tree_type/types.go
package tree_type

import (
	"context"
)

//---------------------
// Rows
//---------------------

// Row is one structure record. Adjacency trees leave Lft and Rgt at zero.
type Row struct {
	ID       int64 `gorm:"primaryKey;autoIncrement"`
	ParentID *int64
	Lft      int64 `gorm:"not null;default:0"`
	Rgt      int64 `gorm:"not null;default:0"`
}

// Parent returns the parent id, or 0 for the root.
func (r Row) Parent() int64 {
	if r.ParentID == nil {
		return 0
	}
	return *r.ParentID
}

// Width is the span of a nested-set interval, rgt - lft + 1.
func (r Row) Width() int64 { return r.Rgt - r.Lft + 1 }

// DataRow is one payload record keyed by node id.
type DataRow struct {
	NodeID  int64          `gorm:"primaryKey;autoIncrement:false"`
	Payload map[string]any `gorm:"serializer:payload;type:text"`
}

// Ptr returns a pointer to id, for ParentID values.
func Ptr(id int64) *int64 { return &id }

//---------------------
// Structure Store
//---------------------

// StructureStore persists tree rows. Every method joins the transaction
// carried by ctx, if any.
type StructureStore interface {
	// Find returns the row for id, or nil when it does not exist
	Find(ctx context.Context, id int64) (*Row, error)

	// Exists reports whether id is present
	Exists(ctx context.Context, id int64) (bool, error)

	// Root returns the row without parent, or nil on an empty tree
	Root(ctx context.Context) (*Row, error)

	// Children returns direct children ordered by lft, then id
	Children(ctx context.Context, parentID int64) ([]Row, error)

	// ChildrenOf returns the children of every given parent in one query,
	// ordered like Children
	ChildrenOf(ctx context.Context, parentIDs []int64) ([]Row, error)

	// CountChildren counts direct children
	CountChildren(ctx context.Context, parentID int64) (int64, error)

	// Count counts all rows
	Count(ctx context.Context) (int64, error)

	// All returns every row ordered by id
	All(ctx context.Context) ([]Row, error)

	// Insert stores row and sets its generated id
	Insert(ctx context.Context, row *Row) error

	// SetParent re-points id to parentID (nil for root)
	SetParent(ctx context.Context, id int64, parentID *int64) error

	// DeleteIDs removes the given rows
	DeleteIDs(ctx context.Context, ids []int64) error

	// Truncate removes every row
	Truncate(ctx context.Context) error

	// Range returns rows with lft between lft and rgt, ordered by lft
	Range(ctx context.Context, lft, rgt int64) ([]Row, error)

	// Ancestors returns rows enclosing the interval, root first
	Ancestors(ctx context.Context, lft, rgt int64) ([]Row, error)

	// ShiftRight adds delta to every lft and rgt >= from, skipping exclude
	ShiftRight(ctx context.Context, from, delta int64, exclude []int64) error

	// ShiftLeft subtracts delta from every lft and rgt > after, skipping exclude
	ShiftLeft(ctx context.Context, after, delta int64, exclude []int64) error

	// Offset adds delta to lft and rgt of the given rows
	Offset(ctx context.Context, ids []int64, delta int64) error

	// DeleteRange removes rows with lft between lft and rgt
	DeleteRange(ctx context.Context, lft, rgt int64) error

	// Transaction runs fn atomically; fn must use the ctx it receives
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
