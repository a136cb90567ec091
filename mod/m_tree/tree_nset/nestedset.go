// file:arbor/mod/m_tree/tree_nset/nestedset.go

// Package tree_nset stores a tree as nested (lft, rgt) intervals. Ancestry
// and subtree reads are single range queries; every structural change
// rewrites interval bounds inside one transaction.
package tree_nset

import (
	"context"
	"fmt"

	"github.com/rskv-p/arbor/mod/m_tree/tree_db"
	"github.com/rskv-p/arbor/mod/m_tree/tree_type"
	"github.com/rskv-p/arbor/pkg/x_log"
	"github.com/rskv-p/arbor/pkg/x_tree"
)

const Name = "nestedset"

// Tree is the nested-set backend.
type Tree struct {
	*tree_db.Base
}

var _ x_tree.Tree = (*Tree)(nil)

// New builds a nested-set tree over rows and data.
func New(rows tree_type.StructureStore, data x_tree.DataStore, s tree_db.Settings) (*Tree, error) {
	t := &Tree{Base: tree_db.NewBase(Name, rows, data, s)}
	if err := t.Bind(t); err != nil {
		return nil, err
	}
	return t, nil
}

//---------------------
// Reads
//---------------------

// FetchPath returns every node whose interval encloses id, root first.
func (t *Tree) FetchPath(ctx context.Context, id x_tree.NodeID) (*x_tree.NodeList, error) {
	rows, err := t.path(ctx, "FetchPath", id)
	if err != nil {
		return nil, err
	}
	return t.ListOf(rows), nil
}

func (t *Tree) path(ctx context.Context, op string, id x_tree.NodeID) ([]tree_type.Row, error) {
	row, err := t.Row(ctx, op, id)
	if err != nil {
		return nil, err
	}
	rows, err := t.Rows.Ancestors(ctx, row.Lft, row.Rgt)
	if err != nil {
		return nil, t.Wrap(op, err)
	}
	return rows, nil
}

func (t *Tree) GetPathLength(ctx context.Context, id x_tree.NodeID) (int, error) {
	rows, err := t.path(ctx, "GetPathLength", id)
	if err != nil {
		return 0, err
	}
	return len(rows) - 1, nil
}

// IsDescendantOf reports whether parentID is on the path of childID.
func (t *Tree) IsDescendantOf(ctx context.Context, childID, parentID x_tree.NodeID) (bool, error) {
	if childID == parentID {
		return false, nil
	}
	rows, err := t.path(ctx, "IsDescendantOf", childID)
	if err != nil {
		return false, err
	}
	for _, r := range rows {
		if r.ID == int64(parentID) {
			return true, nil
		}
	}
	return false, nil
}

// FetchSubtreeDepthFirst is one range query; lft order is pre-order.
func (t *Tree) FetchSubtreeDepthFirst(ctx context.Context, id x_tree.NodeID) (*x_tree.NodeList, error) {
	rows, err := t.subtree(ctx, "FetchSubtreeDepthFirst", id)
	if err != nil {
		return nil, err
	}
	return t.ListOf(rows), nil
}

// FetchSubtreeBreadthFirst reorders the range query level by level.
func (t *Tree) FetchSubtreeBreadthFirst(ctx context.Context, id x_tree.NodeID) (*x_tree.NodeList, error) {
	rows, err := t.subtree(ctx, "FetchSubtreeBreadthFirst", id)
	if err != nil {
		return nil, err
	}

	kids := make(map[int64][]tree_type.Row, len(rows))
	for _, r := range rows[1:] {
		kids[r.Parent()] = append(kids[r.Parent()], r)
	}
	out := make([]tree_type.Row, 0, len(rows))
	queue := []tree_type.Row{rows[0]}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		out = append(out, cur)
		queue = append(queue, kids[cur.ID]...)
	}
	return t.ListOf(out), nil
}

func (t *Tree) subtree(ctx context.Context, op string, id x_tree.NodeID) ([]tree_type.Row, error) {
	row, err := t.Row(ctx, op, id)
	if err != nil {
		return nil, err
	}
	rows, err := t.Rows.Range(ctx, row.Lft, row.Rgt)
	if err != nil {
		return nil, t.Wrap(op, err)
	}
	if len(rows) == 0 || rows[0].ID != row.ID {
		return nil, t.Wrap(op, fmt.Errorf("interval of node %d is corrupt", id))
	}
	return rows, nil
}

// GetChildCountRecursive is derived from the interval width.
func (t *Tree) GetChildCountRecursive(ctx context.Context, id x_tree.NodeID) (int, error) {
	row, err := t.Row(ctx, "GetChildCountRecursive", id)
	if err != nil {
		return 0, err
	}
	return int((row.Rgt - row.Lft - 1) / 2), nil
}

//---------------------
// Mutations
//---------------------

// SetRootNode wipes the tree and stores node as root with interval (1, 2).
func (t *Tree) SetRootNode(ctx context.Context, node *x_tree.Node) error {
	return t.ResetRoot(ctx, node, 1, 2)
}

// AddChild opens a two-unit gap at the parent's right edge and inserts node
// there as the last child. node must be unsaved.
func (t *Tree) AddChild(ctx context.Context, parentID x_tree.NodeID, node *x_tree.Node) error {
	if node == nil {
		return fmt.Errorf("%w: child node is nil", x_tree.ErrInvalidArgument)
	}
	if node.ID() != x_tree.NoID {
		return fmt.Errorf("%w: node %d is already stored, use Move", x_tree.ErrInvalidNodeID, node.ID())
	}
	if _, err := t.Row(ctx, "AddChild", parentID); err != nil {
		return err
	}

	restore := func() {}
	err := t.Track(ctx, "AddChild", parentID, func(ctx context.Context) error {
		return t.Rows.Transaction(ctx, func(ctx context.Context) error {
			parent, err := t.Row(ctx, "AddChild", parentID)
			if err != nil {
				return err
			}
			if err := t.Rows.ShiftRight(ctx, parent.Rgt, 2, nil); err != nil {
				return err
			}

			row := &tree_type.Row{ParentID: tree_type.Ptr(parent.ID)}
			if parent.Width() == 2 {
				row.Lft, row.Rgt = parent.Lft+1, parent.Lft+2
			} else {
				row.Lft, row.Rgt = parent.Rgt, parent.Rgt+1
			}
			if err := t.Rows.Insert(ctx, row); err != nil {
				return err
			}
			restore = x_tree.BindID(node, x_tree.NodeID(row.ID))
			return t.DataStore().StoreDataForNode(ctx, node)
		})
	})
	if err != nil {
		restore()
	}
	return err
}

// Delete removes the subtree of id with its payloads and closes the gap.
func (t *Tree) Delete(ctx context.Context, id x_tree.NodeID) error {
	if _, err := t.Row(ctx, "Delete", id); err != nil {
		return err
	}
	return t.Track(ctx, "Delete", id, func(ctx context.Context) error {
		return t.Rows.Transaction(ctx, func(ctx context.Context) error {
			rows, err := t.subtree(ctx, "Delete", id)
			if err != nil {
				return err
			}
			top := rows[0]
			x_log.From(ctx).Debug().Int("count", len(rows)).Int64("lft", top.Lft).Int64("rgt", top.Rgt).Msg("deleting subtree")

			if err := t.DataStore().DeleteDataForNodes(ctx, t.ListOf(rows)); err != nil {
				return err
			}
			if err := t.Rows.DeleteRange(ctx, top.Lft, top.Rgt); err != nil {
				return err
			}
			return t.Rows.ShiftLeft(ctx, top.Rgt, top.Width(), nil)
		})
	})
}

// Move re-homes the subtree of id as the last child of targetParentID.
// The subtree's own rows are excluded from both gap updates and then
// offset in one step.
func (t *Tree) Move(ctx context.Context, id, targetParentID x_tree.NodeID) error {
	if err := t.checkMove(ctx, id, targetParentID); err != nil {
		return err
	}
	return t.Track(ctx, "Move", id, func(ctx context.Context) error {
		return t.Rows.Transaction(ctx, func(ctx context.Context) error {
			rows, err := t.subtree(ctx, "Move", id)
			if err != nil {
				return err
			}
			top := rows[0]
			width := top.Width()
			ids := make([]int64, len(rows))
			for i, r := range rows {
				ids[i] = r.ID
			}

			// close the gap left behind
			if err := t.Rows.ShiftLeft(ctx, top.Rgt, width, ids); err != nil {
				return err
			}

			target, err := t.Row(ctx, "Move", targetParentID)
			if err != nil {
				return err
			}
			at := target.Rgt

			// open a gap at the target's right edge
			if err := t.Rows.ShiftRight(ctx, at, width, ids); err != nil {
				return err
			}
			if err := t.Rows.Offset(ctx, ids, at-top.Lft); err != nil {
				return err
			}
			return t.Rows.SetParent(ctx, top.ID, tree_type.Ptr(target.ID))
		})
	})
}

// checkMove rejects unknown nodes and targets inside the moved subtree.
func (t *Tree) checkMove(ctx context.Context, id, target x_tree.NodeID) error {
	row, err := t.Row(ctx, "Move", id)
	if err != nil {
		return err
	}
	dst, err := t.Row(ctx, "Move", target)
	if err != nil {
		return err
	}
	if id == target {
		return fmt.Errorf("%w: node %d cannot be its own parent", x_tree.ErrCycle, id)
	}
	if row.Lft < dst.Lft && dst.Rgt < row.Rgt {
		return fmt.Errorf("%w: %d is a descendant of %d", x_tree.ErrCycle, target, id)
	}
	return nil
}
