// file:arbor/mod/m_tree/tree_adj/adjacency.go

// Package tree_adj stores a tree as parent pointers: each row knows only
// its direct parent.
package tree_adj

import (
	"context"
	"fmt"

	"github.com/rskv-p/arbor/mod/m_tree/tree_db"
	"github.com/rskv-p/arbor/mod/m_tree/tree_type"
	"github.com/rskv-p/arbor/pkg/x_log"
	"github.com/rskv-p/arbor/pkg/x_tree"
)

const Name = "adjacency"

// Tree is the adjacency-list backend.
type Tree struct {
	*tree_db.Base
}

var _ x_tree.Tree = (*Tree)(nil)

// New builds an adjacency tree over rows and data.
func New(rows tree_type.StructureStore, data x_tree.DataStore, s tree_db.Settings) (*Tree, error) {
	t := &Tree{Base: tree_db.NewBase(Name, rows, data, s)}
	if err := t.Bind(t); err != nil {
		return nil, err
	}
	return t, nil
}

//---------------------
// Ancestry
//---------------------

// parents walks from id up to the root and returns the rows target first.
func (t *Tree) parents(ctx context.Context, op string, id x_tree.NodeID) ([]tree_type.Row, error) {
	row, err := t.Row(ctx, op, id)
	if err != nil {
		return nil, err
	}
	seen := map[int64]bool{row.ID: true}
	chain := []tree_type.Row{*row}
	for row.ParentID != nil {
		pid := *row.ParentID
		if seen[pid] {
			return nil, fmt.Errorf("%w: parent chain of %d loops at %d", x_tree.ErrCycle, id, pid)
		}
		seen[pid] = true
		if row, err = t.Row(ctx, op, x_tree.NodeID(pid)); err != nil {
			return nil, err
		}
		chain = append(chain, *row)
	}
	return chain, nil
}

// FetchPath returns the nodes from the root down to id.
func (t *Tree) FetchPath(ctx context.Context, id x_tree.NodeID) (*x_tree.NodeList, error) {
	chain, err := t.parents(ctx, "FetchPath", id)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return t.ListOf(chain), nil
}

func (t *Tree) GetPathLength(ctx context.Context, id x_tree.NodeID) (int, error) {
	chain, err := t.parents(ctx, "GetPathLength", id)
	if err != nil {
		return 0, err
	}
	return len(chain) - 1, nil
}

// IsDescendantOf walks the parents of childID looking for parentID.
func (t *Tree) IsDescendantOf(ctx context.Context, childID, parentID x_tree.NodeID) (bool, error) {
	if childID == parentID {
		return false, nil
	}
	chain, err := t.parents(ctx, "IsDescendantOf", childID)
	if err != nil {
		return false, err
	}
	for _, r := range chain[1:] {
		if r.ID == int64(parentID) {
			return true, nil
		}
	}
	return false, nil
}

//---------------------
// Subtrees
//---------------------

// FetchSubtreeDepthFirst expands each child fully before its next sibling.
func (t *Tree) FetchSubtreeDepthFirst(ctx context.Context, id x_tree.NodeID) (*x_tree.NodeList, error) {
	root, err := t.Row(ctx, "FetchSubtreeDepthFirst", id)
	if err != nil {
		return nil, err
	}
	var out []tree_type.Row
	stack := []tree_type.Row{*root}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, cur)

		kids, err := t.Rows.Children(ctx, cur.ID)
		if err != nil {
			return nil, t.Wrap("FetchSubtreeDepthFirst", err)
		}
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}
	return t.ListOf(out), nil
}

// FetchSubtreeBreadthFirst adds a whole level before descending, one query per level.
func (t *Tree) FetchSubtreeBreadthFirst(ctx context.Context, id x_tree.NodeID) (*x_tree.NodeList, error) {
	rows, err := t.levels(ctx, "FetchSubtreeBreadthFirst", id)
	if err != nil {
		return nil, err
	}
	return t.ListOf(rows), nil
}

func (t *Tree) GetChildCountRecursive(ctx context.Context, id x_tree.NodeID) (int, error) {
	rows, err := t.levels(ctx, "GetChildCountRecursive", id)
	if err != nil {
		return 0, err
	}
	return len(rows) - 1, nil
}

// levels returns id and its descendants level by level. Within a level,
// children are grouped under their parent in the previous level's order.
func (t *Tree) levels(ctx context.Context, op string, id x_tree.NodeID) ([]tree_type.Row, error) {
	root, err := t.Row(ctx, op, id)
	if err != nil {
		return nil, err
	}
	out := []tree_type.Row{*root}
	level := []tree_type.Row{*root}
	for len(level) > 0 {
		ids := make([]int64, len(level))
		for i, r := range level {
			ids[i] = r.ID
		}
		kids, err := t.Rows.ChildrenOf(ctx, ids)
		if err != nil {
			return nil, t.Wrap(op, err)
		}
		byParent := make(map[int64][]tree_type.Row, len(level))
		for _, k := range kids {
			byParent[k.Parent()] = append(byParent[k.Parent()], k)
		}
		next := make([]tree_type.Row, 0, len(kids))
		for _, r := range level {
			next = append(next, byParent[r.ID]...)
		}
		out = append(out, next...)
		level = next
	}
	return out, nil
}

//---------------------
// Mutations
//---------------------

// SetRootNode wipes the tree and stores node as its root.
func (t *Tree) SetRootNode(ctx context.Context, node *x_tree.Node) error {
	return t.ResetRoot(ctx, node, 0, 0)
}

// AddChild stores node under parentID. An unsaved node gets a fresh row;
// a node that already has an id is re-parented.
func (t *Tree) AddChild(ctx context.Context, parentID x_tree.NodeID, node *x_tree.Node) error {
	if node == nil {
		return fmt.Errorf("%w: child node is nil", x_tree.ErrInvalidArgument)
	}
	if _, err := t.Row(ctx, "AddChild", parentID); err != nil {
		return err
	}
	if node.ID() != x_tree.NoID {
		if err := t.checkMove(ctx, node.ID(), parentID); err != nil {
			return err
		}
	}

	prev := node.ID()
	restore := func() {}
	err := t.Track(ctx, "AddChild", parentID, func(ctx context.Context) error {
		return t.Rows.Transaction(ctx, func(ctx context.Context) error {
			if prev == x_tree.NoID {
				row := &tree_type.Row{ParentID: tree_type.Ptr(int64(parentID))}
				if err := t.Rows.Insert(ctx, row); err != nil {
					return err
				}
				restore = x_tree.BindID(node, x_tree.NodeID(row.ID))
			} else if err := t.Rows.SetParent(ctx, int64(prev), tree_type.Ptr(int64(parentID))); err != nil {
				return err
			}
			return t.DataStore().StoreDataForNode(ctx, node)
		})
	})
	if err != nil {
		restore()
	}
	return err
}

// Delete removes id, its descendants and their payloads in one transaction.
func (t *Tree) Delete(ctx context.Context, id x_tree.NodeID) error {
	subtree, err := t.FetchSubtreeDepthFirst(ctx, id)
	if err != nil {
		return err
	}
	return t.Track(ctx, "Delete", id, func(ctx context.Context) error {
		ids := make([]int64, 0, subtree.Len())
		for _, nid := range subtree.IDs() {
			ids = append(ids, int64(nid))
		}
		x_log.From(ctx).Debug().Int("count", len(ids)).Msg("deleting subtree")
		return t.Rows.Transaction(ctx, func(ctx context.Context) error {
			if err := t.Rows.DeleteIDs(ctx, ids); err != nil {
				return err
			}
			return t.DataStore().DeleteDataForNodes(ctx, subtree)
		})
	})
}

// Move re-points id to targetParentID.
func (t *Tree) Move(ctx context.Context, id, targetParentID x_tree.NodeID) error {
	if err := t.checkMove(ctx, id, targetParentID); err != nil {
		return err
	}
	return t.Track(ctx, "Move", id, func(ctx context.Context) error {
		return t.Rows.SetParent(ctx, int64(id), tree_type.Ptr(int64(targetParentID)))
	})
}

// checkMove rejects unknown nodes and targets inside the moved subtree.
func (t *Tree) checkMove(ctx context.Context, id, target x_tree.NodeID) error {
	if _, err := t.Row(ctx, "Move", id); err != nil {
		return err
	}
	if _, err := t.Row(ctx, "Move", target); err != nil {
		return err
	}
	if id == target {
		return fmt.Errorf("%w: node %d cannot be its own parent", x_tree.ErrCycle, id)
	}
	inside, err := t.IsDescendantOf(ctx, target, id)
	if err != nil {
		return err
	}
	if inside {
		return fmt.Errorf("%w: %d is a descendant of %d", x_tree.ErrCycle, target, id)
	}
	return nil
}
