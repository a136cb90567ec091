// file:arbor/mod/m_tree/tree_db/base.go

// Package tree_db holds the operations both SQL tree encodings share:
// node construction, parent lookups, root handling, instrumentation.
package tree_db

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nuid"
	"github.com/rs/zerolog"

	"github.com/rskv-p/arbor/mod/m_tree/tree_type"
	"github.com/rskv-p/arbor/pkg/x_log"
	"github.com/rskv-p/arbor/pkg/x_metrics"
	"github.com/rskv-p/arbor/pkg/x_tree"
)

//---------------------
// Settings
//---------------------

// Settings configures a backend. Zero values fall back to defaults.
type Settings struct {
	Options x_tree.Options  // node / list factories
	Logger  *zerolog.Logger // nil uses x_log.New("tree")
	Metrics *x_metrics.Tree // nil uses x_metrics.Default
}

//---------------------
// Base
//---------------------

// Base implements the parts of x_tree.Tree that do not depend on the
// structure encoding. Backends embed it and call Bind once constructed.
type Base struct {
	name    string
	Rows    tree_type.StructureStore
	data    x_tree.DataStore
	opts    x_tree.Options
	self    x_tree.Tree
	log     zerolog.Logger
	metrics *x_metrics.Tree
}

// NewBase creates the shared part of a backend called name.
func NewBase(name string, rows tree_type.StructureStore, data x_tree.DataStore, s Settings) *Base {
	b := &Base{
		name:    name,
		Rows:    rows,
		data:    data,
		opts:    s.Options.WithDefaults(),
		metrics: s.Metrics,
	}
	if s.Logger != nil {
		b.log = s.Logger.With().Str("backend", name).Logger()
	} else {
		b.log = x_log.New("tree").With().Str("backend", name).Logger()
	}
	if b.metrics == nil {
		b.metrics = x_metrics.Default
	}
	return b
}

// Bind attaches the concrete tree and validates the node factories against it.
func (b *Base) Bind(self x_tree.Tree) error {
	b.self = self
	return b.opts.Validate(self)
}

func (b *Base) Name() string                { return b.name }
func (b *Base) DataStore() x_tree.DataStore { return b.data }
func (b *Base) Options() x_tree.Options     { return b.opts }
func (b *Base) Logger() *zerolog.Logger     { return &b.log }

//---------------------
// Construction
//---------------------

// CreateNode builds an unsaved node; SQL backends generate ids themselves.
func (b *Base) CreateNode(id x_tree.NodeID, data x_tree.Data) (*x_tree.Node, error) {
	if err := x_tree.CheckGeneratedID(id); err != nil {
		return nil, err
	}
	if data == nil {
		data = x_tree.Data{}
	}
	return b.NewNode(id, data), nil
}

// NewNode builds a node bound to the concrete tree.
func (b *Base) NewNode(id x_tree.NodeID, data x_tree.Data) *x_tree.Node {
	return b.opts.NewNode(b.self, id, data)
}

// ListOf turns rows into a node list, keeping row order.
func (b *Base) ListOf(rows []tree_type.Row) *x_tree.NodeList {
	list := b.opts.NewList()
	for _, r := range rows {
		list.AddNode(b.NewNode(x_tree.NodeID(r.ID), nil))
	}
	return list
}

//---------------------
// Shared Reads
//---------------------

// Row returns the row of id or ErrNodeNotFound.
func (b *Base) Row(ctx context.Context, op string, id x_tree.NodeID) (*tree_type.Row, error) {
	row, err := b.Rows.Find(ctx, int64(id))
	if err != nil {
		return nil, b.Wrap(op, err)
	}
	if row == nil {
		return nil, x_tree.NotFound(id)
	}
	return row, nil
}

func (b *Base) NodeExists(ctx context.Context, id x_tree.NodeID) (bool, error) {
	ok, err := b.Rows.Exists(ctx, int64(id))
	return ok, b.Wrap("NodeExists", err)
}

func (b *Base) FetchNodeByID(ctx context.Context, id x_tree.NodeID) (*x_tree.Node, error) {
	return x_tree.FetchNodeByID(ctx, b.self, id)
}

func (b *Base) FetchChildren(ctx context.Context, id x_tree.NodeID) (*x_tree.NodeList, error) {
	if _, err := b.Row(ctx, "FetchChildren", id); err != nil {
		return nil, err
	}
	rows, err := b.Rows.Children(ctx, int64(id))
	if err != nil {
		return nil, b.Wrap("FetchChildren", err)
	}
	return b.ListOf(rows), nil
}

// FetchParent returns nil for the root.
func (b *Base) FetchParent(ctx context.Context, id x_tree.NodeID) (*x_tree.Node, error) {
	row, err := b.Row(ctx, "FetchParent", id)
	if err != nil {
		return nil, err
	}
	if row.ParentID == nil {
		return nil, nil
	}
	return b.NewNode(x_tree.NodeID(*row.ParentID), nil), nil
}

// FetchSubtree is the depth-first subtree.
func (b *Base) FetchSubtree(ctx context.Context, id x_tree.NodeID) (*x_tree.NodeList, error) {
	return b.self.FetchSubtreeDepthFirst(ctx, id)
}

func (b *Base) GetChildCount(ctx context.Context, id x_tree.NodeID) (int, error) {
	if _, err := b.Row(ctx, "GetChildCount", id); err != nil {
		return 0, err
	}
	n, err := b.Rows.CountChildren(ctx, int64(id))
	return int(n), b.Wrap("GetChildCount", err)
}

func (b *Base) HasChildNodes(ctx context.Context, id x_tree.NodeID) (bool, error) {
	n, err := b.GetChildCount(ctx, id)
	return n > 0, err
}

func (b *Base) IsChildOf(ctx context.Context, childID, parentID x_tree.NodeID) (bool, error) {
	row, err := b.Row(ctx, "IsChildOf", childID)
	if err != nil {
		return false, err
	}
	return row.ParentID != nil && *row.ParentID == int64(parentID), nil
}

func (b *Base) IsSiblingOf(ctx context.Context, id1, id2 x_tree.NodeID) (bool, error) {
	r1, err := b.Row(ctx, "IsSiblingOf", id1)
	if err != nil {
		return false, err
	}
	r2, err := b.Row(ctx, "IsSiblingOf", id2)
	if err != nil {
		return false, err
	}
	return r1.Parent() == r2.Parent() && id1 != id2, nil
}

// GetRootNode returns nil on an empty tree.
func (b *Base) GetRootNode(ctx context.Context) (*x_tree.Node, error) {
	row, err := b.Rows.Root(ctx)
	if err != nil {
		return nil, b.Wrap("GetRootNode", err)
	}
	if row == nil {
		return nil, nil
	}
	return b.NewNode(x_tree.NodeID(row.ID), nil), nil
}

// Accept visits the tree, then walks it from the root.
func (b *Base) Accept(ctx context.Context, v x_tree.Visitor) error {
	return x_tree.AcceptTree(ctx, b.self, v)
}

//---------------------
// Shared Writes
//---------------------

// ResetRoot wipes structure and payloads, then stores node as the only row
// with the given interval. node gets its new id in place.
func (b *Base) ResetRoot(ctx context.Context, node *x_tree.Node, lft, rgt int64) error {
	if node == nil {
		return fmt.Errorf("%w: root node is nil", x_tree.ErrInvalidArgument)
	}
	restore := func() {}
	err := b.Track(ctx, "SetRootNode", node.ID(), func(ctx context.Context) error {
		return b.Rows.Transaction(ctx, func(ctx context.Context) error {
			if err := b.Rows.Truncate(ctx); err != nil {
				return err
			}
			if err := b.data.DeleteDataForAllNodes(ctx); err != nil {
				return err
			}
			row := &tree_type.Row{Lft: lft, Rgt: rgt}
			if err := b.Rows.Insert(ctx, row); err != nil {
				return err
			}
			restore = x_tree.BindID(node, x_tree.NodeID(row.ID))
			return b.data.StoreDataForNode(ctx, node)
		})
	})
	if err != nil {
		restore()
	}
	return err
}

//---------------------
// Instrumentation
//---------------------

// Track runs one mutation with a correlation id in the context logger,
// records its metrics and wraps storage failures.
func (b *Base) Track(ctx context.Context, op string, id x_tree.NodeID, fn func(ctx context.Context) error) error {
	began := time.Now()
	l := b.log.With().Str("op", op).Str("op_id", nuid.Next()).Int64("node", int64(id)).Logger()
	ctx = x_log.WithLogger(ctx, &l)

	err := b.Wrap(op, fn(ctx))
	b.metrics.Observe(b.name, op, began, err)

	if err != nil {
		l.Warn().Err(err).Dur("took", time.Since(began)).Msg("tree mutation failed")
		return err
	}
	l.Debug().Dur("took", time.Since(began)).Msg("tree mutation done")
	return nil
}

// Wrap turns a storage failure of op into *x_tree.BackendError.
func (b *Base) Wrap(op string, err error) error {
	return x_tree.WrapBackend(b.name, op, err)
}
