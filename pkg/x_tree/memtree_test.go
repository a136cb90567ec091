package x_tree_test

import (
	"context"
	"fmt"

	"github.com/rskv-p/arbor/pkg/x_tree"
)

// memStore is an in-memory data store that counts round trips.
type memStore struct {
	rows      map[x_tree.NodeID]x_tree.Data
	fetches   int
	bulkLoads int
	stores    int
}

func newMemStore() *memStore {
	return &memStore{rows: map[x_tree.NodeID]x_tree.Data{}}
}

func (s *memStore) DeleteDataForNode(_ context.Context, n *x_tree.Node) error {
	delete(s.rows, n.ID())
	return nil
}

func (s *memStore) DeleteDataForNodes(_ context.Context, l *x_tree.NodeList) error {
	for _, id := range l.IDs() {
		delete(s.rows, id)
	}
	return nil
}

func (s *memStore) DeleteDataForAllNodes(context.Context) error {
	s.rows = map[x_tree.NodeID]x_tree.Data{}
	return nil
}

func (s *memStore) FetchDataForNode(_ context.Context, n *x_tree.Node) error {
	s.fetches++
	if n.ID() == x_tree.NoID {
		n.InjectData(x_tree.Data{})
		return nil
	}
	d, ok := s.rows[n.ID()]
	if !ok {
		return fmt.Errorf("%w: %d", x_tree.ErrDataMissing, n.ID())
	}
	n.InjectData(d.Clone())
	return nil
}

func (s *memStore) FetchDataForNodes(ctx context.Context, l *x_tree.NodeList) error {
	s.bulkLoads++
	for _, n := range l.Nodes() {
		if n.DataFetched() {
			continue
		}
		d, ok := s.rows[n.ID()]
		if !ok {
			return fmt.Errorf("%w: %d", x_tree.ErrDataMissing, n.ID())
		}
		n.InjectData(d.Clone())
	}
	return nil
}

func (s *memStore) StoreDataForNode(ctx context.Context, n *x_tree.Node) error {
	s.stores++
	d, err := n.Data(ctx)
	if err != nil {
		return err
	}
	s.rows[n.ID()] = d.Clone()
	n.SetDataStored(true)
	return nil
}

// memTree is a minimal parent-pointer tree used to exercise the node layer.
type memTree struct {
	x_tree.Tree
	store   *memStore
	opts    x_tree.Options
	parents map[x_tree.NodeID]x_tree.NodeID
	order   []x_tree.NodeID
	nextID  x_tree.NodeID
}

func newMemTree() *memTree {
	return &memTree{
		store:   newMemStore(),
		opts:    x_tree.DefaultOptions(),
		parents: map[x_tree.NodeID]x_tree.NodeID{},
	}
}

func (t *memTree) DataStore() x_tree.DataStore { return t.store }
func (t *memTree) Options() x_tree.Options     { return t.opts }

func (t *memTree) CreateNode(id x_tree.NodeID, data x_tree.Data) (*x_tree.Node, error) {
	if err := x_tree.CheckGeneratedID(id); err != nil {
		return nil, err
	}
	return t.opts.NewNode(t, id, data), nil
}

func (t *memTree) NodeExists(_ context.Context, id x_tree.NodeID) (bool, error) {
	_, ok := t.parents[id]
	return ok, nil
}

func (t *memTree) FetchNodeByID(ctx context.Context, id x_tree.NodeID) (*x_tree.Node, error) {
	return x_tree.FetchNodeByID(ctx, t, id)
}

func (t *memTree) FetchChildren(_ context.Context, id x_tree.NodeID) (*x_tree.NodeList, error) {
	list := t.opts.NewList()
	for _, c := range t.order {
		if t.parents[c] == id && c != id {
			list.AddNode(t.opts.NewNode(t, c, nil))
		}
	}
	return list, nil
}

func (t *memTree) GetRootNode(context.Context) (*x_tree.Node, error) {
	for _, id := range t.order {
		if t.parents[id] == x_tree.NoID {
			return t.opts.NewNode(t, id, nil), nil
		}
	}
	return nil, nil
}

func (t *memTree) SetRootNode(ctx context.Context, n *x_tree.Node) error {
	t.parents = map[x_tree.NodeID]x_tree.NodeID{}
	t.order = nil
	_ = t.store.DeleteDataForAllNodes(ctx)
	return t.insert(ctx, x_tree.NoID, n)
}

func (t *memTree) AddChild(ctx context.Context, parentID x_tree.NodeID, n *x_tree.Node) error {
	if _, ok := t.parents[parentID]; !ok {
		return fmt.Errorf("%w: %d", x_tree.ErrNodeNotFound, parentID)
	}
	return t.insert(ctx, parentID, n)
}

func (t *memTree) insert(ctx context.Context, parentID x_tree.NodeID, n *x_tree.Node) error {
	t.nextID++
	x_tree.BindID(n, t.nextID)
	t.parents[n.ID()] = parentID
	t.order = append(t.order, n.ID())
	return t.store.StoreDataForNode(ctx, n)
}

func (t *memTree) Accept(ctx context.Context, v x_tree.Visitor) error {
	return x_tree.AcceptTree(ctx, t, v)
}
