// file:arbor/pkg/x_tree/tree.go

// Package x_tree defines the storage-agnostic tree contract: nodes with lazily
// loaded payloads, ordered node lists, iterators, visitor dispatch and the Tree
// interface every storage backend implements.
package x_tree

import (
	"context"
	"fmt"
)

//---------------------
// Types
//---------------------

// NodeID identifies a node within one tree. NoID marks a node that has not
// been persisted yet.
type NodeID int64

const NoID NodeID = 0

// Data is a node payload.
type Data map[string]any

// Clone returns a shallow copy of d. A nil Data clones to an empty map.
func (d Data) Clone() Data {
	out := make(Data, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// DataStore keeps node payloads, independent of the tree structure.
type DataStore interface {
	DeleteDataForNode(ctx context.Context, node *Node) error
	DeleteDataForNodes(ctx context.Context, list *NodeList) error
	DeleteDataForAllNodes(ctx context.Context) error

	// FetchDataForNode loads the payload into node. It fails with
	// ErrDataMissing when a persisted node has no payload row.
	FetchDataForNode(ctx context.Context, node *Node) error

	// FetchDataForNodes loads payloads for every node in list whose data
	// has not been fetched yet.
	FetchDataForNodes(ctx context.Context, list *NodeList) error

	// StoreDataForNode upserts the node payload and marks it stored.
	StoreDataForNode(ctx context.Context, node *Node) error
}

// Tree is the contract shared by all storage backends.
type Tree interface {
	Visitable

	DataStore() DataStore
	Options() Options

	// CreateNode validates id for this backend and builds a node through
	// the configured factory.
	CreateNode(id NodeID, data Data) (*Node, error)

	NodeExists(ctx context.Context, id NodeID) (bool, error)
	FetchNodeByID(ctx context.Context, id NodeID) (*Node, error)

	FetchChildren(ctx context.Context, id NodeID) (*NodeList, error)
	FetchParent(ctx context.Context, id NodeID) (*Node, error)
	FetchPath(ctx context.Context, id NodeID) (*NodeList, error)
	FetchSubtree(ctx context.Context, id NodeID) (*NodeList, error)
	FetchSubtreeDepthFirst(ctx context.Context, id NodeID) (*NodeList, error)
	FetchSubtreeBreadthFirst(ctx context.Context, id NodeID) (*NodeList, error)

	GetChildCount(ctx context.Context, id NodeID) (int, error)
	GetChildCountRecursive(ctx context.Context, id NodeID) (int, error)
	GetPathLength(ctx context.Context, id NodeID) (int, error)
	HasChildNodes(ctx context.Context, id NodeID) (bool, error)

	IsChildOf(ctx context.Context, childID, parentID NodeID) (bool, error)
	IsDescendantOf(ctx context.Context, childID, parentID NodeID) (bool, error)
	IsSiblingOf(ctx context.Context, id1, id2 NodeID) (bool, error)

	// SetRootNode wipes the tree and stores node as its only node.
	SetRootNode(ctx context.Context, node *Node) error
	// GetRootNode returns nil without error on an empty tree.
	GetRootNode(ctx context.Context) (*Node, error)
	// AddChild persists node under parentID and updates its id in place.
	AddChild(ctx context.Context, parentID NodeID, node *Node) error
	// Delete removes id and its whole subtree, payloads included.
	Delete(ctx context.Context, id NodeID) error
	Move(ctx context.Context, id, targetParentID NodeID) error
}

//---------------------
// Node / NodeList substitution
//---------------------

// NodeFactory builds the node values a tree hands out. Custom factories
// attach domain behaviour while reusing backend logic.
type NodeFactory func(tree Tree, id NodeID, data Data) *Node

// ListFactory builds empty node lists.
type ListFactory func() *NodeList

// Options configures which node and list values a tree instantiates.
type Options struct {
	NewNode NodeFactory
	NewList ListFactory
}

// DefaultOptions uses NewNode and NewNodeList.
func DefaultOptions() Options {
	return Options{NewNode: NewNode, NewList: NewNodeList}
}

// WithDefaults fills unset factories.
func (o Options) WithDefaults() Options {
	if o.NewNode == nil {
		o.NewNode = NewNode
	}
	if o.NewList == nil {
		o.NewList = NewNodeList
	}
	return o
}

// Validate calls both factories once. A node factory must return a node
// bound to the requesting tree and id; a list factory must return an empty list.
func (o Options) Validate(tree Tree) error {
	if o.NewNode == nil || o.NewList == nil {
		return fmt.Errorf("%w: node and list factories are required", ErrConfig)
	}
	sample := o.NewNode(tree, NoID, nil)
	if sample == nil || sample.Tree() != tree || sample.ID() != NoID {
		return fmt.Errorf("%w: node factory must build a node bound to the requesting tree", ErrConfig)
	}
	list := o.NewList()
	if list == nil || list.Len() != 0 {
		return fmt.Errorf("%w: list factory must build an empty node list", ErrConfig)
	}
	return nil
}

//---------------------
// Shared helpers
//---------------------

// CheckAnyID accepts every id; storage-agnostic trees use it in CreateNode.
func CheckAnyID(NodeID) error { return nil }

// CheckGeneratedID only accepts NoID, for backends whose ids are generated by storage.
func CheckGeneratedID(id NodeID) error {
	if id != NoID {
		return fmt.Errorf("%w: id must be unset for storage-generated ids, got %d", ErrInvalidNodeID, id)
	}
	return nil
}

// FetchNodeByID returns a node handle for id, failing with ErrNodeNotFound
// when the tree does not know it.
func FetchNodeByID(ctx context.Context, t Tree, id NodeID) (*Node, error) {
	ok, err := t.NodeExists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, NotFound(id)
	}
	return t.Options().NewNode(t, id, nil), nil
}

// AcceptTree visits the tree itself, then walks the root node pre-order.
func AcceptTree(ctx context.Context, t Tree, v Visitor) error {
	if err := v.Visit(ctx, t); err != nil {
		return err
	}
	root, err := t.GetRootNode(ctx)
	if err != nil {
		return err
	}
	if root == nil {
		return nil
	}
	return root.Accept(ctx, v)
}
