// file:arbor/pkg/x_tree/nodelist.go
package x_tree

import (
	"context"
	"fmt"
	"iter"
)

//---------------------
// NodeList
//---------------------

// NodeList is an ordered collection of nodes keyed by id. Re-adding an id
// replaces the node in place and keeps its position.
type NodeList struct {
	order []NodeID
	nodes map[NodeID]*Node
}

// NewNodeList returns an empty list.
func NewNodeList() *NodeList {
	return &NodeList{nodes: make(map[NodeID]*Node)}
}

// AddNode inserts node and returns the number of distinct ids held. A nil
// node is ignored.
func (l *NodeList) AddNode(node *Node) int {
	l.init()
	if node == nil {
		return len(l.order)
	}
	id := node.ID()
	if _, ok := l.nodes[id]; !ok {
		l.order = append(l.order, id)
	}
	l.nodes[id] = node
	return len(l.order)
}

// Set stores node under id; id must match the node's own id.
func (l *NodeList) Set(id NodeID, node *Node) error {
	if node == nil {
		return fmt.Errorf("%w: node list only accepts nodes", ErrInvalidArgument)
	}
	if node.ID() != id {
		return fmt.Errorf("%w: key %d does not match node id %d", ErrInvalidArgument, id, node.ID())
	}
	l.AddNode(node)
	return nil
}

func (l *NodeList) Has(id NodeID) bool {
	_, ok := l.nodes[id]
	return ok
}

// Get returns the node stored under id, or nil.
func (l *NodeList) Get(id NodeID) *Node {
	return l.nodes[id]
}

// Remove drops id from the list. Removing an unknown id is a no-op.
func (l *NodeList) Remove(id NodeID) {
	if _, ok := l.nodes[id]; !ok {
		return
	}
	delete(l.nodes, id)
	for i, v := range l.order {
		if v == id {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}

func (l *NodeList) Len() int { return len(l.order) }

// Nodes returns the nodes in insertion order.
func (l *NodeList) Nodes() []*Node {
	out := make([]*Node, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.nodes[id])
	}
	return out
}

// IDs returns the keys in insertion order.
func (l *NodeList) IDs() []NodeID {
	out := make([]NodeID, len(l.order))
	copy(out, l.order)
	return out
}

// First returns the first node, or nil on an empty list.
func (l *NodeList) First() *Node {
	if len(l.order) == 0 {
		return nil
	}
	return l.nodes[l.order[0]]
}

// All yields id/node pairs in insertion order.
func (l *NodeList) All() iter.Seq2[NodeID, *Node] {
	return func(yield func(NodeID, *Node) bool) {
		for _, id := range l.order {
			if !yield(id, l.nodes[id]) {
				return
			}
		}
	}
}

// FetchDataForNodes bulk-loads payloads through the data store of the tree
// that owns the first node.
func (l *NodeList) FetchDataForNodes(ctx context.Context) error {
	first := l.First()
	if first == nil {
		return nil
	}
	return first.Tree().DataStore().FetchDataForNodes(ctx, l)
}

// Iterator returns a cursor over the list, optionally prefetching payloads.
func (l *NodeList) Iterator(ctx context.Context, prefetch bool) (*Iterator, error) {
	first := l.First()
	if first == nil {
		return NewIterator(ctx, nil, l, false)
	}
	return NewIterator(ctx, first.Tree(), l, prefetch)
}

func (l *NodeList) init() {
	if l.nodes == nil {
		l.nodes = make(map[NodeID]*Node)
	}
}
