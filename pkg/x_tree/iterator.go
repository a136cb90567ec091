// file:arbor/pkg/x_tree/iterator.go
package x_tree

import (
	"context"
)

// Iterator is a restartable cursor over a NodeList snapshot.
type Iterator struct {
	ids  []NodeID
	list *NodeList
	pos  int
}

// NewIterator builds a cursor over list. With prefetch set, the payloads of
// every node are loaded in one batch through tree's data store first.
func NewIterator(ctx context.Context, tree Tree, list *NodeList, prefetch bool) (*Iterator, error) {
	if list == nil {
		list = NewNodeList()
	}
	if prefetch && tree != nil && list.Len() > 0 {
		if err := tree.DataStore().FetchDataForNodes(ctx, list); err != nil {
			return nil, err
		}
	}
	return &Iterator{ids: list.IDs(), list: list}, nil
}

func (it *Iterator) Rewind()     { it.pos = 0 }
func (it *Iterator) Valid() bool { return it.pos < len(it.ids) }
func (it *Iterator) Next()       { it.pos++ }

// Key returns the current id, or NoID past the end.
func (it *Iterator) Key() NodeID {
	if !it.Valid() {
		return NoID
	}
	return it.ids[it.pos]
}

// Current returns the current node, or nil past the end.
func (it *Iterator) Current() *Node {
	if !it.Valid() {
		return nil
	}
	return it.list.Get(it.ids[it.pos])
}
