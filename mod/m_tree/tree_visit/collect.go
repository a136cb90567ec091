// file:arbor/mod/m_tree/tree_visit/collect.go

// Package tree_visit holds visitors that export a tree: a box-drawing text
// rendering, a nested structure for JSON consumers and a Graphviz graph.
package tree_visit

import (
	"context"
	"fmt"

	"github.com/rskv-p/arbor/pkg/x_tree"
)

// DefaultLabelField is the payload field used as a node label.
const DefaultLabelField = "label"

type entry struct {
	id   x_tree.NodeID
	data x_tree.Data
}

// edges records, for each visited node, the node itself and the
// parent→children relation in visiting order.
type edges struct {
	root     *entry
	children map[x_tree.NodeID][]entry
}

// add is called once per visited item. The tree itself is skipped; the first
// node seen becomes the root of the rendering.
func (e *edges) add(ctx context.Context, item x_tree.Visitable) error {
	node, ok := item.(*x_tree.Node)
	if !ok {
		return nil
	}
	data, err := node.Data(ctx)
	if err != nil {
		return err
	}
	en := entry{id: node.ID(), data: data}
	if e.children == nil {
		e.children = make(map[x_tree.NodeID][]entry)
	}
	if e.root == nil {
		e.root = &en
		return nil
	}

	parent, err := node.FetchParent(ctx)
	if err != nil {
		return err
	}
	if parent != nil {
		e.children[parent.ID()] = append(e.children[parent.ID()], en)
	}
	return nil
}

func label(en entry, field string) string {
	if v, ok := en.data[field]; ok && v != nil {
		return fmt.Sprint(v)
	}
	return fmt.Sprint(int64(en.id))
}
