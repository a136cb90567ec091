// file:arbor/mod/m_tree/tree_visit/dot.go
package tree_visit

import (
	"context"
	"strconv"

	"github.com/emicklei/dot"

	"github.com/rskv-p/arbor/pkg/x_tree"
)

// Dot builds a Graphviz digraph of the visited nodes.
type Dot struct {
	LabelField string

	edges
}

func NewDot() *Dot { return &Dot{LabelField: DefaultLabelField} }

func (d *Dot) Visit(ctx context.Context, item x_tree.Visitable) error {
	return d.add(ctx, item)
}

// Graph returns the collected nodes as a directed graph.
func (d *Dot) Graph() *dot.Graph {
	g := dot.NewGraph(dot.Directed)
	if d.root == nil {
		return g
	}
	field := d.LabelField
	if field == "" {
		field = DefaultLabelField
	}

	var walk func(parent dot.Node, id x_tree.NodeID)
	walk = func(parent dot.Node, id x_tree.NodeID) {
		for _, child := range d.children[id] {
			n := g.Node(nodeKey(child.id)).Label(label(child, field))
			parent.Edge(n)
			walk(n, child.id)
		}
	}
	root := g.Node(nodeKey(d.root.id)).Label(label(*d.root, field))
	walk(root, d.root.id)
	return g
}

// String renders the graph in DOT syntax.
func (d *Dot) String() string { return d.Graph().String() }

func nodeKey(id x_tree.NodeID) string {
	return "n" + strconv.FormatInt(int64(id), 10)
}
