// file:arbor/mod/m_tree/views.go
package m_tree

import (
	"context"

	"github.com/rskv-p/arbor/pkg/x_tree"
)

// NodeView is the serializable form of a node returned by actions and the API.
type NodeView struct {
	ID   int64       `json:"id"`
	Data x_tree.Data `json:"data"`
}

// ViewOf loads the payload of n.
func ViewOf(ctx context.Context, n *x_tree.Node) (NodeView, error) {
	data, err := n.Data(ctx)
	if err != nil {
		return NodeView{}, err
	}
	return NodeView{ID: int64(n.ID()), Data: data}, nil
}

// ViewsOf prefetches the payloads of list in one query and returns them in
// list order.
func ViewsOf(ctx context.Context, list *x_tree.NodeList) ([]NodeView, error) {
	out := make([]NodeView, 0, list.Len())
	it, err := list.Iterator(ctx, true)
	if err != nil {
		return nil, err
	}
	for it.Rewind(); it.Valid(); it.Next() {
		v, err := ViewOf(ctx, it.Current())
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
