// file:arbor/mod/m_tree/tree_db/stats.go
package tree_db

import (
	"context"

	"github.com/rskv-p/arbor/pkg/x_tree"
)

// Stats summarizes the stored structure.
type Stats struct {
	Backend  string `json:"backend"`
	Nodes    int    `json:"nodes"`
	Leaves   int    `json:"leaves"`
	MaxDepth int    `json:"max_depth"`
	RootID   int64  `json:"root_id"`
}

// Stats reads every row once and derives counts and depth from parent links.
func (b *Base) Stats(ctx context.Context) (Stats, error) {
	st := Stats{Backend: b.name}
	rows, err := b.Rows.All(ctx)
	if err != nil {
		return st, b.Wrap("Stats", err)
	}

	parent := make(map[int64]int64, len(rows))
	hasChild := make(map[int64]bool, len(rows))
	for _, r := range rows {
		parent[r.ID] = r.Parent()
		if r.ParentID == nil {
			st.RootID = r.ID
		} else {
			hasChild[*r.ParentID] = true
		}
	}

	depth := make(map[int64]int, len(rows))
	var depthOf func(id int64, guard int) int
	depthOf = func(id int64, guard int) int {
		if d, ok := depth[id]; ok {
			return d
		}
		p := parent[id]
		if p == 0 || guard > len(rows) {
			depth[id] = 0
			return 0
		}
		d := depthOf(p, guard+1) + 1
		depth[id] = d
		return d
	}

	for _, r := range rows {
		st.Nodes++
		if !hasChild[r.ID] {
			st.Leaves++
		}
		if d := depthOf(r.ID, 0); d > st.MaxDepth {
			st.MaxDepth = d
		}
	}
	b.metrics.Nodes.WithLabelValues(b.name).Set(float64(st.Nodes))
	return st, nil
}

// StatsOf returns Stats for trees built on Base, and false for others.
func StatsOf(ctx context.Context, t x_tree.Tree) (Stats, bool, error) {
	s, ok := t.(interface {
		Stats(ctx context.Context) (Stats, error)
	})
	if !ok {
		return Stats{}, false, nil
	}
	st, err := s.Stats(ctx)
	return st, true, err
}
