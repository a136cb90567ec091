// file:arbor/mod/m_tree/tree_nset/check.go
package tree_nset

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rskv-p/arbor/mod/m_tree/tree_type"
)

var ErrCorrupt = errors.New("nestedset: interval invariant violated")

// Check verifies the stored intervals: bounds are the numbers 1..2n each
// used once, every interval is well formed, and each row's parent is the
// tightest interval enclosing it.
func (t *Tree) Check(ctx context.Context) error {
	rows, err := t.Rows.All(ctx)
	if err != nil {
		return t.Wrap("Check", err)
	}
	return CheckRows(rows)
}

// CheckRows runs the interval checks on rows already loaded.
func CheckRows(rows []tree_type.Row) error {
	if len(rows) == 0 {
		return nil
	}
	used := make(map[int64]int64, 2*len(rows))
	for _, r := range rows {
		if r.Lft >= r.Rgt {
			return fmt.Errorf("%w: node %d has lft %d >= rgt %d", ErrCorrupt, r.ID, r.Lft, r.Rgt)
		}
		if (r.Rgt-r.Lft)%2 != 1 {
			return fmt.Errorf("%w: node %d has even width", ErrCorrupt, r.ID)
		}
		for _, v := range []int64{r.Lft, r.Rgt} {
			if other, dup := used[v]; dup {
				return fmt.Errorf("%w: bound %d used by %d and %d", ErrCorrupt, v, other, r.ID)
			}
			if v < 1 || v > int64(2*len(rows)) {
				return fmt.Errorf("%w: bound %d of node %d out of range", ErrCorrupt, v, r.ID)
			}
			used[v] = r.ID
		}
	}

	sorted := append([]tree_type.Row(nil), rows...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Lft < sorted[j].Lft })

	// pre-order walk with a stack of open intervals
	var open []tree_type.Row
	for _, r := range sorted {
		for len(open) > 0 && open[len(open)-1].Rgt < r.Lft {
			open = open[:len(open)-1]
		}
		if len(open) == 0 {
			if r.ParentID != nil {
				return fmt.Errorf("%w: node %d is outside every interval but has parent %d", ErrCorrupt, r.ID, *r.ParentID)
			}
		} else {
			enclosing := open[len(open)-1]
			if r.Rgt > enclosing.Rgt {
				return fmt.Errorf("%w: node %d overlaps node %d", ErrCorrupt, r.ID, enclosing.ID)
			}
			if r.Parent() != enclosing.ID {
				return fmt.Errorf("%w: node %d lies in %d but names parent %d", ErrCorrupt, r.ID, enclosing.ID, r.Parent())
			}
		}
		open = append(open, r)
	}
	if sorted[0].Lft != 1 || sorted[0].Rgt != int64(2*len(rows)) {
		return fmt.Errorf("%w: root interval does not span the tree", ErrCorrupt)
	}
	return nil
}
