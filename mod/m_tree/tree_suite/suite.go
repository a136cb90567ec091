// file:arbor/mod/m_tree/tree_suite/suite.go

// Package tree_suite holds behaviour tests every tree backend must pass,
// plus helpers for in-memory databases and store failure injection.
package tree_suite

import (
	"context"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rskv-p/arbor/mod/m_tree/tree_store"
	"github.com/rskv-p/arbor/pkg/x_db"
	"github.com/rskv-p/arbor/pkg/x_tree"
)

//---------------------
// Fixtures
//---------------------

// OpenMemory opens a private in-memory sqlite database.
func OpenMemory(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := x_db.Open(x_db.Config{Type: x_db.DbSqlite, DSN: "file::memory:", LogLevel: "silent"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = x_db.Close(db) })
	return db
}

// Stores creates and migrates a structure and a data store on db.
func Stores(t testing.TB, db *gorm.DB, prefix string) (*tree_store.StructureStore, *tree_store.DataStore) {
	t.Helper()
	ctx := context.Background()
	rows := tree_store.NewStructureStore(db, prefix+"_rows")
	data := tree_store.NewDataStore(db, prefix+"_data")
	require.NoError(t, rows.Migrate(ctx))
	require.NoError(t, data.Migrate(ctx))
	return rows, data
}

// Scenario holds the ids of the reference tree:
//
//	R
//	├─ A
//	│  └─ C
//	└─ B
type Scenario struct {
	R, A, B, C x_tree.NodeID
}

// Add creates a labelled node under parent and returns its id.
func Add(t testing.TB, tr x_tree.Tree, parent x_tree.NodeID, label string) x_tree.NodeID {
	t.Helper()
	n, err := tr.CreateNode(x_tree.NoID, x_tree.Data{"label": label})
	require.NoError(t, err)
	require.NoError(t, tr.AddChild(context.Background(), parent, n))
	require.NotEqual(t, x_tree.NoID, n.ID())
	return n.ID()
}

// Build stores the reference tree into tr.
func Build(t testing.TB, tr x_tree.Tree) Scenario {
	t.Helper()
	root, err := tr.CreateNode(x_tree.NoID, x_tree.Data{"label": "R"})
	require.NoError(t, err)
	require.NoError(t, tr.SetRootNode(context.Background(), root))

	s := Scenario{R: root.ID()}
	s.A = Add(t, tr, s.R, "A")
	s.B = Add(t, tr, s.R, "B")
	s.C = Add(t, tr, s.A, "C")
	return s
}

// IDs returns a function unwrapping a list result, so a fetch call can be
// passed to it directly: IDs(t)(tr.FetchChildren(ctx, id)).
func IDs(t testing.TB) func(*x_tree.NodeList, error) []x_tree.NodeID {
	return func(list *x_tree.NodeList, err error) []x_tree.NodeID {
		t.Helper()
		require.NoError(t, err)
		return list.IDs()
	}
}

func sorted(ids []x_tree.NodeID) []x_tree.NodeID {
	out := append([]x_tree.NodeID(nil), ids...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

//---------------------
// Suite
//---------------------

// Factory builds an empty tree. Check, when set, validates the stored
// structure after mutations.
type Factory struct {
	New   func(t *testing.T) x_tree.Tree
	Check func(t *testing.T, tr x_tree.Tree)
}

func (f Factory) check(t *testing.T, tr x_tree.Tree) {
	if f.Check != nil {
		f.Check(t, tr)
	}
}

// Run exercises the backend-independent contract.
func Run(t *testing.T, f Factory) {
	t.Run("EmptyTree", func(t *testing.T) {
		ctx := context.Background()
		tr := f.New(t)
		root, err := tr.GetRootNode(ctx)
		require.NoError(t, err)
		assert.Nil(t, root)

		_, err = tr.FetchNodeByID(ctx, 1)
		assert.ErrorIs(t, err, x_tree.ErrNodeNotFound)
	})

	t.Run("CreateNodeRejectsIDs", func(t *testing.T) {
		_, err := f.New(t).CreateNode(12, nil)
		assert.ErrorIs(t, err, x_tree.ErrInvalidNodeID)
	})

	t.Run("RoundTrip", func(t *testing.T) {
		ctx := context.Background()
		tr := f.New(t)
		s := Build(t, tr)

		want := x_tree.Data{
			"label":  "D",
			"count":  3,
			"weight": 2.5,
			"tags":   []any{"x", 7},
			"meta":   map[string]any{"depth": 2},
		}
		n, err := tr.CreateNode(x_tree.NoID, want.Clone())
		require.NoError(t, err)
		require.NoError(t, tr.AddChild(ctx, s.B, n))

		got, err := tr.FetchNodeByID(ctx, n.ID())
		require.NoError(t, err)
		data, err := got.Data(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, data)

		held, err := n.Data(ctx)
		require.NoError(t, err)
		assert.Equal(t, data, held, "stored node and fetched copy disagree")
		f.check(t, tr)
	})

	t.Run("ReferenceScenario", func(t *testing.T) {
		ctx := context.Background()
		tr := f.New(t)
		s := Build(t, tr)

		assert.Equal(t, []x_tree.NodeID{s.A, s.B}, IDs(t)(tr.FetchChildren(ctx, s.R)))
		assert.Equal(t, []x_tree.NodeID{s.R, s.A, s.C, s.B}, IDs(t)(tr.FetchSubtreeDepthFirst(ctx, s.R)))
		assert.Equal(t, []x_tree.NodeID{s.R, s.A, s.B, s.C}, IDs(t)(tr.FetchSubtreeBreadthFirst(ctx, s.R)))
		assert.Equal(t, []x_tree.NodeID{s.R, s.A, s.C, s.B}, IDs(t)(tr.FetchSubtree(ctx, s.R)))

		n, err := tr.GetChildCountRecursive(ctx, s.R)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
		n, err = tr.GetChildCount(ctx, s.R)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		ok, err := tr.IsDescendantOf(ctx, s.C, s.R)
		require.NoError(t, err)
		assert.True(t, ok)
		ok, err = tr.IsDescendantOf(ctx, s.B, s.A)
		require.NoError(t, err)
		assert.False(t, ok)
		ok, err = tr.IsDescendantOf(ctx, s.A, s.A)
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = tr.IsSiblingOf(ctx, s.A, s.B)
		require.NoError(t, err)
		assert.True(t, ok)
		ok, err = tr.IsSiblingOf(ctx, s.A, s.A)
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = tr.IsChildOf(ctx, s.C, s.A)
		require.NoError(t, err)
		assert.True(t, ok)
		ok, err = tr.IsChildOf(ctx, s.C, s.R)
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = tr.HasChildNodes(ctx, s.B)
		require.NoError(t, err)
		assert.False(t, ok)

		parent, err := tr.FetchParent(ctx, s.C)
		require.NoError(t, err)
		assert.Equal(t, s.A, parent.ID())
		parent, err = tr.FetchParent(ctx, s.R)
		require.NoError(t, err)
		assert.Nil(t, parent)

		root, err := tr.GetRootNode(ctx)
		require.NoError(t, err)
		assert.Equal(t, s.R, root.ID())
		f.check(t, tr)
	})

	t.Run("Path", func(t *testing.T) {
		ctx := context.Background()
		tr := f.New(t)
		s := Build(t, tr)

		for _, id := range []x_tree.NodeID{s.R, s.A, s.B, s.C} {
			path := IDs(t)(tr.FetchPath(ctx, id))
			require.NotEmpty(t, path)
			assert.Equal(t, s.R, path[0])
			assert.Equal(t, id, path[len(path)-1])
			l, err := tr.GetPathLength(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, len(path)-1, l)
		}
		assert.Equal(t, []x_tree.NodeID{s.R, s.A, s.C}, IDs(t)(tr.FetchPath(ctx, s.C)))
	})

	t.Run("MovePreservesSubtree", func(t *testing.T) {
		ctx := context.Background()
		tr := f.New(t)
		s := Build(t, tr)
		d := Add(t, tr, s.C, "D")

		before := sorted(IDs(t)(tr.FetchSubtreeDepthFirst(ctx, s.A)))
		require.NoError(t, tr.Move(ctx, s.A, s.B))
		after := sorted(IDs(t)(tr.FetchSubtreeDepthFirst(ctx, s.A)))
		assert.Equal(t, before, after)

		ok, err := tr.IsChildOf(ctx, s.A, s.B)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []x_tree.NodeID{s.R, s.B, s.A, s.C, d}, IDs(t)(tr.FetchPath(ctx, d)))
		f.check(t, tr)

		require.NoError(t, tr.Move(ctx, s.C, s.R))
		assert.Equal(t, []x_tree.NodeID{s.B, s.C}, IDs(t)(tr.FetchChildren(ctx, s.R)))
		f.check(t, tr)
	})

	t.Run("MoveRejectsCycles", func(t *testing.T) {
		ctx := context.Background()
		tr := f.New(t)
		s := Build(t, tr)

		assert.ErrorIs(t, tr.Move(ctx, s.A, s.A), x_tree.ErrCycle)
		assert.ErrorIs(t, tr.Move(ctx, s.A, s.C), x_tree.ErrCycle)
		assert.ErrorIs(t, tr.Move(ctx, s.R, s.B), x_tree.ErrCycle)
		assert.ErrorIs(t, tr.Move(ctx, s.A, 999), x_tree.ErrNodeNotFound)
		assert.Equal(t, []x_tree.NodeID{s.R, s.A, s.C, s.B}, IDs(t)(tr.FetchSubtreeDepthFirst(ctx, s.R)))
		f.check(t, tr)
	})

	t.Run("DeleteCascades", func(t *testing.T) {
		ctx := context.Background()
		tr := f.New(t)
		s := Build(t, tr)
		d := Add(t, tr, s.C, "D")

		require.NoError(t, tr.Delete(ctx, s.A))
		for _, id := range []x_tree.NodeID{s.A, s.C, d} {
			ok, err := tr.NodeExists(ctx, id)
			require.NoError(t, err)
			assert.False(t, ok, "node %d should be gone", id)

			_, err = x_tree.NewNode(tr, id, nil).Data(ctx)
			assert.ErrorIs(t, err, x_tree.ErrDataMissing)
		}
		assert.Equal(t, []x_tree.NodeID{s.R, s.B}, IDs(t)(tr.FetchSubtreeDepthFirst(ctx, s.R)))
		assert.ErrorIs(t, tr.Delete(ctx, s.A), x_tree.ErrNodeNotFound)
		f.check(t, tr)
	})

	t.Run("SetRootNodeWipes", func(t *testing.T) {
		ctx := context.Background()
		tr := f.New(t)
		s := Build(t, tr)

		fresh, err := tr.CreateNode(x_tree.NoID, x_tree.Data{"label": "new"})
		require.NoError(t, err)
		require.NoError(t, tr.SetRootNode(ctx, fresh))

		ok, err := tr.NodeExists(ctx, s.R)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, []x_tree.NodeID{fresh.ID()}, IDs(t)(tr.FetchSubtreeDepthFirst(ctx, fresh.ID())))
		f.check(t, tr)
	})

	t.Run("NotFound", func(t *testing.T) {
		ctx := context.Background()
		tr := f.New(t)
		Build(t, tr)

		_, err := tr.FetchChildren(ctx, 999)
		assert.ErrorIs(t, err, x_tree.ErrNodeNotFound)
		_, err = tr.FetchPath(ctx, 999)
		assert.ErrorIs(t, err, x_tree.ErrNodeNotFound)
		_, err = tr.FetchSubtreeBreadthFirst(ctx, 999)
		assert.ErrorIs(t, err, x_tree.ErrNodeNotFound)
		err = tr.AddChild(ctx, 999, x_tree.NewNode(tr, x_tree.NoID, x_tree.Data{}))
		assert.ErrorIs(t, err, x_tree.ErrNodeNotFound)
	})

	t.Run("AcceptVisitsPreOrder", func(t *testing.T) {
		ctx := context.Background()
		tr := f.New(t)
		s := Build(t, tr)

		var seen []x_tree.NodeID
		visits := 0
		err := tr.Accept(ctx, x_tree.VisitorFunc(func(_ context.Context, item x_tree.Visitable) error {
			visits++
			if n, ok := item.(*x_tree.Node); ok {
				seen = append(seen, n.ID())
			}
			return nil
		}))
		require.NoError(t, err)
		assert.Equal(t, 5, visits)
		assert.Equal(t, []x_tree.NodeID{s.R, s.A, s.C, s.B}, seen)
	})

	t.Run("RandomMutations", func(t *testing.T) {
		ctx := context.Background()
		tr := f.New(t)
		s := Build(t, tr)
		rnd := rand.New(rand.NewSource(7))
		live := []x_tree.NodeID{s.R, s.A, s.B, s.C}

		for i := 0; i < 60; i++ {
			pick := live[rnd.Intn(len(live))]
			switch op := rnd.Intn(4); {
			case op <= 1:
				live = append(live, Add(t, tr, pick, "n"))
			case op == 2:
				target := live[rnd.Intn(len(live))]
				err := tr.Move(ctx, pick, target)
				if err != nil {
					require.ErrorIs(t, err, x_tree.ErrCycle)
				}
			default:
				if pick == s.R {
					continue
				}
				gone := IDs(t)(tr.FetchSubtreeDepthFirst(ctx, pick))
				require.NoError(t, tr.Delete(ctx, pick))
				live = without(live, gone)
			}
			f.check(t, tr)

			dfs := sorted(IDs(t)(tr.FetchSubtreeDepthFirst(ctx, s.R)))
			bfs := sorted(IDs(t)(tr.FetchSubtreeBreadthFirst(ctx, s.R)))
			require.Equal(t, dfs, bfs)
			require.Equal(t, sorted(live), dfs)

			n, err := tr.GetChildCountRecursive(ctx, s.R)
			require.NoError(t, err)
			require.Equal(t, len(live)-1, n)
		}
	})
}

func without(ids, drop []x_tree.NodeID) []x_tree.NodeID {
	gone := make(map[x_tree.NodeID]bool, len(drop))
	for _, id := range drop {
		gone[id] = true
	}
	out := ids[:0]
	for _, id := range ids {
		if !gone[id] {
			out = append(out, id)
		}
	}
	return out
}
