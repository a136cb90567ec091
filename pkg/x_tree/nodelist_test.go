package x_tree_test

import (
	"context"
	"testing"

	"github.com/rskv-p/arbor/pkg/x_tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeList_AddKeepsOrderAndCount(t *testing.T) {
	tr := newMemTree()
	l := x_tree.NewNodeList()

	assert.Equal(t, 1, l.AddNode(x_tree.NewNode(tr, 3, nil)))
	assert.Equal(t, 2, l.AddNode(x_tree.NewNode(tr, 1, nil)))

	replacement := x_tree.NewNode(tr, 3, x_tree.Data{"v": 2})
	assert.Equal(t, 2, l.AddNode(replacement))

	assert.Equal(t, []x_tree.NodeID{3, 1}, l.IDs())
	assert.Same(t, replacement, l.Get(3))
	assert.True(t, l.Has(1))
	assert.Nil(t, l.Get(9))

	assert.Equal(t, 2, l.AddNode(nil))
	assert.Equal(t, []x_tree.NodeID{3, 1}, l.IDs())
}

func TestNodeList_Set(t *testing.T) {
	tr := newMemTree()
	l := x_tree.NewNodeList()

	assert.ErrorIs(t, l.Set(1, nil), x_tree.ErrInvalidArgument)
	assert.ErrorIs(t, l.Set(2, x_tree.NewNode(tr, 1, nil)), x_tree.ErrInvalidArgument)
	require.NoError(t, l.Set(1, x_tree.NewNode(tr, 1, nil)))
	assert.Equal(t, 1, l.Len())
}

func TestNodeList_RemoveAndAll(t *testing.T) {
	tr := newMemTree()
	l := x_tree.NewNodeList()
	for _, id := range []x_tree.NodeID{5, 6, 7} {
		l.AddNode(x_tree.NewNode(tr, id, nil))
	}
	l.Remove(6)
	l.Remove(99)

	var ids []x_tree.NodeID
	for id, n := range l.All() {
		assert.Equal(t, id, n.ID())
		ids = append(ids, id)
	}
	assert.Equal(t, []x_tree.NodeID{5, 7}, ids)
	assert.Equal(t, 2, l.Len())
}

func TestNodeList_FetchDataEmptyIsNoop(t *testing.T) {
	assert.NoError(t, x_tree.NewNodeList().FetchDataForNodes(context.Background()))
}

func TestIterator_PrefetchAndRewind(t *testing.T) {
	ctx := context.Background()
	tr, root := seedTree(t)
	for _, label := range []string{"a", "b"} {
		require.NoError(t, root.AddChild(ctx, x_tree.NewNode(tr, x_tree.NoID, x_tree.Data{"label": label})))
	}

	children, err := root.FetchChildren(ctx)
	require.NoError(t, err)

	it, err := children.Iterator(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 1, tr.store.bulkLoads)

	var labels []any
	for ; it.Valid(); it.Next() {
		assert.Equal(t, it.Key(), it.Current().ID())
		assert.True(t, it.Current().DataFetched())
		d, err := it.Current().Data(ctx)
		require.NoError(t, err)
		labels = append(labels, d["label"])
	}
	assert.Equal(t, []any{"a", "b"}, labels)
	assert.Equal(t, 0, tr.store.fetches)
	assert.Nil(t, it.Current())
	assert.Equal(t, x_tree.NoID, it.Key())

	it.Rewind()
	assert.True(t, it.Valid())
	assert.Equal(t, children.IDs()[0], it.Key())
}

func TestIterator_EmptyList(t *testing.T) {
	it, err := x_tree.NewNodeList().Iterator(context.Background(), true)
	require.NoError(t, err)
	assert.False(t, it.Valid())
}
