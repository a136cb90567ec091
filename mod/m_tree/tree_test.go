package m_tree_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rskv-p/arbor/act"
	"github.com/rskv-p/arbor/mod"
	"github.com/rskv-p/arbor/mod/m_tree"
	"github.com/rskv-p/arbor/mod/m_tree/tree_adj"
	"github.com/rskv-p/arbor/mod/m_tree/tree_db"
	"github.com/rskv-p/arbor/mod/m_tree/tree_nset"
	"github.com/rskv-p/arbor/mod/m_tree/tree_suite"
	"github.com/rskv-p/arbor/pkg/x_metrics"
	"github.com/rskv-p/arbor/pkg/x_tree"
)

func settings(backend, prefix string) m_tree.Settings {
	return m_tree.Settings{
		Backend: backend,
		Prefix:  prefix,
		Hooks:   tree_db.Settings{Metrics: x_metrics.NewTree(nil)},
	}
}

func TestSettings(t *testing.T) {
	s, err := m_tree.DecodeSettings(map[string]any{"backend": "adjacency"})
	require.NoError(t, err)
	assert.Equal(t, tree_adj.Name, s.Backend)
	assert.Equal(t, "tree", s.Prefix)

	rows, data := s.Tables()
	assert.Equal(t, "tree_rows", rows)
	assert.Equal(t, "tree_data", data)

	_, err = m_tree.DecodeSettings(map[string]any{"backend": "btree"})
	assert.ErrorIs(t, err, x_tree.ErrConfig)
	_, err = m_tree.DecodeSettings(map[string]any{"prefix": "menu; drop table x"})
	assert.ErrorIs(t, err, x_tree.ErrConfig)
}

func TestNew(t *testing.T) {
	ctx := context.Background()
	db := tree_suite.OpenMemory(t)

	tr, err := m_tree.New(ctx, db, settings(tree_adj.Name, "a"))
	require.NoError(t, err)
	assert.IsType(t, &tree_adj.Tree{}, tr)

	tr, err = m_tree.New(ctx, db, settings(tree_nset.Name, "n"))
	require.NoError(t, err)
	assert.IsType(t, &tree_nset.Tree{}, tr)

	_, err = m_tree.New(ctx, db, settings("other", "o"))
	assert.ErrorIs(t, err, x_tree.ErrConfig)

	_, err = m_tree.New(ctx, nil, settings(tree_adj.Name, "a"))
	assert.ErrorIs(t, err, x_tree.ErrConfig)
}

func TestCopyAcrossBackends(t *testing.T) {
	ctx := context.Background()
	db := tree_suite.OpenMemory(t)

	src, err := m_tree.New(ctx, db, settings(tree_adj.Name, "src"))
	require.NoError(t, err)
	dst, err := m_tree.New(ctx, db, settings(tree_nset.Name, "dst"))
	require.NoError(t, err)

	s := tree_suite.Build(t, src)
	tree_suite.Add(t, src, s.C, "D")

	require.NoError(t, x_tree.Copy(ctx, src, dst))
	require.NoError(t, dst.(*tree_nset.Tree).Check(ctx))

	want, err := m_tree.Render(ctx, src, m_tree.FormatASCII, x_tree.NoID)
	require.NoError(t, err)
	got, err := m_tree.Render(ctx, dst, m_tree.FormatASCII, x_tree.NoID)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, "R\n+-A\n| +-C\n|   +-D\n+-B\n", got)

	empty, err := m_tree.New(ctx, db, settings(tree_adj.Name, "empty"))
	require.NoError(t, err)
	assert.ErrorIs(t, x_tree.Copy(ctx, empty, dst), x_tree.ErrEmptyTree)
}

func TestRender(t *testing.T) {
	ctx := context.Background()
	db := tree_suite.OpenMemory(t)
	tr, err := m_tree.New(ctx, db, settings(tree_nset.Name, "r"))
	require.NoError(t, err)
	s := tree_suite.Build(t, tr)

	out, err := m_tree.Render(ctx, tr, m_tree.FormatText, s.A)
	require.NoError(t, err)
	assert.Equal(t, "A\n└─C\n", out)

	out, err = m_tree.Render(ctx, tr, m_tree.FormatJSON, x_tree.NoID)
	require.NoError(t, err)
	var entries []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	assert.Len(t, entries, 2)

	out, err = m_tree.Render(ctx, tr, m_tree.FormatDot, x_tree.NoID)
	require.NoError(t, err)
	assert.Contains(t, out, "digraph")

	_, err = m_tree.Render(ctx, tr, "yaml", x_tree.NoID)
	assert.ErrorIs(t, err, x_tree.ErrInvalidArgument)
	_, err = m_tree.Render(ctx, tr, m_tree.FormatText, 999)
	assert.ErrorIs(t, err, x_tree.ErrNodeNotFound)
}

func TestModuleActions(t *testing.T) {
	ctx := context.Background()
	reg := act.NewRegistry()
	m := m_tree.NewModule(tree_suite.OpenMemory(t), settings(tree_nset.Name, "mod"), reg)
	require.NoError(t, mod.Start(ctx, m))
	t.Cleanup(func() { _ = mod.Stop(m) })

	exec := func(name string, args ...any) any {
		t.Helper()
		out, err := reg.Exec(ctx, name, args...)
		require.NoError(t, err, name)
		return out
	}

	root := exec("tree.root", "label=Root").(m_tree.NodeView)
	a := exec("tree.add", root.ID, "label=A", "rank=1").(m_tree.NodeView)
	b := exec("tree.add", "1", "label=B").(m_tree.NodeView)
	c := exec("tree.add", a.ID, map[string]any{"label": "C"}).(m_tree.NodeView)
	assert.Equal(t, x_tree.Data{"label": "A", "rank": 1}, a.Data)

	kids := exec("tree.children", root.ID).([]m_tree.NodeView)
	require.Len(t, kids, 2)
	assert.Equal(t, "A", kids[0].Data["label"])
	assert.Equal(t, 1, kids[0].Data["rank"], "whole numbers read back as int")

	path := exec("tree.path", c.ID).([]m_tree.NodeView)
	assert.Equal(t, []int64{root.ID, a.ID, c.ID}, []int64{path[0].ID, path[1].ID, path[2].ID})

	bfs := exec("tree.subtree", root.ID, "bfs").([]m_tree.NodeView)
	assert.Equal(t, []int64{root.ID, a.ID, b.ID, c.ID}, []int64{bfs[0].ID, bfs[1].ID, bfs[2].ID, bfs[3].ID})

	set := exec("tree.set", c.ID, "label=C2", "color=red").(m_tree.NodeView)
	assert.Equal(t, x_tree.Data{"label": "C2", "color": "red"}, set.Data)
	got := exec("tree.get", c.ID).(m_tree.NodeView)
	assert.Equal(t, "C2", got.Data["label"])

	exec("tree.move", c.ID, b.ID)
	assert.Equal(t, "Root\n├─A\n└─B\n  └─C2\n", exec("tree.show"))
	assert.Equal(t, "B\n+-C2\n", exec("tree.show", b.ID, "ascii"))

	st := exec("tree.stats").(tree_db.Stats)
	assert.Equal(t, 4, st.Nodes)
	assert.Equal(t, map[string]any{"backend": tree_nset.Name, "checked": true}, exec("tree.check"))

	exec("tree.delete", b.ID)
	assert.Equal(t, "Root\n└─A\n", exec("tree.show"))

	_, err := reg.Exec(ctx, "tree.subtree", root.ID, "sideways")
	assert.ErrorIs(t, err, x_tree.ErrInvalidArgument)
	_, err = reg.Exec(ctx, "tree.move", root.ID, a.ID)
	assert.ErrorIs(t, err, x_tree.ErrCycle)
	_, err = reg.Exec(ctx, "tree.get", "abc")
	assert.ErrorIs(t, err, act.ErrInvalidInput)
	_, err = reg.Exec(ctx, "tree.get", 999)
	assert.ErrorIs(t, err, x_tree.ErrNodeNotFound)
}
