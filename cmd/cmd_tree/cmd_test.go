package cmd_tree_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rskv-p/arbor/cmd/cmd_tree"
	"github.com/rskv-p/arbor/mod/m_tree"
	"github.com/rskv-p/arbor/mod/m_tree/tree_db"
	"github.com/rskv-p/arbor/mod/m_tree/tree_nset"
	"github.com/rskv-p/arbor/mod/m_tree/tree_suite"
	"github.com/rskv-p/arbor/pkg/x_metrics"
	"github.com/rskv-p/arbor/pkg/x_tree"
	"github.com/rskv-p/arbor/servs/s_tree/tree_api"
)

func runCLI(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	root := cmd_tree.NewRoot()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return out.String(), err
}

// local returns a runner bound to a fresh sqlite file.
func local(t *testing.T, backend string) func(args ...string) (string, error) {
	t.Helper()
	t.Setenv("ARBOR_CONFIG", "")
	dsn := "file:" + filepath.Join(t.TempDir(), "arbor.db")
	base := []string{"--db", "sqlite", "--dsn", dsn, "--backend", backend, "--log-level", "error"}
	return func(args ...string) (string, error) {
		return runCLI(t, context.Background(), append(append([]string{}, base...), args...)...)
	}
}

func views(t *testing.T, out string) []int64 {
	t.Helper()
	var vs []m_tree.NodeView
	require.NoError(t, json.Unmarshal([]byte(out), &vs))
	ids := make([]int64, len(vs))
	for i, v := range vs {
		ids[i] = v.ID
	}
	return ids
}

func TestCLI_Local(t *testing.T) {
	for _, backend := range []string{"adjacency", "nestedset"} {
		t.Run(backend, func(t *testing.T) {
			cli := local(t, backend)

			out, err := cli("init", "label=Root")
			require.NoError(t, err)
			assert.Contains(t, out, "Root")

			for _, args := range [][]string{
				{"add", "1", "label=A"},
				{"add", "1", "label=B", "rank=2"},
				{"add", "2", "label=C"},
			} {
				_, err := cli(args...)
				require.NoError(t, err, args)
			}

			out, err = cli("show", "--ascii")
			require.NoError(t, err)
			assert.Equal(t, "Root\n+-A\n| +-C\n+-B\n", out)

			out, err = cli("get", "3")
			require.NoError(t, err)
			assert.Contains(t, out, "rank=2")

			_, err = cli("move", "4", "3")
			require.NoError(t, err)
			out, err = cli("show", "--ascii", "3")
			require.NoError(t, err)
			assert.Equal(t, "B\n+-C\n", out)

			out, err = cli("--json", "ls", "1")
			require.NoError(t, err)
			assert.Equal(t, []int64{2, 3}, views(t, out))

			out, err = cli("--json", "path", "4")
			require.NoError(t, err)
			assert.Equal(t, []int64{1, 3, 4}, views(t, out))

			out, err = cli("--json", "subtree", "1", "--order", "bfs")
			require.NoError(t, err)
			assert.Equal(t, []int64{1, 2, 3, 4}, views(t, out))

			out, err = cli("--json", "stats")
			require.NoError(t, err)
			var st tree_db.Stats
			require.NoError(t, json.Unmarshal([]byte(out), &st))
			assert.Equal(t, tree_db.Stats{Backend: backend, Nodes: 4, Leaves: 2, MaxDepth: 2, RootID: 1}, st)

			out, err = cli("--json", "check")
			require.NoError(t, err)
			assert.JSONEq(t, `{"backend":"`+backend+`","checked":`+boolJSON(backend == "nestedset")+`}`, out)

			out, err = cli("export", "--format", "dot")
			require.NoError(t, err)
			assert.Contains(t, out, "digraph")

			_, err = cli("rm", "3")
			require.NoError(t, err)
			_, err = cli("get", "4")
			assert.ErrorIs(t, err, x_tree.ErrNodeNotFound)
		})
	}
}

func boolJSON(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func TestCLI_Errors(t *testing.T) {
	cli := local(t, "nestedset")
	_, err := cli("init", "label=Root")
	require.NoError(t, err)
	_, err = cli("add", "1", "label=A")
	require.NoError(t, err)

	_, err = cli("move", "1", "2")
	assert.ErrorIs(t, err, x_tree.ErrCycle)

	_, err = cli("add", "99", "label=X")
	assert.ErrorIs(t, err, x_tree.ErrNodeNotFound)

	_, err = cli("subtree", "1", "--order", "sideways")
	assert.ErrorIs(t, err, x_tree.ErrInvalidArgument)

	_, err = cli("--backend", "btree", "stats")
	assert.Error(t, err)

	_, err = cli("move", "2")
	assert.Error(t, err)
}

func TestCLI_Exec(t *testing.T) {
	cli := local(t, "adjacency")
	script := filepath.Join(t.TempDir(), "build.tree")
	require.NoError(t, os.WriteFile(script, []byte(`# catalog
tree.root label=Catalog
tree.add 1 label="Child A"
tree.add 1 label=B

tree.add 2 label=C
`), 0o644))

	out, err := cli("exec", "-q", script)
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = cli("show", "--ascii")
	require.NoError(t, err)
	assert.Equal(t, "Catalog\n+-Child A\n| +-C\n+-B\n", out)

	bad := filepath.Join(t.TempDir(), "bad.tree")
	require.NoError(t, os.WriteFile(bad, []byte("tree.add 1 label=D\ntree.move 1 2\n"), 0o644))
	_, err = cli("exec", "-q", bad)
	assert.ErrorIs(t, err, x_tree.ErrCycle)
	assert.Contains(t, err.Error(), "line 2")

	out, err = cli("--json", "ls", "1")
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3, 5}, views(t, out))

	out, err = cli("actions")
	require.NoError(t, err)
	assert.Contains(t, out, "tree.move")
	assert.Contains(t, out, "db.stats")
	assert.Contains(t, out, "system.info")
}

func TestCLI_Remote(t *testing.T) {
	t.Setenv("ARBOR_CONFIG", "")
	db := tree_suite.OpenMemory(t)
	rows, data := tree_suite.Stores(t, db, "cli")
	tr, err := tree_nset.New(rows, data, tree_db.Settings{Metrics: x_metrics.NewTree(nil)})
	require.NoError(t, err)
	srv := httptest.NewServer(tree_api.NewRouter(tr))
	t.Cleanup(srv.Close)

	remote := func(args ...string) (string, error) {
		return runCLI(t, context.Background(), append([]string{"--remote", srv.URL, "--log-level", "error"}, args...)...)
	}

	_, err = remote("init", "label=R")
	require.NoError(t, err)
	_, err = remote("add", "1", "label=A")
	require.NoError(t, err)

	out, err := remote("show", "--ascii")
	require.NoError(t, err)
	assert.Equal(t, "R\n+-A\n", out)

	_, err = remote("move", "1", "2")
	assert.ErrorIs(t, err, x_tree.ErrCycle)

	_, err = remote("check")
	assert.Error(t, err)

	_, err = remote("serve")
	assert.Error(t, err)
}

func TestCLI_ServeStops(t *testing.T) {
	t.Setenv("ARBOR_CONFIG", "")
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	dsn := "file:" + filepath.Join(t.TempDir(), "arbor.db")
	_, err := runCLI(t, ctx, "--dsn", dsn, "--log-level", "error", "serve", "--addr", "127.0.0.1:0")
	assert.NoError(t, err)
}

func TestCLI_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ARBOR_TEST_DSN", "file:"+filepath.Join(dir, "cfg.db"))
	path := filepath.Join(dir, "arbor.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "log_level": "error",
  "db": {"type": "sqlite", "dsn": "${ARBOR_TEST_DSN}"},
  "tree": {"backend": "adjacency", "prefix": "cfg"}
}`), 0o644))

	_, err := runCLI(t, context.Background(), "--config", path, "init", "label=R")
	require.NoError(t, err)
	out, err := runCLI(t, context.Background(), "--config", path, "--json", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, `"backend": "adjacency"`)

	_, err = os.Stat(filepath.Join(dir, "cfg.db"))
	assert.NoError(t, err)
}
