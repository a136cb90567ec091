// file:arbor/config/config_test.go
package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rskv-p/arbor/config"
	"github.com/rskv-p/arbor/pkg/x_db"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "arbor", cfg.ServiceName)
	assert.Equal(t, x_db.DbSqlite, cfg.DB.Type)
	assert.Equal(t, "nestedset", cfg.Tree.Backend)
}

func TestLoad(t *testing.T) {
	t.Setenv("ARBOR_TEST_DSN", "file::memory:")
	path := filepath.Join(t.TempDir(), "arbor.json")
	content := `{
		"service_name": "menus",
		"port": 9090,
		"db": {"type": "sqlite", "dsn": "${ARBOR_TEST_DSN}"},
		"tree": {"backend": "adjacency", "prefix": "menu"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "menus", cfg.ServiceName)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "file::memory:", cfg.DB.DSN)
	assert.Equal(t, "warn", cfg.DB.LogLevel)
	assert.Equal(t, "adjacency", cfg.Tree.Backend)
	assert.Equal(t, "menu", cfg.Tree.Prefix)
	assert.Equal(t, "info", cfg.LogLevel)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = config.Load(bad)
	assert.Error(t, err)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ARBOR_PORT", "7070")
	t.Setenv("ARBOR_DEV_MODE", "yes")
	t.Setenv("ARBOR_TREE_BACKEND", "adjacency")
	t.Setenv("ARBOR_DB_DSN", "file:test.db")

	cfg := config.LoadFromEnv("ARBOR_")
	assert.Equal(t, 7070, cfg.Port)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, "adjacency", cfg.Tree.Backend)
	assert.Equal(t, "file:test.db", cfg.DB.DSN)
}

func TestLoadWithFallback(t *testing.T) {
	t.Setenv("ARBOR_CONFIG", "")
	t.Setenv("ARBOR_SERVICE_NAME", "from-env")
	cfg, err := config.LoadWithFallback()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.ServiceName)

	path := filepath.Join(t.TempDir(), "arbor.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"service_name": "from-file"}`), 0o644))
	t.Setenv("ARBOR_CONFIG", path)
	cfg, err = config.LoadWithFallback()
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.ServiceName)
}

func TestValidate(t *testing.T) {
	cfg := config.Default()
	cfg.ServiceName = ""
	cfg.Port = 70000
	cfg.Tree.Backend = "btree"
	cfg.DB.Type = "mysql"

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"service_name", "port(70000)", "db:", "tree:"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestStringAndDump(t *testing.T) {
	cfg := config.Default()
	assert.Contains(t, cfg.String(), `"service_name": "arbor"`)

	var buf bytes.Buffer
	cfg.Dump(&buf)
	assert.Contains(t, buf.String(), `"backend": "nestedset"`)
}
