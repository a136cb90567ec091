package x_db_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rskv-p/arbor/pkg/x_db"
)

type item struct {
	ID   int64 `gorm:"primaryKey"`
	Name string
}

func openMemory(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := x_db.Open(x_db.Config{Type: x_db.DbSqlite, DSN: "file::memory:", LogLevel: "silent"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = x_db.Close(db) })
	require.NoError(t, db.AutoMigrate(&item{}))
	return db
}

func count(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&item{}).Count(&n).Error)
	return n
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := x_db.LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Equal(t, x_db.DefaultConfig(), *cfg)
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"type":"postgres","dsn":"host=db"}`), 0o600))

	cfg, err := x_db.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, x_db.DbPostgres, cfg.Type)
	assert.Equal(t, "host=db", cfg.DSN)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"type":"mysql","dsn":"x"}`), 0o600))
	_, err := x_db.LoadConfig(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{"type":`), 0o600))
	_, err = x_db.LoadConfig(path)
	assert.Error(t, err)
}

func TestRunInTx_CommitAndRollback(t *testing.T) {
	ctx := context.Background()
	db := openMemory(t)

	err := x_db.RunInTx(ctx, db, func(ctx context.Context) error {
		return x_db.Conn(ctx, db).Create(&item{Name: "kept"}).Error
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count(t, db))

	boom := errors.New("boom")
	err = x_db.RunInTx(ctx, db, func(ctx context.Context) error {
		if err := x_db.Conn(ctx, db).Create(&item{Name: "dropped"}).Error; err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int64(1), count(t, db))
}

func TestRunInTx_NestedJoinsOuter(t *testing.T) {
	ctx := context.Background()
	db := openMemory(t)

	boom := errors.New("boom")
	err := x_db.RunInTx(ctx, db, func(ctx context.Context) error {
		_, ok := x_db.TxFrom(ctx)
		assert.True(t, ok)
		inner := x_db.RunInTx(ctx, db, func(ctx context.Context) error {
			return x_db.Conn(ctx, db).Create(&item{Name: "inner"}).Error
		})
		require.NoError(t, inner)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int64(0), count(t, db))
}

func TestOpen_RejectsUnknownType(t *testing.T) {
	_, err := x_db.Open(x_db.Config{Type: "oracle", DSN: "x"})
	assert.Error(t, err)
}

func TestOpen_CreatesSqliteDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "arbor.db")
	db, err := x_db.Open(x_db.Config{Type: x_db.DbSqlite, DSN: "file:" + path + "?_foreign_keys=on", LogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&item{}))
	require.NoError(t, x_db.Close(db))

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestOpen_SqliteDirError(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	_, err := x_db.Open(x_db.Config{Type: x_db.DbSqlite, DSN: filepath.Join(blocker, "sub", "arbor.db"), LogLevel: "silent"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create dir")
	assert.ErrorIs(t, err, syscall.ENOTDIR)
}
