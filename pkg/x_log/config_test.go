package x_log

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "xlog.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Setenv(envLevel, "")

	t.Run("FileNotFound", func(t *testing.T) {
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
		require.NoError(t, err)
		assert.Equal(t, defaultConfig, *cfg)
	})

	t.Run("ValidConfig", func(t *testing.T) {
		cfg, err := LoadConfig(writeConfig(t, `{
			"level": "debug",
			"log_file": "logs/test.log",
			"to_file": true,
			"style": "light",
			"max_size": 20,
			"compress": false
		}`))
		require.NoError(t, err)

		assert.Equal(t, "debug", cfg.Level)
		assert.Equal(t, "logs/test.log", cfg.LogFile)
		assert.True(t, cfg.ToConsole, "omitted fields keep their defaults")
		assert.True(t, cfg.ToFile)
		assert.Equal(t, "light", cfg.Style)
		assert.Equal(t, 20, cfg.MaxSize)
		assert.Equal(t, defaultConfig.MaxBackups, cfg.MaxBackups)
		assert.False(t, cfg.Compress)
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, `{"level": "debug"`))
		assert.Error(t, err)
	})

	t.Run("InvalidStyle", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, `{"style": "neon"}`))
		assert.ErrorContains(t, err, "neon")
	})

	t.Run("LevelFromEnv", func(t *testing.T) {
		t.Setenv(envLevel, "warn")
		cfg, err := LoadConfig(writeConfig(t, `{"level": "debug"}`))
		require.NoError(t, err)
		assert.Equal(t, "warn", cfg.Level)
	})
}
