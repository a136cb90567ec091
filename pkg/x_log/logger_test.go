package x_log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// keepGlobal restores the global logger and level after a test swaps them.
func keepGlobal(t *testing.T) {
	t.Helper()
	prev, lvl := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(lvl)
	})
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	return entry
}

func TestInit_FallsBackToDefaults(t *testing.T) {
	keepGlobal(t)
	t.Setenv(envConfigPath, filepath.Join(t.TempDir(), "none.json"))
	t.Setenv(envLevel, "")

	Init()
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())

	t.Setenv(envLevel, "bogus")
	Init()
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel(), "invalid config keeps the defaults")
}

func TestInitWithConfig_FileOutput(t *testing.T) {
	keepGlobal(t)
	path := filepath.Join(t.TempDir(), "logs", "arbor.log")

	InitWithConfig(&Config{Level: "debug", ToFile: true, LogFile: path}, "tree")
	Debug().Str("backend", "nestedset").Msg("node added")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	entry := decodeLine(t, bytes.NewBuffer(data))
	assert.Equal(t, "tree", entry["module"])
	assert.Equal(t, "nestedset", entry["backend"])
	assert.Equal(t, "node added", entry["message"])
}

func TestNew_TagsModule(t *testing.T) {
	keepGlobal(t)
	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)

	l := New("db")
	l.Info().Msg("migrated")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "db", entry["module"])
	assert.Equal(t, "migrated", entry["message"])
}

func TestContextCarrier(t *testing.T) {
	var buf bytes.Buffer
	scoped := zerolog.New(&buf).With().Str("op_id", "abc").Logger()

	ctx := WithLogger(context.Background(), &scoped)
	got, ok := Scoped(ctx)
	require.True(t, ok)
	assert.Same(t, &scoped, got)

	From(ctx).Warn().Err(errors.New("cycle")).Msg("move rejected")
	entry := decodeLine(t, &buf)
	assert.Equal(t, "abc", entry["op_id"])
	assert.Equal(t, "cycle", entry["error"])

	_, ok = Scoped(context.Background())
	assert.False(t, ok)
	assert.Same(t, &log.Logger, From(context.Background()))

	var nilLogger *Logger
	_, ok = Scoped(WithLogger(context.Background(), nilLogger))
	assert.False(t, ok)
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		" WARN ":  zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	} {
		assert.Equal(t, want, parseLevel(in), in)
	}
}
