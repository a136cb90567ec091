package x_log

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestDefaultStylesByName(t *testing.T) {
	for _, name := range []string{"dark", "light", "LIGHT", "unknown"} {
		styles := DefaultStylesByName(name)
		for _, lvl := range []Level{DebugLevel, InfoLevel, WarnLevel, ErrorLevel, FatalLevel} {
			_, ok := styles.Levels[lvl]
			assert.True(t, ok, "%s: level %s", name, lvl)
		}
	}
}

func TestLevelTag(t *testing.T) {
	assert.Equal(t, "INF", levelTag("info"))
	assert.Equal(t, "WAR", levelTag("warn"))
	assert.Equal(t, "???", levelTag("x"))
}

func TestConsoleWriterWithStyles(t *testing.T) {
	var buf bytes.Buffer
	styles := DefaultStylesDark()
	styles.Out = &buf

	l := zerolog.New(ConsoleWriterWithStyles(styles))
	l.Info().Str("backend", "nestedset").Str("op", "Move").Msg("moved")

	out := buf.String()
	assert.Contains(t, out, "INF")
	assert.Contains(t, out, "moved")
	assert.Contains(t, out, "backend")
	assert.Contains(t, out, "nestedset")
	assert.Contains(t, out, "Move")
}

func TestInitWithConfigLevels(t *testing.T) {
	InitWithConfig(&Config{Level: "debug"}, "test")
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	InitWithConfig(&Config{Level: "error"}, "test")
	assert.Equal(t, zerolog.ErrorLevel, zerolog.GlobalLevel())

	InitWithConfig(&Config{Level: "bogus"}, "test")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
