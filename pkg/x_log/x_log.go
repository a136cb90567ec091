// file:arbor/pkg/x_log/x_log.go

// Package x_log wraps zerolog with styled console output and rotating file output.
package x_log

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

//---------------------
// Types
//---------------------

type (
	Logger = zerolog.Logger
	Level  = zerolog.Level
)

const (
	DebugLevel = zerolog.DebugLevel
	InfoLevel  = zerolog.InfoLevel
	WarnLevel  = zerolog.WarnLevel
	ErrorLevel = zerolog.ErrorLevel
	FatalLevel = zerolog.FatalLevel
)

var mu sync.Mutex

//---------------------
// Initialization
//---------------------

// Init loads config from XLOG_CONFIG (or defaults) and installs the global logger.
func Init() {
	cfg, err := LoadConfig("")
	if err != nil {
		d := defaultConfig
		cfg = &d
	}
	InitWithConfig(cfg, "")
}

// InitWithConfig installs the global logger built from cfg. A non-empty
// module is attached to every entry.
func InitWithConfig(cfg *Config, module string) {
	mu.Lock()
	defer mu.Unlock()

	c := *cfg
	applyDefaults(&c)

	zerolog.SetGlobalLevel(parseLevel(c.Level))

	var writers []io.Writer
	if c.ToConsole {
		writers = append(writers, consoleWriter(os.Stderr, c.Style))
	}
	if c.ToFile {
		rotator := &lumberjack.Logger{
			Filename:   c.LogFile,
			MaxSize:    c.MaxSize,
			MaxBackups: c.MaxBackups,
			MaxAge:     c.MaxAge,
			Compress:   c.Compress,
		}
		if c.ColoredFile {
			styles := DefaultStylesByName(c.Style)
			styles.Out = rotator
			writers = append(writers, ConsoleWriterWithStyles(styles))
		} else {
			writers = append(writers, rotator)
		}
	}
	if len(writers) == 0 {
		writers = append(writers, io.Discard)
	}

	ctx := zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp()
	if module != "" {
		ctx = ctx.Str("module", module)
	}
	log.Logger = ctx.Logger()
}

// consoleWriter styles output for terminals and falls back to plain text otherwise.
func consoleWriter(out *os.File, style string) io.Writer {
	if isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd()) {
		styles := DefaultStylesByName(style)
		styles.Out = out
		return ConsoleWriterWithStyles(styles)
	}
	return zerolog.ConsoleWriter{Out: out, NoColor: true}
}

func parseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

//---------------------
// Scoped Loggers
//---------------------

// New returns a child of the global logger tagged with module.
func New(module string) Logger {
	return log.Logger.With().Str("module", module).Logger()
}

type ctxKey struct{}

// WithLogger stores l in ctx.
func WithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// From returns the logger stored in ctx, or the global logger.
func From(ctx context.Context) *Logger {
	if l, ok := Scoped(ctx); ok {
		return l
	}
	return &log.Logger
}

// Scoped returns the logger stored in ctx, if any.
func Scoped(ctx context.Context) (*Logger, bool) {
	if ctx == nil {
		return nil, false
	}
	l, ok := ctx.Value(ctxKey{}).(*Logger)
	return l, ok && l != nil
}

//---------------------
// Shortcuts
//---------------------

func Debug() *zerolog.Event { return log.Debug() }
func Info() *zerolog.Event  { return log.Info() }
func Warn() *zerolog.Event  { return log.Warn() }
func Error() *zerolog.Event { return log.Error() }
func Fatal() *zerolog.Event { return log.Fatal() }
