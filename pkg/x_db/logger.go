// file:arbor/pkg/x_db/logger.go
package x_db

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rskv-p/arbor/pkg/x_log"
)

//
// ---------- GORM log adapter (zerolog) ----------

// logAdapter implements gorm's logger.Interface on zerolog. With
// followContext set, statements run under a context logger (for example a
// tree mutation carrying op and op_id) are written through that logger.
type logAdapter struct {
	base          *zerolog.Logger
	level         logger.LogLevel
	slow          time.Duration
	followContext bool
}

const defaultSlowSQL = 200 * time.Millisecond

func newLogAdapter(zlog *zerolog.Logger, level logger.LogLevel, followContext bool) logger.Interface {
	return &logAdapter{base: zlog, level: level, slow: defaultSlowSQL, followContext: followContext}
}

func (l *logAdapter) LogMode(level logger.LogLevel) logger.Interface {
	cp := *l
	cp.level = level
	return &cp
}

func (l *logAdapter) logger(ctx context.Context) *zerolog.Logger {
	if l.followContext {
		if scoped, ok := x_log.Scoped(ctx); ok {
			return scoped
		}
	}
	return l.base
}

func (l *logAdapter) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Info {
		l.logger(ctx).Info().Msgf(msg, data...)
	}
}

func (l *logAdapter) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Warn {
		l.logger(ctx).Warn().Msgf(msg, data...)
	}
}

func (l *logAdapter) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Error {
		l.logger(ctx).Error().Msgf(msg, data...)
	}
}

// Trace logs one statement: failures at error, slow ones at warn, the rest
// at info. Missed lookups are reported by callers and only traced at debug.
func (l *logAdapter) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	zl := l.logger(ctx)
	with := func(e *zerolog.Event) *zerolog.Event {
		return e.Str("component", "sql").Dur("elapsed", elapsed).Int64("rows", rows)
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if l.level >= logger.Info {
			with(zl.Debug()).Msg(sql)
		}
	case err != nil:
		if l.level >= logger.Error {
			with(zl.Error()).Err(err).Msg(sql)
		}
	case elapsed > l.slow && l.level >= logger.Warn:
		with(zl.Warn()).Dur("threshold", l.slow).Msg("slow sql: " + sql)
	case l.level >= logger.Info:
		with(zl.Info()).Msg(sql)
	}
}
