// file:arbor/pkg/x_db/db.go
package x_db

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rskv-p/arbor/pkg/x_log"
)

//---------------------
// Open
//---------------------

// Open connects to the database described by cfg. SQL statements are
// logged through zerolog at cfg.LogLevel.
func Open(cfg Config) (*gorm.DB, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var dialector gorm.Dialector
	switch cfg.Type {
	case DbSqlite:
		if path := sqlitePath(cfg.DSN); path != "" {
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return nil, fmt.Errorf("open %s: create dir: %w", cfg.Type, err)
			}
		}
		dialector = sqlite.Open(cfg.DSN)
	case DbPostgres:
		dialector = postgres.Open(cfg.DSN)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newLogAdapter(sqlLogger(cfg), parseLogLevel(cfg.LogLevel), !cfg.LogToFile),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Type, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	switch {
	case cfg.MaxOpenConns > 0:
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	case cfg.Type == DbSqlite:
		// sqlite allows a single writer; statements inside a transaction
		// always run on the transaction's own connection
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func sqlLogger(cfg Config) *zerolog.Logger {
	if !cfg.LogToFile {
		l := x_log.New("xdb")
		return &l
	}
	var out io.Writer = &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     7,
	}
	if cfg.LogFile == "-" {
		out = os.Stderr
	}
	l := zerolog.New(out).With().Timestamp().Str("module", "xdb").Logger()
	return &l
}

func parseLogLevel(s string) logger.LogLevel {
	switch strings.ToLower(s) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// sqlitePath returns the file behind a sqlite DSN, or "" for in-memory databases.
func sqlitePath(dsn string) string {
	path, _, _ := strings.Cut(strings.TrimPrefix(dsn, "file:"), "?")
	if path == "" || strings.Contains(path, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return ""
	}
	return path
}
