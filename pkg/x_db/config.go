// file:arbor/pkg/x_db/config.go
package x_db

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

//---------------------
// Database Config
//---------------------

type DbType string

const (
	DbSqlite   DbType = "sqlite"
	DbPostgres DbType = "postgres"
)

// Config holds the connection parameters for one database.
type Config struct {
	Type         DbType `json:"type"`           // sqlite | postgres
	DSN          string `json:"dsn"`            // driver specific connection string
	LogLevel     string `json:"log_level"`      // silent | error | warn | info
	LogToFile    bool   `json:"log_to_file"`    // send SQL log to LogFile
	LogFile      string `json:"log_file"`       // rotated SQL log path
	MaxOpenConns int    `json:"max_open_conns"` // 0 keeps the driver default
}

const defaultConfigPath = "./.data/cfg/xdb.json"

var defaultCfg = Config{
	Type:      DbSqlite,
	DSN:       "file:./.data/arbor.db?_foreign_keys=on",
	LogLevel:  "warn",
	LogToFile: false,
	LogFile:   "./.data/log/xdb.log",
}

// DefaultConfig returns a copy of the built-in sqlite configuration.
func DefaultConfig() Config { return defaultCfg }

// LoadConfig reads a JSON config. An empty path resolves to XDB_CONFIG, then
// to the default location; a missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("XDB_CONFIG")
		if path == "" {
			path = defaultConfigPath
		}
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultCfg
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read db config from %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse db config from %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	return &cfg, cfg.Validate()
}

// ApplyDefaults fills empty fields from the built-in configuration.
func (c *Config) ApplyDefaults() {
	if c.Type == "" {
		c.Type = defaultCfg.Type
	}
	if c.DSN == "" && c.Type == DbSqlite {
		c.DSN = defaultCfg.DSN
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultCfg.LogLevel
	}
	if c.LogFile == "" {
		c.LogFile = defaultCfg.LogFile
	}
}

// Validate checks the dialect and DSN.
func (c *Config) Validate() error {
	switch c.Type {
	case DbSqlite, DbPostgres:
	default:
		return fmt.Errorf("unsupported database type: %q", c.Type)
	}
	if c.DSN == "" {
		return fmt.Errorf("missing dsn for %s", c.Type)
	}
	return nil
}
