// file:arbor/pkg/x_log/config.go
package x_log

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

//
// ---------- Config ----------

// Config controls where log entries go and how they look.
type Config struct {
	Level       string `json:"level"`        // debug | info | warn | error
	LogFile     string `json:"log_file"`     // rotated file path
	ToConsole   bool   `json:"to_console"`   // write to stderr
	ToFile      bool   `json:"to_file"`      // write to LogFile
	ColoredFile bool   `json:"colored_file"` // keep console styling in the file
	Style       string `json:"style"`        // dark | light
	MaxSize     int    `json:"max_size"`     // MB before rotation
	MaxBackups  int    `json:"max_backups"`
	MaxAge      int    `json:"max_age"` // days
	Compress    bool   `json:"compress"`
}

//
// ---------- Defaults ----------

const (
	defaultConfigPath = "./.data/cfg/xlog.json"
	envConfigPath     = "XLOG_CONFIG"
	envLevel          = "XLOG_LEVEL"
)

var defaultConfig = Config{
	Level:      "info",
	LogFile:    "logs/arbor.log",
	ToConsole:  true,
	Style:      "dark",
	MaxSize:    10,
	MaxBackups: 5,
	MaxAge:     7,
	Compress:   true,
}

// DefaultConfig returns a copy of the built-in configuration.
func DefaultConfig() Config { return defaultConfig }

//
// ---------- LoadConfig ----------

// LoadConfig reads a JSON config on top of the defaults. An empty path
// resolves to XLOG_CONFIG, then ./.data/cfg/xlog.json; a missing file yields
// the defaults. XLOG_LEVEL overrides the level either way.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(envConfigPath)
	}
	if path == "" {
		path = defaultConfigPath
	}

	cfg := defaultConfig
	data, err := os.ReadFile(filepath.Clean(path))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("x_log: read %s: %w", path, err)
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("x_log: parse %s: %w", path, err)
		}
	}

	if lvl := os.Getenv(envLevel); lvl != "" {
		cfg.Level = lvl
	}
	applyDefaults(&cfg)
	return &cfg, cfg.Validate()
}

// Validate rejects unknown levels and styles.
func (c Config) Validate() error {
	switch strings.ToLower(c.Level) {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("x_log: unknown level %q", c.Level)
	}
	switch strings.ToLower(c.Style) {
	case "dark", "light":
	default:
		return fmt.Errorf("x_log: unknown style %q", c.Style)
	}
	if c.ToFile && c.LogFile == "" {
		return errors.New("x_log: to_file needs log_file")
	}
	return nil
}

//
// ---------- Defaults Fill ----------

func applyDefaults(cfg *Config) {
	if cfg.Level == "" {
		cfg.Level = defaultConfig.Level
	}
	if cfg.LogFile == "" {
		cfg.LogFile = defaultConfig.LogFile
	}
	if cfg.Style == "" {
		cfg.Style = defaultConfig.Style
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = defaultConfig.MaxSize
	}
	if cfg.MaxBackups <= 0 {
		cfg.MaxBackups = defaultConfig.MaxBackups
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = defaultConfig.MaxAge
	}
}
