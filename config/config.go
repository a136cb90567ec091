// file:arbor/config/config.go

// Package config loads the arbor runtime configuration from JSON files and
// environment variables.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rskv-p/arbor/mod/m_tree"
	"github.com/rskv-p/arbor/pkg/x_db"
	"github.com/rskv-p/arbor/pkg/x_log"
)

// Config holds everything the CLI and the HTTP server need.
type Config struct {
	ServiceName string          `json:"service_name"`
	LogLevel    string          `json:"log_level"`
	Port        int             `json:"port"`
	DevMode     bool            `json:"dev_mode"`
	DB          x_db.Config     `json:"db"`
	Tree        m_tree.Settings `json:"tree"`
	Log         x_log.Config    `json:"log"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ServiceName: "arbor",
		LogLevel:    "info",
		Port:        8080,
		DevMode:     false,
		DB:          x_db.DefaultConfig(),
		Tree:        m_tree.DefaultSettings(),
		Log:         x_log.DefaultConfig(),
	}
}

// Load reads a JSON file on top of the defaults. ${VAR} references are
// expanded from the environment before parsing.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	data = ReplaceEnvVars(data)

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config json: %w", err)
	}
	cfg.DB.ApplyDefaults()
	return cfg, nil
}

// LoadFromEnv overlays prefixed environment variables on the defaults,
// e.g. ARBOR_PORT, ARBOR_DB_DSN, ARBOR_TREE_BACKEND.
func LoadFromEnv(prefix string) *Config {
	cfg := Default()
	env := Env{Prefix: prefix}

	cfg.ServiceName = env.Str("SERVICE_NAME", cfg.ServiceName)
	cfg.LogLevel = env.Str("LOG_LEVEL", cfg.LogLevel)
	cfg.Port = env.Int("PORT", cfg.Port)
	cfg.DevMode = env.Bool("DEV_MODE", cfg.DevMode)

	cfg.DB.Type = x_db.DbType(env.Str("DB_TYPE", string(cfg.DB.Type)))
	cfg.DB.DSN = env.Str("DB_DSN", cfg.DB.DSN)
	cfg.DB.LogLevel = env.Str("DB_LOG_LEVEL", cfg.DB.LogLevel)

	cfg.Tree.Backend = env.Str("TREE_BACKEND", cfg.Tree.Backend)
	cfg.Tree.Prefix = env.Str("TREE_PREFIX", cfg.Tree.Prefix)

	cfg.Log.Level = cfg.LogLevel
	return cfg
}

// LoadWithFallback loads the file named by ARBOR_CONFIG, falling back to
// ARBOR_ prefixed environment variables.
func LoadWithFallback() (*Config, error) {
	if path := os.Getenv("ARBOR_CONFIG"); path != "" {
		return Load(path)
	}
	return LoadFromEnv("ARBOR_"), nil
}

// Validate checks required values and the nested sections.
func (cfg *Config) Validate() error {
	var missing []string
	if cfg.ServiceName == "" {
		missing = append(missing, "service_name")
	}
	if cfg.LogLevel == "" {
		missing = append(missing, "log_level")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		missing = append(missing, fmt.Sprintf("port(%d)", cfg.Port))
	}
	if err := cfg.DB.Validate(); err != nil {
		missing = append(missing, "db: "+err.Error())
	}
	if err := cfg.Tree.Validate(); err != nil {
		missing = append(missing, "tree: "+err.Error())
	}
	if len(missing) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (cfg *Config) String() string {
	data, _ := json.MarshalIndent(cfg, "", "  ")
	return string(data)
}

func (cfg *Config) Dump(w io.Writer) {
	data, _ := json.MarshalIndent(cfg, "", "  ")
	_, _ = w.Write(data)
}

// ReplaceEnvVars expands ${VAR} references in raw JSON.
func ReplaceEnvVars(data []byte) []byte {
	return []byte(os.Expand(string(data), os.Getenv))
}
