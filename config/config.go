/*
Package config loads process configuration for the awards service.

PURPOSE:
  Layers configuration from three sources, lowest to highest precedence:
    1. Compiled-in defaults (Default())
    2. A YAML file, if AWARDS_CONFIG points at one
    3. Environment variables with the AWARDS_ prefix

ENVIRONMENT KEYS:
  AWARDS_ADDR                -> addr
  AWARDS_DB_PATH             -> db_path
  AWARDS_LOG_LEVEL           -> log_level
  AWARDS_POLICY_PATH         -> policy_path
  AWARDS_SCHEDULER_ENABLED   -> scheduler_enabled
  AWARDS_SCHEDULER_INTERVAL  -> scheduler_interval

SEE ALSO:
  - cmd/server/main.go: consumes the loaded Config at startup
  - factory/policy.go: the decoration policy file PolicyPath points at
*/
package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config contains process configuration.
type Config struct {
	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DBPath is the SQLite database file. ":memory:" keeps everything
	// in-process, useful for demos and tests.
	DBPath string `koanf:"db_path"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// PolicyPath optionally points at a decoration policy JSON file.
	// Empty means built-in defaults.
	PolicyPath string `koanf:"policy_path"`

	// SchedulerEnabled turns the periodic bulk recalculation on.
	SchedulerEnabled bool `koanf:"scheduler_enabled"`

	// SchedulerInterval is the period between bulk recalculation runs.
	SchedulerInterval time.Duration `koanf:"scheduler_interval"`
}

// Default returns a Config populated with compiled-in defaults.
func Default() *Config {
	return &Config{
		Addr:              ":8080",
		DBPath:            "./data/awards.db",
		LogLevel:          "info",
		PolicyPath:        "",
		SchedulerEnabled:  true,
		SchedulerInterval: 24 * time.Hour,
	}
}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (Default())
//  2. file (YAML) if AWARDS_CONFIG is set
//  3. env (prefix AWARDS_)
func Load() (*Config, error) {
	base := Default()

	k := koanf.New(".")

	if path := os.Getenv("AWARDS_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Map env keys like AWARDS_DB_PATH -> db_path (flat keys).
	// Underscores are preserved to match the koanf tags on the struct.
	envProvider := env.Provider("AWARDS_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "awards_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if cfg.Addr == "" {
		return nil, errors.New("addr must not be empty")
	}
	if cfg.DBPath == "" {
		return nil, errors.New("db_path must not be empty")
	}
	if cfg.SchedulerInterval <= 0 {
		return nil, errors.New("scheduler_interval must be positive")
	}
	return &cfg, nil
}
