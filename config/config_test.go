package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meritdesk/awards-engine/config"
)

// clearEnv blanks every key Load reads so tests see only what they set.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"AWARDS_CONFIG", "AWARDS_ADDR", "AWARDS_DB_PATH", "AWARDS_LOG_LEVEL",
		"AWARDS_POLICY_PATH", "AWARDS_SCHEDULER_ENABLED", "AWARDS_SCHEDULER_INTERVAL",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "./data/awards.db", cfg.DBPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.SchedulerEnabled)
	assert.Equal(t, 24*time.Hour, cfg.SchedulerInterval)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("AWARDS_ADDR", ":9090")
	t.Setenv("AWARDS_DB_PATH", ":memory:")
	t.Setenv("AWARDS_LOG_LEVEL", "debug")
	t.Setenv("AWARDS_SCHEDULER_INTERVAL", "1h")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, ":memory:", cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, time.Hour, cfg.SchedulerInterval)
}

func TestLoad_FileThenEnvPrecedence(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "awards.yaml")
	yaml := "addr: \":7000\"\nlog_level: warn\ndb_path: /var/lib/awards.db\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	t.Setenv("AWARDS_CONFIG", path)

	// Env wins over file; file wins over defaults.
	t.Setenv("AWARDS_LOG_LEVEL", "error")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.Addr)
	assert.Equal(t, "/var/lib/awards.db", cfg.DBPath)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestLoad_MissingFileErrors(t *testing.T) {
	clearEnv(t)
	t.Setenv("AWARDS_CONFIG", filepath.Join(t.TempDir(), "no-such.yaml"))

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_ValidationErrors(t *testing.T) {
	// An env var set to the empty string still overrides the default,
	// so the non-empty checks are reachable from the environment.
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"empty addr", "AWARDS_ADDR", ""},
		{"empty db path", "AWARDS_DB_PATH", ""},
		{"zero interval", "AWARDS_SCHEDULER_INTERVAL", "0s"},
		{"negative interval", "AWARDS_SCHEDULER_INTERVAL", "-5m"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tc.key, tc.value)

			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}
