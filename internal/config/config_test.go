package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "arbiter.db", cfg.DB.Path)
	require.True(t, cfg.Pipeline.RequireRegisteredTask)
	require.Equal(t, 40.0, cfg.Pipeline.LowThreshold)
	require.Equal(t, 85.0, cfg.Pipeline.HighThreshold)
	require.Equal(t, 30*time.Second, cfg.Oracle.Timeout)
}

func TestLoadFromFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  port: 9090
oracle:
  endpoint: https://api.example.com
  model: gpt-4o
pipeline:
  quality_threshold: 75
ledger:
  seed:
    alice: 1000
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	t.Setenv("ARBITER_CONFIG_PATH", path)
	t.Setenv("ARBITER_SERVER_PORT", "7070")
	t.Setenv("ARBITER_REQUIRE_REGISTERED_TASK", "false")

	cfg, err := Load()
	require.NoError(t, err)
	// Env wins over file.
	require.Equal(t, 7070, cfg.Server.Port)
	require.Equal(t, "https://api.example.com", cfg.Oracle.Endpoint)
	require.Equal(t, "gpt-4o", cfg.Oracle.Model)
	require.Equal(t, 75, cfg.Pipeline.QualityThreshold)
	require.False(t, cfg.Pipeline.RequireRegisteredTask)
	require.Equal(t, int64(1000), cfg.Ledger.Seed["alice"])
}

func TestLoadInvalidPort(t *testing.T) {
	t.Setenv("ARBITER_SERVER_PORT", "not-a-port")
	_, err := Load()
	require.Error(t, err)
}
