package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 100.0, cfg.Ledger.SeedBalance)
	assert.Equal(t, 50, cfg.Ledger.HistoryLimit)
	assert.Equal(t, "memory", cfg.Ledger.Store)
	assert.Equal(t, 3, cfg.Subgraph.MaxRetries)
	assert.Equal(t, 10*time.Second, cfg.Subgraph.Timeout)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "curve-trade-sim", cfg.Logger.Service)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yml := `
ledger:
  seed_balance: 250
  store: sqlite
server:
  port: 9000
redis:
  ttl: 1m
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte(yml), 0o600))
	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("LOGGER_SERVICE", "sim-staging")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 250.0, cfg.Ledger.SeedBalance)
	assert.Equal(t, "sqlite", cfg.Ledger.Store)
	assert.Equal(t, 9100, cfg.Server.Port, "environment overrides the file")
	assert.Equal(t, time.Minute, cfg.Redis.TTL)
	assert.Equal(t, "sim-staging", cfg.Logger.Service)
	assert.Equal(t, 50, cfg.Ledger.HistoryLimit, "unset keys keep defaults")
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte("ledger: [unclosed"), 0o600))

	_, err := LoadConfig(dir)
	assert.Error(t, err)
}

func TestLoadConfig_SecretsFromEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("REDIS_PASSWORD", "hunter2")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, "hunter2", cfg.Redis.Password)
	assert.Equal(t, 5*time.Second, cfg.OpenAI.MetadataTimeout)
}
