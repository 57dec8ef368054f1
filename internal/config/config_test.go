package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) (string, bool) { return "", false }

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(filepath.Join(t.TempDir(), "missing.yaml"), false, noEnv)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := load(filepath.Join(t.TempDir(), "missing.yaml"), true, noEnv)
	assert.Error(t, err)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trmc.yaml")
	content := []byte(`
log_level: DEBUG
max_steps: 5000
strict: true
http:
  port: "9090"
redis:
  addr: localhost:6379
  ttl: 1h
`)
	require.NoError(t, os.WriteFile(path, content, 0644))

	env := map[string]string{
		"TRMC_MAX_STEPS":             "42",
		"TRMC_REDIS_DB":              "3",
		"TRMC_HTTP_SHUTDOWN_TIMEOUT": "2s",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg, err := load(path, true, lookup)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 42, cfg.MaxSteps, "env overrides file")
	assert.True(t, cfg.Strict)
	assert.Equal(t, "9090", cfg.HTTP.Port)
	assert.Equal(t, 2*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, time.Hour, cfg.Redis.TTL)
	assert.Equal(t, "trmc:program:", cfg.Redis.Prefix, "unset keys keep defaults")
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_steps: [1, 2]\n"), 0644))
	_, err := load(path, true, noEnv)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("max_steps: -1\n"), 0644))
	_, err = load(path, true, noEnv)
	assert.Error(t, err)
}
