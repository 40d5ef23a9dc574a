package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, BackendAuto, cfg.Backend)
	assert.Equal(t, DefaultFallbackQuotaBytes, cfg.FallbackQuotaBytes)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NotEmpty(t, cfg.DatabasePath)
	assert.NotEmpty(t, cfg.FallbackPath)
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database_path: /tmp/lessons.db
backend: fallback
fallback_quota_bytes: 1024
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/lessons.db", cfg.DatabasePath)
	assert.Equal(t, BackendFallback, cfg.Backend)
	assert.Equal(t, 1024, cfg.FallbackQuotaBytes)
	// Untouched keys keep their defaults.
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend: sqlite\n"), 0o600))

	t.Setenv("LESSONSTORE_BACKEND", "fallback")
	t.Setenv("LESSONSTORE_FALLBACK_QUOTA_BYTES", "2048")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendFallback, cfg.Backend)
	assert.Equal(t, 2048, cfg.FallbackQuotaBytes)
}

func TestLoad_MissingNamedFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend: cloud\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid backend")
}

func TestLoad_NegativeQuota(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fallback_quota_bytes: -1\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
