package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medleaf/pharmakit"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 5*time.Second, cfg.ProductTimeout)
	assert.Equal(t, "memory", cfg.Storage.Provider)
	assert.False(t, cfg.Telemetry.Enabled)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PHARMAKIT_BASE_URL", "https://api.medleaf.example")
	t.Setenv("PHARMAKIT_HTTP_TIMEOUT", "12s")
	t.Setenv("PHARMAKIT_STORAGE_PROVIDER", "redis")
	t.Setenv("PHARMAKIT_REDIS_URL", "redis://localhost:6379")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "https://api.medleaf.example", cfg.BaseURL)
	assert.Equal(t, 12*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "redis", cfg.Storage.Provider)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnv_BadDuration(t *testing.T) {
	t.Setenv("PHARMAKIT_HTTP_TIMEOUT", "soon")

	cfg := DefaultConfig()
	err := cfg.LoadFromEnv()
	assert.ErrorIs(t, err, pharmakit.ErrInvalidConfiguration)
}

func TestOptionsOverrideEnv(t *testing.T) {
	t.Setenv("PHARMAKIT_BASE_URL", "https://env.example")

	cfg, err := NewConfig(WithBaseURL("https://option.example"))
	require.NoError(t, err)
	assert.Equal(t, "https://option.example", cfg.BaseURL)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseURL = ""
	assert.ErrorIs(t, cfg.Validate(), pharmakit.ErrMissingConfiguration)

	cfg = DefaultConfig()
	cfg.Storage.Provider = "sqlite"
	assert.ErrorIs(t, cfg.Validate(), pharmakit.ErrInvalidConfiguration)

	cfg = DefaultConfig()
	cfg.Storage.Provider = "redis"
	assert.ErrorIs(t, cfg.Validate(), pharmakit.ErrMissingConfiguration)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pharmakit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"base_url: https://file.example\nproduct_timeout: 2s\nstorage:\n  provider: memory\n"), 0o600))

	cfg, err := NewConfig(WithConfigFile(path))
	require.NoError(t, err)
	assert.Equal(t, "https://file.example", cfg.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.ProductTimeout)
}

func TestOptionsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pharmakit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"base_url: https://file.example\nproduct_timeout: 2s\n"), 0o600))

	cfg, err := NewConfig(
		WithConfigFile(path),
		WithBaseURL("https://option.example"),
	)
	require.NoError(t, err)
	assert.Equal(t, "https://option.example", cfg.BaseURL,
		"an explicit option wins over a file value")
	assert.Equal(t, 2*time.Second, cfg.ProductTimeout,
		"file values not touched by options still apply")
}
