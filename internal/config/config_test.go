package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg := load(nil)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, 15*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, "₹", cfg.Checkout.CurrencySymbol)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Empty(t, cfg.CORS.AllowedOrigins)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SERVER_ENV", "production")
	t.Setenv("STORAGE_DRIVER", "Redis")
	t.Setenv("AUTH_BASE_URL", "https://auth.example.com/api/auth/")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg := load(nil)

	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "redis", cfg.Storage.Driver)
	assert.Equal(t, "https://auth.example.com/api/auth", cfg.Auth.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestLoadConfigFileFromFlag(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "store.yaml")
	require.NoError(t, os.WriteFile(path, []byte("SERVER_PORT: \"9090\"\nCHECKOUT_STORE_NAME: Test Attar\n"), 0o600))

	cfg := load([]string{"--config", path})

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "Test Attar", cfg.Checkout.StoreName)
}
