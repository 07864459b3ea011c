package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gstrate/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.Server.AllowedOrigins)
	assert.False(t, cfg.DB.Enabled)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 5, cfg.Tax.Concurrency)
	assert.Equal(t, "primary", cfg.Tax.Primary.Name)
	assert.Equal(t, "query", cfg.Tax.Primary.Style)
	assert.Equal(t, "path", cfg.Tax.Secondary.Style)
	assert.False(t, cfg.Tax.Primary.Enabled())
	assert.False(t, cfg.Tax.Secondary.Enabled())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GSTRATE_CACHE_BACKEND", "REDIS")
	t.Setenv("GSTRATE_CACHE_TTL", "1h")
	t.Setenv("GSTRATE_TAX_CONCURRENCY", "3")
	t.Setenv("GSTRATE_TAX_PRIMARY_BASE_URL", "https://rates.example.com/v1/gst")
	t.Setenv("GSTRATE_TAX_PRIMARY_RATE_PER_SEC", "2.5")
	t.Setenv("GSTRATE_DB_ENABLED", "true")
	t.Setenv("GSTRATE_SERVER_ALLOWED_ORIGINS", "https://shop.example.in, https://admin.example.in")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 3, cfg.Tax.Concurrency)
	assert.True(t, cfg.Tax.Primary.Enabled())
	assert.Equal(t, 2.5, cfg.Tax.Primary.RatePerSec)
	assert.True(t, cfg.DB.Enabled)
	assert.Equal(t, []string{"https://shop.example.in", "https://admin.example.in"}, cfg.Server.AllowedOrigins)

	providers := cfg.Tax.Providers()
	require.Len(t, providers, 2)
	assert.Equal(t, "primary", providers[0].Name)
}

func TestLoad_PortOverride(t *testing.T) {
	t.Setenv("PORT", "9090")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Port)
}

func TestLoad_ExplicitServerPortWins(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GSTRATE_SERVER_PORT", ":7070")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Port)
}

func TestLoad_InvalidCacheBackend(t *testing.T) {
	t.Setenv("GSTRATE_CACHE_BACKEND", "memcached")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_InvalidTTL(t *testing.T) {
	t.Setenv("GSTRATE_CACHE_TTL", "0s")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSN(t *testing.T) {
	db := config.DBConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "gst", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/gst?sslmode=disable", db.DSN())
}
