package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("PORT", "")

	cfg, err := loadConfig([]string{})
	require.NoError(t, err)
	assert.Equal(t, defaultAddr, cfg.Addr)
	assert.Equal(t, "€", cfg.Currency)
	assert.Empty(t, cfg.CatalogFile)
	assert.Equal(t, 100, cfg.RateLimit.Max)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, []string{"*"}, cfg.CORS.Origins)
	assert.Equal(t, 15*time.Second, cfg.Graceful.ShutdownTimeout)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("STOCKROOM_CURRENCY", "$")
	t.Setenv("STOCKROOM_CATALOG_FILE", "/data/catalog.json.gz")
	t.Setenv("STOCKROOM_API_KEY_PEPPER", "pepper")
	t.Setenv("STOCKROOM_ADMIN_API_KEY", "secret")

	cfg, err := loadConfig([]string{})
	require.NoError(t, err)
	assert.Equal(t, "$", cfg.Currency)
	assert.Equal(t, "/data/catalog.json.gz", cfg.CatalogFile)
	assert.Equal(t, "secret", cfg.AdminAPIKey)
}

func TestLoadConfig_PlatformPort(t *testing.T) {
	t.Setenv("PORT", "9090")

	cfg, err := loadConfig([]string{})
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9090", cfg.Addr)

	t.Setenv("STOCKROOM_ADDR", "127.0.0.1:7000")
	cfg, err = loadConfig([]string{})
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7000", cfg.Addr, "explicit address wins")
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("STOCKROOM_ADMIN_API_KEY", "secret")

	_, err := loadConfig([]string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pepper")
}
