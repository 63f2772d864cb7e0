package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("HTTP_ADDR", ":8080")
	t.Setenv("DB_DSN", "postgres://localhost/brace")
	t.Setenv("JWT_ISSUER", "brace-api")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("JWT_TTL", "24h")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, "https://api.binance.com/api/v3", cfg.PriceFeedURL)
	assert.Equal(t, "USDT", cfg.PriceQuoteSuffix)
	assert.Equal(t, []string{"BTC", "ETH", "BNB", "SOL"}, cfg.WatchSymbols)
	assert.Equal(t, time.Duration(0), cfg.MonitorInterval)
	assert.Equal(t, "development", cfg.Environment)
}

func TestLoadReportsAllMissing(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("DB_DSN", "")
	t.Setenv("JWT_ISSUER", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_TTL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP_ADDR")
	assert.Contains(t, err.Error(), "DB_DSN")
	assert.Contains(t, err.Error(), "JWT_TTL")
}

func TestLoadWatchSymbolsNormalized(t *testing.T) {
	setRequired(t)
	t.Setenv("WATCH_SYMBOLS", " btc, eth ,,sol")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"BTC", "ETH", "SOL"}, cfg.WatchSymbols)
}

func TestLoadRejectsBadEnvironment(t *testing.T) {
	setRequired(t)
	t.Setenv("ENVIRONMENT", "staging")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadMonitorInterval(t *testing.T) {
	setRequired(t)
	t.Setenv("MONITOR_INTERVAL", "30s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.MonitorInterval)
}
