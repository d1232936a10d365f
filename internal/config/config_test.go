package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitos/xau_money_management/internal/config"
	"github.com/vitos/xau_money_management/internal/domain"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_DefaultsWhenMissing(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "sim", cfg.Backend.Mode)
	assert.Equal(t, 8080, cfg.Server.Port)

	table, err := cfg.MoneyManagement.Table()
	require.NoError(t, err)
	assert.Equal(t, 20, table.Len())
}

func TestLoad_YAMLAndEnv(t *testing.T) {
	path := writeConfig(t, `
backend:
  mode: http
  url: http://bridge:9000
  symbol: XAUUSD
polling:
  account_interval_ms: 2000
logging:
  level: debug
money_management:
  start_balance: 500
  growth_factor: 2
  daily_target_pct: 0.02
  weekly_target_pct: 0.1
  monthly_target_pct: 0.4
  lot_sizes: [0.05, 0.1]
`)
	t.Setenv("XAU_SERVER_PORT", "9191")
	t.Setenv("XAU_BACKEND_TOKEN", "secret")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://bridge:9000", cfg.Backend.URL)
	assert.Equal(t, "secret", cfg.Backend.Token)
	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, 2000, cfg.Polling.AccountIntervalMs)
	assert.Equal(t, "debug", cfg.Logging.Level)

	table, err := cfg.MoneyManagement.Table()
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())
	assert.InDelta(t, 1000.0, table.Last().BalanceThreshold, 1e-9)
	assert.InDelta(t, 20.0, table.Last().DailyTarget, 1e-9)
}

func TestLoad_ExplicitLevels(t *testing.T) {
	path := writeConfig(t, `
money_management:
  levels:
    - {level: 1, balance_threshold: 0, lot_size: 0.01, daily_target: 1}
    - {level: 2, balance_threshold: 50, lot_size: 0.02, daily_target: 2}
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	table, err := cfg.MoneyManagement.Table()
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad mode", "backend: {mode: grpc}"},
		{"bad interval", "polling: {account_interval_ms: 0}"},
		{"bad levels", "money_management: {levels: [{level: 2, balance_threshold: 1, lot_size: 1}]}"},
		{"bad yaml", "backend: ["},
		{"bad sim chance", "backend: {sim: {open_chance: 1.5}}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := config.Load(writeConfig(t, "money_management: {levels: [{level: 2, balance_threshold: 1, lot_size: 1}]}"))
	assert.ErrorIs(t, err, domain.ErrInvalidLevelTable)
}

func TestLoad_EnvBackendURLSwitchesMode(t *testing.T) {
	t.Setenv("XAU_BACKEND_URL", "http://10.0.0.5:8000")
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "http", cfg.Backend.Mode)
}
