package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, time.Second, cfg.Engine.Cadence)
	assert.Equal(t, 5*time.Second, cfg.Engine.ErrorBackoff)
	assert.Equal(t, 0.002, cfg.Engine.TrendTolerance)
	assert.Equal(t, 0.50, cfg.Engine.ProfitThreshold)
	assert.Equal(t, GatewayPaper, cfg.Gateway.Mode)
	assert.Equal(t, "user_config.json", cfg.SettingsPath)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "values.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
service:
  port: 9090
engine:
  cadence: 2s
  trend_lookback: 30
telegram:
  token: from-file
db_dsn: postgres://file
`), 0o600))

	t.Setenv(tokenTelegramENV, "from-env")
	t.Setenv(chatTelegramENV, "777")
	t.Setenv(bridgeURLENV, "ws://bridge:9000/rpc")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Service.Port)
	assert.Equal(t, 2*time.Second, cfg.Engine.Cadence)
	assert.Equal(t, 30, cfg.Engine.TrendLookback)
	// не указанное в файле остаётся дефолтом
	assert.Equal(t, 200, cfg.Engine.FineCandles)
	assert.Equal(t, "from-env", cfg.Telegram.Token)
	assert.Equal(t, int64(777), cfg.Telegram.ChatID)
	assert.Equal(t, "postgres://file", cfg.DB)
	assert.Equal(t, GatewayBridge, cfg.Gateway.Mode)
	assert.Equal(t, "ws://bridge:9000/rpc", cfg.Gateway.BridgeURL)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine: [1, 2"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}
