package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, []int{5, 10, 20, 60}, cfg.Analysis.Indicators.MAPeriods)
	assert.Equal(t, 12, cfg.Analysis.Indicators.MACD.Fast)
	assert.Equal(t, 26, cfg.Analysis.Indicators.MACD.Slow)
	assert.Equal(t, 9, cfg.Analysis.Indicators.MACD.Signal)
	assert.Equal(t, 7.0, cfg.Analysis.Signals.BuyThreshold)
	assert.Equal(t, 3.0, cfg.Analysis.Signals.SellThreshold)
	assert.Equal(t, 0.4, cfg.Analysis.Scoring.Technical["trend"])
	assert.Equal(t, 3, cfg.DataSource.RetryTimes)
	assert.Equal(t, 2.0, cfg.Analysis.Market.HotThreshold)
	assert.Equal(t, 5, cfg.Analysis.Market.HotSectorsTopN)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileOverridesKeepUnsetDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
data_source:
  provider: mock
  retry_delay: 500ms
analysis:
  indicators:
    ma_periods: [10, 30]
  signals:
    buy_threshold: 8
  scoring:
    technical:
      trend: 0.5
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "mock", cfg.DataSource.Provider)
	assert.Equal(t, 500*time.Millisecond, cfg.DataSource.RetryDelay)
	assert.Equal(t, []int{10, 30}, cfg.Analysis.Indicators.MAPeriods)
	assert.Equal(t, 8.0, cfg.Analysis.Signals.BuyThreshold)
	assert.Equal(t, 3.0, cfg.Analysis.Signals.SellThreshold)
	assert.Equal(t, 0.5, cfg.Analysis.Scoring.Technical["trend"])
	assert.Equal(t, 0.3, cfg.Analysis.Scoring.Technical["momentum"])
	assert.Equal(t, 14, cfg.Analysis.Indicators.RSI.Period)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "-100123")
	t.Setenv("WATCHLIST", "AAPL, MSFT,,NVDA ")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "token", cfg.Telegram.BotToken)
	assert.Equal(t, int64(-100123), cfg.Telegram.ChatID)
	assert.Equal(t, []string{"AAPL", "MSFT", "NVDA"}, cfg.Watchlist.Symbols)
	assert.NoError(t, cfg.ValidateNotifier())
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("analysis: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"single ma period", func(c *Config) { c.Analysis.Indicators.MAPeriods = []int{20} }},
		{"duplicate ma period", func(c *Config) { c.Analysis.Indicators.MAPeriods = []int{5, 5} }},
		{"macd fast above slow", func(c *Config) { c.Analysis.Indicators.MACD.Fast = 30 }},
		{"rsi cuts inverted", func(c *Config) { c.Analysis.Indicators.RSI.Oversold = 80 }},
		{"thresholds inverted", func(c *Config) { c.Analysis.Signals.SellThreshold = 7.5 }},
		{"negative sector count", func(c *Config) { c.Analysis.Market.HotSectorsTopN = -1 }},
		{"rest without url", func(c *Config) { c.DataSource.Provider = "rest" }},
		{"unknown provider", func(c *Config) { c.DataSource.Provider = "carrier-pigeon" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateNotifier_MissingToken(t *testing.T) {
	assert.Error(t, Default().ValidateNotifier())
}

func TestIndicators_Periods(t *testing.T) {
	ind := DefaultAnalysis().Indicators
	ind.MAPeriods = []int{20, 5, 60, 10}
	assert.Equal(t, 60, ind.MaxPeriod())
	assert.Equal(t, []int{5, 10, 20, 60}, ind.SortedMAPeriods())
	assert.Equal(t, []int{20, 5, 60, 10}, ind.MAPeriods)
}
