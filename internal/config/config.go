package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   int64  `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		// Provider is "yahoo", "rest" or "mock".
		Provider             string        `yaml:"provider"`
		BaseURL              string        `yaml:"base_url"`
		APIKey               string        `yaml:"api_key"`
		Timeout              time.Duration `yaml:"timeout"`
		RetryTimes           int           `yaml:"retry_times"`
		RetryDelay           time.Duration `yaml:"retry_delay"`
		MaxRequestsPerMinute int           `yaml:"max_requests_per_minute"`
	} `yaml:"data_source"`
	Cache struct {
		QuoteTTL  time.Duration `yaml:"quote_ttl"`
		CandleTTL time.Duration `yaml:"candle_ttl"`
		Cleanup   time.Duration `yaml:"cleanup"`
	} `yaml:"cache"`
	News struct {
		FeedURL string `yaml:"feed_url"`
		Limit   int    `yaml:"limit"`
	} `yaml:"news"`
	Schedule struct {
		GroupCron  string `yaml:"group_cron"`
		MarketCron string `yaml:"market_cron"`
	} `yaml:"schedule"`
	Watchlist struct {
		Name    string   `yaml:"name"`
		Symbols []string `yaml:"symbols"`
		File    string   `yaml:"file"`
	} `yaml:"watchlist"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Logger struct {
		Level    string `yaml:"level"`
		Encoding string `yaml:"encoding"`
	} `yaml:"logger"`
	Proxy    string   `yaml:"proxy"`
	Analysis Analysis `yaml:"analysis"`
}

// Default returns a Config populated with every documented default.
func Default() *Config {
	cfg := &Config{Analysis: DefaultAnalysis()}

	cfg.DataSource.Provider = "yahoo"
	cfg.DataSource.Timeout = 60 * time.Second
	cfg.DataSource.RetryTimes = 3
	cfg.DataSource.RetryDelay = 2 * time.Second
	cfg.DataSource.MaxRequestsPerMinute = 60

	cfg.Cache.QuoteTTL = time.Minute
	cfg.Cache.CandleTTL = 6 * time.Hour
	cfg.Cache.Cleanup = 10 * time.Minute

	cfg.News.FeedURL = "https://feeds.finance.yahoo.com/rss/2.0/headline?s=%s&region=US&lang=en-US"
	cfg.News.Limit = 10

	cfg.Schedule.GroupCron = "0 30 16 * * 1-5"
	cfg.Schedule.MarketCron = "0 0 17 * * 1-5"

	cfg.Watchlist.Name = "Unnamed group"

	cfg.Database.SQLitePath = "data/stockpulse.db"

	cfg.Logger.Level = "info"
	cfg.Logger.Encoding = "console"
	return cfg
}

// Load reads config from a YAML file over the defaults, then applies
// environment variable overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		var id int64
		if _, err := fmt.Sscanf(v, "%d", &id); err == nil {
			cfg.Telegram.ChatID = id
		}
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("DATA_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logger.Level = v
	}
	if v := os.Getenv("CRON_GROUP"); v != "" {
		cfg.Schedule.GroupCron = v
	}
	if v := os.Getenv("CRON_MARKET"); v != "" {
		cfg.Schedule.MarketCron = v
	}
	if v := os.Getenv("WATCHLIST"); v != "" {
		cfg.Watchlist.Symbols = splitSymbols(v)
	}

	return cfg, nil
}

func splitSymbols(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Validate checks that the analysis settings are usable.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case "yahoo", "mock":
	case "rest":
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for the rest provider")
		}
	default:
		return fmt.Errorf("data_source.provider %q is not supported", c.DataSource.Provider)
	}
	if c.DataSource.RetryTimes < 1 {
		return fmt.Errorf("data_source.retry_times must be at least 1")
	}
	return c.Analysis.Validate()
}

// ValidateNotifier checks the fields required to push reports.
func (c *Config) ValidateNotifier() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == 0 {
		return fmt.Errorf("telegram.chat_id is required")
	}
	return nil
}
