package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"StockPulse/internal/analyzer"
	"StockPulse/internal/collector"
	"StockPulse/internal/config"
	"StockPulse/internal/logger"
	"StockPulse/internal/news"
	"StockPulse/internal/store"
)

// app holds the wired components shared by every command.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	bars     store.BarStore
	analyzer *analyzer.Analyzer
	news     *news.Analyzer
}

func newApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	log, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	var bars store.BarStore = store.NewNoopStore()
	if cfg.Database.SQLitePath != "" {
		s, err := store.NewSQLiteStore(cfg.Database.SQLitePath, log)
		if err != nil {
			log.Warn("init sqlite store failed, using noop", zap.Error(err))
		} else {
			bars = s
		}
	}

	fetcher, err := collector.NewFetcher(cfg)
	if err != nil {
		_ = bars.Close()
		return nil, fmt.Errorf("init fetcher: %w", err)
	}
	log.Debug("data source ready", zap.String("source", fetcher.Name()))
	col := collector.NewCollector(fetcher, bars, cfg, log)

	a := &app{
		cfg:      cfg,
		log:      log,
		bars:     bars,
		analyzer: analyzer.New(cfg.Analysis, col, log),
	}
	if cfg.News.FeedURL != "" {
		src := news.NewRSSSource(cfg.News.FeedURL, cfg.DataSource.Timeout)
		a.news = news.NewAnalyzer(src, cfg.News.Limit, log)
	}
	return a, nil
}

func (a *app) Close() {
	if err := a.bars.Close(); err != nil {
		a.log.Warn("close store failed", zap.Error(err))
	}
	_ = a.log.Sync()
}

// symbols resolves the symbol list: arguments first, then --file, then
// the configured watchlist.
func (a *app) symbols(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	path := symbolFile
	if path == "" {
		if len(a.cfg.Watchlist.Symbols) > 0 {
			return a.cfg.Watchlist.Symbols, nil
		}
		path = a.cfg.Watchlist.File
	}
	if path == "" {
		return nil, fmt.Errorf("no symbols: pass them as arguments, use --file or configure a watchlist")
	}
	syms, err := analyzer.ReadSymbols(path)
	if err != nil {
		return nil, err
	}
	if len(syms) == 0 {
		return nil, fmt.Errorf("no symbols in %s", path)
	}
	return syms, nil
}

// output returns the report destination and a func that closes it.
func output(stdout io.Writer) (io.Writer, func() error, error) {
	if outputPath == "" {
		return stdout, func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}
	return f, f.Close, nil
}
