package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"StockPulse/internal/config"
	"StockPulse/internal/model"
	"StockPulse/internal/store"
)

// Collector wraps a Fetcher with retry, an in-memory quote cache and a
// persistent candle cache. It satisfies Fetcher itself.
type Collector struct {
	fetcher   Fetcher
	bars      store.BarStore
	cache     *cache.Cache
	log       *zap.Logger
	retries   int
	delay     time.Duration
	candleTTL time.Duration
	now       func() time.Time
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, bars store.BarStore, cfg *config.Config, log *zap.Logger) *Collector {
	retries := cfg.DataSource.RetryTimes
	if retries < 1 {
		retries = 1
	}
	return &Collector{
		fetcher:   fetcher,
		bars:      bars,
		cache:     cache.New(cfg.Cache.QuoteTTL, cfg.Cache.Cleanup),
		log:       log,
		retries:   retries,
		delay:     cfg.DataSource.RetryDelay,
		candleTTL: cfg.Cache.CandleTTL,
		now:       time.Now,
	}
}

// NewFetcher builds the Fetcher selected by data_source.provider.
func NewFetcher(cfg *config.Config) (Fetcher, error) {
	ds := cfg.DataSource
	switch ds.Provider {
	case "yahoo":
		return NewYahooFetcher(ds.Timeout, cfg.Proxy, ds.MaxRequestsPerMinute), nil
	case "rest":
		return NewRESTFetcher(ds.BaseURL, ds.APIKey, ds.Timeout, cfg.Proxy, ds.MaxRequestsPerMinute), nil
	case "mock":
		return &MockFetcher{}, nil
	default:
		return nil, fmt.Errorf("unknown data provider %q", ds.Provider)
	}
}

// Name reports the wrapped fetcher's name.
func (c *Collector) Name() string { return c.fetcher.Name() }

// retry runs fn up to c.retries times, waiting delay×attempt between
// tries. ErrNoData and ErrUnsupported are returned at once.
func retry[T any](ctx context.Context, c *Collector, op string, fn func(context.Context) (T, error)) (T, error) {
	var (
		zero T
		err  error
	)
	for attempt := 1; attempt <= c.retries; attempt++ {
		var v T
		if v, err = fn(ctx); err == nil {
			return v, nil
		}
		if errors.Is(err, ErrNoData) || errors.Is(err, ErrUnsupported) || attempt == c.retries {
			break
		}
		c.log.Warn("fetch failed, retrying",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Error(err))
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(c.delay * time.Duration(attempt)):
		}
	}
	return zero, fmt.Errorf("%s: %w", op, err)
}

func cached[T any](c *Collector, key string, load func() (T, error)) (T, error) {
	if v, ok := c.cache.Get(key); ok {
		return v.(T), nil
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	c.cache.SetDefault(key, v)
	return v, nil
}

// FetchCandles serves from the bar store while the cached series is younger
// than the candle TTL and long enough.
func (c *Collector) FetchCandles(ctx context.Context, symbol string, period model.Period, count int) (*model.Series, error) {
	if s, at, err := c.bars.LoadBars(ctx, symbol, period); err != nil {
		c.log.Warn("load cached bars failed", zap.String("symbol", symbol), zap.Error(err))
	} else if s != nil && c.now().Sub(at) < c.candleTTL && s.Len() >= count {
		return &model.Series{Symbol: symbol, Period: period, Bars: trim(s.Bars, count)}, nil
	}

	s, err := retry(ctx, c, "fetch candles "+symbol, func(ctx context.Context) (*model.Series, error) {
		return c.fetcher.FetchCandles(ctx, symbol, period, count)
	})
	if err != nil {
		return nil, err
	}
	if s.Empty() {
		return nil, fmt.Errorf("candles %s: %w", symbol, ErrNoData)
	}
	if err := c.bars.SaveBars(ctx, s, c.now()); err != nil {
		c.log.Warn("save bars failed", zap.String("symbol", symbol), zap.Error(err))
	}
	return s, nil
}

// FetchQuote serves quotes from the in-memory cache for the quote TTL.
func (c *Collector) FetchQuote(ctx context.Context, symbol string) (*model.Quote, error) {
	return cached(c, "quote:"+symbol, func() (*model.Quote, error) {
		return retry(ctx, c, "fetch quote "+symbol, func(ctx context.Context) (*model.Quote, error) {
			return c.fetcher.FetchQuote(ctx, symbol)
		})
	})
}

// FetchFundamentals caches fundamentals like quotes.
func (c *Collector) FetchFundamentals(ctx context.Context, symbol string) (*model.Fundamentals, error) {
	return cached(c, "fund:"+symbol, func() (*model.Fundamentals, error) {
		return retry(ctx, c, "fetch fundamentals "+symbol, func(ctx context.Context) (*model.Fundamentals, error) {
			return c.fetcher.FetchFundamentals(ctx, symbol)
		})
	})
}

// FetchMarketQuotes caches the market-wide quote snapshot.
func (c *Collector) FetchMarketQuotes(ctx context.Context) ([]model.Quote, error) {
	return cached(c, "market:quotes", func() ([]model.Quote, error) {
		return retry(ctx, c, "fetch market quotes", c.fetcher.FetchMarketQuotes)
	})
}

// FetchIndices caches the index snapshot.
func (c *Collector) FetchIndices(ctx context.Context) ([]model.IndexQuote, error) {
	return cached(c, "market:indices", func() ([]model.IndexQuote, error) {
		return retry(ctx, c, "fetch indices", c.fetcher.FetchIndices)
	})
}

// FetchSectors caches the sector ranking.
func (c *Collector) FetchSectors(ctx context.Context) ([]model.Sector, error) {
	return cached(c, "market:sectors", func() ([]model.Sector, error) {
		return retry(ctx, c, "fetch sectors", c.fetcher.FetchSectors)
	})
}

var _ Fetcher = (*Collector)(nil)
