package collector

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"StockPulse/internal/model"
)

var (
	// ErrNoData means the source answered but had nothing for the request.
	ErrNoData = errors.New("no data")
	// ErrUnsupported means the source cannot provide the requested item.
	ErrUnsupported = errors.New("not supported by source")
)

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	Name() string
	FetchCandles(ctx context.Context, symbol string, period model.Period, count int) (*model.Series, error)
	FetchQuote(ctx context.Context, symbol string) (*model.Quote, error)
	FetchFundamentals(ctx context.Context, symbol string) (*model.Fundamentals, error)
	FetchMarketQuotes(ctx context.Context) ([]model.Quote, error)
	FetchIndices(ctx context.Context) ([]model.IndexQuote, error)
	FetchSectors(ctx context.Context) ([]model.Sector, error)
}

func newHTTPClient(timeout time.Duration, proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}

func newLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
}

// trim keeps the trailing count bars.
func trim(bars []model.OHLCV, count int) []model.OHLCV {
	if count > 0 && len(bars) > count {
		return bars[len(bars)-count:]
	}
	return bars
}
