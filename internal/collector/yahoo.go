package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/guregu/null/v6"
	"golang.org/x/time/rate"

	"StockPulse/internal/model"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// yahooIndices are the benchmarks shown in the market snapshot.
var yahooIndices = []struct{ Symbol, Name string }{
	{"^GSPC", "S&P 500"},
	{"^DJI", "Dow Jones"},
	{"^IXIC", "Nasdaq Composite"},
	{"^RUT", "Russell 2000"},
}

// YahooFetcher implements Fetcher using the Yahoo Finance chart API. The
// chart API carries no valuation ratios and no market-wide quote list.
type YahooFetcher struct {
	BaseURL   string
	Client    *http.Client
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
	limiter   *rate.Limiter
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(timeout time.Duration, proxyURL string, perMinute int) *YahooFetcher {
	return &YahooFetcher{
		BaseURL: yahooBaseURL,
		Client:  newHTTPClient(timeout, proxyURL),
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
		},
		limiter: newLimiter(perMinute),
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

type yahooMeta struct {
	Symbol             string     `json:"symbol"`
	ShortName          string     `json:"shortName"`
	LongName           string     `json:"longName"`
	RegularMarketPrice null.Float `json:"regularMarketPrice"`
	ChartPreviousClose null.Float `json:"chartPreviousClose"`
	RegularMarketVol   null.Float `json:"regularMarketVolume"`
}

// yahooChart is the response structure from Yahoo Finance chart API.
// Non-trading rows carry JSON nulls, which decode as invalid null.Float.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta       yahooMeta `json:"meta"`
			Timestamp  []int64   `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []null.Float `json:"open"`
					High   []null.Float `json:"high"`
					Low    []null.Float `json:"low"`
					Close  []null.Float `json:"close"`
					Volume []null.Float `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (f *YahooFetcher) fetchChart(ctx context.Context, symbol, interval, rng string) (*yahooChart, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)), interval, rng)

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, ErrNoData)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s: %w", chart.Chart.Error.Description, ErrNoData)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, ErrNoData)
	}
	return &chart, nil
}

func yahooInterval(period model.Period) string {
	switch period {
	case model.PeriodWeekly:
		return "1wk"
	case model.PeriodMonthly:
		return "1mo"
	default:
		return "1d"
	}
}

// yahooRange picks the shortest chart range covering count bars.
func yahooRange(period model.Period, count int) string {
	days := count * 3 / 2
	switch period {
	case model.PeriodWeekly:
		days = count * 7
	case model.PeriodMonthly:
		days = count * 31
	}
	switch {
	case days <= 30:
		return "1mo"
	case days <= 90:
		return "3mo"
	case days <= 180:
		return "6mo"
	case days <= 365:
		return "1y"
	case days <= 730:
		return "2y"
	case days <= 1825:
		return "5y"
	default:
		return "max"
	}
}

func (f *YahooFetcher) FetchCandles(ctx context.Context, symbol string, period model.Period, count int) (*model.Series, error) {
	chart, err := f.fetchChart(ctx, symbol, yahooInterval(period), yahooRange(period, count))
	if err != nil {
		return nil, err
	}
	result := chart.Chart.Result[0]
	if len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, ErrNoData)
	}
	quote := result.Indicators.Quote[0]
	at := func(col []null.Float, i int) null.Float {
		if i < len(col) {
			return col[i]
		}
		return null.Float{}
	}

	bars := make([]model.OHLCV, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		bar := model.OHLCV{
			Date:   time.Unix(ts, 0).UTC(),
			Open:   at(quote.Open, i),
			High:   at(quote.High, i),
			Low:    at(quote.Low, i),
			Close:  at(quote.Close, i),
			Volume: at(quote.Volume, i),
		}
		if !bar.Open.Valid && !bar.High.Valid && !bar.Low.Valid && !bar.Close.Valid {
			continue // skip null bars (holidays etc.)
		}
		if bar.Close.Valid && bar.Volume.Valid {
			bar.Turnover = null.FloatFrom(bar.Close.Float64 * bar.Volume.Float64)
		}
		bars = append(bars, bar)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, ErrNoData)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return &model.Series{Symbol: symbol, Period: period, Bars: trim(bars, count)}, nil
}

func (f *YahooFetcher) FetchQuote(ctx context.Context, symbol string) (*model.Quote, error) {
	chart, err := f.fetchChart(ctx, symbol, "1d", "5d")
	if err != nil {
		return nil, err
	}
	meta := chart.Chart.Result[0].Meta
	if !meta.RegularMarketPrice.Valid {
		return nil, fmt.Errorf("yahoo %s: no price: %w", symbol, ErrNoData)
	}

	q := &model.Quote{
		Symbol: symbol,
		Name:   meta.LongName,
		Price:  meta.RegularMarketPrice,
		Volume: meta.RegularMarketVol,
	}
	if q.Name == "" {
		q.Name = meta.ShortName
	}
	if prev := meta.ChartPreviousClose; prev.Valid && prev.Float64 != 0 {
		q.ChangePct = null.FloatFrom((q.Price.Float64 - prev.Float64) / prev.Float64 * 100)
	}
	if q.Volume.Valid {
		q.Turnover = null.FloatFrom(q.Price.Float64 * q.Volume.Float64)
	}
	return q, nil
}

func (f *YahooFetcher) FetchFundamentals(context.Context, string) (*model.Fundamentals, error) {
	return nil, fmt.Errorf("yahoo fundamentals: %w", ErrUnsupported)
}

func (f *YahooFetcher) FetchMarketQuotes(context.Context) ([]model.Quote, error) {
	return nil, fmt.Errorf("yahoo market quotes: %w", ErrUnsupported)
}

// FetchSectors is not offered by the chart API.
func (f *YahooFetcher) FetchSectors(context.Context) ([]model.Sector, error) {
	return nil, fmt.Errorf("yahoo sectors: %w", ErrUnsupported)
}

func (f *YahooFetcher) FetchIndices(ctx context.Context) ([]model.IndexQuote, error) {
	out := make([]model.IndexQuote, 0, len(yahooIndices))
	for _, idx := range yahooIndices {
		q, err := f.FetchQuote(ctx, idx.Symbol)
		if err != nil {
			return nil, fmt.Errorf("index %s: %w", idx.Symbol, err)
		}
		iq := model.IndexQuote{Symbol: idx.Symbol, Name: idx.Name, Price: q.Price, ChangePct: q.ChangePct}
		if q.ChangePct.Valid {
			prev := q.Price.Float64 / (1 + q.ChangePct.Float64/100)
			iq.Change = null.FloatFrom(q.Price.Float64 - prev)
		}
		out = append(out, iq)
	}
	return out, nil
}
