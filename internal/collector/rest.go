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

// RESTFetcher implements Fetcher against a JSON market-data API:
//
//	GET /api/v1/bars/{period}?symbol=&limit=
//	GET /api/v1/quote?symbol=
//	GET /api/v1/fundamentals?symbol=
//	GET /api/v1/market/quotes
//	GET /api/v1/market/indices
//	GET /api/v1/market/sectors
type RESTFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	limiter *rate.Limiter
}

// NewRESTFetcher creates a new fetcher with optional proxy support.
func NewRESTFetcher(baseURL, apiKey string, timeout time.Duration, proxyURL string, perMinute int) *RESTFetcher {
	return &RESTFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  newHTTPClient(timeout, proxyURL),
		limiter: newLimiter(perMinute),
	}
}

func (f *RESTFetcher) Name() string { return "rest" }

// restBar is the expected JSON shape of a bar.
type restBar struct {
	Timestamp int64      `json:"timestamp"`
	Open      null.Float `json:"open"`
	High      null.Float `json:"high"`
	Low       null.Float `json:"low"`
	Close     null.Float `json:"close"`
	Volume    null.Float `json:"volume"`
	Turnover  null.Float `json:"turnover"`
}

type restQuote struct {
	Symbol    string     `json:"symbol"`
	Name      string     `json:"name"`
	Price     null.Float `json:"price"`
	ChangePct null.Float `json:"change_pct"`
	Volume    null.Float `json:"volume"`
	Turnover  null.Float `json:"turnover"`
	MarketCap null.Float `json:"market_cap"`
}

func (q restQuote) toModel() model.Quote {
	return model.Quote{
		Symbol:    q.Symbol,
		Name:      q.Name,
		Price:     q.Price,
		ChangePct: q.ChangePct,
		Volume:    q.Volume,
		Turnover:  q.Turnover,
		MarketCap: q.MarketCap,
	}
}

func (f *RESTFetcher) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := f.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	if err := f.limiter.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return fmt.Errorf("get %s: %w", path, ErrNoData)
	case http.StatusNotImplemented:
		return fmt.Errorf("get %s: %w", path, ErrUnsupported)
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("get %s: status %d, body: %s", path, resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (f *RESTFetcher) fetchBars(ctx context.Context, symbol string, period model.Period, count int) ([]model.OHLCV, error) {
	var raw []restBar
	q := url.Values{"symbol": {symbol}, "limit": {fmt.Sprint(count)}}
	if err := f.get(ctx, "/api/v1/bars/"+string(period), q, &raw); err != nil {
		return nil, err
	}
	bars := make([]model.OHLCV, len(raw))
	for i, rb := range raw {
		bars[i] = model.OHLCV{
			Date:     time.Unix(rb.Timestamp, 0).UTC(),
			Open:     rb.Open,
			High:     rb.High,
			Low:      rb.Low,
			Close:    rb.Close,
			Volume:   rb.Volume,
			Turnover: rb.Turnover,
		}
	}
	// Ensure chronological order
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

func (f *RESTFetcher) FetchCandles(ctx context.Context, symbol string, period model.Period, count int) (*model.Series, error) {
	bars, err := f.fetchBars(ctx, symbol, period, count)
	if err != nil && period != model.PeriodDaily {
		// Fallback: fetch enough daily bars and aggregate them.
		daily, dailyErr := f.fetchBars(ctx, symbol, model.PeriodDaily, count*dailyPerBar(period))
		if dailyErr != nil {
			return nil, fmt.Errorf("%s fetch failed: %w; daily fallback also failed: %w", period, err, dailyErr)
		}
		bars, err = Aggregate(daily, period), nil
	}
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("bars %s: %w", symbol, ErrNoData)
	}
	return &model.Series{Symbol: symbol, Period: period, Bars: trim(bars, count)}, nil
}

func (f *RESTFetcher) FetchQuote(ctx context.Context, symbol string) (*model.Quote, error) {
	var raw restQuote
	if err := f.get(ctx, "/api/v1/quote", url.Values{"symbol": {symbol}}, &raw); err != nil {
		return nil, err
	}
	q := raw.toModel()
	if q.Symbol == "" {
		q.Symbol = symbol
	}
	return &q, nil
}

func (f *RESTFetcher) FetchFundamentals(ctx context.Context, symbol string) (*model.Fundamentals, error) {
	var raw struct {
		PE             null.Float `json:"pe"`
		PB             null.Float `json:"pb"`
		PS             null.Float `json:"ps"`
		MarketCap      null.Float `json:"market_cap"`
		CirculatingCap null.Float `json:"circulating_cap"`
	}
	if err := f.get(ctx, "/api/v1/fundamentals", url.Values{"symbol": {symbol}}, &raw); err != nil {
		return nil, err
	}
	return &model.Fundamentals{
		Symbol:         symbol,
		PE:             raw.PE,
		PB:             raw.PB,
		PS:             raw.PS,
		MarketCap:      raw.MarketCap,
		CirculatingCap: raw.CirculatingCap,
	}, nil
}

func (f *RESTFetcher) FetchMarketQuotes(ctx context.Context) ([]model.Quote, error) {
	var raw []restQuote
	if err := f.get(ctx, "/api/v1/market/quotes", nil, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("market quotes: %w", ErrNoData)
	}
	out := make([]model.Quote, len(raw))
	for i, q := range raw {
		out[i] = q.toModel()
	}
	return out, nil
}

func (f *RESTFetcher) FetchIndices(ctx context.Context) ([]model.IndexQuote, error) {
	var raw []struct {
		Symbol    string     `json:"symbol"`
		Name      string     `json:"name"`
		Price     null.Float `json:"price"`
		Change    null.Float `json:"change"`
		ChangePct null.Float `json:"change_pct"`
	}
	if err := f.get(ctx, "/api/v1/market/indices", nil, &raw); err != nil {
		return nil, err
	}
	out := make([]model.IndexQuote, len(raw))
	for i, r := range raw {
		out[i] = model.IndexQuote{Symbol: r.Symbol, Name: r.Name, Price: r.Price, Change: r.Change, ChangePct: r.ChangePct}
	}
	return out, nil
}

type restSector struct {
	Code      string     `json:"code"`
	Name      string     `json:"name"`
	ChangePct null.Float `json:"change_pct"`
	Turnover  null.Float `json:"turnover"`
	FlowIn    null.Float `json:"flow_in"`
	FlowOut   null.Float `json:"flow_out"`
	FlowNet   null.Float `json:"flow_net"`
	Leaders   []string   `json:"leaders"`
}

// FetchSectors reads the industry sector ranking with each sector's net
// fund flow.
func (f *RESTFetcher) FetchSectors(ctx context.Context) ([]model.Sector, error) {
	var raw []restSector
	if err := f.get(ctx, "/api/v1/market/sectors", nil, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("sectors: %w", ErrNoData)
	}
	out := make([]model.Sector, len(raw))
	for i, r := range raw {
		out[i] = model.Sector{
			Code:      r.Code,
			Name:      r.Name,
			ChangePct: r.ChangePct,
			Turnover:  r.Turnover,
			FlowIn:    r.FlowIn,
			FlowOut:   r.FlowOut,
			FlowNet:   r.FlowNet,
			Leaders:   r.Leaders,
		}
	}
	return out, nil
}
