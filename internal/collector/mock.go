package collector

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"time"

	"github.com/guregu/null/v6"

	"StockPulse/internal/model"
)

// mockEnd is the date of the last generated bar.
var mockEnd = time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC)

// mockQuoteBars is the series length quotes are read from.
const mockQuoteBars = 100

// MockFetcher returns controllable fixed data for development and testing.
// Anything not set explicitly is generated deterministically from the
// symbol.
type MockFetcher struct {
	Price        float64 // base price; zero derives one from the symbol
	Series       map[string]*model.Series
	Quotes       map[string]*model.Quote
	Fundamentals map[string]*model.Fundamentals
	Market       []model.Quote
	Indices      []model.IndexQuote
	Sectors      []model.Sector
	// Fail makes every request for a symbol return the given error.
	Fail map[string]error
}

func (m *MockFetcher) Name() string { return "mock" }

func seed(symbol string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(symbol))
	return h.Sum32()
}

func (m *MockFetcher) basePrice(symbol string) float64 {
	if m.Price > 0 {
		return m.Price
	}
	return 10 + float64(seed(symbol)%400)
}

func (m *MockFetcher) FetchCandles(_ context.Context, symbol string, period model.Period, count int) (*model.Series, error) {
	if err := m.Fail[symbol]; err != nil {
		return nil, err
	}
	if s, ok := m.Series[symbol]; ok {
		if s.Empty() {
			return nil, fmt.Errorf("mock %s: %w", symbol, ErrNoData)
		}
		return s, nil
	}
	return &model.Series{
		Symbol: symbol,
		Period: period,
		Bars:   generateMockBars(m.basePrice(symbol), seed(symbol), period, count),
	}, nil
}

// FetchQuote derives the quote from the last two bars of the daily series,
// so its price matches the close of any generated candle request.
func (m *MockFetcher) FetchQuote(ctx context.Context, symbol string) (*model.Quote, error) {
	if err := m.Fail[symbol]; err != nil {
		return nil, err
	}
	if q, ok := m.Quotes[symbol]; ok {
		return q, nil
	}
	s, err := m.FetchCandles(ctx, symbol, model.PeriodDaily, mockQuoteBars)
	if err != nil {
		return nil, err
	}
	last, _ := s.Last(0)
	q := &model.Quote{
		Symbol:   symbol,
		Name:     symbol + " Corp",
		Price:    last.Close,
		Volume:   last.Volume,
		Turnover: last.Turnover,
	}
	if prev, ok := s.Last(1); ok && prev.Close.Valid && prev.Close.Float64 != 0 {
		q.ChangePct = null.FloatFrom((last.Close.Float64 - prev.Close.Float64) / prev.Close.Float64 * 100)
	}
	return q, nil
}

func (m *MockFetcher) FetchFundamentals(_ context.Context, symbol string) (*model.Fundamentals, error) {
	if err := m.Fail[symbol]; err != nil {
		return nil, err
	}
	if f, ok := m.Fundamentals[symbol]; ok {
		return f, nil
	}
	h := seed(symbol)
	return &model.Fundamentals{
		Symbol:    symbol,
		PE:        null.FloatFrom(8 + float64(h%55)),
		PB:        null.FloatFrom(0.8 + float64(h%50)/10),
		PS:        null.FloatFrom(1 + float64(h%9)),
		MarketCap: null.FloatFrom(m.basePrice(symbol) * 1e9),
	}, nil
}

func (m *MockFetcher) FetchMarketQuotes(_ context.Context) ([]model.Quote, error) {
	if m.Market != nil {
		return m.Market, nil
	}
	out := make([]model.Quote, 200)
	for i := range out {
		chg := 10.5 * math.Sin(float64(i)*0.37)
		out[i] = model.Quote{
			Symbol:    fmt.Sprintf("MKT%03d", i),
			Price:     null.FloatFrom(20 + float64(i)),
			ChangePct: null.FloatFrom(math.Round(chg*100) / 100),
			Turnover:  null.FloatFrom(2.5e9),
		}
	}
	return out, nil
}

func (m *MockFetcher) FetchIndices(_ context.Context) ([]model.IndexQuote, error) {
	if m.Indices != nil {
		return m.Indices, nil
	}
	out := make([]model.IndexQuote, len(yahooIndices))
	for i, idx := range yahooIndices {
		price := 1000 * float64(i+1)
		out[i] = model.IndexQuote{
			Symbol:    idx.Symbol,
			Name:      idx.Name,
			Price:     null.FloatFrom(price),
			Change:    null.FloatFrom(price * 0.005),
			ChangePct: null.FloatFrom(0.5),
		}
	}
	return out, nil
}

// mockSectors names the generated industry sectors.
var mockSectors = []string{
	"Semiconductors", "Software", "Banks", "Biotech", "Energy",
	"Utilities", "Retail", "Autos", "Media", "Real Estate", "Airlines", "Steel",
}

// FetchSectors generates one sector per mockSectors entry with changes
// spread from about +4% to -3% and flows of matching sign.
func (m *MockFetcher) FetchSectors(_ context.Context) ([]model.Sector, error) {
	if m.Sectors != nil {
		return m.Sectors, nil
	}
	out := make([]model.Sector, len(mockSectors))
	for i, name := range mockSectors {
		chg := 4.2 - 0.65*float64(i)
		out[i] = model.Sector{
			Code:      fmt.Sprintf("SEC%02d", i+1),
			Name:      name,
			ChangePct: null.FloatFrom(math.Round(chg*100) / 100),
			Turnover:  null.FloatFrom(float64(30-i) * 1e9),
			FlowNet:   null.FloatFrom(chg * 1.5e9),
			Leaders:   []string{fmt.Sprintf("MKT%03d", i*3), fmt.Sprintf("MKT%03d", i*3+1)},
		}
	}
	return out, nil
}

// generateMockBars draws a drifting sine wave so that crosses and band
// touches show up over a typical scan window. Bars are indexed back from
// mockEnd, so a bar's values depend on its date and not on count.
func generateMockBars(basePrice float64, h uint32, period model.Period, count int) []model.OHLCV {
	if count <= 0 {
		count = 1
	}
	phase := float64(h%628) / 100
	step := dailyPerBar(period)
	priceAt := func(x float64) float64 {
		return basePrice * (1 + 0.08*math.Sin(x/9+phase) + 0.1*math.Tanh(x/100))
	}

	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		back := count - 1 - i
		x := -float64(back)
		prev, p := priceAt(x-1), priceAt(x)
		vol := 1_000_000 * (1 + 0.5*math.Cos(x/4+phase))
		bars[i] = model.OHLCV{
			Date:     mockEnd.AddDate(0, 0, -back*step),
			Open:     null.FloatFrom(prev),
			High:     null.FloatFrom(math.Max(prev, p) * 1.005),
			Low:      null.FloatFrom(math.Min(prev, p) * 0.995),
			Close:    null.FloatFrom(p),
			Volume:   null.FloatFrom(vol),
			Turnover: null.FloatFrom(p * vol),
		}
	}
	return bars
}
