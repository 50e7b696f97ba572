package calculator

import (
	"math"
	"testing"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockPulse/internal/config"
	"StockPulse/internal/model"
	"StockPulse/internal/model/modeltest"
)

func defaultIndicators() config.Indicators {
	return config.DefaultAnalysis().Indicators
}

func TestCompute_ShortSeriesIsUnavailable(t *testing.T) {
	s := modeltest.Series("AAA", modeltest.Linear(59, 10, 0.1)...)
	f := Compute(s, defaultIndicators())

	assert.False(t, f.Available)
	assert.Empty(t, f.Columns)
	assert.Equal(t, 59, f.Len())
	assert.False(t, f.At(model.MAColumn(5), 0).Valid)
}

func TestCompute_EmptySeries(t *testing.T) {
	f := Compute(&model.Series{Symbol: "AAA"}, defaultIndicators())
	assert.False(t, f.Available)
	assert.Equal(t, 0, f.Len())
}

func TestCompute_WarmUpNulls(t *testing.T) {
	s := modeltest.Series("AAA", modeltest.Linear(120, 10, 0.1)...)
	f := Compute(s, defaultIndicators())
	require.True(t, f.Available)

	for _, p := range []int{5, 10, 20, 60} {
		col := f.Column(model.MAColumn(p))
		require.Len(t, col, 120)
		for i := 0; i < p-1; i++ {
			assert.Falsef(t, col[i].Valid, "ma_%d row %d should be null", p, i)
		}
		for i := p - 1; i < len(col); i++ {
			assert.Truef(t, col[i].Valid, "ma_%d row %d should be set", p, i)
		}
	}

	assertWarmUp(t, f.Column(model.ColRSI), 14)
	assertWarmUp(t, f.Column(model.ColATR), ATRPeriod)
	assertWarmUp(t, f.Column(model.ColBollUpper), 19)
	assertWarmUp(t, f.Column(model.ColMACDSignal), 25+8)
	assertWarmUp(t, f.Column(model.ColMACDHist), 25+8)
}

func assertWarmUp(t *testing.T, col []null.Float, lookback int) {
	t.Helper()
	for i := range col {
		assert.Equalf(t, i >= lookback, col[i].Valid, "row %d (lookback %d)", i, lookback)
	}
}

func TestSMA_Values(t *testing.T) {
	col := SMA([]float64{1, 2, 3, 4, 5, 6}, 5)
	require.Len(t, col, 6)
	assert.False(t, col[3].Valid)
	assert.InDelta(t, 3.0, col[4].Float64, 1e-9)
	assert.InDelta(t, 4.0, col[5].Float64, 1e-9)
}

func TestSMA_NullInputPoisonsWindow(t *testing.T) {
	col := SMA([]float64{1, 2, math.NaN(), 4, 5, 6, 7}, 2)
	assert.True(t, col[1].Valid)
	assert.False(t, col[2].Valid)
	assert.False(t, col[3].Valid)
	for i := 4; i <= 6; i++ {
		require.Truef(t, col[i].Valid, "row %d window has no null", i)
		assert.InDelta(t, float64(i)+0.5, col[i].Float64, 1e-9)
	}
}

func TestIndicators_RecoverAfterNullClose(t *testing.T) {
	closes := modeltest.Linear(80, 10, 0.5)
	closes[5] = math.NaN()

	rsi := RSI(closes, 14)
	assert.False(t, rsi[5].Valid)
	assert.False(t, rsi[5+14].Valid)
	assert.True(t, rsi[6+14].Valid)
	assert.True(t, rsi[len(rsi)-1].Valid)

	_, sig, _ := MACD(closes, 12, 26, 9)
	assert.False(t, sig[6+33-1].Valid)
	assert.True(t, sig[6+33].Valid)

	upper, _, _ := Bollinger(closes, 20, 2.0)
	assert.False(t, upper[6+18].Valid)
	assert.True(t, upper[6+19].Valid)

	highs := make([]float64, len(closes))
	lows := make([]float64, len(closes))
	for i, c := range closes {
		highs[i], lows[i] = c+1, c-1
	}
	atr := ATR(highs, lows, closes, ATRPeriod)
	assert.False(t, atr[5].Valid)
	assert.True(t, atr[6+ATRPeriod].Valid)
	assert.True(t, atr[len(atr)-1].Valid)
}

func TestSMA_ShortInput(t *testing.T) {
	col := SMA([]float64{1, 2}, 5)
	assert.Len(t, col, 2)
	assert.False(t, col[0].Valid)
	assert.False(t, col[1].Valid)
}

func TestRSI_RisingSeriesIsHundred(t *testing.T) {
	col := RSI(modeltest.Linear(40, 10, 1), 14)
	last := col[len(col)-1]
	require.True(t, last.Valid)
	assert.InDelta(t, 100.0, last.Float64, 1e-9)
}

func TestBollinger_MiddleIsSMA(t *testing.T) {
	closes := []float64{10, 11, 12, 11, 10, 11, 12, 13, 12, 11, 10, 11, 12, 13, 14, 13, 12, 11, 12, 13, 14, 15}
	upper, middle, lower := Bollinger(closes, 20, 2.0)
	sma := SMA(closes, 20)

	for i := range closes {
		assert.Equal(t, sma[i].Valid, middle[i].Valid)
		if middle[i].Valid {
			assert.InDelta(t, sma[i].Float64, middle[i].Float64, 1e-9)
			assert.Greater(t, upper[i].Float64, middle[i].Float64)
			assert.Less(t, lower[i].Float64, middle[i].Float64)
		}
	}
}

func TestCompute_Deterministic(t *testing.T) {
	closes := make([]float64, 100)
	for i := range closes {
		closes[i] = 50 + 5*math.Sin(float64(i)/6)
	}
	s := modeltest.Series("AAA", closes...)

	a := Compute(s, defaultIndicators())
	b := Compute(s, defaultIndicators())
	assert.Equal(t, a.Columns, b.Columns)
}

func TestCompute_CustomPeriods(t *testing.T) {
	ind := defaultIndicators()
	ind.MAPeriods = []int{3, 7}
	s := modeltest.Series("AAA", modeltest.Linear(10, 1, 1)...)

	f := Compute(s, ind)
	require.True(t, f.Available)
	assert.NotNil(t, f.Column(model.MAColumn(3)))
	assert.Nil(t, f.Column(model.MAColumn(60)))
	// Ten rows cannot warm up MACD or ATR.
	assert.False(t, f.At(model.ColMACD, 0).Valid)
	assert.False(t, f.At(model.ColATR, 0).Valid)
}

func TestRoundAndClamp(t *testing.T) {
	assert.Equal(t, 1.24, Round(1.235, 2))
	assert.Equal(t, -1.24, Round(-1.235, 2))
	assert.Equal(t, 6.67, Round(20.0/3.0, 2))
	assert.True(t, math.IsNaN(Round(math.NaN(), 2)))

	assert.Equal(t, 10.0, Clamp(12.5, 0, 10))
	assert.Equal(t, 0.0, Clamp(-3, 0, 10))
	assert.Equal(t, 4.2, Clamp(4.2, 0, 10))
}
