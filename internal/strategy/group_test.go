package strategy

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"StockPulse/internal/model"
)

func signal(symbol string, score float64, rec model.Recommendation) model.StockSignal {
	return model.StockSignal{Symbol: symbol, Score: score, Recommendation: rec}
}

func symbols(sigs []model.StockSignal) []string {
	out := make([]string, len(sigs))
	for i, s := range sigs {
		out[i] = s.Symbol
	}
	return out
}

func TestPartition_Ordering(t *testing.T) {
	g := newAggregator().Partition([]model.StockSignal{
		signal("B1", 7.5, model.Buy),
		signal("H1", 5, model.Hold),
		signal("S1", 2.5, model.Sell),
		signal("B2", 9, model.Buy),
		signal("H2", 6, model.Hold),
		signal("S2", 0.5, model.Sell),
		signal("B3", 7.5, model.Buy),
	})

	assert.Equal(t, []string{"B2", "B1", "B3"}, symbols(g.Buy))
	assert.Equal(t, []string{"H1", "H2"}, symbols(g.Hold))
	assert.Equal(t, []string{"S2", "S1"}, symbols(g.Sell))
	assert.Equal(t, 7, g.Total())
	assert.Equal(t, "Moderately bullish: 3 stocks worth attention", g.Summary)
}

func TestPartition_EveryStockInOneBucket(t *testing.T) {
	a := newAggregator()
	var in []model.StockSignal
	for i := 0; i < 25; i++ {
		score := a.Score(events(i%11 - 5))
		rec, _ := a.Recommend(score)
		in = append(in, signal(fmt.Sprintf("S%02d", i), score, rec))
	}
	g := a.Partition(in)

	assert.Equal(t, len(in), g.Total())
	seen := map[string]int{}
	for _, s := range g.All() {
		seen[s.Symbol]++
	}
	assert.Len(t, seen, len(in))
	for sym, n := range seen {
		assert.Equal(t, 1, n, sym)
	}
}

func TestSummary(t *testing.T) {
	a := newAggregator()
	tests := []struct {
		buy, hold, sell int
		want            string
	}{
		{0, 0, 0, "No analysis results"},
		{6, 4, 0, "Many opportunities: 6 stocks worth watching"},
		{5, 5, 0, "Moderately bullish: 5 stocks worth attention"},
		{2, 5, 3, "Mixed market: 2 stocks show opportunities"},
		{1, 5, 4, "Weak market, trade with caution"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, a.Summary(tt.buy, tt.hold, tt.sell))
	}
}
