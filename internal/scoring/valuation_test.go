package scoring

import (
	"testing"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockPulse/internal/model"
)

func fundPE(symbol string, pe float64) *model.Fundamentals {
	return &model.Fundamentals{Symbol: symbol, PE: null.FloatFrom(pe)}
}

func TestValuation_Level(t *testing.T) {
	tests := []struct {
		name   string
		fund   *model.Fundamentals
		level  model.ValuationLevel
		reason string
	}{
		{"cheap", fundPE("AAA", 9), model.Undervalued, "PE 9.0 is low"},
		{"fair", fundPE("AAA", 30), model.FairlyValued, "fairly valued"},
		{"dear", fundPE("AAA", 72.5), model.Overvalued, "PE 72.5 is high"},
		{"at the low cut", fundPE("AAA", 15), model.FairlyValued, "fairly valued"},
		{"no pe", &model.Fundamentals{Symbol: "AAA"}, model.FairlyValued, "fairly valued"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Valuation(tt.fund, nil)
			assert.Equal(t, tt.level, v.Level)
			assert.Equal(t, []string{tt.reason}, v.Reasons)
			assert.Empty(t, v.Relative)
			assert.False(t, v.IndustryPE.Valid)
		})
	}

	assert.Equal(t, model.Valuation{}, Valuation(nil, []*model.Fundamentals{fundPE("BBB", 10)}))
}

func TestValuation_AgainstPeers(t *testing.T) {
	peers := []*model.Fundamentals{
		fundPE("AAA", 1), // the stock itself
		fundPE("BBB", 20),
		fundPE("CCC", 30),
		fundPE("DDD", 40),
		fundPE("EEE", 250), // outlier
		fundPE("FFF", -3),  // loss-making
		{Symbol: "GGG"},
		nil,
	}

	cheap := Valuation(fundPE("AAA", 18), peers)
	require.True(t, cheap.IndustryPE.Valid)
	assert.Equal(t, 30.0, cheap.IndustryPE.Float64)
	assert.Equal(t, 3, cheap.Peers)
	assert.Equal(t, 0.0, cheap.Percentile.Float64)
	assert.Equal(t, model.Undervalued, cheap.Relative)
	assert.Equal(t, model.FairlyValued, cheap.Level)
	assert.Equal(t, []string{"below the industry average of 30.0"}, cheap.Reasons)

	dear := Valuation(fundPE("AAA", 48), peers)
	assert.Equal(t, model.Overvalued, dear.Relative)
	assert.Equal(t, 75.0, dear.Percentile.Float64)
	assert.Equal(t, []string{"well above the industry average of 30.0"}, dear.Reasons)

	inline := Valuation(fundPE("AAA", 31), peers)
	assert.Equal(t, model.FairlyValued, inline.Relative)
	assert.Equal(t, 50.0, inline.Percentile.Float64)
	assert.Equal(t, []string{"fairly valued"}, inline.Reasons)

	lonely := Valuation(fundPE("AAA", 31), []*model.Fundamentals{fundPE("EEE", 250)})
	assert.Zero(t, lonely.Peers)
	assert.False(t, lonely.Percentile.Valid)
}
