package report

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockPulse/internal/model"
)

var at = time.Date(2024, 6, 28, 16, 30, 0, 0, time.UTC)

func signal(symbol string, rec model.Recommendation, score float64) model.StockSignal {
	return model.StockSignal{
		Symbol:         symbol,
		Name:           symbol + " Inc",
		Price:          null.FloatFrom(12.5),
		ChangePct:      null.FloatFrom(1.234),
		Score:          score,
		Recommendation: rec,
		Risk:           model.RiskMedium,
		Rationale:      "composite score 8/10, several bullish signals",
		EntryZone:      model.NewZone(11, 12.5),
		TargetZone:     model.NewZone(13, 13.75),
		StopLoss:       null.FloatFrom(10.67),
		Patterns: []model.PatternEvent{
			{Kind: model.KindGoldenCross, Label: "MA5 golden cross MA10", Strength: 8, Rationale: "short MA crossed above"},
		},
	}
}

func group() *model.GroupAnalysis {
	buy := signal("AAA", model.Buy, 8)
	return &model.GroupAnalysis{
		Name:        "Tech",
		StockCount:  3,
		GeneratedAt: at,
		Overview:    model.GroupOverview{UpCount: 2, DownCount: 1, AvgChange: 0.75, TotalCount: 3},
		Signals: model.GroupResult{
			Buy:     []model.StockSignal{buy},
			Hold:    []model.StockSignal{signal("BBB", model.Hold, 5)},
			Sell:    []model.StockSignal{{Symbol: "CCC", Name: "CCC Inc", Score: 2, Recommendation: model.Sell, Risk: model.RiskHigh}},
			Summary: "Many opportunities: 3 stocks worth watching",
		},
		TopPerformers: []model.Performer{{Symbol: "AAA", Name: "AAA Inc", ChangePct: 1.23}},
		Laggards:      []model.Performer{{Symbol: "CCC", Name: "CCC Inc", ChangePct: -2}},
		FundamentalScores: []model.FundamentalRank{
			{Symbol: "AAA", Name: "AAA Inc", Score: model.ScoreResult{Overall: 7.5}},
			{Symbol: "BBB", Name: "BBB Inc", Score: model.ScoreResult{Overall: 5}},
		},
		Categories: model.SignalCategories{model.CategoryGoldenCross: {buy}},
	}
}

func TestGroupMarkdown(t *testing.T) {
	md := GroupMarkdown(group())

	assert.Contains(t, md, "# Watchlist report - Tech")
	assert.Contains(t, md, "**Generated**: 2024-06-28 16:30:00")
	assert.Contains(t, md, "| Average change | 0.75% |")
	assert.Contains(t, md, "| AAA Inc | AAA | 12.50 | +1.23% | 8/10 | Medium |")
	assert.Contains(t, md, "| BBB Inc | BBB | 12.50 | +1.23% | Wait |")
	assert.Contains(t, md, "| CCC Inc | CCC | - | - | Avoid |")
	assert.Contains(t, md, "- AAA Inc (AAA): MA5 golden cross MA10")
	assert.Contains(t, md, "| CCC Inc | CCC | -2.00% |")
	assert.Contains(t, md, "| AAA Inc | AAA | 7.5/10 |")
	assert.NotContains(t, md, "| BBB Inc | BBB | 5/10 |")
	assert.NotContains(t, md, "### Oversold")
}

func TestStockMarkdown(t *testing.T) {
	md := StockMarkdown(signal("AAA", model.Buy, 8))
	assert.Contains(t, md, "| Entry zone | 11.00-12.50 |")
	assert.Contains(t, md, "| Stop loss | 10.67 |")
	assert.Contains(t, md, "- MA5 golden cross MA10 (+8): short MA crossed above")

	empty := StockMarkdown(model.StockSignal{Symbol: "ZZZ", Recommendation: model.Hold})
	assert.Contains(t, empty, "| Entry zone | - |")
	assert.Contains(t, empty, "| Stop loss | - |")
}

func TestMarketMarkdown(t *testing.T) {
	m := &model.MarketSnapshot{
		Timestamp:     at,
		Indices:       []model.IndexQuote{{Symbol: "^GSPC", Name: "S&P 500", Price: null.FloatFrom(5460.48), ChangePct: null.FloatFrom(-0.41)}},
		Stats:         model.MarketStats{TotalCount: 10, UpCount: 6, DownCount: 3, FlatCount: 1},
		BreadthRatio:  2,
		BreadthStatus: "Bullish",
		LimitStatus:   "Normal",
		Sentiment:     model.Sentiment{Overall: 3.4, Status: "Neutral", LimitUpRatio: 0.01},
	}
	md := MarketMarkdown(m)
	assert.Contains(t, md, "| S&P 500 | 5460.48 | - | -0.41% |")
	assert.Contains(t, md, "| Breadth ratio | 2.00 (Bullish) |")
	assert.Contains(t, md, "**Neutral** (3.40/5)")
	assert.Contains(t, md, "| Limit up | 0.0100 |")
	assert.NotContains(t, md, "Hot sectors")

	m.HotSectors = []model.Sector{{
		Rank: 1, Name: "Semiconductors", ChangePct: null.FloatFrom(4.2), FlowNet: null.FloatFrom(6.3e9),
		Leaders: []string{"NVDA", "AMD", "AVGO", "TSM"},
	}}
	m.FlowRanking = []model.Sector{
		{Rank: 1, Name: "Semiconductors", FlowNet: null.FloatFrom(6.3e9), FlowComment: "Sustained inflow"},
		{Rank: 2, Name: "Airlines", FlowNet: null.FloatFrom(-2.5e9), FlowComment: "Outflow"},
	}
	md = MarketMarkdown(m)
	assert.Contains(t, md, "## Hot sectors (top 1)")
	assert.Contains(t, md, "| 1 | Semiconductors | +4.20% | +6.30B | NVDA, AMD, AVGO |")
	assert.Contains(t, md, "| Airlines | -2.50B | Outflow |")
}

func TestScanMarkdown(t *testing.T) {
	assert.Contains(t, ScanMarkdown("Golden crosses", nil), "No matches.")

	md := ScanMarkdown("Oversold", []model.ScanHit{{
		Symbol: "AAA", Name: "AAA Inc", Price: null.FloatFrom(9),
		Events: []model.PatternEvent{{Kind: model.KindRSIOversold, Label: "RSI oversold (22)"}},
	}})
	assert.Contains(t, md, "# Oversold (1)")
	assert.Contains(t, md, "| AAA Inc | AAA | 9.00 | - | RSI oversold (22) |")
}

func TestNewsMarkdown(t *testing.T) {
	md := NewsMarkdown(model.NewsSentiment{
		Symbol: "AAA", Total: 1, PositiveCount: 1, Tone: model.TonePositive,
		Latest: []model.NewsItem{{Title: "AAA beats", Link: "https://example.com/a", PublishedAt: at}},
	})
	assert.Contains(t, md, "**Tone**: positive (1 positive, 0 negative of 1)")
	assert.Contains(t, md, "- [AAA beats](https://example.com/a) _2024-06-28_")
}

func TestCompositeMarkdown(t *testing.T) {
	md := CompositeMarkdown(model.CompositeScore{
		Symbol:      "AAA",
		Overall:     6.2,
		Technical:   model.ScoreResult{Overall: 7, Components: map[string]float64{model.DimTrend: 7.5}},
		Fundamental: model.ScoreResult{Overall: 5},
	})
	assert.Contains(t, md, "# AAA composite score: 6.2/10")
	assert.Contains(t, md, "| **Technical** | **7/10** |\n| trend | 7.5/10 |\n| **Fundamental** | **5/10** |\n")
	assert.NotContains(t, md, "momentum")
	assert.NotContains(t, md, "Valuation")

	md = CompositeMarkdown(model.CompositeScore{
		Symbol: "AAA",
		Valuation: model.Valuation{
			Level: model.Overvalued, PE: null.FloatFrom(60), IndustryPE: null.FloatFrom(30), Peers: 4,
			Percentile: null.FloatFrom(80), Relative: model.Overvalued,
			Reasons: []string{"PE 60.0 is high", "well above the industry average of 30.0"},
		},
	})
	assert.Contains(t, md, "**Valuation**: overvalued (PE 60.0 is high; well above the industry average of 30.0)")
	assert.Contains(t, md, "PE 60.00 vs industry 30.00 over 4 peers, percentile 80.0: overvalued")
}

func TestWriteGroupCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteGroupCSV(&buf, group()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, groupHeader, rows[0])
	assert.Equal(t, []string{"AAA", "AAA Inc", "12.50", "1.23", "8", "buy", "medium"}, rows[1])
	assert.Equal(t, "hold", rows[2][5])
	assert.Equal(t, []string{"CCC", "CCC Inc", "", "", "2", "sell", "high"}, rows[3])
}

func TestWriteScanCSV(t *testing.T) {
	var buf bytes.Buffer
	hits := []model.ScanHit{{
		Symbol: "AAA", Name: "AAA, Inc",
		Events: []model.PatternEvent{{Kind: model.KindGoldenCross}, {Kind: model.KindMACDGoldenCross}},
	}}
	require.NoError(t, WriteScanCSV(&buf, hits))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "AAA, Inc", rows[1][1])
	assert.Equal(t, "golden_cross;macd_golden_cross", rows[1][4])
}

func TestWriteMarketCSV(t *testing.T) {
	var buf bytes.Buffer
	m := &model.MarketSnapshot{
		Indices:   []model.IndexQuote{{Symbol: "^DJI", ChangePct: null.FloatFrom(0.5)}},
		Stats:     model.MarketStats{TotalCount: 4, UpCount: 3, DownCount: 1},
		Sentiment: model.Sentiment{Overall: 3.1, Level: model.Neutral},
	}
	require.NoError(t, WriteMarketCSV(&buf, m))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"^DJI_change_pct", "0.50"}, rows[1])
	assert.Contains(t, rows, []string{"up", "3"})
	assert.Contains(t, rows, []string{"sentiment_level", "neutral"})
	assert.NotContains(t, rows, []string{"hot_sector_1", "Banks"})

	buf.Reset()
	m.HotSectors = []model.Sector{{Rank: 1, Name: "Banks", ChangePct: null.FloatFrom(2.5)}}
	m.FlowRanking = []model.Sector{{Rank: 1, Name: "Banks", FlowNet: null.FloatFrom(1e9)}}
	require.NoError(t, WriteMarketCSV(&buf, m))
	rows, err = csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Contains(t, rows, []string{"hot_sector_1", "Banks"})
	assert.Contains(t, rows, []string{"hot_sector_1_change_pct", "2.50"})
	assert.Contains(t, rows, []string{"hot_sector_1_flow_net", ""})
	assert.Contains(t, rows, []string{"flow_1_net", "1000000000.00"})
}
