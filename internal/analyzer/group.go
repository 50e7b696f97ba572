package analyzer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"StockPulse/internal/model"
	"StockPulse/internal/summary"
)

// DefaultGroupName names a group analysed without a name.
const DefaultGroupName = "Unnamed group"

// AnalyzeGroup builds the full group report. at labels the report.
func (a *Analyzer) AnalyzeGroup(ctx context.Context, name string, symbols []string, at time.Time) *model.GroupAnalysis {
	if name == "" {
		name = DefaultGroupName
	}
	signals := a.ScoreGroup(ctx, symbols)

	var quotes []model.Quote
	var ranks []model.FundamentalRank
	for _, sym := range symbols {
		q, err := a.src.FetchQuote(ctx, sym)
		if err != nil {
			a.log.Warn("fetch quote failed", zap.String("symbol", sym), zap.Error(err))
			continue
		}
		quotes = append(quotes, *q)
		ranks = append(ranks, model.FundamentalRank{
			Symbol: sym,
			Name:   q.Name,
			Score:  a.scorer.Fundamental(a.fundamentals(ctx, sym)),
		})
	}

	topN := a.cfg.Scan.TopN
	return &model.GroupAnalysis{
		Name:              name,
		StockCount:        len(symbols),
		GeneratedAt:       at,
		Overview:          summary.Overview(quotes, len(symbols)),
		Signals:           signals,
		TopPerformers:     summary.TopPerformers(quotes, topN),
		Laggards:          summary.Laggards(quotes, topN),
		FundamentalScores: summary.RankFundamentals(ranks),
		Categories:        summary.Categorize(&signals),
	}
}
