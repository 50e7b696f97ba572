package strategy

import (
	"fmt"
	"sort"

	"StockPulse/internal/model"
)

// Partition buckets signals by recommendation. Buy is ranked by score
// descending, sell ascending (worst first); hold keeps input order.
func (a *Aggregator) Partition(signals []model.StockSignal) model.GroupResult {
	var g model.GroupResult
	for _, s := range signals {
		switch s.Recommendation {
		case model.Buy:
			g.Buy = append(g.Buy, s)
		case model.Hold:
			g.Hold = append(g.Hold, s)
		default:
			g.Sell = append(g.Sell, s)
		}
	}
	sort.SliceStable(g.Buy, func(i, j int) bool { return g.Buy[i].Score > g.Buy[j].Score })
	sort.SliceStable(g.Sell, func(i, j int) bool { return g.Sell[i].Score < g.Sell[j].Score })
	g.Summary = a.Summary(len(g.Buy), len(g.Hold), len(g.Sell))
	return g
}

// Summary describes the group by the share of buy recommendations.
func (a *Aggregator) Summary(buy, hold, sell int) string {
	total := buy + hold + sell
	if total == 0 {
		return "No analysis results"
	}
	ratio := float64(buy) / float64(total) * 100
	switch {
	case ratio > a.cfg.BuyRatioMany:
		return fmt.Sprintf("Many opportunities: %d stocks worth watching", buy)
	case ratio > a.cfg.BuyRatioModerate:
		return fmt.Sprintf("Moderately bullish: %d stocks worth attention", buy)
	case ratio > a.cfg.BuyRatioMixed:
		return fmt.Sprintf("Mixed market: %d stocks show opportunities", buy)
	default:
		return "Weak market, trade with caution"
	}
}
