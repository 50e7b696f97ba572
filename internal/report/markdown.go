package report

import (
	"fmt"
	"strings"

	"StockPulse/internal/model"
)

const timeLayout = "2006-01-02 15:04:05"

// GroupMarkdown renders a group analysis as a Markdown report.
func GroupMarkdown(g *model.GroupAnalysis) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Watchlist report - %s\n\n", g.Name)
	fmt.Fprintf(&b, "**Group**: %s\n", g.Name)
	fmt.Fprintf(&b, "**Stocks**: %d\n", g.StockCount)
	fmt.Fprintf(&b, "**Generated**: %s\n\n", g.GeneratedAt.Format(timeLayout))

	b.WriteString("## Overview\n\n")
	b.WriteString("| Metric | Value |\n|------|------|\n")
	fmt.Fprintf(&b, "| Advancing | %d |\n", g.Overview.UpCount)
	fmt.Fprintf(&b, "| Declining | %d |\n", g.Overview.DownCount)
	fmt.Fprintf(&b, "| Average change | %.2f%% |\n", g.Overview.AvgChange)

	b.WriteString("\n## Signals\n")
	if len(g.Signals.Buy) > 0 {
		fmt.Fprintf(&b, "\n### Worth watching (%d)\n\n", len(g.Signals.Buy))
		b.WriteString("| Name | Symbol | Price | Change | Score | Risk |\n")
		b.WriteString("|------|------|------|------|------|------|\n")
		for _, s := range head(g.Signals.Buy, maxSignalRows) {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
				s.Name, s.Symbol, price(s.Price), pct(s.ChangePct), score(s.Score), riskLabel(s.Risk))
		}
	}
	writeActionTable(&b, "Hold with caution", g.Signals.Hold)
	writeActionTable(&b, "Avoid", g.Signals.Sell)
	fmt.Fprintf(&b, "\n**Summary**: %s\n", g.Signals.Summary)

	b.WriteString("\n## Technical scan\n")
	if list := g.Categories[model.CategoryGoldenCross]; len(list) > 0 {
		b.WriteString("\n### Golden crosses\n\n")
		for _, s := range head(list, maxCategoryRows) {
			fmt.Fprintf(&b, "- %s (%s): %s\n", s.Name, s.Symbol, eventLabels(s.Patterns, "cross"))
		}
	}
	if list := g.Categories[model.CategoryOversold]; len(list) > 0 {
		b.WriteString("\n### Oversold\n\n")
		for _, s := range head(list, maxCategoryRows) {
			fmt.Fprintf(&b, "- %s (%s): low RSI, watch for a rebound\n", s.Name, s.Symbol)
		}
	}
	if list := g.Categories[model.CategoryBreakout]; len(list) > 0 {
		b.WriteString("\n### Breakouts\n\n")
		for _, s := range head(list, maxCategoryRows) {
			fmt.Fprintf(&b, "- %s (%s): %s\n", s.Name, s.Symbol, eventLabels(s.Patterns, "breakout"))
		}
	}

	b.WriteString("\n## Performance\n")
	writePerformers(&b, "Leaders", g.TopPerformers)
	writePerformers(&b, "Laggards", g.Laggards)

	var quality []model.FundamentalRank
	for _, r := range g.FundamentalScores {
		if r.Score.Overall >= minQualityScore {
			quality = append(quality, r)
		}
	}
	if len(quality) > 0 {
		b.WriteString("\n## Fundamentals\n\n")
		fmt.Fprintf(&b, "### Quality names (score >= %g)\n\n", minQualityScore)
		b.WriteString("| Name | Symbol | Score |\n|------|------|------|\n")
		for _, r := range head(quality, maxSignalRows) {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", r.Name, r.Symbol, score(r.Score.Overall))
		}
	}
	return b.String()
}

func writeActionTable(b *strings.Builder, title string, signals []model.StockSignal) {
	if len(signals) == 0 {
		return
	}
	fmt.Fprintf(b, "\n### %s (%d)\n\n", title, len(signals))
	b.WriteString("| Name | Symbol | Price | Change | Action |\n")
	b.WriteString("|------|------|------|------|------|\n")
	for _, s := range head(signals, maxSignalRows) {
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s |\n",
			s.Name, s.Symbol, price(s.Price), pct(s.ChangePct), actionLabel(s.Recommendation))
	}
}

func writePerformers(b *strings.Builder, title string, rows []model.Performer) {
	if len(rows) == 0 {
		return
	}
	fmt.Fprintf(b, "\n### %s\n\n", title)
	b.WriteString("| Name | Symbol | Change |\n|------|------|------|\n")
	for _, p := range rows {
		fmt.Fprintf(b, "| %s | %s | %+.2f%% |\n", p.Name, p.Symbol, p.ChangePct)
	}
}

// StockMarkdown renders a single stock signal.
func StockMarkdown(s model.StockSignal) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s (%s)\n\n", s.Name, s.Symbol)
	b.WriteString("| Field | Value |\n|------|------|\n")
	fmt.Fprintf(&b, "| Price | %s |\n", price(s.Price))
	fmt.Fprintf(&b, "| Change | %s |\n", pct(s.ChangePct))
	fmt.Fprintf(&b, "| Score | %s |\n", score(s.Score))
	fmt.Fprintf(&b, "| Recommendation | %s |\n", s.Recommendation)
	fmt.Fprintf(&b, "| Risk | %s |\n", riskLabel(s.Risk))
	fmt.Fprintf(&b, "| Entry zone | %s |\n", s.EntryZone)
	fmt.Fprintf(&b, "| Target zone | %s |\n", s.TargetZone)
	fmt.Fprintf(&b, "| Stop loss | %s |\n", price(s.StopLoss))
	fmt.Fprintf(&b, "\n%s\n", s.Rationale)

	if len(s.Patterns) > 0 {
		b.WriteString("\n## Patterns\n\n")
		for _, e := range s.Patterns {
			fmt.Fprintf(&b, "- %s (%+d): %s\n", e.Label, e.Strength, e.Rationale)
		}
	}
	return b.String()
}

// MarketMarkdown renders a market snapshot.
func MarketMarkdown(m *model.MarketSnapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Market overview\n\n**Generated**: %s\n", m.Timestamp.Format(timeLayout))

	if len(m.Indices) > 0 {
		b.WriteString("\n## Indices\n\n")
		b.WriteString("| Index | Last | Change | Change % |\n|------|------|------|------|\n")
		for _, ix := range m.Indices {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", ix.Name, price(ix.Price), price(ix.Change), pct(ix.ChangePct))
		}
	}

	st := m.Stats
	b.WriteString("\n## Breadth\n\n")
	b.WriteString("| Metric | Value |\n|------|------|\n")
	fmt.Fprintf(&b, "| Advancing | %d |\n", st.UpCount)
	fmt.Fprintf(&b, "| Declining | %d |\n", st.DownCount)
	fmt.Fprintf(&b, "| Unchanged | %d |\n", st.FlatCount)
	fmt.Fprintf(&b, "| Breadth ratio | %.2f (%s) |\n", m.BreadthRatio, m.BreadthStatus)
	fmt.Fprintf(&b, "| Limit up / down | %d / %d (%s) |\n", st.LimitUpCount, st.LimitDownCount, m.LimitStatus)
	fmt.Fprintf(&b, "| Turnover | %.0f |\n", st.TotalTurnover)

	s := m.Sentiment
	b.WriteString("\n## Sentiment\n\n")
	fmt.Fprintf(&b, "**%s** (%.2f/5)\n\n", s.Status, s.Overall)
	b.WriteString("| Component | Ratio | Score |\n|------|------|------|\n")
	fmt.Fprintf(&b, "| Breadth | %.2f | %.2f |\n", s.BreadthRatio, s.BreadthScore)
	fmt.Fprintf(&b, "| Volume | %.2f | %.2f |\n", s.VolumeRatio, s.VolumeScore)
	fmt.Fprintf(&b, "| Limit up | %.4f | %.2f |\n", s.LimitUpRatio, s.LimitUpScore)

	if len(m.HotSectors) > 0 {
		fmt.Fprintf(&b, "\n## Hot sectors (top %d)\n\n", len(m.HotSectors))
		b.WriteString("| Rank | Sector | Change % | Net flow | Leaders |\n|------|------|------|------|------|\n")
		for _, sec := range m.HotSectors {
			fmt.Fprintf(&b, "| %d | %s | %s | %s | %s |\n",
				sec.Rank, sec.Name, pct(sec.ChangePct), flow(sec.FlowNet), leaders(sec.Leaders))
		}
	}
	if len(m.FlowRanking) > 0 {
		b.WriteString("\n## Fund flow\n\n")
		b.WriteString("| Sector | Net flow | Reading |\n|------|------|------|\n")
		for _, sec := range head(m.FlowRanking, maxCategoryRows) {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", sec.Name, flow(sec.FlowNet), sec.FlowComment)
		}
	}
	return b.String()
}

// ScanMarkdown renders scanner hits under a title.
func ScanMarkdown(title string, hits []model.ScanHit) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s (%d)\n\n", title, len(hits))
	if len(hits) == 0 {
		b.WriteString("No matches.\n")
		return b.String()
	}
	b.WriteString("| Name | Symbol | Price | Change | Signals |\n|------|------|------|------|------|\n")
	for _, h := range hits {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			h.Name, h.Symbol, price(h.Price), pct(h.ChangePct), eventLabels(h.Events, ""))
	}
	return b.String()
}

// NewsMarkdown renders a symbol's headline sentiment.
func NewsMarkdown(n model.NewsSentiment) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# News - %s\n\n", n.Symbol)
	fmt.Fprintf(&b, "**Tone**: %s (%d positive, %d negative of %d)\n\n", n.Tone, n.PositiveCount, n.NegativeCount, n.Total)
	for _, item := range n.Latest {
		fmt.Fprintf(&b, "- [%s](%s)", item.Title, item.Link)
		if !item.PublishedAt.IsZero() {
			fmt.Fprintf(&b, " _%s_", item.PublishedAt.Format("2006-01-02"))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// CompositeMarkdown renders a composite score with its components.
func CompositeMarkdown(c model.CompositeScore) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s composite score: %s\n\n", c.Symbol, score(c.Overall))
	b.WriteString("| Dimension | Score |\n|------|------|\n")
	fmt.Fprintf(&b, "| **Technical** | **%s** |\n", score(c.Technical.Overall))
	for _, dim := range []string{model.DimTrend, model.DimMomentum, model.DimVolume} {
		if v, ok := c.Technical.Components[dim]; ok {
			fmt.Fprintf(&b, "| %s | %s |\n", dim, score(v))
		}
	}
	fmt.Fprintf(&b, "| **Fundamental** | **%s** |\n", score(c.Fundamental.Overall))
	for _, dim := range []string{model.DimValuation, model.DimGrowth, model.DimQuality} {
		if v, ok := c.Fundamental.Components[dim]; ok {
			fmt.Fprintf(&b, "| %s | %s |\n", dim, score(v))
		}
	}

	if v := c.Valuation; v.Level != "" {
		fmt.Fprintf(&b, "\n**Valuation**: %s (%s)\n", v.Level, strings.Join(v.Reasons, "; "))
		if v.IndustryPE.Valid {
			fmt.Fprintf(&b, "\nPE %s vs industry %s over %d peers, percentile %.1f: %s\n",
				price(v.PE), price(v.IndustryPE), v.Peers, v.Percentile.Float64, v.Relative)
		}
	}
	return b.String()
}
