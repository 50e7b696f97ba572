package notifier

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/guregu/null/v6"

	"StockPulse/internal/model"
)

// HelpText lists the bot commands.
const HelpText = "Available commands:\n" +
	"• /stock SYMBOL - score a single stock\n" +
	"• /group [SYMBOL ...] - analyse the watchlist or the given symbols\n" +
	"• /market - market overview and sentiment\n" +
	"• /news SYMBOL - latest headlines and tone\n" +
	"• /help - this message"

const listLimit = 5

// Escape escapes text for an HTML message.
func Escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeHTML, s)
}

func num(v null.Float) string {
	if !v.Valid {
		return "-"
	}
	return fmt.Sprintf("%.2f", v.Float64)
}

func signedPct(v null.Float) string {
	if !v.Valid {
		return "-"
	}
	return fmt.Sprintf("%+.2f%%", v.Float64)
}

func recIcon(r model.Recommendation) string {
	switch r {
	case model.Buy:
		return "✅"
	case model.Sell:
		return "❌"
	}
	return "⚠️"
}

// FormatStockSignal formats a single stock signal.
func FormatStockSignal(s model.StockSignal) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s <b>%s</b> (%s)\n\n", recIcon(s.Recommendation), Escape(s.Name), Escape(s.Symbol)))
	b.WriteString(fmt.Sprintf("Price: %s (%s)\n", num(s.Price), signedPct(s.ChangePct)))
	b.WriteString(fmt.Sprintf("Score: <b>%g/10</b> | %s | risk %s\n", s.Score, s.Recommendation, s.Risk))
	b.WriteString(fmt.Sprintf("Entry: %s | Target: %s | Stop: %s\n", s.EntryZone, s.TargetZone, num(s.StopLoss)))
	b.WriteString(fmt.Sprintf("<i>%s</i>\n", Escape(s.Rationale)))

	if len(s.Patterns) > 0 {
		b.WriteString("\n📈 <b>Patterns:</b>\n")
		for _, e := range s.Patterns {
			b.WriteString(fmt.Sprintf("  %s (%+d)\n", Escape(e.Label), e.Strength))
		}
	}
	return b.String()
}

// FormatGroupReport formats a watchlist group analysis.
func FormatGroupReport(g *model.GroupAnalysis) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>%s</b> | %s\n\n", Escape(g.Name), g.GeneratedAt.Format("2006-01-02 15:04")))
	ov := g.Overview
	b.WriteString(fmt.Sprintf("Stocks: %d | ▲ %d ▼ %d | avg %+.2f%%\n", g.StockCount, ov.UpCount, ov.DownCount, ov.AvgChange))
	b.WriteString(fmt.Sprintf("<b>%s</b>\n", Escape(g.Signals.Summary)))

	writeSignalList(&b, "✅ <b>Worth watching</b>", g.Signals.Buy)
	writeSignalList(&b, "❌ <b>Avoid</b>", g.Signals.Sell)
	if n := len(g.Signals.Hold); n > 0 {
		b.WriteString(fmt.Sprintf("\n⚠️ Hold: %d stocks\n", n))
	}

	if len(g.TopPerformers) > 0 {
		b.WriteString("\n🚀 <b>Leaders:</b> ")
		b.WriteString(performers(g.TopPerformers))
		b.WriteString("\n")
	}
	if len(g.Laggards) > 0 {
		b.WriteString("🐢 <b>Laggards:</b> ")
		b.WriteString(performers(g.Laggards))
		b.WriteString("\n")
	}

	var cats []string
	for _, c := range []string{model.CategoryGoldenCross, model.CategoryOversold, model.CategoryBreakout, model.CategoryDeathCross, model.CategoryOverbought} {
		if n := len(g.Categories[c]); n > 0 {
			cats = append(cats, fmt.Sprintf("%s %d", strings.ReplaceAll(c, "_", " "), n))
		}
	}
	if len(cats) > 0 {
		b.WriteString(fmt.Sprintf("\n🔎 %s\n", strings.Join(cats, " | ")))
	}
	return b.String()
}

func writeSignalList(b *strings.Builder, title string, signals []model.StockSignal) {
	if len(signals) == 0 {
		return
	}
	b.WriteString(fmt.Sprintf("\n%s (%d):\n", title, len(signals)))
	for i, s := range signals {
		if i == listLimit {
			b.WriteString(fmt.Sprintf("  ... and %d more\n", len(signals)-listLimit))
			break
		}
		b.WriteString(fmt.Sprintf("  %s %s %s (%s) %g/10\n", Escape(s.Symbol), Escape(s.Name), num(s.Price), signedPct(s.ChangePct), s.Score))
	}
}

func performers(rows []model.Performer) string {
	parts := make([]string, len(rows))
	for i, p := range rows {
		parts[i] = fmt.Sprintf("%s %+.2f%%", Escape(p.Symbol), p.ChangePct)
	}
	return strings.Join(parts, ", ")
}

// FormatMarketSnapshot formats the market overview.
func FormatMarketSnapshot(m *model.MarketSnapshot) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("🌐 <b>Market overview</b> | %s\n\n", m.Timestamp.Format("2006-01-02 15:04")))
	for _, ix := range m.Indices {
		b.WriteString(fmt.Sprintf("%s: %s (%s)\n", Escape(ix.Name), num(ix.Price), signedPct(ix.ChangePct)))
	}

	st := m.Stats
	b.WriteString(fmt.Sprintf("\n▲ %d ▼ %d ▬ %d | breadth %.2f %s\n", st.UpCount, st.DownCount, st.FlatCount, m.BreadthRatio, m.BreadthStatus))
	b.WriteString(fmt.Sprintf("Limit up %d / down %d | %s\n", st.LimitUpCount, st.LimitDownCount, m.LimitStatus))
	b.WriteString(fmt.Sprintf("\n🌡 <b>Sentiment:</b> %s (%.2f/5)\n", m.Sentiment.Status, m.Sentiment.Overall))

	if len(m.HotSectors) > 0 {
		b.WriteString("\n🔥 <b>Hot sectors</b>\n")
		for _, sec := range m.HotSectors {
			b.WriteString(fmt.Sprintf("%d. %s %s\n", sec.Rank, Escape(sec.Name), signedPct(sec.ChangePct)))
		}
	}
	return b.String()
}

// FormatNews formats a symbol's headline tone and latest headlines.
func FormatNews(n model.NewsSentiment) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📰 <b>%s news</b> | tone %s (+%d / -%d of %d)\n\n", Escape(n.Symbol), n.Tone, n.PositiveCount, n.NegativeCount, n.Total))
	for i, item := range n.Latest {
		if i == listLimit {
			break
		}
		b.WriteString(fmt.Sprintf("• <a href=\"%s\">%s</a>\n", Escape(item.Link), Escape(item.Title)))
	}
	return b.String()
}
