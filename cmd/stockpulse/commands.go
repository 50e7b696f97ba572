package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"StockPulse/internal/model"
	"StockPulse/internal/report"
)

// render writes md to the output, or calls writeCSV when --format is csv.
// A nil writeCSV means the report has no CSV form.
func render(cmd *cobra.Command, md func() string, writeCSV func(io.Writer) error) error {
	w, closeOut, err := output(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	switch format {
	case "md", "markdown":
		_, err = io.WriteString(w, md())
	case "csv":
		if writeCSV == nil {
			err = fmt.Errorf("%s has no csv output", cmd.Name())
		} else {
			err = writeCSV(w)
		}
	default:
		err = fmt.Errorf("unknown format %q", format)
	}
	if cerr := closeOut(); err == nil {
		err = cerr
	}
	return err
}

var stockCmd = &cobra.Command{
	Use:   "stock SYMBOL",
	Short: "Score a single stock and print its signal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		sig, err := a.analyzer.ScoreStock(cmd.Context(), strings.ToUpper(args[0]))
		if err != nil {
			return err
		}
		return render(cmd, func() string { return report.StockMarkdown(*sig) }, nil)
	},
}

var scoreCmd = &cobra.Command{
	Use:   "score SYMBOL",
	Short: "Print the composite technical and fundamental score of a stock",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		upper := make([]string, len(peers))
		for i, p := range peers {
			upper[i] = strings.ToUpper(p)
		}
		c := a.analyzer.Evaluate(cmd.Context(), strings.ToUpper(args[0]), upper...)
		return render(cmd, func() string { return report.CompositeMarkdown(c) }, nil)
	},
}

var groupCmd = &cobra.Command{
	Use:   "group [SYMBOL...]",
	Short: "Analyse a group of stocks (arguments, --file or the watchlist)",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		syms, err := a.symbols(args)
		if err != nil {
			return err
		}
		name := groupName
		if name == "" && len(args) == 0 && symbolFile == "" {
			name = a.cfg.Watchlist.Name
		}
		g := a.analyzer.AnalyzeGroup(cmd.Context(), name, syms, time.Now())
		return render(cmd,
			func() string { return report.GroupMarkdown(g) },
			func(w io.Writer) error { return report.WriteGroupCSV(w, g) })
	},
}

var marketCmd = &cobra.Command{
	Use:   "market",
	Short: "Print the market overview and sentiment",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		m, err := a.analyzer.MarketSnapshot(cmd.Context(), time.Now())
		if err != nil {
			return err
		}
		return render(cmd,
			func() string { return report.MarketMarkdown(m) },
			func(w io.Writer) error { return report.WriteMarketCSV(w, m) })
	},
}

var scanTitles = map[string]string{
	"golden-cross": "Golden crosses",
	"oversold":     "Oversold",
	"breakout":     "Breakouts",
}

var scanCmd = &cobra.Command{
	Use:       "scan golden-cross|oversold|breakout [SYMBOL...]",
	Short:     "Scan symbols for golden crosses, oversold RSI or breakouts",
	Args:      cobra.MinimumNArgs(1),
	ValidArgs: []string{"golden-cross", "oversold", "breakout"},
	RunE: func(cmd *cobra.Command, args []string) error {
		title, ok := scanTitles[args[0]]
		if !ok {
			return fmt.Errorf("unknown scanner %q", args[0])
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		syms, err := a.symbols(args[1:])
		if err != nil {
			return err
		}
		var hits []model.ScanHit
		switch args[0] {
		case "golden-cross":
			hits = a.analyzer.FindGoldenCross(cmd.Context(), syms)
		case "oversold":
			hits = a.analyzer.FindOversold(cmd.Context(), syms)
		case "breakout":
			hits = a.analyzer.FindBreakout(cmd.Context(), syms)
		}
		return render(cmd,
			func() string { return report.ScanMarkdown(title, hits) },
			func(w io.Writer) error { return report.WriteScanCSV(w, hits) })
	},
}

var newsCmd = &cobra.Command{
	Use:   "news [SYMBOL...]",
	Short: "Print the latest headlines and their tone",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if a.news == nil {
			return fmt.Errorf("news.feed_url is not configured")
		}
		syms, err := a.symbols(args)
		if err != nil {
			return err
		}
		if len(syms) == 1 {
			n, err := a.news.Sentiment(cmd.Context(), strings.ToUpper(syms[0]))
			if err != nil {
				return err
			}
			return render(cmd, func() string { return report.NewsMarkdown(*n) }, nil)
		}

		g := a.news.Group(cmd.Context(), syms, a.cfg.News.Limit)
		return render(cmd, func() string {
			var b strings.Builder
			for _, n := range g.BySymbol {
				b.WriteString(report.NewsMarkdown(n))
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "**Overall**: %s\n", g.Overall)
			return b.String()
		}, nil)
	},
}
