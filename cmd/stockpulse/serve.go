package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"StockPulse/internal/notifier"
	"StockPulse/internal/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run scheduled reports and answer Telegram commands",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	log := a.log

	if err := a.cfg.ValidateNotifier(); err != nil {
		return err
	}
	log.Info("stockpulse starting", zap.String("provider", a.cfg.DataSource.Provider))

	// Cancelled on SIGINT or SIGTERM
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	tn, err := notifier.NewTelegramNotifier(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID, a.cfg.Proxy, log)
	if err != nil {
		return err
	}

	wl := scheduler.Watchlist{Name: a.cfg.Watchlist.Name}
	if syms, err := a.symbols(nil); err == nil {
		wl.Symbols = syms
	} else {
		log.Warn("no watchlist, group task disabled", zap.Error(err))
	}

	// A nil *news.Analyzer must stay a nil interface.
	var nr scheduler.NewsReader
	if a.news != nil {
		nr = a.news
	}

	sched := scheduler.NewScheduler(ctx, a.analyzer, nr, tn, wl, log)
	if err := sched.RegisterAll(a.cfg.Schedule.GroupCron, a.cfg.Schedule.MarketCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Info("telegram polling started")

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info("RUN_ON_START enabled, executing group task now")
		go sched.RunGroupNow()
	}

	log.Info("stockpulse is running, press Ctrl+C to stop")

	<-ctx.Done()
	log.Info("shutdown signal received, stopping")
	return nil
}
