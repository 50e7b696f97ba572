package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"StockPulse/internal/analyzer"
	"StockPulse/internal/model"
	"StockPulse/internal/notifier"
)

const sendRetries = 3

// Sender delivers a formatted report.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// NewsReader reads the headline tone of a symbol.
type NewsReader interface {
	Sentiment(ctx context.Context, symbol string) (*model.NewsSentiment, error)
}

// Watchlist is the group pushed by the scheduled group task.
type Watchlist struct {
	Name    string
	Symbols []string
}

// Scheduler manages all cron tasks and answers bot commands.
type Scheduler struct {
	cron      *cron.Cron
	analyzer  *analyzer.Analyzer
	news      NewsReader
	notifier  Sender
	watchlist Watchlist
	log       *zap.Logger
	ctx       context.Context
	now       func() time.Time

	// running guards against a slow task overlapping its next tick.
	running sync.Map
}

// NewScheduler creates a new Scheduler. news may be nil when no feed is
// configured.
func NewScheduler(ctx context.Context, an *analyzer.Analyzer, news NewsReader, sender Sender, wl Watchlist, log *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithSeconds()),
		analyzer:  an,
		news:      news,
		notifier:  sender,
		watchlist: wl,
		log:       log,
		ctx:       ctx,
		now:       time.Now,
	}
}

// RegisterAll registers the group and market tasks. An empty schedule skips
// its task.
func (s *Scheduler) RegisterAll(groupCron, marketCron string) error {
	if groupCron != "" {
		if _, err := s.cron.AddFunc(groupCron, s.groupTask); err != nil {
			return fmt.Errorf("register group task: %w", err)
		}
	}
	if marketCron != "" {
		if _, err := s.cron.AddFunc(marketCron, s.marketTask); err != nil {
			return fmt.Errorf("register market task: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started", zap.Int("tasks", len(s.cron.Entries())))
}

// Stop stops the cron scheduler and waits for running tasks.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

// RunGroupNow executes the group task immediately.
func (s *Scheduler) RunGroupNow() { s.groupTask() }

// RunMarketNow executes the market task immediately.
func (s *Scheduler) RunMarketNow() { s.marketTask() }

func (s *Scheduler) exclusive(name string, task func()) {
	if _, busy := s.running.LoadOrStore(name, true); busy {
		s.log.Warn("task still running, skipped", zap.String("task", name))
		return
	}
	defer s.running.Delete(name)
	task()
}

func (s *Scheduler) groupTask() {
	s.exclusive("group", func() {
		if len(s.watchlist.Symbols) == 0 {
			s.log.Warn("group task skipped: empty watchlist")
			return
		}
		s.log.Info("running group task", zap.String("group", s.watchlist.Name), zap.Int("symbols", len(s.watchlist.Symbols)))
		g := s.analyzer.AnalyzeGroup(s.ctx, s.watchlist.Name, s.watchlist.Symbols, s.now())
		s.trySend(notifier.FormatGroupReport(g))
	})
}

func (s *Scheduler) marketTask() {
	s.exclusive("market", func() {
		s.log.Info("running market task")
		m, err := s.analyzer.MarketSnapshot(s.ctx, s.now())
		if err != nil {
			s.log.Error("market snapshot failed", zap.Error(err))
			s.trySend(fmt.Sprintf("❌ Market snapshot failed: %s", notifier.Escape(err.Error())))
			return
		}
		s.trySend(notifier.FormatMarketSnapshot(m))
	})
}

// HandleCommand processes a bot command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command, args string) string {
	switch command {
	case "stock":
		symbol := strings.ToUpper(strings.TrimSpace(args))
		if symbol == "" {
			return "Usage: /stock SYMBOL"
		}
		sig, err := s.analyzer.ScoreStock(ctx, symbol)
		if err != nil {
			return fmt.Sprintf("❌ %s", notifier.Escape(err.Error()))
		}
		return notifier.FormatStockSignal(*sig)
	case "group":
		name, symbols := s.watchlist.Name, s.watchlist.Symbols
		if fields := strings.Fields(strings.ToUpper(args)); len(fields) > 0 {
			name, symbols = "", fields
		}
		if len(symbols) == 0 {
			return "No symbols: pass them as /group AAPL MSFT or configure a watchlist"
		}
		return notifier.FormatGroupReport(s.analyzer.AnalyzeGroup(ctx, name, symbols, s.now()))
	case "market":
		m, err := s.analyzer.MarketSnapshot(ctx, s.now())
		if err != nil {
			return fmt.Sprintf("❌ Market data unavailable: %s", notifier.Escape(err.Error()))
		}
		return notifier.FormatMarketSnapshot(m)
	case "news":
		symbol := strings.ToUpper(strings.TrimSpace(args))
		if symbol == "" {
			return "Usage: /news SYMBOL"
		}
		if s.news == nil {
			return "News feed is not configured"
		}
		n, err := s.news.Sentiment(ctx, symbol)
		if err != nil {
			return fmt.Sprintf("❌ No news for %s: %s", symbol, notifier.Escape(err.Error()))
		}
		return notifier.FormatNews(*n)
	default:
		return notifier.HelpText
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.notifier.SendWithRetry(s.ctx, text, sendRetries); err != nil {
		s.log.Error("send notification failed", zap.Error(err))
	}
}
