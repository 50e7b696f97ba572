package notifier

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"StockPulse/internal/model"
)

type sent struct {
	chatID string
	text   string
	mode   string
}

// fakeBotAPI answers getMe and sendMessage the way the Bot API does.
// The first failures sendMessage calls return an API error.
type fakeBotAPI struct {
	mu       sync.Mutex
	failures int
	messages []sent
}

func (f *fakeBotAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case strings.HasSuffix(r.URL.Path, "/getMe"):
		fmt.Fprint(w, `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"pulse","username":"pulse_bot"}}`)
	case strings.HasSuffix(r.URL.Path, "/sendMessage"):
		_ = r.ParseForm()
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.failures > 0 {
			f.failures--
			fmt.Fprint(w, `{"ok":false,"error_code":429,"description":"Too Many Requests"}`)
			return
		}
		f.messages = append(f.messages, sent{r.PostForm.Get("chat_id"), r.PostForm.Get("text"), r.PostForm.Get("parse_mode")})
		fmt.Fprint(w, `{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":42,"type":"private"}}}`)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeBotAPI) sent() []sent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sent(nil), f.messages...)
}

func newTestNotifier(t *testing.T, api *fakeBotAPI) *TelegramNotifier {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	tn, err := newTelegramNotifier("token", srv.URL+"/bot%s/%s", srv.Client(), 42, zap.NewNop())
	require.NoError(t, err)
	tn.backoff = time.Millisecond
	return tn
}

func TestSend(t *testing.T) {
	api := &fakeBotAPI{}
	tn := newTestNotifier(t, api)

	require.NoError(t, tn.Send("<b>hello</b>"))
	msgs := api.sent()
	require.Len(t, msgs, 1)
	assert.Equal(t, sent{"42", "<b>hello</b>", tgbotapi.ModeHTML}, msgs[0])
}

func TestSend_SplitsLongText(t *testing.T) {
	api := &fakeBotAPI{}
	tn := newTestNotifier(t, api)

	line := strings.Repeat("x", 99) + "\n"
	require.NoError(t, tn.Send(strings.Repeat(line, 100)))
	msgs := api.sent()
	require.Len(t, msgs, 3)
	assert.Len(t, msgs[0].text, MaxMessageLen)
}

func TestSendWithRetry(t *testing.T) {
	api := &fakeBotAPI{failures: 2}
	tn := newTestNotifier(t, api)

	require.NoError(t, tn.SendWithRetry(context.Background(), "report", 3))
	assert.Len(t, api.sent(), 1)
}

func TestSendWithRetry_Exhausted(t *testing.T) {
	api := &fakeBotAPI{failures: 10}
	tn := newTestNotifier(t, api)

	err := tn.SendWithRetry(context.Background(), "report", 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 3 retries exhausted")
	assert.Empty(t, api.sent())
}

func TestSendWithRetry_Cancelled(t *testing.T) {
	api := &fakeBotAPI{failures: 10}
	tn := newTestNotifier(t, api)
	tn.backoff = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, tn.SendWithRetry(ctx, "report", 3), context.Canceled)
}

func TestNewTelegramNotifier_BadToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ok":false,"error_code":401,"description":"Unauthorized"}`)
	}))
	defer srv.Close()

	_, err := newTelegramNotifier("bad", srv.URL+"/bot%s/%s", srv.Client(), 1, zap.NewNop())
	assert.Error(t, err)
}

func TestSplit(t *testing.T) {
	assert.Equal(t, []string{"short"}, Split("short", 10))
	assert.Equal(t, []string{"aaaa\n", "bbbb\n", "cc"}, Split("aaaa\nbbbb\ncc", 6))
	assert.Equal(t, []string{"abc", "def", "g"}, Split("abcdefg", 3))

	// Multi-byte runes are never cut in half.
	for _, chunk := range Split(strings.Repeat("é", 5), 3) {
		assert.Equal(t, "é", chunk)
	}
}

func TestHandleUpdate(t *testing.T) {
	api := &fakeBotAPI{}
	tn := newTestNotifier(t, api)

	var gotCmd, gotArgs string
	handler := func(_ context.Context, command, args string) string {
		gotCmd, gotArgs = command, args
		if command == "quiet" {
			return ""
		}
		return "ok " + command
	}

	cmd := tgbotapi.Update{Message: &tgbotapi.Message{
		Text:     "/Stock AAPL",
		Chat:     &tgbotapi.Chat{ID: 99},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 6}},
	}}
	tn.handleUpdate(context.Background(), cmd, handler)
	assert.Equal(t, "stock", gotCmd)
	assert.Equal(t, "AAPL", gotArgs)

	plain := tgbotapi.Update{Message: &tgbotapi.Message{Text: "market  ", Chat: &tgbotapi.Chat{ID: 99}}}
	tn.handleUpdate(context.Background(), plain, handler)
	assert.Equal(t, "market", gotCmd)
	assert.Equal(t, "", gotArgs)

	quiet := tgbotapi.Update{Message: &tgbotapi.Message{Text: "quiet", Chat: &tgbotapi.Chat{ID: 99}}}
	tn.handleUpdate(context.Background(), quiet, handler)
	tn.handleUpdate(context.Background(), tgbotapi.Update{}, handler)
	tn.handleUpdate(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{Text: "   ", Chat: &tgbotapi.Chat{ID: 99}}}, handler)

	msgs := api.sent()
	require.Len(t, msgs, 2)
	assert.Equal(t, sent{"99", "ok stock", tgbotapi.ModeHTML}, msgs[0])
	assert.Equal(t, "ok market", msgs[1].text)
}

func TestFormatStockSignal(t *testing.T) {
	s := model.StockSignal{
		Symbol:         "AT&T",
		Name:           "<Tele>",
		Price:          null.FloatFrom(17.5),
		ChangePct:      null.FloatFrom(-0.5),
		Score:          2.5,
		Recommendation: model.Sell,
		Risk:           model.RiskHigh,
		Rationale:      "composite score 2.5/10, bearish signals present",
		Patterns:       []model.PatternEvent{{Label: "MA5 death cross MA10", Strength: -8}},
	}
	out := FormatStockSignal(s)

	assert.True(t, strings.HasPrefix(out, "❌ <b>&lt;Tele&gt;</b> (AT&amp;T)"))
	assert.Contains(t, out, "Price: 17.50 (-0.50%)")
	assert.Contains(t, out, "Score: <b>2.5/10</b> | sell | risk high")
	assert.Contains(t, out, "Entry: - | Target: - | Stop: -")
	assert.Contains(t, out, "MA5 death cross MA10 (-8)")
}

func TestFormatGroupReport(t *testing.T) {
	buy := make([]model.StockSignal, 7)
	for i := range buy {
		buy[i] = model.StockSignal{Symbol: fmt.Sprintf("B%d", i), Name: "Buy", Score: 8, Recommendation: model.Buy}
	}
	g := &model.GroupAnalysis{
		Name:          "Tech",
		StockCount:    8,
		GeneratedAt:   time.Date(2024, 6, 28, 16, 30, 0, 0, time.UTC),
		Overview:      model.GroupOverview{UpCount: 5, DownCount: 3, AvgChange: 1.5},
		Signals:       model.GroupResult{Buy: buy, Hold: []model.StockSignal{{Symbol: "H"}}, Summary: "Many opportunities: 7 stocks worth watching"},
		TopPerformers: []model.Performer{{Symbol: "B0", ChangePct: 3}},
		Categories:    model.SignalCategories{model.CategoryGoldenCross: buy[:2], model.CategoryOversold: nil},
	}
	out := FormatGroupReport(g)

	assert.Contains(t, out, "📊 <b>Tech</b> | 2024-06-28 16:30")
	assert.Contains(t, out, "Stocks: 8 | ▲ 5 ▼ 3 | avg +1.50%")
	assert.Contains(t, out, "Worth watching</b> (7)")
	assert.Contains(t, out, "... and 2 more")
	assert.NotContains(t, out, "B5")
	assert.Contains(t, out, "⚠️ Hold: 1 stocks")
	assert.Contains(t, out, "B0 +3.00%")
	assert.Contains(t, out, "🔎 golden cross 2\n")
	assert.NotContains(t, out, "Avoid")
}

func TestFormatMarketSnapshot(t *testing.T) {
	m := &model.MarketSnapshot{
		Indices:       []model.IndexQuote{{Name: "S&P 500", Price: null.FloatFrom(5460.5), ChangePct: null.FloatFrom(0.25)}},
		Stats:         model.MarketStats{UpCount: 120, DownCount: 60, FlatCount: 20, LimitUpCount: 3},
		BreadthRatio:  2,
		BreadthStatus: "Bullish",
		LimitStatus:   "Active",
		Sentiment:     model.Sentiment{Overall: 4.1, Status: "Greed"},
	}
	out := FormatMarketSnapshot(m)
	assert.Contains(t, out, "S&amp;P 500: 5460.50 (+0.25%)")
	assert.Contains(t, out, "▲ 120 ▼ 60 ▬ 20 | breadth 2.00 Bullish")
	assert.Contains(t, out, "Sentiment:</b> Greed (4.10/5)")
	assert.NotContains(t, out, "Hot sectors")

	m.HotSectors = []model.Sector{{Rank: 1, Name: "Oil & Gas", ChangePct: null.FloatFrom(3.1)}}
	out = FormatMarketSnapshot(m)
	assert.Contains(t, out, "<b>Hot sectors</b>")
	assert.Contains(t, out, "1. Oil &amp; Gas +3.10%")
}

func TestFormatNews(t *testing.T) {
	n := model.NewsSentiment{
		Symbol: "AAA", Total: 1, PositiveCount: 1, Tone: model.TonePositive,
		Latest: []model.NewsItem{{Title: "Profits <surge>", Link: "https://example.com/a?x=1&y=2"}},
	}
	out := FormatNews(n)
	assert.Contains(t, out, "tone positive (+1 / -0 of 1)")
	assert.Contains(t, out, `<a href="https://example.com/a?x=1&amp;y=2">Profits &lt;surge&gt;</a>`)
}
