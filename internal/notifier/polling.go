package notifier

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// CommandHandler answers a bot command. Command has no leading slash and
// args is the rest of the message. An empty reply sends nothing.
type CommandHandler func(ctx context.Context, command, args string) string

// StartPolling long-polls for bot commands. Blocks until ctx is cancelled.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := t.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			t.bot.StopReceivingUpdates()
			t.log.Info("telegram polling stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			t.handleUpdate(ctx, update, handler)
		}
	}
}

func (t *TelegramNotifier) handleUpdate(ctx context.Context, update tgbotapi.Update, handler CommandHandler) {
	msg := update.Message
	if msg == nil || msg.Text == "" {
		return
	}

	command, args := msg.Command(), msg.CommandArguments()
	if !msg.IsCommand() {
		// Plain text is treated as a command word followed by arguments.
		fields := strings.Fields(msg.Text)
		if len(fields) == 0 {
			return
		}
		command, args = strings.TrimPrefix(fields[0], "/"), strings.Join(fields[1:], " ")
	}
	t.log.Info("received command", zap.String("command", command), zap.String("args", args))

	reply := handler(ctx, strings.ToLower(command), strings.TrimSpace(args))
	if reply == "" {
		return
	}
	if err := t.sendTo(msg.Chat.ID, reply); err != nil {
		t.log.Error("send reply failed", zap.Error(err))
	}
}
