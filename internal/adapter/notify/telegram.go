package notify

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"sync"
	"time"

	"offerwall-rewards/internal/core/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// Sender is the subset of *tgbotapi.BotAPI used for notifications.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram posts new withdrawal requests to an admin chat. Messages are sent
// in the background so a slow Bot API never holds up the caller.
type Telegram struct {
	bot     Sender
	chatID  int64
	log     zerolog.Logger
	pending sync.WaitGroup
}

// NewTelegramBot connects to the Bot API with token. Every Bot API call,
// including the initial getMe, is bounded by timeout.
func NewTelegramBot(token string, timeout time.Duration) (*tgbotapi.BotAPI, error) {
	client := &http.Client{Timeout: timeout}
	bot, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return bot, nil
}

func NewTelegram(bot Sender, chatID int64, log zerolog.Logger) *Telegram {
	return &Telegram{bot: bot, chatID: chatID, log: log}
}

func (t *Telegram) NotifyWithdrawal(_ context.Context, w *domain.Withdrawal) error {
	msg := tgbotapi.NewMessage(t.chatID, formatWithdrawal(w))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	t.pending.Add(1)
	go func() {
		defer t.pending.Done()
		t.send(msg, w.ID.String())
	}()
	return nil
}

// Wait blocks until queued messages are sent or ctx ends.
func (t *Telegram) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		t.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *Telegram) send(msg tgbotapi.MessageConfig, withdrawalID string) {
	sent, err := t.bot.Send(msg)
	if err != nil {
		t.log.Warn().Err(err).Str("withdrawal_id", withdrawalID).Msg("telegram notification failed")
		return
	}
	t.log.Debug().
		Str("withdrawal_id", withdrawalID).
		Int("message_id", sent.MessageID).
		Msg("telegram notification sent")
}

func formatWithdrawal(w *domain.Withdrawal) string {
	return fmt.Sprintf(
		"<b>New withdrawal request</b>\nID: <code>%s</code>\nUser: <code>%s</code>\nAmount: %d points\nCoin: %s\nAddress: <code>%s</code>",
		w.ID, w.UserID, w.Amount, html.EscapeString(w.Coin), html.EscapeString(w.Address),
	)
}
