package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
)

// TelegramSink fans trade fills (and nothing else — info/warn/error stay
// on the wrapped Sink only) to a Telegram chat, adapted from the
// teacher's bot/telegram.go trade-notification path onto the generic
// notify.Sink contract.
type TelegramSink struct {
	Sink
	api    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramSink wraps base and additionally posts trade fills to
// chatID via a bot authenticated with token.
func NewTelegramSink(base Sink, token string, chatID int64) (*TelegramSink, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("notify: telegram bot init: %w", err)
	}
	return &TelegramSink{Sink: base, api: api, chatID: chatID}, nil
}

func (t *TelegramSink) Trade(strategyName, symbol, direction string, price, volume decimal.Decimal) {
	t.Sink.Trade(strategyName, symbol, direction, price, volume)

	text := fmt.Sprintf("%s %s %s @ %s x %s", strategyName, direction, symbol, price.StringFixed(4), volume.StringFixed(4))
	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.api.Send(msg); err != nil {
		t.Sink.Warn("notify: telegram send failed: " + err.Error())
	}
}
