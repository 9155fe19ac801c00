package publish

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"pickbot/internal/interfaces"
	"pickbot/internal/logger"
	"pickbot/internal/metrics"
	"pickbot/internal/types"
)

// Sender is the part of *tgbotapi.BotAPI the bot uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramPublisher posts messages through the Telegram Bot API.
type TelegramPublisher struct {
	sender Sender
}

var _ interfaces.Publisher = (*TelegramPublisher)(nil)

func NewTelegramPublisher(sender Sender) *TelegramPublisher {
	return &TelegramPublisher{sender: sender}
}

// Publish sends one message. channelID is a numeric chat id or an
// @username.
func (p *TelegramPublisher) Publish(ctx context.Context, channelID, text string, format types.Format) error {
	msg, err := NewMessage(channelID, text)
	if err != nil {
		metrics.RecordPublish(metrics.ResultError)
		return err
	}
	msg.ParseMode = format.ParseMode
	msg.DisableWebPagePreview = format.DisableWebPagePreview

	if _, err := p.sender.Send(msg); err != nil {
		metrics.RecordPublish(metrics.ResultError)
		return fmt.Errorf("%w: telegram send to %s: %v", types.ErrTransport, channelID, err)
	}

	metrics.RecordPublish(metrics.ResultOK)
	logger.Publish(ctx, channelID, len(text))
	return nil
}

// NewMessage builds a message for a chat id or @channel destination.
func NewMessage(channelID, text string) (tgbotapi.MessageConfig, error) {
	dest := strings.TrimSpace(channelID)
	if dest == "" {
		return tgbotapi.MessageConfig{}, fmt.Errorf("empty destination")
	}
	if strings.HasPrefix(dest, "@") {
		return tgbotapi.NewMessageToChannel(dest, text), nil
	}
	id, err := strconv.ParseInt(dest, 10, 64)
	if err != nil {
		return tgbotapi.MessageConfig{}, fmt.Errorf("destination %q is neither a chat id nor an @username", channelID)
	}
	return tgbotapi.NewMessage(id, text), nil
}
