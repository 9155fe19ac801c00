package bot

import (
	"context"
	"errors"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"pickbot/internal/interfaces"
	"pickbot/internal/logger"
	"pickbot/internal/metrics"
	"pickbot/internal/publish"
	"pickbot/internal/types"
)

// Params are the collaborators a Bot routes commands to.
type Params struct {
	Sender              publish.Sender
	Gate                interfaces.AccessGate
	Selector            interfaces.OddsSelector
	Scheduler           interfaces.Scheduler
	Location            *time.Location
	PublishRequiresAuth bool
	Now                 func() time.Time
}

// Bot answers Telegram commands and drives scheduled runs. All handlers
// run on the goroutine that calls Run.
type Bot struct {
	sender              publish.Sender
	gate                interfaces.AccessGate
	selector            interfaces.OddsSelector
	scheduler           interfaces.Scheduler
	loc                 *time.Location
	publishRequiresAuth bool
	now                 func() time.Time
}

func New(p Params) *Bot {
	b := &Bot{
		sender:              p.Sender,
		gate:                p.Gate,
		selector:            p.Selector,
		scheduler:           p.Scheduler,
		loc:                 p.Location,
		publishRequiresAuth: p.PublishRequiresAuth,
		now:                 p.Now,
	}
	if b.loc == nil {
		b.loc = time.UTC
	}
	if b.now == nil {
		b.now = time.Now
	}
	return b
}

// Run handles updates and ticks one at a time until ctx is done or the
// update channel closes.
func (b *Bot) Run(ctx context.Context, updates <-chan tgbotapi.Update, ticks <-chan time.Time) {
	for {
		select {
		case <-ctx.Done():
			return
		case u, ok := <-updates:
			if !ok {
				logger.Warn(ctx, "Update channel closed")
				return
			}
			b.HandleUpdate(ctx, u)
		case at := <-ticks:
			b.scheduler.Trigger(ctx, at)
		}
	}
}

// HandleUpdate routes one inbound message. Unknown commands are ignored.
func (b *Bot) HandleUpdate(ctx context.Context, u tgbotapi.Update) {
	msg := u.Message
	if msg == nil {
		return
	}

	if !msg.IsCommand() {
		if strings.TrimSpace(msg.Text) != "" {
			b.reply(ctx, msg.Chat.ID, msgPromo)
		}
		return
	}

	command := strings.ToLower(msg.Command())
	userID := senderID(msg)
	logger.Debug(ctx, "Command received", "command", command, "user_id", userID, "chat_id", msg.Chat.ID)

	switch command {
	case "start", "help":
		metrics.RecordCommand(command)
		b.reply(ctx, msg.Chat.ID, msgHelp)
	case "clave":
		metrics.RecordCommand(command)
		b.handleSecret(ctx, msg, userID)
	case "mejorpartido":
		metrics.RecordCommand(command)
		if b.authorized(ctx, msg, userID) {
			b.handleBestMatch(ctx, msg)
		}
	case "forzar":
		metrics.RecordCommand(command)
		if b.authorized(ctx, msg, userID) {
			b.handleForce(ctx, msg)
		}
	case "publicar":
		metrics.RecordCommand(command)
		if !b.publishRequiresAuth || b.authorized(ctx, msg, userID) {
			b.handlePublish(ctx, msg)
		}
	}
}

func (b *Bot) handleSecret(ctx context.Context, msg *tgbotapi.Message, userID int64) {
	fields := strings.Fields(msg.CommandArguments())
	secret := ""
	if len(fields) > 0 {
		secret = fields[0]
	}
	if userID != 0 && b.gate.SubmitSecret(ctx, userID, secret) {
		b.reply(ctx, msg.Chat.ID, msgGranted)
		return
	}
	b.reply(ctx, msg.Chat.ID, msgDenied)
}

func (b *Bot) handleBestMatch(ctx context.Context, msg *tgbotapi.Message) {
	if _, err := b.sender.Send(tgbotapi.NewChatAction(msg.Chat.ID, tgbotapi.ChatTyping)); err != nil {
		logger.Warn(ctx, "Failed to send typing action", "chat_id", msg.Chat.ID, "error", err)
	}

	pick, err := b.selector.Select(ctx, b.now().In(b.loc))
	switch {
	case err == nil:
		logger.Pick(ctx, pick, "source", "command")
		b.replyFormatted(ctx, msg.Chat.ID, publish.PickReply(pick), publish.DefaultFormat())
	case errors.Is(err, types.ErrNoFixtures):
		b.reply(ctx, msg.Chat.ID, msgNoFixtures)
	case errors.Is(err, types.ErrNoCandidate):
		b.reply(ctx, msg.Chat.ID, msgNoCandidate)
	default:
		logger.ErrorWithErr(ctx, "Best match lookup failed", err)
		b.reply(ctx, msg.Chat.ID, msgSearchFailed)
	}
}

func (b *Bot) handleForce(ctx context.Context, msg *tgbotapi.Message) {
	b.reply(ctx, msg.Chat.ID, msgForcing)
	if b.scheduler.Trigger(ctx, b.now()) {
		b.reply(ctx, msg.Chat.ID, msgForced)
		return
	}
	b.reply(ctx, msg.Chat.ID, msgNotForced)
}

func (b *Bot) handlePublish(ctx context.Context, msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.CommandArguments())
	if text == "" {
		b.reply(ctx, msg.Chat.ID, msgPublishUsage)
		return
	}
	if err := b.scheduler.PublishNow(ctx, text); err != nil {
		b.reply(ctx, msg.Chat.ID, msgPublishFail)
		return
	}
	b.reply(ctx, msg.Chat.ID, msgPublished)
}

// authorized replies with the lock message when the sender lacks access.
func (b *Bot) authorized(ctx context.Context, msg *tgbotapi.Message, userID int64) bool {
	if userID != 0 && b.gate.IsAuthorized(ctx, userID) {
		return true
	}
	b.reply(ctx, msg.Chat.ID, msgLocked)
	return false
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	b.replyFormatted(ctx, chatID, text, types.Format{})
}

func (b *Bot) replyFormatted(ctx context.Context, chatID int64, text string, format types.Format) {
	m := tgbotapi.NewMessage(chatID, text)
	m.ParseMode = format.ParseMode
	m.DisableWebPagePreview = format.DisableWebPagePreview
	if _, err := b.sender.Send(m); err != nil {
		logger.ErrorWithErr(ctx, "Failed to send reply", err, "chat_id", chatID)
	}
}

func senderID(msg *tgbotapi.Message) int64 {
	if msg.From == nil {
		return 0
	}
	return msg.From.ID
}
