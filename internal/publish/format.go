package publish

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"pickbot/internal/types"
)

// DefaultFormat is legacy Markdown with link previews on.
func DefaultFormat() types.Format {
	return types.Format{ParseMode: tgbotapi.ModeMarkdown}
}

// Escape makes free text safe for legacy Markdown.
func Escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

// PickPost renders the daily channel post. commentary may be empty.
func PickPost(p types.Pick, commentary string, loc *time.Location) string {
	var b strings.Builder
	b.WriteString("📌 *Pick del día*\n\n")
	fmt.Fprintf(&b, "⚽ %s vs %s\n", Escape(p.Home), Escape(p.Away))
	if p.League != "" {
		fmt.Fprintf(&b, "🏆 %s\n", Escape(p.League))
	}
	if !p.Kickoff.IsZero() {
		k := p.Kickoff
		if loc != nil {
			k = k.In(loc)
		}
		fmt.Fprintf(&b, "🕒 %s\n", k.Format("02/01 15:04"))
	}
	fmt.Fprintf(&b, "🎯 Pronóstico: *%s* @ cuota %s", Escape(p.Outcome), Escape(p.RawOdd))

	if c := strings.TrimSpace(commentary); c != "" {
		b.WriteString("\n\n")
		b.WriteString(Escape(c))
	}
	return b.String()
}

// PickReply is the short answer to /mejorpartido.
func PickReply(p types.Pick) string {
	return fmt.Sprintf("📌 Partido sugerido: %s vs %s\n🎯 Pronóstico: *%s* @ cuota %s",
		Escape(p.Home), Escape(p.Away), Escape(p.Outcome), Escape(p.RawOdd))
}
