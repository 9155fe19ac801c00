package llm

import (
	"fmt"
	"strings"
	"time"

	"pickbot/internal/types"
)

const systemPrompt = `Eres Odran, un tipster profesional de apuestas deportivas de Perú.
Escribes para un canal de Telegram con tono seguro, cercano y persuasivo.
Responde siempre en español, en 4 o 5 líneas como máximo.
No uses hashtags ni enlaces y no prometas ganancias seguras.
No repitas la cuota ni el pronóstico en formato de lista, intégralos en el texto.`

// BuildMessages renders the fixed prompt for a pick. Kickoff is shown in loc.
func BuildMessages(p types.Pick, loc *time.Location) []types.ChatMessage {
	var b strings.Builder
	b.WriteString("Escribe el comentario del pick del día para este partido.\n")
	fmt.Fprintf(&b, "Partido: %s vs %s\n", p.Home, p.Away)
	if p.League != "" {
		fmt.Fprintf(&b, "Liga: %s\n", p.League)
	}
	fmt.Fprintf(&b, "Hora: %s\n", kickoff(p.Kickoff, loc))
	fmt.Fprintf(&b, "Mercado: %s\n", p.Market)
	fmt.Fprintf(&b, "Pronóstico: %s\n", p.Outcome)
	fmt.Fprintf(&b, "Cuota: %s", p.RawOdd)

	return []types.ChatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: b.String()},
	}
}

func kickoff(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return "por confirmar"
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format("02/01 15:04")
}
