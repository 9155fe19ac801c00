package noop

import (
	"context"

	"pickbot/internal/interfaces"
	"pickbot/internal/logger"
	"pickbot/internal/types"
)

// Commentary is the fixed text used when no LLM is configured.
const Commentary = "Partido con cuota de valor para hoy. Analizamos la forma de ambos equipos y este es nuestro pick. ¡Vamos con todo! 💪"

// NoopGenerator is the CommentaryGenerator used when llm.provider is NONE.
type NoopGenerator struct{}

var _ interfaces.CommentaryGenerator = (*NoopGenerator)(nil)

func NewNoopGenerator() *NoopGenerator {
	return &NoopGenerator{}
}

// GenerateCommentary always succeeds with the fixed text.
func (g *NoopGenerator) GenerateCommentary(ctx context.Context, pick types.Pick) (string, bool) {
	logger.Debug(ctx, "Noop generator called - using fixed commentary", "fixture_id", pick.FixtureID)
	return Commentary, true
}
