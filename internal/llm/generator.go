package llm

import (
	"context"
	"strings"
	"time"

	"pickbot/internal/interfaces"
	"pickbot/internal/logger"
	"pickbot/internal/metrics"
	"pickbot/internal/types"
)

// Generator turns a pick into tipster commentary with one completion call.
type Generator struct {
	completer interfaces.Completer
	provider  string
	loc       *time.Location
}

var _ interfaces.CommentaryGenerator = (*Generator)(nil)

func NewGenerator(completer interfaces.Completer, provider string, loc *time.Location) *Generator {
	return &Generator{completer: completer, provider: provider, loc: loc}
}

// GenerateCommentary returns the trimmed completion text. Any failure,
// including an empty choice list, yields ok=false.
func (g *Generator) GenerateCommentary(ctx context.Context, pick types.Pick) (string, bool) {
	text, err := g.completer.Complete(ctx, BuildMessages(pick, g.loc))
	if err != nil {
		metrics.RecordCommentary(g.provider, metrics.ResultError)
		logger.ErrorWithErr(ctx, "Commentary generation failed", err,
			"provider", g.provider,
			"fixture_id", pick.FixtureID,
		)
		return "", false
	}

	text = strings.TrimSpace(text)
	if text == "" {
		metrics.RecordCommentary(g.provider, metrics.ResultEmpty)
		logger.Warn(ctx, "Commentary was blank", "provider", g.provider, "fixture_id", pick.FixtureID)
		return "", false
	}

	metrics.RecordCommentary(g.provider, metrics.ResultOK)
	return text, true
}
