package interfaces

import (
	"context"

	"pickbot/internal/types"
)

// Completer sends one chat completion request to a language model.
type Completer interface {
	Complete(ctx context.Context, messages []types.ChatMessage) (string, error)
}

type CommentaryGenerator interface {
	GenerateCommentary(ctx context.Context, pick types.Pick) (string, bool)
}
