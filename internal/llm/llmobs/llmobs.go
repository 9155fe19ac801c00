package llmobs

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"pickbot/internal/interfaces"
	"pickbot/internal/logger"
	"pickbot/internal/trace"
	"pickbot/internal/types"
)

// observableCompleter wraps a Completer with observability (logging & tracing)
type observableCompleter struct {
	completer interfaces.Completer
	provider  string
	model     string
}

// Compile-time interface check
var _ interfaces.Completer = (*observableCompleter)(nil)

// Wrap wraps a completer with observability middleware
func Wrap(completer interfaces.Completer, provider, model string) interfaces.Completer {
	return &observableCompleter{
		completer: completer,
		provider:  provider,
		model:     model,
	}
}

// Complete requests a completion with observability
func (oc *observableCompleter) Complete(ctx context.Context, messages []types.ChatMessage) (string, error) {
	ctx, span := trace.StartSpan(ctx, "llm.Complete")
	defer span.End()

	trace.SetAttributes(ctx,
		attribute.String("llm.provider", oc.provider),
		attribute.String("llm.model", oc.model),
	)

	// Use DebugSkip(1) to report the actual caller, not this middleware wrapper
	logger.DebugSkip(ctx, 1, "Requesting completion",
		"provider", oc.provider,
		"model", oc.model,
		"messages", len(messages),
	)

	text, err := oc.completer.Complete(ctx, messages)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Completion request failed", err,
			"provider", oc.provider,
			"model", oc.model,
		)
		return "", err
	}

	logger.InfoSkip(ctx, 1, "Completion received",
		"provider", oc.provider,
		"model", oc.model,
		"length", len(text),
	)

	return text, nil
}
