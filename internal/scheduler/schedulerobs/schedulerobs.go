package schedulerobs

import (
	"context"
	"time"

	"pickbot/internal/interfaces"
	"pickbot/internal/logger"
	"pickbot/internal/trace"
)

type observableScheduler struct {
	scheduler interfaces.Scheduler
}

var _ interfaces.Scheduler = (*observableScheduler)(nil)

func Wrap(s interfaces.Scheduler) interfaces.Scheduler {
	return &observableScheduler{
		scheduler: s,
	}
}

func (o *observableScheduler) Trigger(ctx context.Context, at time.Time) bool {
	ctx, span := trace.StartSpan(ctx, "scheduler.Trigger")
	defer span.End()

	start := time.Now()

	logger.DebugSkip(ctx, 1, "Trigger received",
		"at", at.Format(time.RFC3339),
	)

	published := o.scheduler.Trigger(ctx, at)

	logger.InfoSkip(ctx, 1, "Trigger handled",
		"at", at.Format(time.RFC3339),
		"published", published,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return published
}

func (o *observableScheduler) PublishNow(ctx context.Context, text string) error {
	ctx, span := trace.StartSpan(ctx, "scheduler.PublishNow")
	defer span.End()

	logger.InfoSkip(ctx, 1, "Manual publish requested",
		"length", len(text),
	)

	if err := o.scheduler.PublishNow(ctx, text); err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Manual publish failed", err)
		return err
	}
	return nil
}
