package interfaces

import (
	"context"
	"time"
)

// TickSource delivers the daily trigger instants.
type TickSource interface {
	C() <-chan time.Time
	Start()
	Stop()
}

// Scheduler runs the daily pipeline.
type Scheduler interface {
	// Trigger runs selection, commentary and publishing for the day of at.
	// It returns true when a message was published.
	Trigger(ctx context.Context, at time.Time) bool

	// PublishNow sends text to the channel with no selection or generation
	PublishNow(ctx context.Context, text string) error
}
