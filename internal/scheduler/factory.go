package scheduler

import (
	"time"

	"pickbot/internal/interfaces"
)

func New(channelID string, loc *time.Location, sel interfaces.OddsSelector, gen interfaces.CommentaryGenerator, pub interfaces.Publisher, opts ...Option) interfaces.Scheduler {
	return newScheduler(channelID, loc, sel, gen, pub, opts...)
}
