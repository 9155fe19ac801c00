package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"pickbot/internal/interfaces"
	"pickbot/internal/logger"
	"pickbot/internal/metrics"
)

// CronTicker delivers ticks on a standard five-field cron schedule. The
// channel holds one pending tick; later ticks are dropped until it is read.
type CronTicker struct {
	cron *cron.Cron
	loc  *time.Location
	ch   chan time.Time
}

var _ interfaces.TickSource = (*CronTicker)(nil)

func NewCronTicker(spec string, loc *time.Location) (*CronTicker, error) {
	if loc == nil {
		loc = time.UTC
	}
	t := &CronTicker{
		cron: cron.New(cron.WithLocation(loc)),
		loc:  loc,
		ch:   make(chan time.Time, 1),
	}
	if _, err := t.cron.AddFunc(spec, t.fire); err != nil {
		return nil, fmt.Errorf("schedule %q: %w", spec, err)
	}
	return t, nil
}

func (t *CronTicker) fire() {
	now := time.Now().In(t.loc)
	select {
	case t.ch <- now:
	default:
		metrics.RecordTickDropped()
		logger.Warn(context.Background(), "Schedule tick dropped, previous run still pending", "at", now.Format(time.RFC3339))
	}
}

func (t *CronTicker) C() <-chan time.Time {
	return t.ch
}

func (t *CronTicker) Start() {
	t.cron.Start()
}

// Stop halts the schedule and waits for a running fire to return.
func (t *CronTicker) Stop() {
	<-t.cron.Stop().Done()
}

// Next returns the next scheduled instant, or zero before Start.
func (t *CronTicker) Next() time.Time {
	entries := t.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}
