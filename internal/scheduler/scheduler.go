package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"pickbot/internal/interfaces"
	"pickbot/internal/logger"
	"pickbot/internal/metrics"
	"pickbot/internal/picklog"
	"pickbot/internal/publish"
	"pickbot/internal/trace"
	"pickbot/internal/types"
)

// Pipeline outcomes recorded per run.
const (
	OutcomePublished     = "published"
	OutcomeNoPick        = "no_pick"
	OutcomeNoText        = "no_text"
	OutcomePublishFailed = "publish_failed"
)

type scheduler struct {
	channelID  string
	loc        *time.Location
	format     types.Format
	selector   interfaces.OddsSelector
	commentary interfaces.CommentaryGenerator
	publisher  interfaces.Publisher
	journal    *picklog.Journal
}

// Option configures the scheduler.
type Option func(*scheduler)

// WithJournal records every run outcome to j.
func WithJournal(j *picklog.Journal) Option {
	return func(s *scheduler) { s.journal = j }
}

func newScheduler(channelID string, loc *time.Location, sel interfaces.OddsSelector, gen interfaces.CommentaryGenerator, pub interfaces.Publisher, opts ...Option) *scheduler {
	if loc == nil {
		loc = time.UTC
	}
	s := &scheduler{
		channelID:  channelID,
		loc:        loc,
		format:     publish.DefaultFormat(),
		selector:   sel,
		commentary: gen,
		publisher:  pub,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Trigger runs select, comment and publish for the calendar day of at in
// the schedule zone. Each stage failing ends the run quietly.
func (s *scheduler) Trigger(ctx context.Context, at time.Time) bool {
	start := time.Now()
	runID := uuid.NewString()
	day := at.In(s.loc)

	trace.SetAttributes(ctx, attribute.String("run_id", runID))
	logger.Info(ctx, "Daily pipeline started", "run_id", runID, "date", day.Format("2006-01-02"))

	outcome, pick := s.run(ctx, runID, day)

	metrics.RecordPipelineRun(outcome, time.Since(start).Seconds())
	if s.journal != nil {
		if err := s.journal.Record(ctx, picklog.NewEntry(runID, outcome, pick)); err != nil {
			logger.Warn(ctx, "Failed to write journal entry", "run_id", runID, "error", err)
		}
	}
	logger.Info(ctx, "Daily pipeline finished",
		"run_id", runID,
		"outcome", outcome,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return outcome == OutcomePublished
}

func (s *scheduler) run(ctx context.Context, runID string, day time.Time) (string, types.Pick) {
	pick, ok := s.selector.SelectPick(ctx, day)
	if !ok {
		return OutcomeNoPick, types.Pick{}
	}

	text, ok := s.commentary.GenerateCommentary(ctx, pick)
	if !ok {
		return OutcomeNoText, pick
	}

	post := publish.PickPost(pick, text, s.loc)
	if err := s.publisher.Publish(ctx, s.channelID, post, s.format); err != nil {
		logger.ErrorWithErr(ctx, "Failed to publish pick", err, "run_id", runID, "channel_id", s.channelID)
		return OutcomePublishFailed, pick
	}
	return OutcomePublished, pick
}

// PublishNow sends operator text straight to the channel as plain text, so
// underscores and asterisks in links arrive as typed.
func (s *scheduler) PublishNow(ctx context.Context, text string) error {
	if err := s.publisher.Publish(ctx, s.channelID, text, types.Format{}); err != nil {
		logger.ErrorWithErr(ctx, "Manual publish failed", err, "channel_id", s.channelID)
		return err
	}
	return nil
}
