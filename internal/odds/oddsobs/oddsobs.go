package oddsobs

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"pickbot/internal/interfaces"
	"pickbot/internal/logger"
	"pickbot/internal/metrics"
	"pickbot/internal/trace"
	"pickbot/internal/types"
)

// observableSource wraps an OddsSource with observability (logging, tracing & metrics)
type observableSource struct {
	source interfaces.OddsSource
}

// Compile-time interface check
var _ interfaces.OddsSource = (*observableSource)(nil)

// Wrap wraps an odds source with observability middleware
func Wrap(source interfaces.OddsSource) interfaces.OddsSource {
	return &observableSource{
		source: source,
	}
}

// Fixtures lists fixtures with observability
func (o *observableSource) Fixtures(ctx context.Context, date time.Time, status string) ([]types.Fixture, error) {
	ctx, span := trace.StartSpan(ctx, "odds.Fixtures")
	defer span.End()

	day := date.Format("2006-01-02")
	logger.DebugSkip(ctx, 1, "Fetching fixtures", "date", day, "status", status)

	fixtures, err := o.source.Fixtures(ctx, date, status)
	if err != nil {
		metrics.RecordOddsRequest("fixtures", metrics.ResultError)
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch fixtures", err, "date", day)
		return nil, err
	}

	metrics.RecordOddsRequest("fixtures", metrics.ResultOK)
	trace.SetAttributes(ctx, attribute.Int("fixtures", len(fixtures)))
	logger.InfoSkip(ctx, 1, "Fixtures fetched", "date", day, "count", len(fixtures))
	return fixtures, nil
}

// Odds fetches a fixture's markets with observability
func (o *observableSource) Odds(ctx context.Context, fixtureID int64, bookmakerID int) ([]types.Market, error) {
	ctx, span := trace.StartSpan(ctx, "odds.Odds")
	defer span.End()

	trace.SetAttributes(ctx, attribute.Int64("fixture_id", fixtureID), attribute.Int("bookmaker_id", bookmakerID))
	logger.DebugSkip(ctx, 1, "Fetching odds", "fixture_id", fixtureID, "bookmaker_id", bookmakerID)

	markets, err := o.source.Odds(ctx, fixtureID, bookmakerID)
	if err != nil {
		metrics.RecordOddsRequest("odds", metrics.ResultError)
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch odds", err, "fixture_id", fixtureID)
		return nil, err
	}

	metrics.RecordOddsRequest("odds", metrics.ResultOK)
	logger.DebugSkip(ctx, 1, "Odds fetched", "fixture_id", fixtureID, "markets", len(markets))
	return markets, nil
}
