package odds

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"pickbot/internal/interfaces"
	"pickbot/internal/logger"
	"pickbot/internal/metrics"
	"pickbot/internal/types"
)

// Range is the closed acceptance interval for an odd. A zero High leaves
// the range unbounded above.
type Range struct {
	Low  decimal.Decimal
	High decimal.Decimal
}

// NewRange validates and builds a Range.
func NewRange(low, high decimal.Decimal) (Range, error) {
	if !low.IsPositive() {
		return Range{}, fmt.Errorf("range low must be positive, got %s", low)
	}
	if !high.IsZero() && high.LessThan(low) {
		return Range{}, fmt.Errorf("range high %s is below low %s", high, low)
	}
	return Range{Low: low, High: high}, nil
}

// Contains reports whether low <= odd <= high.
func (r Range) Contains(odd decimal.Decimal) bool {
	if odd.LessThan(r.Low) {
		return false
	}
	return r.High.IsZero() || !odd.GreaterThan(r.High)
}

func (r Range) String() string {
	if r.High.IsZero() {
		return fmt.Sprintf("[%s, +inf)", r.Low)
	}
	return fmt.Sprintf("[%s, %s]", r.Low, r.High)
}

// Selector walks the day's fixtures and returns the first outcome whose
// odd falls in range.
type Selector struct {
	source      interfaces.OddsSource
	bookmakerID int
	rng         Range
}

var _ interfaces.OddsSelector = (*Selector)(nil)

func NewSelector(source interfaces.OddsSource, bookmakerID int, rng Range) *Selector {
	return &Selector{source: source, bookmakerID: bookmakerID, rng: rng}
}

// Select scans fixtures in provider order and, for each, the first market
// of the bookmaker in listed order. The first in-range outcome wins. Any
// provider error aborts the scan.
func (s *Selector) Select(ctx context.Context, date time.Time) (types.Pick, error) {
	fixtures, err := s.source.Fixtures(ctx, date, types.StatusNotStarted)
	if err != nil {
		return types.Pick{}, err
	}
	if len(fixtures) == 0 {
		return types.Pick{}, types.ErrNoFixtures
	}

	for _, f := range fixtures {
		if f.Status != "" && f.Status != types.StatusNotStarted {
			continue
		}

		markets, err := s.source.Odds(ctx, f.ID, s.bookmakerID)
		if err != nil {
			return types.Pick{}, err
		}
		if len(markets) == 0 {
			logger.Debug(ctx, "No odds for fixture", "fixture_id", f.ID)
			continue
		}

		market := markets[0]
		for _, offer := range market.Offers {
			if !s.rng.Contains(offer.Odd) {
				continue
			}
			return types.Pick{
				FixtureID: f.ID,
				Home:      f.Home,
				Away:      f.Away,
				League:    f.League,
				Kickoff:   f.Date,
				Market:    market.Name,
				Outcome:   offer.Outcome,
				RawOdd:    offer.RawOdd,
				Odd:       offer.Odd,
			}, nil
		}
	}

	return types.Pick{}, fmt.Errorf("%w: range %s over %d fixtures", types.ErrNoCandidate, s.rng, len(fixtures))
}

// SelectPick is Select for the pipeline: empty results and failures are
// logged and reported as ok=false.
func (s *Selector) SelectPick(ctx context.Context, date time.Time) (types.Pick, bool) {
	pick, err := s.Select(ctx, date)
	switch {
	case err == nil:
		metrics.RecordSelection(metrics.ResultOK)
		logger.Pick(ctx, pick, "range", s.rng.String())
		return pick, true
	case errors.Is(err, types.ErrNoFixtures), errors.Is(err, types.ErrNoCandidate):
		metrics.RecordSelection(metrics.ResultEmpty)
		logger.Info(ctx, "No pick for date", "date", date.Format("2006-01-02"), "reason", err.Error())
		return types.Pick{}, false
	default:
		metrics.RecordSelection(metrics.ResultError)
		logger.ErrorWithErr(ctx, "Pick selection failed", err, "date", date.Format("2006-01-02"))
		return types.Pick{}, false
	}
}
