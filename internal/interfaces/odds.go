package interfaces

import (
	"context"
	"time"

	"pickbot/internal/types"
)

// OddsSource is the sports-data provider.
type OddsSource interface {
	// Fixtures lists the fixtures on date with the given status, in provider order
	Fixtures(ctx context.Context, date time.Time, status string) ([]types.Fixture, error)

	// Odds returns the markets one bookmaker offers for a fixture. An empty
	// slice means the provider has no odds for it.
	Odds(ctx context.Context, fixtureID int64, bookmakerID int) ([]types.Market, error)
}

// OddsSelector picks the day's candidate.
type OddsSelector interface {
	// Select returns the pick, or types.ErrNoFixtures / types.ErrNoCandidate
	// when there is nothing to pick, or a transport/shape error.
	Select(ctx context.Context, date time.Time) (types.Pick, error)

	// SelectPick is Select with every failure collapsed into ok=false.
	SelectPick(ctx context.Context, date time.Time) (types.Pick, bool)
}
