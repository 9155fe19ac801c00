package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fixture is a scheduled match as returned by the odds provider.
type Fixture struct {
	ID      int64     `json:"id"`
	Home    string    `json:"home"`
	Away    string    `json:"away"`
	League  string    `json:"league"`
	Country string    `json:"country"`
	Date    time.Time `json:"date"`
	Status  string    `json:"status"`
}

// OddsOffer is one priced outcome of a market.
type OddsOffer struct {
	FixtureID int64           `json:"fixture_id"`
	Market    string          `json:"market"`
	Outcome   string          `json:"outcome"`
	RawOdd    string          `json:"raw_odd"`
	Odd       decimal.Decimal `json:"odd"`
}

// Market groups offers in the order the bookmaker lists them.
type Market struct {
	Name   string      `json:"name"`
	Offers []OddsOffer `json:"offers"`
}

// Pick is the selected bet for one publish cycle.
type Pick struct {
	FixtureID int64           `json:"fixture_id"`
	Home      string          `json:"home"`
	Away      string          `json:"away"`
	League    string          `json:"league"`
	Kickoff   time.Time       `json:"kickoff"`
	Market    string          `json:"market"`
	Outcome   string          `json:"outcome"`
	RawOdd    string          `json:"raw_odd"`
	Odd       decimal.Decimal `json:"odd"`
}

// ChatMessage is a single role/content turn sent to a completion model.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Format carries Telegram formatting options for an outbound message.
type Format struct {
	ParseMode             string
	DisableWebPagePreview bool
}

// Fixture statuses used by the provider.
const (
	StatusNotStarted = "NS"
)
