package apifootball

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"pickbot/internal/api"
	"pickbot/internal/interfaces"
	"pickbot/internal/logger"
	"pickbot/internal/types"
)

const (
	DefaultBaseURL = "https://v3.football.api-sports.io"
	keyHeader      = "x-apisports-key"
	quotaHeader    = "x-ratelimit-requests-remaining"
	lowQuota       = 10
	dateLayout     = "2006-01-02"
)

// Client talks to the API-Football v3 REST API.
type Client struct {
	http *api.Client
}

var _ interfaces.OddsSource = (*Client)(nil)

// New builds a client. baseURL may be empty for the public endpoint.
func New(apiKey, baseURL string, timeout time.Duration, opts ...api.ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	all := append([]api.ClientOption{
		api.WithBaseURL(strings.TrimRight(baseURL, "/")),
		api.WithHeader(keyHeader, apiKey),
		api.WithTimeout(timeout),
		api.WithLogging(true),
	}, opts...)
	return &Client{http: api.NewClient(all...)}
}

// envelope is the wrapper every endpoint returns.
type envelope struct {
	Errors   json.RawMessage `json:"errors"`
	Results  int             `json:"results"`
	Response json.RawMessage `json:"response"`
}

type fixtureItem struct {
	Fixture struct {
		ID     int64  `json:"id"`
		Date   string `json:"date"`
		Status struct {
			Short string `json:"short"`
		} `json:"status"`
	} `json:"fixture"`
	League struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	} `json:"league"`
	Teams struct {
		Home struct {
			Name string `json:"name"`
		} `json:"home"`
		Away struct {
			Name string `json:"name"`
		} `json:"away"`
	} `json:"teams"`
}

type oddsItem struct {
	Bookmakers []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
		Bets []struct {
			ID     int    `json:"id"`
			Name   string `json:"name"`
			Values []struct {
				Value json.RawMessage `json:"value"`
				Odd   json.RawMessage `json:"odd"`
			} `json:"values"`
		} `json:"bets"`
	} `json:"bookmakers"`
}

// Fixtures lists the fixtures on the calendar day of date, in date's zone.
func (c *Client) Fixtures(ctx context.Context, date time.Time, status string) ([]types.Fixture, error) {
	q := url.Values{}
	q.Set("date", date.Format(dateLayout))
	if status != "" {
		q.Set("status", status)
	}
	if tz := date.Location().String(); tz != "Local" {
		q.Set("timezone", tz)
	}

	var items []fixtureItem
	if err := c.get(ctx, "/fixtures", q, &items); err != nil {
		return nil, fmt.Errorf("fixtures %s: %w", date.Format(dateLayout), err)
	}

	out := make([]types.Fixture, 0, len(items))
	for _, it := range items {
		f := types.Fixture{
			ID:      it.Fixture.ID,
			Home:    it.Teams.Home.Name,
			Away:    it.Teams.Away.Name,
			League:  it.League.Name,
			Country: it.League.Country,
			Status:  it.Fixture.Status.Short,
		}
		if it.Fixture.Date != "" {
			kick, err := time.Parse(time.RFC3339, it.Fixture.Date)
			if err != nil {
				return nil, fmt.Errorf("%w: fixture %d date %q", types.ErrShape, f.ID, it.Fixture.Date)
			}
			f.Date = kick
		}
		out = append(out, f)
	}
	return out, nil
}

// Odds returns every bet of the first bookmaker entry for the fixture. An
// unparseable odd in the first bet is ErrShape; in later bets the offer is
// dropped, since selection only scans the first.
func (c *Client) Odds(ctx context.Context, fixtureID int64, bookmakerID int) ([]types.Market, error) {
	q := url.Values{}
	q.Set("fixture", strconv.FormatInt(fixtureID, 10))
	if bookmakerID > 0 {
		q.Set("bookmaker", strconv.Itoa(bookmakerID))
	}

	var items []oddsItem
	if err := c.get(ctx, "/odds", q, &items); err != nil {
		return nil, fmt.Errorf("odds fixture %d: %w", fixtureID, err)
	}
	if len(items) == 0 || len(items[0].Bookmakers) == 0 {
		return nil, nil
	}

	bets := items[0].Bookmakers[0].Bets
	markets := make([]types.Market, 0, len(bets))
	for i, bet := range bets {
		m := types.Market{Name: bet.Name, Offers: make([]types.OddsOffer, 0, len(bet.Values))}
		for _, v := range bet.Values {
			raw := scalar(v.Odd)
			odd, err := decimal.NewFromString(raw)
			if err != nil {
				if i == 0 {
					return nil, fmt.Errorf("%w: fixture %d market %q odd %q", types.ErrShape, fixtureID, bet.Name, raw)
				}
				logger.Debug(ctx, "Skipping unparseable odd", "fixture_id", fixtureID, "market", bet.Name, "odd", raw)
				continue
			}
			m.Offers = append(m.Offers, types.OddsOffer{
				FixtureID: fixtureID,
				Market:    bet.Name,
				Outcome:   scalar(v.Value),
				RawOdd:    raw,
				Odd:       odd,
			})
		}
		markets = append(markets, m)
	}
	return markets, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, into any) error {
	resp, err := c.http.GET(ctx, path, q)
	if err != nil {
		return err
	}
	if left, ok := resp.IntHeader(quotaHeader); ok && left < lowQuota {
		logger.Warn(ctx, "API-Football daily quota running low", "remaining", left)
	}
	var env envelope
	if err := resp.ParseJSON(&env); err != nil {
		return err
	}
	if err := providerError(env.Errors); err != nil {
		return err
	}
	if len(env.Response) == 0 || string(env.Response) == "null" {
		return fmt.Errorf("%w: missing response field", types.ErrShape)
	}
	if err := json.Unmarshal(env.Response, into); err != nil {
		return fmt.Errorf("%w: %v", types.ErrShape, err)
	}
	return nil
}

// providerError reads the errors field, which the API sends as an empty
// array on success and as an object or non-empty array on failure.
func providerError(raw json.RawMessage) error {
	s := strings.TrimSpace(string(raw))
	switch s {
	case "", "null", "[]", "{}":
		return nil
	}

	var byKey map[string]any
	if err := json.Unmarshal(raw, &byKey); err == nil {
		if _, ok := byKey["token"]; ok {
			return fmt.Errorf("%w: provider: %s", types.ErrAuth, s)
		}
	}
	return fmt.Errorf("%w: provider: %s", types.ErrTransport, s)
}

// scalar renders a JSON string or number as plain text.
func scalar(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(string(raw))
}
