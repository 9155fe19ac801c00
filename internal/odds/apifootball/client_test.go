package apifootball

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"pickbot/internal/odds"
	"pickbot/internal/types"
)

const fixturesBody = `{
  "get": "fixtures",
  "errors": [],
  "results": 2,
  "response": [
    {"fixture": {"id": 101, "date": "2024-05-01T19:00:00+00:00", "status": {"short": "NS"}},
     "league": {"name": "Liga 1", "country": "Peru"},
     "teams": {"home": {"name": "Alianza Lima"}, "away": {"name": "Universitario"}}},
    {"fixture": {"id": 102, "date": "2024-05-01T21:30:00+00:00", "status": {"short": "NS"}},
     "league": {"name": "Liga 1", "country": "Peru"},
     "teams": {"home": {"name": "Sporting Cristal"}, "away": {"name": "Melgar"}}}
  ]
}`

const oddsBody = `{
  "errors": [],
  "response": [
    {"bookmakers": [
      {"id": 1, "name": "10Bet", "bets": [
        {"id": 1, "name": "Match Winner", "values": [
          {"value": "Home", "odd": "1.40"},
          {"value": "Draw", "odd": "1.80"},
          {"value": "Away", "odd": "4.50"}
        ]},
        {"id": 5, "name": "Goals Over/Under", "values": [
          {"value": 2.5, "odd": "2.10"}
        ]}
      ]}
    ]}
  ]
}`

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New("test-key", srv.URL, 5*time.Second)
}

func TestFixtures(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fixtures" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("date") != "2024-05-01" || q.Get("status") != "NS" {
			t.Errorf("Unexpected query %v", q)
		}
		if r.Header.Get("x-apisports-key") != "test-key" {
			t.Errorf("Missing API key header")
		}
		w.Write([]byte(fixturesBody))
	})

	date := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	fixtures, err := c.Fixtures(context.Background(), date, types.StatusNotStarted)
	if err != nil {
		t.Fatalf("Fixtures failed: %v", err)
	}
	if len(fixtures) != 2 {
		t.Fatalf("Expected 2 fixtures, got %d", len(fixtures))
	}
	f := fixtures[0]
	if f.ID != 101 || f.Home != "Alianza Lima" || f.Away != "Universitario" || f.League != "Liga 1" || f.Status != "NS" {
		t.Errorf("Unexpected fixture %+v", f)
	}
	if !f.Date.Equal(time.Date(2024, 5, 1, 19, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected kickoff %v", f.Date)
	}
	if fixtures[1].ID != 102 {
		t.Errorf("Expected provider order, got %d second", fixtures[1].ID)
	}
}

func TestOdds(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("fixture") != "101" || q.Get("bookmaker") != "1" {
			t.Errorf("Unexpected query %v", q)
		}
		w.Write([]byte(oddsBody))
	})

	markets, err := c.Odds(context.Background(), 101, 1)
	if err != nil {
		t.Fatalf("Odds failed: %v", err)
	}
	if len(markets) != 2 {
		t.Fatalf("Expected 2 markets, got %d", len(markets))
	}
	winner := markets[0]
	if winner.Name != "Match Winner" || len(winner.Offers) != 3 {
		t.Fatalf("Unexpected first market %+v", winner)
	}
	draw := winner.Offers[1]
	if draw.Outcome != "Draw" || draw.RawOdd != "1.80" || draw.Odd.String() != "1.8" || draw.FixtureID != 101 {
		t.Errorf("Unexpected offer %+v", draw)
	}
	if markets[1].Offers[0].Outcome != "2.5" {
		t.Errorf("Expected numeric value rendered as text, got %q", markets[1].Offers[0].Outcome)
	}
}

func TestOddsEmptyResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors": [], "results": 0, "response": []}`))
	})

	markets, err := c.Odds(context.Background(), 5, 1)
	if err != nil {
		t.Fatalf("Odds failed: %v", err)
	}
	if len(markets) != 0 {
		t.Errorf("Expected no markets, got %d", len(markets))
	}
}

func TestProviderErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"token", `{"errors": {"token": "Error/Missing application key"}, "response": []}`, types.ErrAuth},
		{"rate limit", `{"errors": {"requests": "You have reached the request limit"}, "response": []}`, types.ErrTransport},
		{"array", `{"errors": ["bad date"], "response": []}`, types.ErrTransport},
		{"missing response", `{"errors": []}`, types.ErrShape},
		{"not json", `<html>`, types.ErrShape},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})
			_, err := c.Fixtures(context.Background(), time.Now().UTC(), types.StatusNotStarted)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestUnparseableOddIsShapeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors": [], "response": [{"bookmakers": [{"bets": [{"name": "Match Winner", "values": [{"value": "Home", "odd": "n/a"}]}]}]}]}`))
	})

	if _, err := c.Odds(context.Background(), 1, 1); !errors.Is(err, types.ErrShape) {
		t.Fatalf("Expected ErrShape, got %v", err)
	}
}

const brokenSecondMarketBody = `{
  "errors": [],
  "response": [
    {"bookmakers": [
      {"id": 1, "bets": [
        {"id": 1, "name": "Winner", "values": [
          {"value": "Home", "odd": "1.40"},
          {"value": "Draw", "odd": "1.80"}
        ]},
        {"id": 9, "name": "Exotic", "values": [
          {"value": "X", "odd": null},
          {"value": "Y", "odd": "3.10"}
        ]}
      ]}
    ]}
  ]
}`

func TestBadOddOutsideFirstMarketIsSkipped(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(brokenSecondMarketBody))
	})

	markets, err := c.Odds(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("Odds failed: %v", err)
	}
	if len(markets) != 2 || len(markets[0].Offers) != 2 {
		t.Fatalf("Unexpected markets %+v", markets)
	}
	if len(markets[1].Offers) != 1 || markets[1].Offers[0].Outcome != "Y" {
		t.Errorf("Expected only the parseable Exotic offer, got %+v", markets[1].Offers)
	}
}

func TestSelectorPicksFirstMarketDespiteBadLaterMarket(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/fixtures":
			w.Write([]byte(`{"errors": [], "response": [
			  {"fixture": {"id": 1, "date": "2024-05-01T19:00:00+00:00", "status": {"short": "NS"}},
			   "league": {"name": "Liga 1"},
			   "teams": {"home": {"name": "A"}, "away": {"name": "B"}}}]}`))
		case "/odds":
			w.Write([]byte(brokenSecondMarketBody))
		default:
			http.NotFound(w, r)
		}
	})
	rng, err := odds.NewRange(decimal.RequireFromString("1.5"), decimal.RequireFromString("1.95"))
	if err != nil {
		t.Fatal(err)
	}

	pick, err := odds.NewSelector(c, 1, rng).Select(context.Background(), time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if pick.Market != "Winner" || pick.Outcome != "Draw" || pick.RawOdd != "1.80" {
		t.Errorf("Expected Winner/Draw @ 1.80, got %+v", pick)
	}
}

func TestHTTPFailureIsTransportError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	if _, err := c.Odds(context.Background(), 1, 1); !errors.Is(err, types.ErrTransport) {
		t.Fatalf("Expected ErrTransport, got %v", err)
	}
}
