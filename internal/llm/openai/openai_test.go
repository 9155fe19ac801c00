package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"pickbot/internal/store"
	"pickbot/internal/types"
)

func testConfig(endpoint string) *store.Config {
	cfg := &store.Config{}
	cfg.LLM.Provider = store.ProviderOpenAI
	cfg.LLM.Model = "gpt-4o-mini"
	cfg.LLM.APIKey = "sk-test"
	cfg.LLM.Endpoint = endpoint
	cfg.LLM.MaxTokens = 300
	cfg.LLM.Temperature = 0.8
	return cfg
}

var msgs = []types.ChatMessage{
	{Role: "system", Content: "persona"},
	{Role: "user", Content: "pick"},
}

func TestCompleteReturnsFirstChoice(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("Missing bearer token")
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Primera"}},{"message":{"content":"Segunda"}}]}`))
	}))
	defer srv.Close()

	text, err := NewClient(testConfig(srv.URL)).Complete(context.Background(), msgs)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if text != "Primera" {
		t.Errorf("Expected first choice, got %q", text)
	}
	if got["model"] != "gpt-4o-mini" || got["max_tokens"] != float64(300) {
		t.Errorf("Unexpected request body %v", got)
	}
	if m, ok := got["messages"].([]any); !ok || len(m) != 2 {
		t.Errorf("Expected 2 messages, got %v", got["messages"])
	}
}

func TestCompleteEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := NewClient(testConfig(srv.URL)).Complete(context.Background(), msgs)
	if !errors.Is(err, types.ErrShape) {
		t.Fatalf("Expected ErrShape, got %v", err)
	}
}

func TestCompleteHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(testConfig(srv.URL)).Complete(context.Background(), msgs)
	if !errors.Is(err, types.ErrTransport) {
		t.Fatalf("Expected ErrTransport, got %v", err)
	}
}

func TestCompleteWithoutKey(t *testing.T) {
	cfg := testConfig("http://unused.invalid")
	cfg.LLM.APIKey = ""
	if _, err := NewClient(cfg).Complete(context.Background(), msgs); !errors.Is(err, types.ErrAuth) {
		t.Fatalf("Expected ErrAuth, got %v", err)
	}
}
