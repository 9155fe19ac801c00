package claude

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
	cfg.LLM.Provider = store.ProviderClaude
	cfg.LLM.Model = "claude-3-5-haiku-latest"
	cfg.LLM.APIKey = "claude-test"
	cfg.LLM.Endpoint = endpoint
	cfg.LLM.MaxTokens = 300
	return cfg
}

func TestCompleteSplitsSystemPrompt(t *testing.T) {
	var got struct {
		System   string              `json:"system"`
		Messages []types.ChatMessage `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "claude-test" || r.Header.Get("anthropic-version") == "" {
			t.Errorf("Missing Anthropic headers")
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"content":[{"type":"text","text":"Vamos con el empate"}]}`))
	}))
	defer srv.Close()

	text, err := NewClient(testConfig(srv.URL)).Complete(context.Background(), []types.ChatMessage{
		{Role: "system", Content: "persona"},
		{Role: "user", Content: "pick"},
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if text != "Vamos con el empate" {
		t.Errorf("Unexpected text %q", text)
	}
	if got.System != "persona" {
		t.Errorf("Expected system prompt at top level, got %q", got.System)
	}
	if len(got.Messages) != 1 || got.Messages[0].Role != "user" {
		t.Errorf("Expected only the user turn in messages, got %+v", got.Messages)
	}
}

func TestCompleteNoTextBlock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content":[]}`))
	}))
	defer srv.Close()

	_, err := NewClient(testConfig(srv.URL)).Complete(context.Background(), nil)
	if !errors.Is(err, types.ErrShape) {
		t.Fatalf("Expected ErrShape, got %v", err)
	}
}
