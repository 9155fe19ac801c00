package claude

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pickbot/internal/api"
	"pickbot/internal/interfaces"
	"pickbot/internal/store"
	"pickbot/internal/trace"
	"pickbot/internal/types"
)

const (
	DefaultEndpoint = "https://api.anthropic.com/v1/messages"
	apiVersion      = "2023-06-01"
)

// Client calls the Anthropic Messages API.
type Client struct {
	cfg      *store.Config
	endpoint string
	http     *api.Client
}

var _ interfaces.Completer = (*Client)(nil)

// NewClient creates a Claude completer. A proxy endpoint can be set
// through llm.endpoint.
func NewClient(cfg *store.Config, opts ...api.ClientOption) *Client {
	endpoint := cfg.LLM.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	all := append([]api.ClientOption{
		api.WithTimeout(60 * time.Second),
		api.WithHeader("x-api-key", cfg.LLM.APIKey),
		api.WithHeader("anthropic-version", apiVersion),
		api.WithLogging(true),
	}, opts...)
	return &Client{cfg: cfg, endpoint: endpoint, http: api.NewClient(all...)}
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Complete sends the system turns as the top-level system prompt and the
// rest as messages. It returns the first text block.
func (c *Client) Complete(ctx context.Context, messages []types.ChatMessage) (string, error) {
	ctx, span := trace.StartSpan(ctx, "claude-api-call")
	defer span.End()

	if c.cfg.LLM.APIKey == "" {
		return "", fmt.Errorf("%w: CLAUDE_API_KEY missing", types.ErrAuth)
	}

	var system []string
	turns := make([]types.ChatMessage, 0, len(messages))
	for _, m := range messages {
		if m.Role == "system" {
			system = append(system, m.Content)
			continue
		}
		turns = append(turns, m)
	}

	body := map[string]any{
		"model":       c.cfg.LLM.Model,
		"messages":    turns,
		"max_tokens":  c.cfg.LLM.MaxTokens,
		"temperature": c.cfg.LLM.Temperature,
	}
	if len(system) > 0 {
		body["system"] = strings.Join(system, "\n\n")
	}

	resp, err := c.http.POST(ctx, c.endpoint, body)
	if err != nil {
		return "", err
	}

	var r messagesResponse
	if err := resp.ParseJSON(&r); err != nil {
		return "", err
	}
	for _, block := range r.Content {
		if block.Type == "" || block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("%w: no text content", types.ErrShape)
}
