package openai

import (
	"context"
	"fmt"
	"time"

	"pickbot/internal/api"
	"pickbot/internal/interfaces"
	"pickbot/internal/store"
	"pickbot/internal/trace"
	"pickbot/internal/types"
)

const DefaultEndpoint = "https://api.openai.com/v1/chat/completions"

// Client calls an OpenAI-compatible chat completions endpoint.
type Client struct {
	cfg      *store.Config
	endpoint string
	http     *api.Client
}

var _ interfaces.Completer = (*Client)(nil)

func NewClient(cfg *store.Config, opts ...api.ClientOption) *Client {
	endpoint := cfg.LLM.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	all := append([]api.ClientOption{
		api.WithTimeout(60 * time.Second),
		api.WithHeader("Authorization", "Bearer "+cfg.LLM.APIKey),
		api.WithLogging(true),
	}, opts...)
	return &Client{cfg: cfg, endpoint: endpoint, http: api.NewClient(all...)}
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete returns the first choice's content.
func (c *Client) Complete(ctx context.Context, messages []types.ChatMessage) (string, error) {
	ctx, span := trace.StartSpan(ctx, "openai-api-call")
	defer span.End()

	if c.cfg.LLM.APIKey == "" {
		return "", fmt.Errorf("%w: OPENAI_API_KEY missing", types.ErrAuth)
	}

	body := map[string]any{
		"model":       c.cfg.LLM.Model,
		"messages":    messages,
		"temperature": c.cfg.LLM.Temperature,
		"max_tokens":  c.cfg.LLM.MaxTokens,
	}

	resp, err := c.http.POST(ctx, c.endpoint, body)
	if err != nil {
		return "", err
	}

	var r chatResponse
	if err := resp.ParseJSON(&r); err != nil {
		return "", err
	}
	if len(r.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", types.ErrShape)
	}
	return r.Choices[0].Message.Content, nil
}
