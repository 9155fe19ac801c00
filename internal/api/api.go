package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"pickbot/internal/logger"
	"pickbot/internal/types"
)

// maxBodyBytes caps how much of a response is read into memory.
const maxBodyBytes = 4 << 20

// Client is a JSON HTTP client shared by the odds and language-model
// integrations. Every error it returns wraps one of the types sentinels.
type Client struct {
	httpClient *http.Client
	baseURL    string
	headers    map[string]string
	useLogging bool
	limiter    *RateLimiter
}

// ClientOption configures the API client
type ClientOption func(*Client)

// WithTimeout sets the HTTP client timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithBaseURL prefixes every request path
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHeader sets a default header for all requests
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// WithHTTPClient replaces the underlying transport client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogging logs requests at debug and failures at warn
func WithLogging(enabled bool) ClientOption {
	return func(c *Client) {
		c.useLogging = enabled
	}
}

// WithRateLimiter makes every request wait for a token from rl
func WithRateLimiter(rl *RateLimiter) ClientOption {
	return func(c *Client) {
		c.limiter = rl
	}
}

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		headers:    make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Response is a fully read 2xx response.
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

// GET sends a GET with an optional query and per-call headers.
func (c *Client) GET(ctx context.Context, path string, query url.Values, headers ...map[string]string) (*Response, error) {
	return c.send(ctx, http.MethodGet, path, query, nil, headers)
}

// POST sends body as JSON.
func (c *Client) POST(ctx context.Context, path string, body any, headers ...map[string]string) (*Response, error) {
	return c.send(ctx, http.MethodPost, path, nil, body, headers)
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any, extra []map[string]string) (*Response, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	safeURL := redact(target)

	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", method, err)
		}
		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, safeURL, err)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for _, h := range extra {
		for k, v := range h {
			req.Header.Set(k, v)
		}
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limit wait: %v", types.ErrTransport, err)
		}
	}

	start := time.Now()
	c.debug(ctx, "HTTP request", "method", method, "url", safeURL)

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		c.warn(ctx, "HTTP request failed", "method", method, "url", safeURL, "error", err)
		return nil, fmt.Errorf("%w: %s %s: %v", types.ErrTransport, method, safeURL, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s body: %v", types.ErrTransport, safeURL, err)
	}

	c.debug(ctx, "HTTP response",
		"method", method,
		"url", safeURL,
		"status", httpResp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
		"body_size", len(respBody))

	if err := classify(httpResp.StatusCode, respBody); err != nil {
		c.warn(ctx, "HTTP error response", "method", method, "url", safeURL, "status", httpResp.StatusCode)
		return nil, err
	}
	return &Response{StatusCode: httpResp.StatusCode, Body: respBody, Headers: httpResp.Header}, nil
}

// classify maps a status to the error taxonomy. 401 and 403 are ErrAuth,
// anything else outside 2xx is ErrTransport.
func classify(status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}
	kind := types.ErrTransport
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		kind = types.ErrAuth
	}
	return fmt.Errorf("%w: HTTP %d: %s", kind, status, truncate(string(body), 512))
}

func (c *Client) debug(ctx context.Context, msg string, args ...any) {
	if c.useLogging {
		logger.Debug(ctx, msg, args...)
	}
}

func (c *Client) warn(ctx context.Context, msg string, args ...any) {
	if c.useLogging {
		logger.Warn(ctx, msg, args...)
	}
}

// ParseJSON decodes the body into v. Decode failures wrap types.ErrShape.
func (r *Response) ParseJSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("%w: %v", types.ErrShape, err)
	}
	return nil
}

// IntHeader reads a numeric response header such as a quota counter.
func (r *Response) IntHeader(name string) (int, bool) {
	v := r.Headers.Get(name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (r *Response) String() string {
	return string(r.Body)
}

// redact drops the query string, which may carry keys.
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.RawQuery = ""
	return u.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
