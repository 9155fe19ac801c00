package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"pickbot/internal/types"
)

func TestGETSendsQueryAndHeaders(t *testing.T) {
	var gotQuery url.Values
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotKey = r.Header.Get("x-apisports-key")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithHeader("x-apisports-key", "secret"))
	resp, err := c.GET(context.Background(), "/fixtures", url.Values{"date": {"2024-05-01"}})
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	if gotQuery.Get("date") != "2024-05-01" {
		t.Errorf("Expected date query, got %v", gotQuery)
	}
	if gotKey != "secret" {
		t.Errorf("Expected key header, got %q", gotKey)
	}

	var body struct {
		OK bool `json:"ok"`
	}
	if err := resp.ParseJSON(&body); err != nil || !body.OK {
		t.Errorf("ParseJSON = %v, %+v", err, body)
	}
}

func TestErrorStatusesAreClassified(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusInternalServerError, types.ErrTransport},
		{http.StatusTooManyRequests, types.ErrTransport},
		{http.StatusUnauthorized, types.ErrAuth},
		{http.StatusForbidden, types.ErrAuth},
	}
	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))
		c := NewClient(WithBaseURL(srv.URL))
		_, err := c.GET(context.Background(), "/x", nil)
		srv.Close()
		if !errors.Is(err, tt.want) {
			t.Errorf("status %d: expected %v, got %v", tt.status, tt.want, err)
		}
	}
}

func TestUnreachableHostIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	_, err := NewClient(WithBaseURL(addr)).GET(context.Background(), "/", nil)
	if !errors.Is(err, types.ErrTransport) {
		t.Fatalf("Expected ErrTransport, got %v", err)
	}
}

func TestParseJSONShapeError(t *testing.T) {
	r := &Response{Body: []byte("not json")}
	var v map[string]any
	if err := r.ParseJSON(&v); !errors.Is(err, types.ErrShape) {
		t.Fatalf("Expected ErrShape, got %v", err)
	}
}

func TestPOSTEncodesBody(t *testing.T) {
	var ct string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ct = r.Header.Get("Content-Type")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	if _, err := NewClient().POST(context.Background(), srv.URL, map[string]string{"a": "b"}); err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	if ct != "application/json" {
		t.Errorf("Expected JSON content type, got %q", ct)
	}
}

func TestIntHeader(t *testing.T) {
	r := &Response{Headers: http.Header{}}
	r.Headers.Set("X-Ratelimit-Requests-Remaining", "42")
	r.Headers.Set("X-Bad", "many")

	if n, ok := r.IntHeader("x-ratelimit-requests-remaining"); !ok || n != 42 {
		t.Errorf("Expected 42, got %d %v", n, ok)
	}
	if _, ok := r.IntHeader("X-Bad"); ok {
		t.Error("Expected non-numeric header to be rejected")
	}
	if _, ok := r.IntHeader("X-Missing"); ok {
		t.Error("Expected missing header to be rejected")
	}
}

func TestClassify(t *testing.T) {
	if err := classify(http.StatusNoContent, nil); err != nil {
		t.Errorf("Expected 204 to pass, got %v", err)
	}
	if err := classify(http.StatusMovedPermanently, nil); !errors.Is(err, types.ErrTransport) {
		t.Errorf("Expected redirect status to be ErrTransport, got %v", err)
	}
}
