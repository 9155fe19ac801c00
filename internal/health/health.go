package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pickbot/internal/logger"
)

// Handler serves liveness and metrics.
type Handler struct {
	started time.Time
	next    func() time.Time
}

// NewHandler creates a handler. next reports the next scheduled run and
// may be nil.
func NewHandler(next func() time.Time) *Handler {
	return &Handler{started: time.Now(), next: next}
}

// HealthCheck handles GET /healthz.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{
		"status":         "healthy",
		"service":        "pickbot",
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
	}
	if h.next != nil {
		if n := h.next(); !n.IsZero() {
			body["next_run"] = n.Format(time.RFC3339)
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(body)
}

// NewRouter mounts /healthz and /metrics.
func NewRouter(h *Handler, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/healthz", h.HealthCheck)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return r
}

// Server runs the ops endpoints in the background.
type Server struct {
	srv *http.Server
}

func NewServer(addr string, handler http.Handler) *Server {
	return &Server{srv: &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}}
}

// Start listens in a goroutine. Listen errors are logged.
func (s *Server) Start(ctx context.Context) {
	go func() {
		logger.Info(ctx, "Ops server listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorWithErr(ctx, "Ops server stopped", err, "addr", s.srv.Addr)
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
