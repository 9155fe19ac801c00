// Package metrics exposes Prometheus counters for the pick pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values shared by callers.
const (
	ResultOK      = "ok"
	ResultError   = "error"
	ResultEmpty   = "empty"
	ResultDenied  = "denied"
	ResultGranted = "granted"
)

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithPrometheusRegistry sets the registry metrics are registered on.
func WithPrometheusRegistry(registry *prometheus.Registry) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}

// Manager owns every collector.
type Manager struct {
	namespace string
	registry  *prometheus.Registry

	selections      *prometheus.CounterVec
	oddsRequests    *prometheus.CounterVec
	commentary      *prometheus.CounterVec
	publishes       *prometheus.CounterVec
	pipelineRuns    *prometheus.CounterVec
	pipelineSeconds prometheus.Histogram
	ticksDropped    prometheus.Counter
	accessAttempts  *prometheus.CounterVec
	commands        *prometheus.CounterVec
}

var globalManager = NewManager()

// NewManager creates a manager on its own registry unless one is given.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "pickbot",
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.selections = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "selections_total",
		Help:      "Pick selections by result (ok, empty, error)",
	}, []string{"result"})

	m.oddsRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "odds_requests_total",
		Help:      "Requests to the odds provider by endpoint and result",
	}, []string{"endpoint", "result"})

	m.commentary = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "commentary_total",
		Help:      "Commentary generations by provider and result",
	}, []string{"provider", "result"})

	m.publishes = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "publishes_total",
		Help:      "Messages sent to the channel by result",
	}, []string{"result"})

	m.pipelineRuns = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "pipeline_runs_total",
		Help:      "Daily pipeline runs by outcome (published, no_pick, no_text, publish_failed)",
	}, []string{"outcome"})

	m.pipelineSeconds = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "pipeline_duration_seconds",
		Help:      "Wall time of one daily pipeline run",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
	})

	m.ticksDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "ticks_dropped_total",
		Help:      "Schedule ticks dropped because one was already pending",
	})

	m.accessAttempts = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "access_attempts_total",
		Help:      "Secret submissions by result",
	}, []string{"result"})

	m.commands = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "commands_total",
		Help:      "Bot commands handled by name",
	}, []string{"command"})

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Registry returns the registry the manager's collectors live on.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// GetRegistry returns the process-wide registry served on /metrics.
func GetRegistry() *prometheus.Registry {
	return globalManager.registry
}

// RecordSelection counts one selection outcome.
func RecordSelection(result string) {
	globalManager.selections.WithLabelValues(result).Inc()
}

// RecordOddsRequest counts one provider call.
func RecordOddsRequest(endpoint, result string) {
	globalManager.oddsRequests.WithLabelValues(endpoint, result).Inc()
}

// RecordCommentary counts one commentary attempt.
func RecordCommentary(provider, result string) {
	globalManager.commentary.WithLabelValues(provider, result).Inc()
}

// RecordPublish counts one publish attempt.
func RecordPublish(result string) {
	globalManager.publishes.WithLabelValues(result).Inc()
}

// RecordPipelineRun counts one pipeline run and observes its duration.
func RecordPipelineRun(outcome string, seconds float64) {
	globalManager.pipelineRuns.WithLabelValues(outcome).Inc()
	globalManager.pipelineSeconds.Observe(seconds)
}

func RecordTickDropped() {
	globalManager.ticksDropped.Inc()
}

// RecordAccessAttempt counts one /clave submission.
func RecordAccessAttempt(result string) {
	globalManager.accessAttempts.WithLabelValues(result).Inc()
}

func RecordCommand(command string) {
	globalManager.commands.WithLabelValues(command).Inc()
}
