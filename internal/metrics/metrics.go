// Package metrics exposes detection session metrics to Prometheus.
package metrics

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ayusman/mudra/internal/session"
)

// Metrics holds the application registry and its collectors.
type Metrics struct {
	registry *prometheus.Registry
	Session  *SessionMetrics
}

// New creates a registry with session metrics and the Go runtime collectors.
func New() (*Metrics, error) {
	registry := prometheus.NewRegistry()

	if err := registry.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("failed to register go collector: %w", err)
	}

	sessionMetrics, err := NewSessionMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create session metrics: %w", err)
	}

	return &Metrics{
		registry: registry,
		Session:  sessionMetrics,
	}, nil
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RegisterHandlers registers the metrics endpoint with the provided http.ServeMux.
func (m *Metrics) RegisterHandlers(mux *http.ServeMux) {
	mux.Handle("GET /metrics", m.Handler())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorLog:      log.New(os.Stderr, "metrics handler: ", log.LstdFlags),
		ErrorHandling: promhttp.HTTPErrorOnError,
	})
}

// SessionMetrics counts detection loop activity. It observes sessions
// directly.
type SessionMetrics struct {
	cyclesTotal     prometheus.Counter
	handsSeenTotal  prometheus.Counter
	gesturesTotal   *prometheus.CounterVec
	keyPressesTotal *prometheus.CounterVec
	sessionsStarted prometheus.Counter
	sessionsStopped *prometheus.CounterVec
	sessionDuration prometheus.Histogram
	sessionActive   prometheus.Gauge
	framesPerSecond prometheus.Gauge
}

// NewSessionMetrics creates and registers session metrics.
func NewSessionMetrics(registry *prometheus.Registry) (*SessionMetrics, error) {
	m := &SessionMetrics{}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *SessionMetrics) initMetrics() {
	m.cyclesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mudra_cycles_total",
		Help: "Total number of detection loop cycles",
	})

	m.handsSeenTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mudra_hands_seen_total",
		Help: "Total number of cycles in which at least one hand was detected",
	})

	m.gesturesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mudra_gestures_total",
			Help: "Total number of classified gestures by label",
		},
		[]string{"label"}, // label: 0..5
	)

	m.keyPressesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mudra_key_presses_total",
			Help: "Total number of key presses dispatched",
		},
		[]string{"key"},
	)

	m.sessionsStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mudra_sessions_started_total",
		Help: "Total number of detection sessions that opened the camera",
	})

	m.sessionsStopped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mudra_sessions_stopped_total",
			Help: "Total number of detection sessions stopped by reason",
		},
		[]string{"reason"}, // reason: quit, frame-read, device-unavailable, context, requested
	)

	m.sessionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "mudra_session_duration_seconds",
		Help:    "Duration of detection sessions",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	})

	m.sessionActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "mudra_session_active",
		Help: "1 while a detection session is running",
	})

	m.framesPerSecond = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "mudra_frames_per_second",
		Help: "Instantaneous detection loop rate of the last cycle",
	})
}

func (m *SessionMetrics) getCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.cyclesTotal,
		m.handsSeenTotal,
		m.gesturesTotal,
		m.keyPressesTotal,
		m.sessionsStarted,
		m.sessionsStopped,
		m.sessionDuration,
		m.sessionActive,
		m.framesPerSecond,
	}
}

// Describe implements the Collector interface
func (m *SessionMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, collector := range m.getCollectors() {
		collector.Describe(ch)
	}
}

// Collect implements the Collector interface
func (m *SessionMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, collector := range m.getCollectors() {
		collector.Collect(ch)
	}
}

// OnCycle records one loop cycle.
func (m *SessionMetrics) OnCycle(res session.CycleResult) {
	m.cyclesTotal.Inc()
	m.framesPerSecond.Set(res.FPS)

	if !res.HandSeen {
		return
	}
	m.handsSeenTotal.Inc()
	m.gesturesTotal.WithLabelValues(strconv.Itoa(int(res.Label))).Inc()
	if res.Fired {
		m.keyPressesTotal.WithLabelValues(res.Key).Inc()
	}
}

// SessionStarted marks a session as running.
func (m *SessionMetrics) SessionStarted(string, time.Time) {
	m.sessionsStarted.Inc()
	m.sessionActive.Set(1)
}

// SessionStopped records how the session ended.
func (m *SessionMetrics) SessionStopped(sum session.Summary) {
	m.sessionActive.Set(0)
	m.sessionsStopped.WithLabelValues(string(sum.Reason)).Inc()
	if !sum.StartedAt.IsZero() && sum.StoppedAt.After(sum.StartedAt) {
		m.sessionDuration.Observe(sum.StoppedAt.Sub(sum.StartedAt).Seconds())
	}
}
