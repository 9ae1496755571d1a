// Package metrics provides Prometheus metrics for the PSS emulator.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns every Prometheus metric the emulator records.
type Manager struct {
	namespace string
	subsystem string
	registry  prometheus.Registerer

	// Transport metrics
	datagramsSent prometheus.Counter
	datagramBytes prometheus.Counter
	sendErrors    prometheus.Counter
	batchAborts   prometheus.Counter
	sessionUp     prometheus.Gauge

	// Clock metrics
	clockTicks    prometheus.Counter
	clockExpiries prometheus.Counter

	// Scenario metrics
	matchesCompleted prometheus.Counter
	scenarioRuns     prometheus.Counter
	scenarioFailures prometheus.Counter
	timelineEvents   *prometheus.CounterVec
	matchDuration    prometheus.Histogram
	currentRound     prometheus.Gauge
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace overrides the metric namespace.
func WithNamespace(ns string) Option {
	return func(m *Manager) {
		if ns != "" {
			m.namespace = ns
		}
	}
}

// WithRegistry registers metrics on a custom registry.
func WithRegistry(r prometheus.Registerer) Option {
	return func(m *Manager) {
		if r != nil {
			m.registry = r
		}
	}
}

// Global metrics manager instance and its registry.
var globalManager *Manager                    //nolint:gochecknoglobals // singleton metrics manager
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // avoids default Go collectors

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers all metrics.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "pssemu",
		subsystem: "core",
		registry:  prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	auto := promauto.With(m.registry)

	m.datagramsSent = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "datagrams_sent_total",
		Help:      "Total number of UDP datagrams sent",
	})
	m.datagramBytes = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "datagram_bytes_total",
		Help:      "Total bytes written to the UDP socket",
	})
	m.sendErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "send_errors_total",
		Help:      "Total number of failed sends (validation or socket write)",
	})
	m.batchAborts = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "batch_aborts_total",
		Help:      "Total number of message batches aborted on first failure",
	})
	m.sessionUp = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "session_connected",
		Help:      "1 when a UDP session is open, 0 otherwise",
	})
	m.clockTicks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "clock_ticks_total",
		Help:      "Total number of clock tick messages emitted by the clock driver",
	})
	m.clockExpiries = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "clock_expiries_total",
		Help:      "Total number of times the match clock counted down to zero",
	})
	m.matchesCompleted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "matches_completed_total",
		Help:      "Total number of emulated matches played to conclusion",
	})
	m.scenarioRuns = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scenario_runs_total",
		Help:      "Total number of scenario runs started",
	})
	m.scenarioFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scenario_failures_total",
		Help:      "Total number of scenario runs aborted on failure",
	})
	m.timelineEvents = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "timeline_events_total",
		Help:      "Total number of timeline events dispatched, by event type",
	}, []string{"type"})
	m.matchDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "match_duration_seconds",
		Help:      "Wall-clock duration of emulated matches",
		Buckets:   []float64{30, 60, 120, 180, 240, 300, 600},
	})
	m.currentRound = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "current_round",
		Help:      "Round number of the match currently being emulated",
	})

	return m
}

// Handler returns an http.Handler serving the custom registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(customRegistry, promhttp.HandlerOpts{})
}

// Package-level helpers recording on the global manager.

func RecordDatagramSent(bytes int) {
	globalManager.datagramsSent.Inc()
	globalManager.datagramBytes.Add(float64(bytes))
}

func RecordSendError()  { globalManager.sendErrors.Inc() }
func RecordBatchAbort() { globalManager.batchAborts.Inc() }

func UpdateSessionConnected(connected bool) {
	if connected {
		globalManager.sessionUp.Set(1)
	} else {
		globalManager.sessionUp.Set(0)
	}
}

func RecordClockTick()   { globalManager.clockTicks.Inc() }
func RecordClockExpiry() { globalManager.clockExpiries.Inc() }

func RecordMatchCompleted(durationSeconds float64) {
	globalManager.matchesCompleted.Inc()
	globalManager.matchDuration.Observe(durationSeconds)
}

func RecordScenarioRun()     { globalManager.scenarioRuns.Inc() }
func RecordScenarioFailure() { globalManager.scenarioFailures.Inc() }

func RecordTimelineEvent(eventType string) {
	globalManager.timelineEvents.WithLabelValues(eventType).Inc()
}

func UpdateCurrentRound(round int) { globalManager.currentRound.Set(float64(round)) }
