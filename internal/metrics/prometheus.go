// Package metrics provides Prometheus metrics for the prediction loop.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns every collector the bot exports.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	predictionsPublished *prometheus.CounterVec
	outcomes             *prometheus.CounterVec
	cooldowns            prometheus.Counter
	feedErrors           *prometheus.CounterVec
	notifyErrors         *prometheus.CounterVec
	lossStreak           prometheus.Gauge
	cycleDuration        prometheus.Histogram
}

var globalManager = NewManager() //nolint:gochecknoglobals // process-wide metrics singleton

// NewManager creates a Manager registered on its own registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "wingo",
		subsystem:        "bot",
		histogramBuckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
		registry:         prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.predictionsPublished = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "predictions_published_total",
		Help:      "Predictions posted to the channel, by mode",
	}, []string{"mode"})

	m.outcomes = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "outcomes_total",
		Help:      "Scored predictions, by result (hit or miss)",
	}, []string{"result"})

	m.cooldowns = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cooldowns_total",
		Help:      "Times the loss limit was reached and the loop paused",
	})

	m.feedErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "feed_errors_total",
		Help:      "Feed fetch failures, by endpoint and kind",
	}, []string{"endpoint", "kind"})

	m.notifyErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "notify_errors_total",
		Help:      "Failed Telegram sends, by message kind",
	}, []string{"kind"})

	m.lossStreak = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "loss_streak",
		Help:      "Consecutive misses since the last hit or cooldown",
	})

	m.cycleDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cycle_duration_seconds",
		Help:      "Time spent on score and publish work within one cycle",
		Buckets:   m.histogramBuckets,
	})
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Manager) RecordPublished(mode string) { m.predictionsPublished.WithLabelValues(mode).Inc() }

func (m *Manager) RecordOutcome(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.outcomes.WithLabelValues(result).Inc()
}

func (m *Manager) RecordCooldown() { m.cooldowns.Inc() }

func (m *Manager) RecordFeedError(endpoint, kind string) {
	m.feedErrors.WithLabelValues(endpoint, kind).Inc()
}

func (m *Manager) RecordNotifyError(kind string) { m.notifyErrors.WithLabelValues(kind).Inc() }

func (m *Manager) SetLossStreak(n int) { m.lossStreak.Set(float64(n)) }

func (m *Manager) ObserveCycle(seconds float64) { m.cycleDuration.Observe(seconds) }

// Default returns the process-wide manager.
func Default() *Manager { return globalManager }

// Handler serves the process-wide registry.
func Handler() http.Handler { return globalManager.Handler() }
