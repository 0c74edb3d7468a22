package engine

import (
	"time"

	"textguard/internal/core/policy"
	"textguard/internal/platform/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeAccept = "accept"
	outcomeReject = "reject"
	outcomeConfig = "config_error"
)

// Metrics holds the screening collectors. A nil *Metrics records nothing
type Metrics struct {
	evaluations *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	timeouts    *prometheus.CounterVec
	skips       *prometheus.CounterVec
}

// NewMetrics registers the screening collectors with r
func NewMetrics(r prometheus.Registerer) *Metrics {
	m := &Metrics{
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: "screen",
			Name:      "evaluations_total",
			Help:      "Evaluate calls by direction and outcome",
		}, []string{"direction", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metrics.Namespace,
			Subsystem: "screen",
			Name:      "detector_duration_seconds",
			Help:      "Detector latency for detectors that finished in time",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 2.5, 5},
		}, []string{"kind"}),
		timeouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: "screen",
			Name:      "detector_timeouts_total",
			Help:      "Detectors cut off by the request deadline",
		}, []string{"kind"}),
		skips: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: "screen",
			Name:      "reputation_skips_total",
			Help:      "Reputation lookups the limiter refused, by reason",
		}, []string{"reason"}),
	}
	if r != nil {
		r.MustRegister(m.evaluations, m.latency, m.timeouts, m.skips)
	}
	return m
}

// ReputationSkipped counts a refused reputation lookup; it fits linkcheck.WithSkipHook
func (m *Metrics) ReputationSkipped(reason string) {
	if m == nil {
		return
	}
	m.skips.WithLabelValues(reason).Inc()
}

func (m *Metrics) evaluated(dir policy.Direction, outcome string) {
	if m == nil {
		return
	}
	m.evaluations.WithLabelValues(string(dir), outcome).Inc()
}

func (m *Metrics) observe(k policy.Kind, d time.Duration) {
	if m == nil {
		return
	}
	m.latency.WithLabelValues(string(k)).Observe(d.Seconds())
}

func (m *Metrics) timedOut(k policy.Kind) {
	if m == nil {
		return
	}
	m.timeouts.WithLabelValues(string(k)).Inc()
}
