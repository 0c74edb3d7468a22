// Package metrics owns the Prometheus registry and the HTTP request collectors
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name
const Namespace = "textguard"

// Registry wraps a private prometheus registry so tests can build isolated ones
type Registry struct {
	reg  *prometheus.Registry
	http *httpMetrics
}

type httpMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New builds a registry with Go runtime and process collectors plus HTTP request metrics
func New() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	hm := &httpMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
	reg.MustRegister(hm.requests, hm.duration)
	return &Registry{reg: reg, http: hm}
}

// Registerer exposes the registry to components that own their collectors
func (r *Registry) Registerer() prometheus.Registerer {
	if r == nil {
		return nil
	}
	return r.reg
}

// Gatherer exposes the registry for tests
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

// Handler serves the exposition format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}

// ObserveHTTP records one finished request; nil registry is a no-op
func (r *Registry) ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	r.http.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	r.http.duration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}
