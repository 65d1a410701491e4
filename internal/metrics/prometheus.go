// Package metrics records HTTP and quote telemetry to Prometheus or
// CloudWatch. Both collectors satisfy core.MetricsCollector and
// billing.QuoteMetrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus holds the service's collectors on a private registry so tests
// can create as many instances as they like.
type Prometheus struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	quotesTotal         *prometheus.CounterVec
}

// NewPrometheus creates and registers the collectors under namespace.
func NewPrometheus(namespace string) *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),

		// httpRequestsTotal counts HTTP requests by method, route, and status.
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests by method, route pattern, and status code.",
			},
			[]string{"method", "path", "status"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// quotesTotal counts quote requests by billing cycle and outcome
		// (computed, cached, rejected, not_found, invalid, error).
		quotesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "quotes_total",
				Help:      "Total quote requests by billing cycle and outcome.",
			},
			[]string{"cycle", "outcome"},
		),
	}

	p.registry.MustRegister(
		p.httpRequestsTotal,
		p.httpRequestDuration,
		p.quotesTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return p
}

// RecordRequest implements core.MetricsCollector.
func (p *Prometheus) RecordRequest(method, endpoint, status string, duration time.Duration) {
	p.httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	p.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordQuote implements billing.QuoteMetrics.
func (p *Prometheus) RecordQuote(cycle, outcome string) {
	p.quotesTotal.WithLabelValues(cycle, outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}
