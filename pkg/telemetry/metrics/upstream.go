package metrics

import (
	"time"

	"naviroute/gateway/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// UpstreamMetrics tracks calls to external services such as the POI search
// service.
//
// Metrics:
//   - naviroute_upstream_requests_total: calls by upstream and outcome
//   - naviroute_upstream_latency_seconds: call latency by upstream
//   - naviroute_upstream_health: health status (1=healthy, 0=unhealthy)
type UpstreamMetrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	health   *prometheus.GaugeVec
}

// NewUpstreamMetrics creates and registers upstream metrics with the provided registry.
func NewUpstreamMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *UpstreamMetrics {
	um := &UpstreamMetrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "upstream_requests_total",
				Help:      "Total number of upstream calls by outcome",
			},
			[]string{"upstream", "outcome"},
		),

		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "upstream_latency_seconds",
				Help:      "Upstream call latency in seconds",
				Buckets:   upstreamDurationBuckets,
			},
			[]string{"upstream"},
		),

		health: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "upstream_health",
				Help:      "Upstream health status (1=healthy, 0=unhealthy)",
			},
			[]string{"upstream"},
		),
	}

	registry.MustRegister(
		um.requests,
		um.latency,
		um.health,
	)

	return um
}

// RecordCall records one upstream call.
func (um *UpstreamMetrics) RecordCall(upstream, outcome string, duration time.Duration) {
	um.requests.WithLabelValues(upstream, outcome).Inc()
	um.latency.WithLabelValues(upstream).Observe(duration.Seconds())
}

// UpdateHealth sets the health gauge of an upstream.
func (um *UpstreamMetrics) UpdateHealth(upstream string, healthy bool) {
	value := 0.0
	if healthy {
		value = 1.0
	}
	um.health.WithLabelValues(upstream).Set(value)
}
