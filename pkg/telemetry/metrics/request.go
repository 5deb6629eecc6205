package metrics

import (
	"time"

	"naviroute/gateway/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// RequestMetrics tracks HTTP requests served by the gateway.
//
// Metrics:
//   - naviroute_http_requests_total: requests by route, method and status code
//   - naviroute_http_request_duration_seconds: latency by route
//   - naviroute_http_response_size_bytes: response body size by route
type RequestMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	responseSize    *prometheus.HistogramVec
}

// NewRequestMetrics creates and registers request metrics with the provided registry.
func NewRequestMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RequestMetrics {
	rm := &RequestMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"route", "method", "status"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   requestDurationBuckets,
			},
			[]string{"route"},
		),

		responseSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "http_response_size_bytes",
				Help:      "Size of HTTP response bodies in bytes",
				Buckets:   prometheus.ExponentialBuckets(256, 4, 8), // 256B to 4MB
			},
			[]string{"route"},
		),
	}

	registry.MustRegister(
		rm.requestsTotal,
		rm.requestDuration,
		rm.responseSize,
	)

	return rm
}

// RecordRequest records one completed request.
func (rm *RequestMetrics) RecordRequest(route, method, status string, duration time.Duration, responseBytes int) {
	rm.requestsTotal.WithLabelValues(route, method, status).Inc()
	rm.requestDuration.WithLabelValues(route).Observe(duration.Seconds())
	if responseBytes > 0 {
		rm.responseSize.WithLabelValues(route).Observe(float64(responseBytes))
	}
}
