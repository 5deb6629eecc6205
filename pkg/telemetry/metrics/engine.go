package metrics

import (
	"strconv"
	"time"

	"naviroute/gateway/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// EngineMetrics tracks calls into the routing engine. Queue depth and busy
// workers are reported by the engine pool itself.
//
// Metrics:
//   - naviroute_engine_calls_total: calls by status code
//   - naviroute_engine_call_duration_seconds: time spent inside the engine
type EngineMetrics struct {
	calls    *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewEngineMetrics creates and registers engine metrics with the provided registry.
func NewEngineMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *EngineMetrics {
	em := &EngineMetrics{
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "engine_calls_total",
				Help:      "Total number of routing engine calls by status code",
			},
			[]string{"code"},
		),

		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "engine_call_duration_seconds",
				Help:      "Duration of routing engine calls in seconds",
				Buckets:   requestDurationBuckets,
			},
		),
	}

	registry.MustRegister(em.calls, em.duration)

	return em
}

// RecordCall records one engine call.
func (em *EngineMetrics) RecordCall(code int32, duration time.Duration) {
	em.calls.WithLabelValues(strconv.FormatInt(int64(code), 10)).Inc()
	em.duration.Observe(duration.Seconds())
}
