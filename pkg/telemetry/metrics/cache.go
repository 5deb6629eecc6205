package metrics

import (
	"naviroute/gateway/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// CacheMetrics tracks route cache commands.
//
// Metrics:
//   - naviroute_cache_operations_total: commands by op ("get", "set") and
//     outcome ("hit", "miss", "ok", "error")
//   - naviroute_cache_hits_total, naviroute_cache_misses_total: read outcomes
type CacheMetrics struct {
	operations  *prometheus.CounterVec
	hitsTotal   prometheus.Counter
	missesTotal prometheus.Counter
}

// NewCacheMetrics creates and registers cache metrics with the provided registry.
func NewCacheMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *CacheMetrics {
	cm := &CacheMetrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cache_operations_total",
				Help:      "Total number of cache commands by operation and outcome",
			},
			[]string{"op", "outcome"},
		),

		hitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cache_hits_total",
				Help:      "Total number of cache hits",
			},
		),

		missesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cache_misses_total",
				Help:      "Total number of cache misses",
			},
		),
	}

	registry.MustRegister(
		cm.operations,
		cm.hitsTotal,
		cm.missesTotal,
	)

	return cm
}

// Record records one cache command.
func (cm *CacheMetrics) Record(op, outcome string) {
	cm.operations.WithLabelValues(op, outcome).Inc()
	switch outcome {
	case "hit":
		cm.hitsTotal.Inc()
	case "miss":
		cm.missesTotal.Inc()
	}
}
