package metrics

import (
	"naviroute/gateway/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// JournalMetrics tracks route journal writes.
//
// Metrics:
//   - naviroute_journal_entries_total: entries by outcome ("written",
//     "failed", "dropped")
type JournalMetrics struct {
	entries *prometheus.CounterVec
}

// NewJournalMetrics creates and registers journal metrics with the provided registry.
func NewJournalMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *JournalMetrics {
	jm := &JournalMetrics{
		entries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "journal_entries_total",
				Help:      "Total number of journal entries by outcome",
			},
			[]string{"outcome"},
		),
	}

	registry.MustRegister(jm.entries)

	return jm
}

// Record records the outcome of one journal entry.
func (jm *JournalMetrics) Record(outcome string) {
	jm.entries.WithLabelValues(outcome).Inc()
}
