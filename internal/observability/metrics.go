package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks accrual engine outcomes across runs.
type Metrics struct {
	EntriesCreated prometheus.Counter
	EntriesUpdated prometheus.Counter
	EntriesSkipped prometheus.Counter
	ItemErrors     prometheus.Counter
	RunDuration    prometheus.Histogram
}

func NewMetrics() *Metrics {
	return NewMetricsFor(prometheus.DefaultRegisterer)
}

// NewMetricsFor registers against an explicit registerer so tests can use an
// isolated registry.
func NewMetricsFor(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		EntriesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clipfuel_accrual_entries_created_total",
			Help: "Ledger entries created by accrual runs.",
		}),
		EntriesUpdated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clipfuel_accrual_entries_updated_total",
			Help: "Ledger entries updated by accrual runs.",
		}),
		EntriesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clipfuel_accrual_entries_skipped_total",
			Help: "Reconciliations skipped (unchanged, mid-payout, or raced).",
		}),
		ItemErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clipfuel_accrual_item_errors_total",
			Help: "Per-source and per-submission failures recorded during runs.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "clipfuel_accrual_run_duration_seconds",
			Help:    "Wall time of full accrual runs.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
	}

	reg.MustRegister(m.EntriesCreated, m.EntriesUpdated, m.EntriesSkipped, m.ItemErrors, m.RunDuration)
	return m
}
