package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Shift metrics
	ShiftsStarted   prometheus.Counter
	ShiftsEnded     prometheus.Counter
	ShiftsAbandoned prometheus.Counter
	ShiftHandovers  prometheus.Counter
	ShiftVariances  prometheus.Counter
	ShiftDuration   prometheus.Histogram

	// Ledger metrics
	LedgerEntriesCreated *prometheus.CounterVec
	DrawerBalance        *prometheus.GaugeVec
	LowBalanceAlerts     *prometheus.CounterVec

	// Reconciliation metrics
	Reconciliations *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		ShiftsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cashdesk_shifts_started_total",
			Help: "Total number of shifts started",
		}),
		ShiftsEnded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cashdesk_shifts_ended_total",
			Help: "Total number of shifts ended",
		}),
		ShiftsAbandoned: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cashdesk_shifts_abandoned_total",
			Help: "Total number of shifts abandoned",
		}),
		ShiftHandovers: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cashdesk_shift_handovers_total",
			Help: "Total number of shift handovers",
		}),
		ShiftVariances: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cashdesk_shift_variances_total",
			Help: "Total number of shifts closed with variance outside tolerance",
		}),
		ShiftDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "cashdesk_shift_duration_hours",
			Help:    "Duration of completed shifts in hours",
			Buckets: []float64{1, 2, 4, 6, 8, 10, 12, 16, 24},
		}),
		LedgerEntriesCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashdesk_ledger_entries_total",
				Help: "Total number of ledger entries by kind",
			},
			[]string{"kind"},
		),
		DrawerBalance: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "cashdesk_drawer_balance",
				Help: "Current cached drawer balance per currency",
			},
			[]string{"drawer_id", "currency_id"},
		),
		LowBalanceAlerts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashdesk_low_balance_alerts_total",
				Help: "Total number of low-balance alerts",
			},
			[]string{"drawer_id", "currency_id"},
		),
		Reconciliations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashdesk_reconciliations_total",
				Help: "Total number of reconciliations by variance status",
			},
			[]string{"status"},
		),
	}
}
