// Package metrics exposes the Prometheus collectors for the ledger engine,
// the journal writer and the ClickHouse repository.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ledgerOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vestlock",
		Subsystem: "ledger",
		Name:      "operations_total",
		Help:      "Count of ledger engine operations.",
	}, []string{"operation", "status"})
	ledgerOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "vestlock",
		Subsystem: "ledger",
		Name:      "operation_duration_seconds",
		Help:      "Duration of ledger engine operations.",
		Buckets:   []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
	}, []string{"operation", "status"})
	ledgerSyncRecoveriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "vestlock",
		Subsystem: "ledger",
		Name:      "vesting_sync_recoveries_total",
		Help:      "Count of vesting-side desyncs recovered by truncating custody counters.",
	})
)

// LedgerEngine tracks metrics for ledger engine operations.
type LedgerEngine struct{}

// NewLedgerEngine creates a LedgerEngine metrics collector.
func NewLedgerEngine() *LedgerEngine {
	return &LedgerEngine{}
}

// Observe records duration and status of one engine operation.
func (m LedgerEngine) Observe(operation string, err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}

	ledgerOperationsTotal.WithLabelValues(operation, status).Inc()
	ledgerOperationDuration.WithLabelValues(operation, status).Observe(time.Since(started).Seconds())
}

// ObserveSyncRecovery counts one recovered vesting-side desync.
func (m LedgerEngine) ObserveSyncRecovery() {
	ledgerSyncRecoveriesTotal.Inc()
}
