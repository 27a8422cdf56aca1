package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	journalFlushTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vestlock",
		Subsystem: "journal",
		Name:      "flushes_total",
		Help:      "Count of journal buffer flushes.",
	}, []string{"status"})
	journalFlushDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "vestlock",
		Subsystem: "journal",
		Name:      "flush_duration_seconds",
		Help:      "Duration of journal buffer flushes.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"status"})
	journalEventsWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vestlock",
		Subsystem: "journal",
		Name:      "events_written_total",
		Help:      "Count of ledger events written per flush status.",
	}, []string{"status"})
)

// JournalWriter tracks metrics for the buffered journal writer.
type JournalWriter struct{}

// NewJournalWriter creates a JournalWriter metrics collector.
func NewJournalWriter() *JournalWriter {
	return &JournalWriter{}
}

// ObserveFlush records one buffer flush of count events.
func (m JournalWriter) ObserveFlush(err error, count int, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}

	journalFlushTotal.WithLabelValues(status).Inc()
	journalFlushDuration.WithLabelValues(status).Observe(time.Since(started).Seconds())
	journalEventsWritten.WithLabelValues(status).Add(float64(count))
}
