// Package journal buffers ledger events and writes them to the event store
// in batches. The ledger never blocks on the store: events queue in memory
// and flush by size or interval.
package journal

import (
	"context"
	"errors"
	"time"

	"github.com/vestlock-labs/vestlock-backend/internal/model"
	"github.com/vestlock-labs/vestlock-backend/pkg/batcher"
	"go.uber.org/zap"
)

// Writer is the buffered journal. Record enqueues; a background loop flushes
// to the repository.
type Writer struct {
	b *batcher.Batcher[model.LedgerEvent]
}

// NewWriter builds a Writer flushing up to flushSize events at least every
// flushInterval, with at most rps repository writes per second.
func NewWriter(
	logger *zap.Logger,
	repo Repository,
	metrics Metrics,
	flushSize int,
	flushInterval time.Duration,
	rps int,
) (*Writer, error) {
	if repo == nil {
		return nil, errors.New("journal repository is required")
	}
	if metrics == nil {
		return nil, errors.New("journal metrics is required")
	}
	if flushSize <= 0 {
		return nil, errors.New("flush size must be positive")
	}

	b := batcher.New(logger.Named("journal"), repo.InsertEvents, flushSize, flushInterval, rps)
	b.OnFlush(metrics.ObserveFlush)
	return &Writer{b: b}, nil
}

// Start begins the background flush loop.
func (w *Writer) Start(ctx context.Context) {
	w.b.Start(ctx)
}

// Stop flushes anything still queued and stops the loop.
func (w *Writer) Stop() {
	w.b.Stop()
}

// Record enqueues events for the next flush. A full queue blocks until the
// flusher catches up or ctx is done.
func (w *Writer) Record(ctx context.Context, events ...model.LedgerEvent) error {
	for _, ev := range events {
		if err := w.b.Add(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}
