package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/vestlock-labs/vestlock-backend/internal/model"
)

// InsertEvents appends ledger events to the journal table.
func (r *Repository) InsertEvents(ctx context.Context, events []model.LedgerEvent) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_events", err, start)
	}()

	if len(events) == 0 {
		return nil
	}

	const query = `
INSERT INTO ledger_events (
	event_type,
	plan_id,
	account,
	amount,
	ledger_at,
	created_at
) VALUES`

	batch, err := r.conn.PrepareBatch(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare events batch: %w", err)
	}

	for _, ev := range events {
		if err = batch.Append(
			string(ev.Type),
			uint64(ev.PlanID),
			string(ev.Account),
			ev.Amount,
			ev.LedgerAt,
			ev.CreatedAt,
		); err != nil {
			return fmt.Errorf("append event: %w", err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert events: %w", err)
	}
	return nil
}
