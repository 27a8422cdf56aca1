package journal

import (
	"context"
	"time"

	"github.com/vestlock-labs/vestlock-backend/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Repository persists batches of ledger events.
	Repository interface {
		InsertEvents(ctx context.Context, events []model.LedgerEvent) error
	}

	// Metrics observes buffer flushes.
	Metrics interface {
		ObserveFlush(err error, count int, started time.Time)
	}
)
