package clickhouse

import (
	"context"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Batch is the subset of the driver batch the repository appends to.
	Batch interface {
		Append(v ...any) error
		Send() error
	}

	// Conn is the subset of the driver connection the repository uses.
	Conn interface {
		PrepareBatch(ctx context.Context, query string) (Batch, error)
		Ping(ctx context.Context) error
		Close() error
	}

	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}
)

// driverConn narrows a driver connection to the Conn interface.
type driverConn struct {
	driver.Conn
}

func (c driverConn) PrepareBatch(ctx context.Context, query string) (Batch, error) {
	return c.Conn.PrepareBatch(ctx, query)
}
