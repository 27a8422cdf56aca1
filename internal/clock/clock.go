// Package clock provides the ledger's logical clock and time helpers.
package clock

import (
	"sync/atomic"
	"time"
)

// Clock supplies the single monotonically increasing timestamp every ledger
// operation is evaluated against. Timestamps are unix seconds.
type Clock interface {
	Now() uint64
}

// Wall reads the operating system clock.
type Wall struct{}

func (Wall) Now() uint64 {
	return uint64(time.Now().Unix())
}

// Manual is an advance-only clock for tests and replay.
type Manual struct {
	now atomic.Uint64
}

// NewManual returns a Manual clock set to start.
func NewManual(start uint64) *Manual {
	m := &Manual{}
	m.now.Store(start)
	return m
}

func (m *Manual) Now() uint64 {
	return m.now.Load()
}

// Advance moves the clock forward by d seconds.
func (m *Manual) Advance(d uint64) {
	m.now.Add(d)
}

// Set moves the clock to t. Moving backwards is ignored.
func (m *Manual) Set(t uint64) {
	for {
		cur := m.now.Load()
		if t <= cur {
			return
		}
		if m.now.CompareAndSwap(cur, t) {
			return
		}
	}
}
