// Package schedule implements the streaming-balance math shared by the
// vesting and lockup ledgers. All arithmetic is exact integer arithmetic:
// amounts are big.Int, timestamps are unix seconds and every pointer
// advancement is overflow-checked.
package schedule

import (
	"fmt"
	"math/big"

	"github.com/vestlock-labs/vestlock-backend/internal/model"
	"github.com/vestlock-labs/vestlock-backend/pkg/safe"
)

// Result is the outcome of a balance computation. Balance is releasable now,
// Remainder is still streaming, and NextPointer is where the schedule pointer
// lands after the releasable amount is taken (always a whole number of
// periods past the previous pointer).
type Result struct {
	Balance     *big.Int
	Remainder   *big.Int
	NextPointer uint64
}

// Balance computes the amount released between the schedule pointer and `to`.
// The pointer starts at the cliff, so the period containing the cliff counts
// as elapsed the moment `to` reaches it. A schedule with rate == amount
// releases everything in one step at the cliff.
func Balance(amount, rate *big.Int, cliff, pointer, period, to uint64) (Result, error) {
	zero := Result{Balance: new(big.Int), Remainder: new(big.Int).Set(amount), NextPointer: pointer}

	if amount.Sign() == 0 {
		return Result{Balance: new(big.Int), Remainder: new(big.Int), NextPointer: pointer}, nil
	}
	if to < cliff || to < pointer {
		return zero, nil
	}

	if rate.Cmp(amount) == 0 {
		// Single-date collapse: the whole amount unlocks at the cliff and
		// the pointer moves past the one-second synthetic period.
		next, err := safe.Add64(pointer, 1)
		if err != nil {
			return Result{}, fmt.Errorf("advance pointer: %w", err)
		}
		return Result{Balance: new(big.Int).Set(amount), Remainder: new(big.Int), NextPointer: next}, nil
	}

	if period == 0 {
		return Result{}, model.ErrZeroPeriod
	}

	elapsed := (to-pointer)/period + 1
	gross := new(big.Int).Mul(rate, new(big.Int).SetUint64(elapsed))

	if gross.Cmp(amount) >= 0 {
		// Schedule end reached: cap at the remaining amount and advance the
		// pointer by exactly the periods the amount still needed.
		needed, err := periodsFor(amount, rate)
		if err != nil {
			return Result{}, err
		}
		next, err := advance(pointer, needed, period)
		if err != nil {
			return Result{}, err
		}
		return Result{Balance: new(big.Int).Set(amount), Remainder: new(big.Int), NextPointer: next}, nil
	}

	next, err := advance(pointer, elapsed, period)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Balance:     gross,
		Remainder:   new(big.Int).Sub(amount, gross),
		NextPointer: next,
	}, nil
}

// End computes the schedule end timestamp: start plus one period per
// rate-sized slice of the amount, rounding the last partial slice up.
func End(start uint64, amount, rate *big.Int, period uint64) (uint64, error) {
	if rate.Sign() == 0 {
		return 0, model.ErrZeroRate
	}
	if rate.Cmp(amount) == 0 {
		// Single-date schedules carry a coerced period of 1.
		period = 1
	}
	if period == 0 {
		return 0, model.ErrZeroPeriod
	}
	periods, err := periodsFor(amount, rate)
	if err != nil {
		return 0, err
	}
	return advance(start, periods, period)
}

// Normalize validates a schedule's numeric invariants and returns it with the
// single-date period coercion applied.
func Normalize(s model.Schedule) (model.Schedule, error) {
	if s.Amount == nil || s.Amount.Sign() <= 0 {
		return s, model.ErrZeroAmount
	}
	if s.Rate == nil || s.Rate.Sign() <= 0 {
		return s, model.ErrZeroRate
	}
	if s.Rate.Cmp(s.Amount) > 0 {
		return s, model.ErrRateOverAmount
	}
	if s.Rate.Cmp(s.Amount) == 0 {
		s.Period = 1
	}
	if s.Period == 0 {
		return s, model.ErrZeroPeriod
	}
	end, err := End(s.Start, s.Amount, s.Rate, s.Period)
	if err != nil {
		return s, err
	}
	if s.Cliff > end {
		return s, model.ErrCliffAfterEnd
	}
	return s, nil
}

func periodsFor(amount, rate *big.Int) (uint64, error) {
	q, m := new(big.Int).QuoRem(amount, rate, new(big.Int))
	if m.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	if !q.IsUint64() {
		return 0, fmt.Errorf("schedule needs %s periods, out of range", q)
	}
	return q.Uint64(), nil
}

func advance(from, periods, period uint64) (uint64, error) {
	span, err := safe.Mul64(periods, period)
	if err != nil {
		return 0, fmt.Errorf("schedule span: %w", err)
	}
	next, err := safe.Add64(from, span)
	if err != nil {
		return 0, fmt.Errorf("schedule end: %w", err)
	}
	return next, nil
}
