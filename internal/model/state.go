package model

import "math/big"

// PlanState is the derived lifecycle state of a vesting/lockup pair. It is
// never persisted; the counters are the source of truth.
type PlanState string

var (
	// StateDormant means no value has been redeemed or paid out yet.
	StateDormant PlanState = "dormant"
	// StateVestingOnly means custody holds redeemed value but nothing has
	// been paid to the beneficiary.
	StateVestingOnly PlanState = "vesting_only"
	// StatePartiallyUnlocked means the beneficiary has received some value
	// and more remains.
	StatePartiallyUnlocked PlanState = "partially_unlocked"
	// StateExhausted means both schedules are drained; the handle is ready
	// to burn or already burned.
	StateExhausted PlanState = "exhausted"
)

// DeriveState computes the lifecycle state of a plan pair from its counters.
func DeriveState(vestingRemaining, totalAmount, paidOut *big.Int, vestingExhausted bool) PlanState {
	zeroTotal := totalAmount.Sign() == 0
	zeroPaid := paidOut.Sign() == 0

	if vestingExhausted && zeroTotal && vestingRemaining.Sign() == 0 {
		return StateExhausted
	}
	if zeroTotal && zeroPaid {
		return StateDormant
	}
	if zeroPaid {
		return StateVestingOnly
	}
	return StatePartiallyUnlocked
}
