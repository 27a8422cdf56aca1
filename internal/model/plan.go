// Package model defines the domain types shared by the vesting and lockup ledgers.
package model

import "math/big"

// ID is a plan handle. Handles are assigned from one monotonic counter and
// key both ledgers: the lockup plan created for vesting plan N also gets
// handle N.
type ID uint64

// Account is an opaque identity: a beneficiary, an admin, a custody vault or
// the engine's own omnibus accounts.
type Account string

// Zero reports whether the account is unset.
func (a Account) Zero() bool { return a == "" }

// Schedule holds the four parameters of a streaming schedule. Rate is the
// amount released per whole elapsed Period after Cliff. A schedule with
// Rate == Amount collapses to a single unlock at Cliff and its Period is
// coerced to 1 at validation time.
type Schedule struct {
	Amount *big.Int
	Start  uint64
	Cliff  uint64
	Rate   *big.Int
	Period uint64
}

// VestingPlan is the issuer-side ledger entry. Amount is the remaining
// principal that has not been redeemed yet; Pointer is the accrual pointer,
// initialized to Cliff and advanced by whole periods on every redemption.
type VestingPlan struct {
	ID               ID
	Owner            Account
	Amount           *big.Int
	Start            uint64
	Cliff            uint64
	Rate             *big.Int
	Period           uint64
	Pointer          uint64
	VestingAdmin     Account
	AdminRedeem      bool
	AdminTransferOBO bool
	Revoked          bool
	RevokeAt         uint64
	Exhausted        bool
}

// LockupPlan is the beneficiary-side ledger entry. Amount is the lockup
// principal the schedule has not released yet; Unpaid is value the schedule
// already released that custody could not cover at the time, still owed to
// the beneficiary; TotalAmount is custody pulled in from the vesting plan
// and not yet paid out; AvailableAmount is the unlock cap and tracks
// TotalAmount except after a vesting-side sync recovery truncated it.
type LockupPlan struct {
	ID               ID
	Beneficiary      Account
	VestingHandle    ID
	Amount           *big.Int
	Start            uint64
	Cliff            uint64
	Rate             *big.Int
	Period           uint64
	Pointer          uint64
	Unpaid           *big.Int
	TotalAmount      *big.Int
	AvailableAmount  *big.Int
	PaidOut          *big.Int
	VestingAdmin     Account
	AdminRedeem      bool
	Transferable     bool
	AdminTransferOBO bool
}

// Recipient describes one beneficiary in a batch creation call.
type Recipient struct {
	Beneficiary Account
	AdminRedeem bool
}

// LockBalance is the read view returned by lockup balance queries.
type LockBalance struct {
	Locked     *big.Int
	Unlocked   *big.Int
	UnlockTime uint64
}
