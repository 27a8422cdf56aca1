package model

import "errors"

// Validation errors. All are raised before any state change.
var (
	ErrLenMismatch     = errors.New("lenError")
	ErrDuplicateHandle = errors.New("duplicate handle")
	ErrZeroTotalAmount = errors.New("0_totalAmount")
	ErrTotalAmount     = errors.New("totalAmount error")
	ErrZeroAmount      = errors.New("0_amount")
	ErrZeroRate        = errors.New("0_rate")
	ErrZeroPeriod      = errors.New("0_period")
	ErrRateOverAmount  = errors.New("rate > amount")
	ErrCliffAfterEnd   = errors.New("cliff > end")
	ErrEndBeforeCliff  = errors.New("end error")
)

// Authorization errors. The caller lacks the right to perform the operation.
var (
	ErrNotApproved     = errors.New("!approved")
	ErrNotVestingAdmin = errors.New("!vestingAdmin")
	ErrNotAdmin        = errors.New("!vA")
	ErrNotOwner        = errors.New("!owner")
)

// State errors. The operation is invalid for the plan's current lifecycle state.
var (
	ErrAllocated        = errors.New("allocated")
	ErrNotCustodied     = errors.New("!ownerOfNFT")
	ErrNotEditable      = errors.New("!editable")
	ErrNotRevoked       = errors.New("!revoked")
	ErrNotDrained       = errors.New("!drained")
	ErrNoUnlockedFunds  = errors.New("no_unlocked_balance")
	ErrPlanNotFound     = errors.New("plan not found")
	ErrInsufficientBal  = errors.New("insufficient balance")
	ErrAlreadyRevoked   = errors.New("already revoked")
	ErrRevokeInThePast  = errors.New("revoke time before now")
)

// IsValidation reports whether err belongs to the validation class.
func IsValidation(err error) bool {
	for _, e := range []error{
		ErrLenMismatch, ErrDuplicateHandle, ErrZeroTotalAmount, ErrTotalAmount,
		ErrZeroAmount, ErrZeroRate, ErrZeroPeriod, ErrRateOverAmount,
		ErrCliffAfterEnd, ErrEndBeforeCliff,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

// IsAuthorization reports whether err belongs to the authorization class.
func IsAuthorization(err error) bool {
	for _, e := range []error{ErrNotApproved, ErrNotVestingAdmin, ErrNotAdmin, ErrNotOwner} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
