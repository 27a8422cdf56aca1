package ledger

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/vestlock-labs/vestlock-backend/internal/model"
	"github.com/vestlock-labs/vestlock-backend/internal/schedule"
)

// createLockup claims a custodied vesting handle and opens the lockup ledger
// entry over it, under the same handle. TotalAmount, AvailableAmount and
// PaidOut all start at zero: custody only grows when redeemed vesting value
// actually arrives.
func (e *Engine) createLockup(beneficiary model.Account, vestingHandle model.ID, terms model.Schedule) (model.ID, error) {
	vp, ok := e.vesting[vestingHandle]
	if !ok {
		return 0, fmt.Errorf("vesting handle %d: %w", vestingHandle, model.ErrPlanNotFound)
	}
	if vp.Owner != AccountLockupCustody {
		return 0, fmt.Errorf("vesting handle %d: %w", vestingHandle, model.ErrNotCustodied)
	}
	if _, taken := e.claimed[vestingHandle]; taken {
		return 0, fmt.Errorf("vesting handle %d: %w", vestingHandle, model.ErrAllocated)
	}

	s, err := schedule.Normalize(terms)
	if err != nil {
		return 0, err
	}

	id := vestingHandle
	e.lockups[id] = &model.LockupPlan{
		ID:               id,
		Beneficiary:      beneficiary,
		VestingHandle:    vestingHandle,
		Amount:           new(big.Int).Set(s.Amount),
		Start:            s.Start,
		Cliff:            s.Cliff,
		Rate:             new(big.Int).Set(s.Rate),
		Period:           s.Period,
		Pointer:          s.Cliff,
		Unpaid:           new(big.Int),
		TotalAmount:      new(big.Int),
		AvailableAmount:  new(big.Int),
		PaidOut:          new(big.Int),
		VestingAdmin:     vp.VestingAdmin,
		AdminRedeem:      vp.AdminRedeem,
		AdminTransferOBO: vp.AdminTransferOBO,
	}
	e.claimed[vestingHandle] = id
	return id, nil
}

// lockSplit is the lockup plan's position at an instant: how much of its
// custodied value is claimable, how much is still locked, and when the next
// tranche arrives.
type lockSplit struct {
	locked     *big.Int
	unlocked   *big.Int
	unlockTime uint64

	// released is what the schedule newly frees up to now; nextPointer is
	// where the unlock pointer lands once those periods are consumed.
	released    *big.Int
	nextPointer uint64
}

// lockBalance computes the locked/unlocked split. The schedule gives the
// entitlement: newly released periods plus any Unpaid shortfall left by
// earlier custody-capped payouts. AvailableAmount caps the payable part;
// the pointer always consumes released periods in full, the uncovered
// remainder is carried in Unpaid rather than re-released later.
func (e *Engine) lockBalance(lp *model.LockupPlan, now uint64) (lockSplit, error) {
	if now < lp.Start {
		return lockSplit{
			locked:      new(big.Int).Set(lp.TotalAmount),
			unlocked:    new(big.Int),
			unlockTime:  lp.Start,
			released:    new(big.Int),
			nextPointer: lp.Pointer,
		}, nil
	}

	res, err := schedule.Balance(lp.Amount, lp.Rate, lp.Cliff, lp.Pointer, lp.Period, now)
	if err != nil {
		return lockSplit{}, err
	}

	entitled := new(big.Int).Add(lp.Unpaid, res.Balance)
	unlocked := bigMin(entitled, lp.AvailableAmount)

	return lockSplit{
		locked:      new(big.Int).Sub(lp.TotalAmount, unlocked),
		unlocked:    unlocked,
		unlockTime:  res.NextPointer,
		released:    res.Balance,
		nextPointer: res.NextPointer,
	}, nil
}

// EditLockDetails replaces the lockup schedule before it has begun. Editable
// only while now is strictly before both the current start and the current
// cliff; the replacement is validated like a fresh plan and the unlock
// pointer resets to the new cliff.
func (e *Engine) EditLockDetails(ctx context.Context, caller model.Account, handle model.ID, terms model.Schedule) (err error) {
	started := time.Now()
	defer func() { e.metrics.Observe("edit_lock_details", err, started) }()

	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.clock.Now()

	lp, ok := e.lockups[handle]
	if !ok {
		return model.ErrPlanNotFound
	}
	if caller != lp.VestingAdmin {
		return model.ErrNotVestingAdmin
	}
	if now >= lp.Start || now >= lp.Cliff {
		return model.ErrNotEditable
	}

	s, err := schedule.Normalize(terms)
	if err != nil {
		if errors.Is(err, model.ErrCliffAfterEnd) {
			return model.ErrEndBeforeCliff
		}
		return err
	}

	lp.Amount = new(big.Int).Set(s.Amount)
	lp.Start = s.Start
	lp.Cliff = s.Cliff
	lp.Rate = new(big.Int).Set(s.Rate)
	lp.Period = s.Period
	lp.Pointer = s.Cliff

	e.record(ctx, e.event(model.EventLockEdited, handle, lp.Beneficiary, s.Amount, now))
	return nil
}

// UpdateTransferability toggles whether the beneficiary may transfer the
// lockup position. Vesting admin only.
func (e *Engine) UpdateTransferability(ctx context.Context, caller model.Account, handle model.ID, transferable bool) (err error) {
	started := time.Now()
	defer func() { e.metrics.Observe("update_transferability", err, started) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	lp, ok := e.lockups[handle]
	if !ok {
		return model.ErrPlanNotFound
	}
	if caller != lp.VestingAdmin {
		return model.ErrNotAdmin
	}
	lp.Transferable = transferable

	e.record(ctx, e.event(model.EventTransferabilityUpdated, handle, caller, nil, e.clock.Now()))
	return nil
}

// UpdateAdminTransferOBO toggles whether the vesting admin may move the
// position on the beneficiary's behalf. Beneficiary only.
func (e *Engine) UpdateAdminTransferOBO(ctx context.Context, caller model.Account, handle model.ID, enabled bool) (err error) {
	started := time.Now()
	defer func() { e.metrics.Observe("update_admin_transfer_obo", err, started) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	lp, ok := e.lockups[handle]
	if !ok {
		return model.ErrPlanNotFound
	}
	if caller != lp.Beneficiary {
		return model.ErrNotOwner
	}
	lp.AdminTransferOBO = enabled

	e.record(ctx, e.event(model.EventAdminTransferOBOUpdated, handle, caller, nil, e.clock.Now()))
	return nil
}

// UpdateVestingAdmin hands the admin role over on both sides of the pair.
func (e *Engine) UpdateVestingAdmin(ctx context.Context, caller model.Account, handle model.ID, admin model.Account) (err error) {
	started := time.Now()
	defer func() { e.metrics.Observe("update_vesting_admin", err, started) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	lp, ok := e.lockups[handle]
	if !ok {
		return model.ErrPlanNotFound
	}
	if caller != lp.VestingAdmin {
		return model.ErrNotVestingAdmin
	}
	lp.VestingAdmin = admin
	if vp, ok := e.vesting[lp.VestingHandle]; ok {
		vp.VestingAdmin = admin
	}

	e.record(ctx, e.event(model.EventVestingAdminUpdated, handle, admin, nil, e.clock.Now()))
	return nil
}
