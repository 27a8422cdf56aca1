package ledger

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/vestlock-labs/vestlock-backend/internal/model"
	"go.uber.org/zap"
)

// RedeemVestingPlans pulls each lockup plan's accrued vesting balance into
// its custody, raising TotalAmount and AvailableAmount by what arrived. A
// vesting side that fails mid-redeem does not fail the call: custody
// counters are truncated to what is really available, a recovery event is
// journaled and accounting continues.
func (e *Engine) RedeemVestingPlans(ctx context.Context, caller model.Account, handles []model.ID) (err error) {
	started := time.Now()
	defer func() { e.metrics.Observe("redeem_vesting_plans", err, started) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	plans, err := e.lockupsForRedeem(caller, handles)
	if err != nil {
		return err
	}
	for _, lp := range plans {
		e.pullVesting(ctx, lp, now)
	}
	return nil
}

func (e *Engine) lockupsForRedeem(caller model.Account, handles []model.ID) ([]*model.LockupPlan, error) {
	if err := distinctHandles(handles); err != nil {
		return nil, err
	}
	plans := make([]*model.LockupPlan, 0, len(handles))
	for _, h := range handles {
		lp, ok := e.lockups[h]
		if !ok {
			return nil, fmt.Errorf("handle %d: %w", h, model.ErrPlanNotFound)
		}
		if !e.authorizedLockupRedeemer(lp, caller) {
			return nil, fmt.Errorf("handle %d: %w", h, model.ErrNotApproved)
		}
		plans = append(plans, lp)
	}
	return plans, nil
}

func (e *Engine) authorizedLockupRedeemer(lp *model.LockupPlan, caller model.Account) bool {
	if caller == lp.Beneficiary {
		return true
	}
	if lp.AdminRedeem && caller == lp.VestingAdmin {
		return true
	}
	return e.redeemers[lp.ID][caller]
}

// pullVesting redeems the backing vesting plan into lockup custody. The
// recovery branch fires when the vesting side cannot deliver: counters are
// truncated so unlock math never promises value custody does not hold.
func (e *Engine) pullVesting(ctx context.Context, lp *model.LockupPlan, now uint64) {
	vp, ok := e.vesting[lp.VestingHandle]
	if !ok || vp.Exhausted {
		return
	}

	paid, err := e.redeemVesting(vp, e.lockupCustodyFor(lp.ID), now)
	if err != nil {
		e.logger.Warn("vesting side desynced, truncating custody counters",
			zap.Uint64("lockup", uint64(lp.ID)),
			zap.Uint64("vesting", uint64(lp.VestingHandle)),
			zap.Error(err))
		e.metrics.ObserveSyncRecovery()
		lp.TotalAmount = new(big.Int).Set(lp.AvailableAmount)
		e.record(ctx, e.event(model.EventVestingSyncRecovered, lp.ID, lp.Beneficiary, lp.TotalAmount, now))
		return
	}
	if paid.Sign() == 0 {
		return
	}

	lp.TotalAmount.Add(lp.TotalAmount, paid)
	lp.AvailableAmount.Add(lp.AvailableAmount, paid)
	e.record(ctx, e.event(model.EventVestingRedeemed, lp.ID, lp.Beneficiary, paid, now))
}

// Unlock pays each plan's unlocked balance to its beneficiary. The whole
// call validates first: any plan with nothing unlocked fails the batch with
// no_unlocked_balance before a single payout happens.
func (e *Engine) Unlock(ctx context.Context, caller model.Account, handles []model.ID) (err error) {
	started := time.Now()
	defer func() { e.metrics.Observe("unlock", err, started) }()

	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.clock.Now()

	if err = distinctHandles(handles); err != nil {
		return err
	}

	type pending struct {
		lp    *model.LockupPlan
		split lockSplit
	}
	batch := make([]pending, 0, len(handles))
	for _, h := range handles {
		lp, ok := e.lockups[h]
		if !ok {
			return fmt.Errorf("handle %d: %w", h, model.ErrPlanNotFound)
		}
		if caller != lp.Beneficiary {
			return fmt.Errorf("handle %d: %w", h, model.ErrNotOwner)
		}
		split, err := e.lockBalance(lp, now)
		if err != nil {
			return err
		}
		if split.unlocked.Sign() == 0 {
			return fmt.Errorf("handle %d: %w", h, model.ErrNoUnlockedFunds)
		}
		batch = append(batch, pending{lp: lp, split: split})
	}

	for _, p := range batch {
		if err := e.payout(ctx, p.lp, p.split, now); err != nil {
			return err
		}
	}
	return nil
}

// payout executes one unlock: value to the beneficiary, counters down,
// pointer forward, and the pair burned once nothing can ever arrive again.
func (e *Engine) payout(ctx context.Context, lp *model.LockupPlan, split lockSplit, now uint64) error {
	if err := e.pool.Transfer(e.lockupCustodyFor(lp.ID), lp.Beneficiary, split.unlocked); err != nil {
		return fmt.Errorf("unlock %d: %w", lp.ID, err)
	}

	lp.TotalAmount.Sub(lp.TotalAmount, split.unlocked)
	lp.AvailableAmount.Sub(lp.AvailableAmount, split.unlocked)
	lp.PaidOut.Add(lp.PaidOut, split.unlocked)
	lp.Amount.Sub(lp.Amount, split.released)
	lp.Unpaid.Add(lp.Unpaid, split.released)
	lp.Unpaid.Sub(lp.Unpaid, split.unlocked)
	lp.Pointer = split.nextPointer

	e.record(ctx, e.event(model.EventUnlocked, lp.ID, lp.Beneficiary, split.unlocked, now))

	if lp.TotalAmount.Sign() == 0 && e.vestingGone(lp.VestingHandle) {
		e.burnPair(ctx, lp, now)
	}
	return nil
}

func (e *Engine) vestingGone(handle model.ID) bool {
	vp, ok := e.vesting[handle]
	return !ok || vp.Exhausted
}

func (e *Engine) burnPair(ctx context.Context, lp *model.LockupPlan, now uint64) {
	delete(e.vesting, lp.VestingHandle)
	delete(e.lockups, lp.ID)
	delete(e.claimed, lp.VestingHandle)
	delete(e.delegated, lp.ID)
	delete(e.redeemers, lp.ID)
	delete(e.delegators, lp.ID)

	e.logger.Info("plan pair burned",
		zap.Uint64("lockup", uint64(lp.ID)),
		zap.Uint64("vesting", uint64(lp.VestingHandle)))
	e.record(ctx, e.event(model.EventPlanBurned, lp.ID, lp.Beneficiary, nil, now))
}

// RedeemAndUnlock composes the redeem and unlock steps per handle. Unlike
// Unlock, a zero unlocked balance is a no-op here, which makes the composed
// call idempotent at a fixed instant.
func (e *Engine) RedeemAndUnlock(ctx context.Context, caller model.Account, handles []model.ID) (err error) {
	started := time.Now()
	defer func() { e.metrics.Observe("redeem_and_unlock", err, started) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	plans, err := e.lockupsForRedeem(caller, handles)
	if err != nil {
		return err
	}

	for _, lp := range plans {
		e.pullVesting(ctx, lp, now)

		split, err := e.lockBalance(lp, now)
		if err != nil {
			return err
		}
		if split.unlocked.Sign() == 0 {
			continue
		}
		if err := e.payout(ctx, lp, split, now); err != nil {
			return err
		}
	}
	return nil
}

// BurnRevokedVesting clears a lockup plan whose vesting side was revoked.
// The accrued-at-revocation remainder must have been pulled in first and
// custody fully drained; until then the plan stays queryable.
func (e *Engine) BurnRevokedVesting(ctx context.Context, caller model.Account, handle model.ID) (err error) {
	started := time.Now()
	defer func() { e.metrics.Observe("burn_revoked_vesting", err, started) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	lp, ok := e.lockups[handle]
	if !ok {
		return model.ErrPlanNotFound
	}
	if caller != lp.Beneficiary && caller != lp.VestingAdmin {
		return model.ErrNotApproved
	}
	if vp, live := e.vesting[lp.VestingHandle]; live {
		if !vp.Revoked || vp.Amount.Sign() > 0 {
			return model.ErrNotRevoked
		}
	}
	if lp.TotalAmount.Sign() > 0 {
		return model.ErrNotDrained
	}

	e.burnPair(ctx, lp, e.clock.Now())
	return nil
}
