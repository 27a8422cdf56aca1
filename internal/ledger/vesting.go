package ledger

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/vestlock-labs/vestlock-backend/internal/model"
	"github.com/vestlock-labs/vestlock-backend/internal/schedule"
	"go.uber.org/zap"
)

// VestingTerms are the creation parameters of one vesting plan.
type VestingTerms struct {
	Schedule         model.Schedule
	VestingAdmin     model.Account
	AdminRedeem      bool
	AdminTransferOBO bool
}

// CreateVestingPlan creates a standalone vesting plan owned by `owner` and
// debits the principal from the creator. To back a lockup plan, the owner
// must be the lockup custody account.
func (e *Engine) CreateVestingPlan(ctx context.Context, creator, owner model.Account, terms VestingTerms) (id model.ID, err error) {
	started := time.Now()
	defer func() { e.metrics.Observe("create_vesting_plan", err, started) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	id, err = e.createVesting(creator, owner, terms)
	if err != nil {
		return 0, err
	}
	e.record(ctx, e.event(model.EventPlanCreated, id, owner, e.vesting[id].Amount, now))
	return id, nil
}

func (e *Engine) createVesting(creator, owner model.Account, terms VestingTerms) (model.ID, error) {
	s, err := schedule.Normalize(terms.Schedule)
	if err != nil {
		return 0, err
	}
	if owner.Zero() {
		return 0, fmt.Errorf("vesting owner is required")
	}

	if err := e.pool.Transfer(creator, AccountVestingCustody, s.Amount); err != nil {
		return 0, fmt.Errorf("fund vesting plan: %w", err)
	}

	id := e.allocate()
	e.vesting[id] = &model.VestingPlan{
		ID:               id,
		Owner:            owner,
		Amount:           new(big.Int).Set(s.Amount),
		Start:            s.Start,
		Cliff:            s.Cliff,
		Rate:             new(big.Int).Set(s.Rate),
		Period:           s.Period,
		Pointer:          s.Cliff,
		VestingAdmin:     terms.VestingAdmin,
		AdminRedeem:      terms.AdminRedeem,
		AdminTransferOBO: terms.AdminTransferOBO,
	}
	return id, nil
}

// RedeemPlans redeems the accrued balance of standalone vesting plans out to
// their owners. Plans under lockup custody are redeemed through
// RedeemVestingPlans instead.
func (e *Engine) RedeemPlans(ctx context.Context, caller model.Account, handles []model.ID) (err error) {
	started := time.Now()
	defer func() { e.metrics.Observe("redeem_plans", err, started) }()

	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.clock.Now()

	if err = distinctHandles(handles); err != nil {
		return err
	}

	plans := make([]*model.VestingPlan, 0, len(handles))
	for _, h := range handles {
		vp, ok := e.vesting[h]
		if !ok {
			return fmt.Errorf("handle %d: %w", h, model.ErrPlanNotFound)
		}
		if !e.authorizedVestingRedeemer(vp, caller) {
			return fmt.Errorf("handle %d: %w", h, model.ErrNotApproved)
		}
		plans = append(plans, vp)
	}

	for _, vp := range plans {
		paid, err := e.redeemVesting(vp, vp.Owner, now)
		if err != nil {
			return err
		}
		if paid.Sign() > 0 {
			e.record(ctx, e.event(model.EventVestingRedeemed, vp.ID, vp.Owner, paid, now))
		}
	}
	return nil
}

func (e *Engine) authorizedVestingRedeemer(vp *model.VestingPlan, caller model.Account) bool {
	if caller == vp.Owner {
		return true
	}
	if vp.AdminRedeem && caller == vp.VestingAdmin {
		return true
	}
	return e.redeemers[vp.ID][caller]
}

// redeemVesting moves the accrued balance to `to`, advances the accrual
// pointer by whole periods and marks the plan exhausted at remainder zero.
// The entry itself stays until an explicit burn.
func (e *Engine) redeemVesting(vp *model.VestingPlan, to model.Account, now uint64) (*big.Int, error) {
	if vp.Exhausted || vp.Amount.Sign() == 0 {
		return new(big.Int), nil
	}

	res, err := schedule.Balance(vp.Amount, vp.Rate, vp.Cliff, vp.Pointer, vp.Period, now)
	if err != nil {
		return nil, err
	}
	if res.Balance.Sign() == 0 {
		return new(big.Int), nil
	}

	from := e.vestingCustodyFor(vp.ID)
	if from != to {
		if err := e.pool.Transfer(from, to, res.Balance); err != nil {
			return nil, fmt.Errorf("redeem vesting %d: %w", vp.ID, err)
		}
	}

	vp.Amount = res.Remainder
	vp.Pointer = res.NextPointer
	if vp.Amount.Sign() == 0 {
		vp.Exhausted = true
	}
	return res.Balance, nil
}

// RevokePlans stops accrual immediately. The accrued-but-unredeemed portion
// stays claimable once; the rest returns to the vesting admin right away. A
// plan with nothing accrued is burned on the spot.
func (e *Engine) RevokePlans(ctx context.Context, caller model.Account, handles []model.ID) (err error) {
	started := time.Now()
	defer func() { e.metrics.Observe("revoke_plans", err, started) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	err = e.revoke(ctx, caller, handles, now, now, model.EventPlanRevoked)
	return err
}

// FutureRevokePlans schedules revocation at revokeAt >= now. Accrual keeps
// running until then; since accrual is deterministic, the remainder that
// will never accrue is swept back to the vesting admin immediately.
func (e *Engine) FutureRevokePlans(ctx context.Context, caller model.Account, handles []model.ID, revokeAt uint64) (err error) {
	started := time.Now()
	defer func() { e.metrics.Observe("future_revoke_plans", err, started) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	if revokeAt < now {
		return model.ErrRevokeInThePast
	}
	err = e.revoke(ctx, caller, handles, now, revokeAt, model.EventPlanFutureRevoked)
	return err
}

func (e *Engine) revoke(ctx context.Context, caller model.Account, handles []model.ID, now, revokeAt uint64, eventType model.EventType) error {
	if err := distinctHandles(handles); err != nil {
		return err
	}
	plans := make([]*model.VestingPlan, 0, len(handles))
	for _, h := range handles {
		vp, ok := e.vesting[h]
		if !ok {
			return fmt.Errorf("handle %d: %w", h, model.ErrPlanNotFound)
		}
		if caller != vp.VestingAdmin {
			return fmt.Errorf("handle %d: %w", h, model.ErrNotVestingAdmin)
		}
		if vp.Revoked {
			return fmt.Errorf("handle %d: %w", h, model.ErrAlreadyRevoked)
		}
		plans = append(plans, vp)
	}

	for _, vp := range plans {
		res, err := schedule.Balance(vp.Amount, vp.Rate, vp.Cliff, vp.Pointer, vp.Period, revokeAt)
		if err != nil {
			return err
		}

		if res.Remainder.Sign() > 0 {
			if err := e.pool.Transfer(e.vestingCustodyFor(vp.ID), vp.VestingAdmin, res.Remainder); err != nil {
				return fmt.Errorf("sweep revoked plan %d: %w", vp.ID, err)
			}
		}

		vp.Revoked = true
		vp.RevokeAt = revokeAt
		vp.Amount = res.Balance
		if vp.Amount.Sign() == 0 {
			vp.Exhausted = true
			delete(e.vesting, vp.ID)
			e.logger.Info("revoked plan burned, nothing accrued",
				zap.Uint64("plan", uint64(vp.ID)))
		}

		e.record(ctx, e.event(eventType, vp.ID, vp.VestingAdmin, res.Remainder, now))
	}
	return nil
}

// ApproveRedeemer lets `redeemer` redeem the plan on the owner's behalf.
func (e *Engine) ApproveRedeemer(ctx context.Context, caller model.Account, handle model.ID, redeemer model.Account) (err error) {
	started := time.Now()
	defer func() { e.metrics.Observe("approve_redeemer", err, started) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	owner, ok := e.planOwner(handle)
	if !ok {
		return model.ErrPlanNotFound
	}
	if caller != owner {
		return model.ErrNotOwner
	}
	if e.redeemers[handle] == nil {
		e.redeemers[handle] = make(map[model.Account]bool)
	}
	e.redeemers[handle][redeemer] = true

	e.record(ctx, e.event(model.EventRedeemerApproved, handle, redeemer, nil, e.clock.Now()))
	return nil
}

// planOwner resolves the acting owner of a handle: the lockup beneficiary
// when the handle is lockup-backed, the vesting owner otherwise.
func (e *Engine) planOwner(handle model.ID) (model.Account, bool) {
	if lp, ok := e.lockups[handle]; ok {
		return lp.Beneficiary, true
	}
	if vp, ok := e.vesting[handle]; ok {
		return vp.Owner, true
	}
	return "", false
}
