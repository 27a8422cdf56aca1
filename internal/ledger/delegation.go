package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/vestlock-labs/vestlock-backend/internal/model"
	"go.uber.org/zap"
)

// DelegatePlans points the voting weight of each plan at the matching
// delegatee. Handles and delegatees are pairwise. With voting vaults on,
// the plan's undistributed custody migrates into a per-plan vault account
// so the pool's weight accounting tracks real custody.
func (e *Engine) DelegatePlans(ctx context.Context, caller model.Account, handles []model.ID, delegatees []model.Account) (err error) {
	started := time.Now()
	defer func() { e.metrics.Observe("delegate_plans", err, started) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	if len(handles) != len(delegatees) {
		return model.ErrLenMismatch
	}
	if err = distinctHandles(handles); err != nil {
		return err
	}

	now := e.clock.Now()
	plans := make([]*model.LockupPlan, 0, len(handles))
	for _, h := range handles {
		lp, ok := e.lockups[h]
		if !ok {
			return fmt.Errorf("handle %d: %w", h, model.ErrPlanNotFound)
		}
		if !e.authorizedDelegator(lp, caller) {
			return fmt.Errorf("handle %d: %w", h, model.ErrNotApproved)
		}
		plans = append(plans, lp)
	}

	for i, lp := range plans {
		if err := e.delegate(ctx, lp, delegatees[i], now); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) authorizedDelegator(lp *model.LockupPlan, caller model.Account) bool {
	if caller == lp.Beneficiary {
		return true
	}
	if e.delegators[lp.ID][caller] {
		return true
	}
	return e.operators[lp.Beneficiary][caller]
}

func (e *Engine) delegate(ctx context.Context, lp *model.LockupPlan, delegatee model.Account, now uint64) error {
	if e.votingVaults {
		vault, err := e.vaultFor(lp)
		if err != nil {
			return err
		}
		if e.pool.DelegateOf(vault) == delegatee {
			return nil
		}
		e.pool.Delegate(vault, delegatee)
	} else {
		if e.delegated[lp.ID] == delegatee {
			return nil
		}
		e.delegated[lp.ID] = delegatee
	}

	e.record(ctx, e.event(model.EventDelegated, lp.ID, delegatee, nil, now))
	return nil
}

// vaultFor returns the plan's voting vault, creating it on first use.
// Creation migrates the pair's undistributed value out of the omnibus
// custody accounts so the vault's balance is the plan's full custody.
func (e *Engine) vaultFor(lp *model.LockupPlan) (model.Account, error) {
	if v, ok := e.vaults[lp.ID]; ok {
		return v, nil
	}

	vault := vaultAccount(lp.ID)
	if vp, ok := e.vesting[lp.VestingHandle]; ok && vp.Amount.Sign() > 0 {
		if err := e.pool.Transfer(AccountVestingCustody, vault, vp.Amount); err != nil {
			return "", fmt.Errorf("vault %d: migrate vesting custody: %w", lp.ID, err)
		}
	}
	if lp.TotalAmount.Sign() > 0 {
		if err := e.pool.Transfer(AccountLockupCustody, vault, lp.TotalAmount); err != nil {
			return "", fmt.Errorf("vault %d: migrate lockup custody: %w", lp.ID, err)
		}
	}

	e.vaults[lp.ID] = vault
	e.logger.Debug("voting vault created",
		zap.Uint64("plan", uint64(lp.ID)),
		zap.String("vault", string(vault)))
	return vault, nil
}

// ApproveDelegator lets `operator` delegate the single plan on the
// beneficiary's behalf.
func (e *Engine) ApproveDelegator(ctx context.Context, caller model.Account, handle model.ID, operator model.Account) (err error) {
	started := time.Now()
	defer func() { e.metrics.Observe("approve_delegator", err, started) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	lp, ok := e.lockups[handle]
	if !ok {
		return model.ErrPlanNotFound
	}
	if caller != lp.Beneficiary {
		return model.ErrNotOwner
	}
	if e.delegators[handle] == nil {
		e.delegators[handle] = make(map[model.Account]bool)
	}
	e.delegators[handle][operator] = true

	e.record(ctx, e.event(model.EventDelegatorApproved, handle, operator, nil, e.clock.Now()))
	return nil
}

// SetApprovalForAllDelegation grants or revokes operator rights over every
// plan the caller is beneficiary of, now and in the future.
func (e *Engine) SetApprovalForAllDelegation(ctx context.Context, caller, operator model.Account, approved bool) (err error) {
	started := time.Now()
	defer func() { e.metrics.Observe("set_approval_for_all_delegation", err, started) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	if approved {
		if e.operators[caller] == nil {
			e.operators[caller] = make(map[model.Account]bool)
		}
		e.operators[caller][operator] = true
	} else {
		delete(e.operators[caller], operator)
	}

	e.record(ctx, e.event(model.EventOperatorApprovalSet, 0, operator, nil, e.clock.Now()))
	return nil
}

// VotingVaultsEnabled reports whether delegation routes custody through
// per-plan vaults.
func (e *Engine) VotingVaultsEnabled() bool {
	return e.votingVaults
}
