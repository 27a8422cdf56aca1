package ledger

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/vestlock-labs/vestlock-backend/internal/model"
	"github.com/vestlock-labs/vestlock-backend/internal/schedule"
)

// BatchTerms is the shared envelope of one batch creation call. TotalAmount
// must equal the sum of the per-recipient vesting amounts exactly.
type BatchTerms struct {
	TotalAmount      *big.Int
	VestingAdmin     model.Account
	AdminTransferOBO bool
}

// CreateVestingLockupPlans creates one vesting/lockup pair per recipient,
// funded from the creator. The batch is all-or-nothing: every validation
// runs before the first pair is created, and the first violation rejects
// the whole call with no state change.
func (e *Engine) CreateVestingLockupPlans(
	ctx context.Context,
	creator model.Account,
	terms BatchTerms,
	recipients []model.Recipient,
	vestingSchedules, lockupSchedules []model.Schedule,
) (ids []model.ID, err error) {
	started := time.Now()
	defer func() { e.metrics.Observe("create_vesting_lockup_plans", err, started) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	ids, err = e.createPairs(ctx, creator, terms, recipients, vestingSchedules, lockupSchedules, nil)
	return ids, err
}

// CreateVestingLockupPlansWithDelegation is CreateVestingLockupPlans plus an
// initial delegatee per recipient, applied right after each pair is created.
func (e *Engine) CreateVestingLockupPlansWithDelegation(
	ctx context.Context,
	creator model.Account,
	terms BatchTerms,
	recipients []model.Recipient,
	vestingSchedules, lockupSchedules []model.Schedule,
	delegatees []model.Account,
) (ids []model.ID, err error) {
	started := time.Now()
	defer func() { e.metrics.Observe("create_vesting_lockup_plans_with_delegation", err, started) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	ids, err = e.createPairs(ctx, creator, terms, recipients, vestingSchedules, lockupSchedules, delegatees)
	return ids, err
}

func (e *Engine) createPairs(
	ctx context.Context,
	creator model.Account,
	terms BatchTerms,
	recipients []model.Recipient,
	vestingSchedules, lockupSchedules []model.Schedule,
	delegatees []model.Account,
) ([]model.ID, error) {
	if err := validateBatch(terms, recipients, vestingSchedules, lockupSchedules, delegatees); err != nil {
		return nil, err
	}
	if e.pool.BalanceOf(creator).Cmp(terms.TotalAmount) < 0 {
		return nil, fmt.Errorf("creator %s: %w", creator, model.ErrInsufficientBal)
	}

	now := e.clock.Now()
	ids := make([]model.ID, 0, len(recipients))
	for i, r := range recipients {
		vestingHandle, err := e.createVesting(creator, AccountLockupCustody, VestingTerms{
			Schedule:         vestingSchedules[i],
			VestingAdmin:     terms.VestingAdmin,
			AdminRedeem:      r.AdminRedeem,
			AdminTransferOBO: terms.AdminTransferOBO,
		})
		if err != nil {
			return nil, err
		}
		id, err := e.createLockup(r.Beneficiary, vestingHandle, lockupSchedules[i])
		if err != nil {
			return nil, err
		}
		e.record(ctx, e.event(model.EventPlanCreated, id, r.Beneficiary, vestingSchedules[i].Amount, now))

		if delegatees != nil {
			if err := e.delegate(ctx, e.lockups[id], delegatees[i], now); err != nil {
				return nil, err
			}
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// validateBatch checks the envelope and every item before any mutation:
// pairwise lengths, a nonzero declared total, the exact sum match, each
// schedule's own invariants, and per-pair amount equality.
func validateBatch(
	terms BatchTerms,
	recipients []model.Recipient,
	vestingSchedules, lockupSchedules []model.Schedule,
	delegatees []model.Account,
) error {
	if len(vestingSchedules) != len(recipients) || len(lockupSchedules) != len(recipients) {
		return model.ErrLenMismatch
	}
	if delegatees != nil && len(delegatees) != len(recipients) {
		return model.ErrLenMismatch
	}
	if terms.TotalAmount == nil || terms.TotalAmount.Sign() == 0 {
		return model.ErrZeroTotalAmount
	}

	sum := new(big.Int)
	for _, s := range vestingSchedules {
		if s.Amount != nil {
			sum.Add(sum, s.Amount)
		}
	}
	if sum.Cmp(terms.TotalAmount) != 0 {
		return model.ErrTotalAmount
	}

	for i := range recipients {
		if _, err := schedule.Normalize(vestingSchedules[i]); err != nil {
			return fmt.Errorf("recipient %d vesting: %w", i, err)
		}
		if _, err := schedule.Normalize(lockupSchedules[i]); err != nil {
			return fmt.Errorf("recipient %d lockup: %w", i, err)
		}
		if vestingSchedules[i].Amount.Cmp(lockupSchedules[i].Amount) != 0 {
			return fmt.Errorf("recipient %d: %w", i, model.ErrTotalAmount)
		}
	}
	return nil
}
