// Package ledger implements the dual-schedule entitlement engine: the
// vesting ledger streams principal into lockup custody, the lockup ledger
// streams custody out to beneficiaries, and both share one handle space.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/vestlock-labs/vestlock-backend/internal/clock"
	"github.com/vestlock-labs/vestlock-backend/internal/model"
	"github.com/vestlock-labs/vestlock-backend/internal/schedule"
	"go.uber.org/zap"
)

// Engine owns both ledgers. Every public operation runs to completion under
// one mutex, the in-process equivalent of the global-order execution
// guarantee the accounting model assumes: no partial effect is ever visible.
type Engine struct {
	mu      sync.Mutex
	logger  *zap.Logger
	clock   clock.Clock
	pool    TokenPool
	journal Journal
	metrics Metrics

	votingVaults bool

	nextID  model.ID
	vesting map[model.ID]*model.VestingPlan
	lockups map[model.ID]*model.LockupPlan
	claimed map[model.ID]model.ID // vesting handle -> lockup handle

	redeemers  map[model.ID]map[model.Account]bool
	delegators map[model.ID]map[model.Account]bool
	operators  map[model.Account]map[model.Account]bool
	delegated  map[model.ID]model.Account
	vaults     map[model.ID]model.Account
}

// NewEngine builds an Engine. With votingVaults enabled, delegation routes
// each plan's undistributed custody through a lazily created per-plan vault.
func NewEngine(
	pool TokenPool,
	journal Journal,
	metrics Metrics,
	clk clock.Clock,
	votingVaults bool,
	logger *zap.Logger,
) (*Engine, error) {
	if pool == nil {
		return nil, errors.New("token pool is required")
	}
	if journal == nil {
		return nil, errors.New("journal is required")
	}
	if metrics == nil {
		return nil, errors.New("metrics is required")
	}
	if clk == nil {
		return nil, errors.New("clock is required")
	}

	return &Engine{
		logger:       logger.Named("ledger"),
		clock:        clk,
		pool:         pool,
		journal:      journal,
		metrics:      metrics,
		votingVaults: votingVaults,
		nextID:       1,
		vesting:      make(map[model.ID]*model.VestingPlan),
		lockups:      make(map[model.ID]*model.LockupPlan),
		claimed:      make(map[model.ID]model.ID),
		redeemers:    make(map[model.ID]map[model.Account]bool),
		delegators:   make(map[model.ID]map[model.Account]bool),
		operators:    make(map[model.Account]map[model.Account]bool),
		delegated:    make(map[model.ID]model.Account),
		vaults:       make(map[model.ID]model.Account),
	}, nil
}

func (e *Engine) allocate() model.ID {
	id := e.nextID
	e.nextID++
	return id
}

// distinctHandles rejects a batch naming the same handle twice. Batch calls
// validate every handle against pre-mutation state, so a repeated handle
// would be settled twice from one snapshot.
func distinctHandles(handles []model.ID) error {
	seen := make(map[model.ID]struct{}, len(handles))
	for _, h := range handles {
		if _, dup := seen[h]; dup {
			return fmt.Errorf("handle %d: %w", h, model.ErrDuplicateHandle)
		}
		seen[h] = struct{}{}
	}
	return nil
}

// vestingCustodyFor returns the account holding the unredeemed principal of
// the given plan: its voting vault when one exists, the omnibus otherwise.
func (e *Engine) vestingCustodyFor(id model.ID) model.Account {
	if v, ok := e.vaults[id]; ok {
		return v
	}
	return AccountVestingCustody
}

func (e *Engine) lockupCustodyFor(id model.ID) model.Account {
	if v, ok := e.vaults[id]; ok {
		return v
	}
	return AccountLockupCustody
}

func (e *Engine) record(ctx context.Context, events ...model.LedgerEvent) {
	if err := e.journal.Record(ctx, events...); err != nil {
		e.logger.Error("journal write failed", zap.Error(err))
	}
}

func (e *Engine) event(t model.EventType, id model.ID, account model.Account, amount *big.Int, now uint64) model.LedgerEvent {
	ev := model.LedgerEvent{
		Type:      t,
		PlanID:    id,
		Account:   account,
		LedgerAt:  now,
		CreatedAt: time.Now(),
	}
	if amount != nil {
		ev.Amount = amount.String()
	}
	return ev
}

// GetVestingPlan returns a copy of the vesting ledger entry.
func (e *Engine) GetVestingPlan(id model.ID) (model.VestingPlan, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	vp, ok := e.vesting[id]
	if !ok {
		return model.VestingPlan{}, model.ErrPlanNotFound
	}
	return copyVesting(vp), nil
}

// GetVestingLock returns a copy of the lockup ledger entry.
func (e *Engine) GetVestingLock(id model.ID) (model.LockupPlan, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	lp, ok := e.lockups[id]
	if !ok {
		return model.LockupPlan{}, model.ErrPlanNotFound
	}
	return copyLockup(lp), nil
}

// GetLockBalance reports the lockup plan's locked/unlocked split at the
// current logical time.
func (e *Engine) GetLockBalance(id model.ID) (model.LockBalance, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	lp, ok := e.lockups[id]
	if !ok {
		return model.LockBalance{}, model.ErrPlanNotFound
	}
	bal, err := e.lockBalance(lp, e.clock.Now())
	if err != nil {
		return model.LockBalance{}, err
	}
	return model.LockBalance{
		Locked:     bal.locked,
		Unlocked:   bal.unlocked,
		UnlockTime: bal.unlockTime,
	}, nil
}

// GetLockEnd returns the lockup schedule's end timestamp.
func (e *Engine) GetLockEnd(id model.ID) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	lp, ok := e.lockups[id]
	if !ok {
		return 0, model.ErrPlanNotFound
	}
	return schedule.End(lp.Start, lp.Amount, lp.Rate, lp.Period)
}

// PlanState derives the lifecycle state of the plan pair from its counters.
func (e *Engine) PlanState(id model.ID) (model.PlanState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	lp, ok := e.lockups[id]
	if !ok {
		return "", model.ErrPlanNotFound
	}

	vestingRemaining := new(big.Int)
	vestingExhausted := true
	if vp, ok := e.vesting[lp.VestingHandle]; ok {
		vestingRemaining.Set(vp.Amount)
		vestingExhausted = vp.Exhausted || vp.Amount.Sign() == 0
	}
	return model.DeriveState(vestingRemaining, lp.TotalAmount, lp.PaidOut, vestingExhausted), nil
}

// DelegatedTo returns the delegate of record for the plan.
func (e *Engine) DelegatedTo(id model.ID) (model.Account, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.lockups[id]; !ok {
		return "", model.ErrPlanNotFound
	}
	if vault, ok := e.vaults[id]; ok {
		return e.pool.DelegateOf(vault), nil
	}
	return e.delegated[id], nil
}

// VotesOf returns the voting weight currently delegated to the account.
func (e *Engine) VotesOf(delegatee model.Account) *big.Int {
	return e.pool.VotesOf(delegatee)
}

func copyVesting(vp *model.VestingPlan) model.VestingPlan {
	out := *vp
	out.Amount = new(big.Int).Set(vp.Amount)
	out.Rate = new(big.Int).Set(vp.Rate)
	return out
}

func copyLockup(lp *model.LockupPlan) model.LockupPlan {
	out := *lp
	out.Amount = new(big.Int).Set(lp.Amount)
	out.Rate = new(big.Int).Set(lp.Rate)
	out.Unpaid = new(big.Int).Set(lp.Unpaid)
	out.TotalAmount = new(big.Int).Set(lp.TotalAmount)
	out.AvailableAmount = new(big.Int).Set(lp.AvailableAmount)
	out.PaidOut = new(big.Int).Set(lp.PaidOut)
	return out
}

func bigMin(a, b *big.Int) *big.Int {
	if a.Cmp(b) <= 0 {
		return new(big.Int).Set(a)
	}
	return new(big.Int).Set(b)
}
