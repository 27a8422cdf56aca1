package ledger

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/vestlock-labs/vestlock-backend/internal/model"
)

func TestCreateVestingLockupPlans(t *testing.T) {
	env := newTestEnv(t, false)

	ids, err := env.engine.CreateVestingLockupPlans(context.Background(), issuer,
		BatchTerms{TotalAmount: big.NewInt(300), VestingAdmin: admin},
		[]model.Recipient{
			{Beneficiary: beneficiary},
			{Beneficiary: "bob", AdminRedeem: true},
		},
		[]model.Schedule{
			linearSchedule(100, 10, 0, 0, 10),
			linearSchedule(200, 20, 0, 0, 10),
		},
		[]model.Schedule{
			linearSchedule(100, 10, 0, 0, 10),
			linearSchedule(200, 20, 0, 0, 10),
		},
	)
	if err != nil {
		t.Fatalf("CreateVestingLockupPlans() error = %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("got %d ids, want 2", len(ids))
	}

	if got := env.pool.BalanceOf(issuer); got.Cmp(big.NewInt(999_700)) != 0 {
		t.Fatalf("issuer balance = %s, want 999700", got)
	}

	for i, id := range ids {
		vp, err := env.engine.GetVestingPlan(id)
		if err != nil {
			t.Fatalf("GetVestingPlan(%d) error = %v", id, err)
		}
		if vp.Owner != AccountLockupCustody {
			t.Fatalf("vesting owner = %s, want lockup custody", vp.Owner)
		}
		lp, err := env.engine.GetVestingLock(id)
		if err != nil {
			t.Fatalf("GetVestingLock(%d) error = %v", id, err)
		}
		if lp.VestingHandle != id {
			t.Fatalf("pair %d: vesting handle = %d, want shared handle", i, lp.VestingHandle)
		}
		if lp.TotalAmount.Sign() != 0 || lp.AvailableAmount.Sign() != 0 || lp.PaidOut.Sign() != 0 {
			t.Fatalf("fresh lockup counters not zero: %+v", lp)
		}
	}
}

func TestCreateVestingLockupPlansAtomicity(t *testing.T) {
	good := linearSchedule(100, 10, 0, 0, 10)
	tests := []struct {
		name    string
		total   *big.Int
		vesting []model.Schedule
		lockup  []model.Schedule
		wantErr error
	}{
		{
			name:    "length mismatch",
			total:   big.NewInt(200),
			vesting: []model.Schedule{good, good},
			lockup:  []model.Schedule{good},
			wantErr: model.ErrLenMismatch,
		},
		{
			name:    "zero declared total",
			total:   new(big.Int),
			vesting: []model.Schedule{good},
			lockup:  []model.Schedule{good},
			wantErr: model.ErrZeroTotalAmount,
		},
		{
			name:    "declared total does not match sum",
			total:   big.NewInt(150),
			vesting: []model.Schedule{good},
			lockup:  []model.Schedule{good},
			wantErr: model.ErrTotalAmount,
		},
		{
			name:    "invalid item schedule",
			total:   big.NewInt(200),
			vesting: []model.Schedule{good, linearSchedule(100, 0, 0, 0, 10)},
			lockup:  []model.Schedule{good, good},
			wantErr: model.ErrZeroRate,
		},
		{
			name:    "pair amounts differ",
			total:   big.NewInt(100),
			vesting: []model.Schedule{good},
			lockup:  []model.Schedule{linearSchedule(90, 10, 0, 0, 10)},
			wantErr: model.ErrTotalAmount,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, false)

			recipients := make([]model.Recipient, len(tt.vesting))
			for i := range recipients {
				recipients[i] = model.Recipient{Beneficiary: beneficiary}
			}
			ids, err := env.engine.CreateVestingLockupPlans(context.Background(), issuer,
				BatchTerms{TotalAmount: tt.total, VestingAdmin: admin},
				recipients, tt.vesting, tt.lockup)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("CreateVestingLockupPlans() error = %v, want %v", err, tt.wantErr)
			}
			if ids != nil {
				t.Fatalf("got ids %v from a rejected batch", ids)
			}
			// Rejected batches leave no trace.
			if got := env.pool.BalanceOf(issuer); got.Cmp(big.NewInt(1_000_000)) != 0 {
				t.Fatalf("issuer balance = %s, want untouched", got)
			}
			if got := env.pool.BalanceOf(AccountVestingCustody); got.Sign() != 0 {
				t.Fatalf("custody balance = %s, want 0", got)
			}
		})
	}
}

func TestCreateVestingLockupPlansInsufficientFunds(t *testing.T) {
	env := newTestEnv(t, false)

	s := linearSchedule(2_000_000, 200_000, 0, 0, 10)
	_, err := env.engine.CreateVestingLockupPlans(context.Background(), issuer,
		BatchTerms{TotalAmount: big.NewInt(2_000_000), VestingAdmin: admin},
		[]model.Recipient{{Beneficiary: beneficiary}},
		[]model.Schedule{s}, []model.Schedule{s})
	if !errors.Is(err, model.ErrInsufficientBal) {
		t.Fatalf("CreateVestingLockupPlans() error = %v, want insufficient balance", err)
	}
}

func TestCreateVestingLockupPlansWithDelegation(t *testing.T) {
	env := newTestEnv(t, true)

	s := linearSchedule(100, 10, 0, 0, 10)
	ids, err := env.engine.CreateVestingLockupPlansWithDelegation(context.Background(), issuer,
		BatchTerms{TotalAmount: big.NewInt(100), VestingAdmin: admin},
		[]model.Recipient{{Beneficiary: beneficiary}},
		[]model.Schedule{s}, []model.Schedule{s},
		[]model.Account{"delegatee"})
	if err != nil {
		t.Fatalf("CreateVestingLockupPlansWithDelegation() error = %v", err)
	}

	// The vault took custody at creation, so the delegatee's weight is the
	// full undistributed principal.
	if got := env.engine.VotesOf("delegatee"); got.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("VotesOf(delegatee) = %s, want 100", got)
	}
	delegatee, err := env.engine.DelegatedTo(ids[0])
	if err != nil {
		t.Fatalf("DelegatedTo() error = %v", err)
	}
	if delegatee != "delegatee" {
		t.Fatalf("DelegatedTo() = %s, want delegatee", delegatee)
	}

	_, err = env.engine.CreateVestingLockupPlansWithDelegation(context.Background(), issuer,
		BatchTerms{TotalAmount: big.NewInt(100), VestingAdmin: admin},
		[]model.Recipient{{Beneficiary: beneficiary}},
		[]model.Schedule{s}, []model.Schedule{s},
		[]model.Account{})
	if !errors.Is(err, model.ErrLenMismatch) {
		t.Fatalf("mismatched delegatees error = %v, want lenError", err)
	}
}
