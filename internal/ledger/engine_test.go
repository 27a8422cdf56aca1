package ledger

import (
	"context"
	"math/big"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/vestlock-labs/vestlock-backend/internal/clock"
	"github.com/vestlock-labs/vestlock-backend/internal/model"
	"github.com/vestlock-labs/vestlock-backend/internal/token"
	"go.uber.org/zap"
)

const (
	issuer      model.Account = "issuer"
	admin       model.Account = "admin"
	beneficiary model.Account = "alice"
	stranger    model.Account = "mallory"
)

type testEnv struct {
	engine  *Engine
	pool    *token.Pool
	clock   *clock.Manual
	journal *MockJournal
	metrics *MockMetrics
}

// newTestEnv wires an engine over a real in-memory pool with permissive
// journal and metrics mocks. Tests that assert on journal or metric calls
// build their own mocks instead.
func newTestEnv(t *testing.T, votingVaults bool) *testEnv {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	journal := NewMockJournal(ctrl)
	journal.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	metrics := NewMockMetrics(ctrl)
	metrics.EXPECT().Observe(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	metrics.EXPECT().ObserveSyncRecovery().AnyTimes()

	pool := token.NewPool()
	pool.Mint(issuer, big.NewInt(1_000_000))
	clk := clock.NewManual(0)

	engine, err := NewEngine(pool, journal, metrics, clk, votingVaults, zap.NewNop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return &testEnv{engine: engine, pool: pool, clock: clk, journal: journal, metrics: metrics}
}

func linearSchedule(amount, rate int64, start, cliff, period uint64) model.Schedule {
	return model.Schedule{
		Amount: big.NewInt(amount),
		Start:  start,
		Cliff:  cliff,
		Rate:   big.NewInt(rate),
		Period: period,
	}
}

// createPair batch-creates one vesting/lockup pair funded by the issuer and
// returns its handle.
func (env *testEnv) createPair(t *testing.T, amount int64, vesting, lockup model.Schedule) model.ID {
	t.Helper()

	ids, err := env.engine.CreateVestingLockupPlans(context.Background(), issuer,
		BatchTerms{TotalAmount: big.NewInt(amount), VestingAdmin: admin},
		[]model.Recipient{{Beneficiary: beneficiary}},
		[]model.Schedule{vesting},
		[]model.Schedule{lockup},
	)
	if err != nil {
		t.Fatalf("CreateVestingLockupPlans() error = %v", err)
	}
	if len(ids) != 1 {
		t.Fatalf("CreateVestingLockupPlans() returned %d ids, want 1", len(ids))
	}
	return ids[0]
}

// assertConservation checks that every unit of the principal is accounted
// for: paid out, swept to the admin, or still sitting in one of the two
// ledger entries.
func (env *testEnv) assertConservation(t *testing.T, id model.ID, principal, sweeps int64) {
	t.Helper()

	total := new(big.Int).Set(env.pool.BalanceOf(beneficiary))
	total.Add(total, big.NewInt(sweeps))
	if vp, err := env.engine.GetVestingPlan(id); err == nil {
		total.Add(total, vp.Amount)
	}
	if lp, err := env.engine.GetVestingLock(id); err == nil {
		total.Add(total, lp.TotalAmount)
	}
	if total.Cmp(big.NewInt(principal)) != 0 {
		t.Fatalf("conservation broken: accounted %s, principal %d", total, principal)
	}
}
