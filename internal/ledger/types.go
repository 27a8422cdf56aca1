package ledger

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/vestlock-labs/vestlock-backend/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// TokenPool is the fungible transfer primitive the engine moves value
	// through. Transfers are atomic and all-or-nothing.
	TokenPool interface {
		Transfer(from, to model.Account, amount *big.Int) error
		BalanceOf(account model.Account) *big.Int
		Delegate(account, delegatee model.Account)
		DelegateOf(account model.Account) model.Account
		VotesOf(delegatee model.Account) *big.Int
	}

	// Journal receives the typed event stream of every mutating operation.
	// A journal failure never fails a ledger operation.
	Journal interface {
		Record(ctx context.Context, events ...model.LedgerEvent) error
	}

	// Metrics observes operation outcomes and the sync-recovery branch.
	Metrics interface {
		Observe(operation string, err error, started time.Time)
		ObserveSyncRecovery()
	}
)

// Omnibus custody accounts. Plans routed through a voting vault use a
// dedicated per-plan account instead so voting weight tracks real custody.
const (
	AccountVestingCustody model.Account = "custody:vesting"
	AccountLockupCustody  model.Account = "custody:lockup"
)

func vaultAccount(id model.ID) model.Account {
	return model.Account(fmt.Sprintf("vault:%d", id))
}
