// Package token models the fungible balance pool the ledgers move value
// through. Transfers are synchronous and all-or-nothing. The pool also
// tracks per-account delegation so that voting weight always equals the
// actual balance held by the delegating account.
package token

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/vestlock-labs/vestlock-backend/internal/model"
)

type Pool struct {
	mu        sync.RWMutex
	balances  map[model.Account]*big.Int
	delegates map[model.Account]model.Account
}

func NewPool() *Pool {
	return &Pool{
		balances:  make(map[model.Account]*big.Int),
		delegates: make(map[model.Account]model.Account),
	}
}

// Mint credits amount to account out of thin air. Used to seed issuer
// accounts; ledger operations themselves only ever transfer.
func (p *Pool) Mint(account model.Account, amount *big.Int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.credit(account, amount)
}

// BalanceOf returns a copy of the account's balance.
func (p *Pool) BalanceOf(account model.Account) *big.Int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if b, ok := p.balances[account]; ok {
		return new(big.Int).Set(b)
	}
	return new(big.Int)
}

// Transfer moves amount from one account to another atomically. A transfer
// that cannot be covered fails without any effect.
func (p *Pool) Transfer(from, to model.Account, amount *big.Int) error {
	if amount.Sign() < 0 {
		return fmt.Errorf("transfer of negative amount %s", amount)
	}
	if amount.Sign() == 0 {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	bal, ok := p.balances[from]
	if !ok || bal.Cmp(amount) < 0 {
		return fmt.Errorf("%w: %s has %s, needs %s", model.ErrInsufficientBal, from, bal, amount)
	}
	bal.Sub(bal, amount)
	p.credit(to, amount)
	return nil
}

// Delegate points the account's voting weight at delegatee.
func (p *Pool) Delegate(account, delegatee model.Account) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.delegates[account] = delegatee
}

// DelegateOf returns the delegatee of record for the account, or the zero
// account when it never delegated.
func (p *Pool) DelegateOf(account model.Account) model.Account {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.delegates[account]
}

// VotesOf sums the balances of every account currently delegating to the
// delegatee. Weight follows custody: value leaving a delegating account
// reduces the delegatee's weight with no extra bookkeeping.
func (p *Pool) VotesOf(delegatee model.Account) *big.Int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	votes := new(big.Int)
	for account, d := range p.delegates {
		if d != delegatee {
			continue
		}
		if b, ok := p.balances[account]; ok {
			votes.Add(votes, b)
		}
	}
	return votes
}

func (p *Pool) credit(account model.Account, amount *big.Int) {
	if b, ok := p.balances[account]; ok {
		b.Add(b, amount)
		return
	}
	p.balances[account] = new(big.Int).Set(amount)
}
