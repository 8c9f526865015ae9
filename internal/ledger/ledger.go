// Package ledger implements the value ledger backing task escrows.
// Every transfer moves the full amount between two accounts or fails
// without touching either balance.
package ledger

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrInsufficientFunds indicates the source account cannot cover the transfer.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInvalidAmount indicates a zero or negative transfer amount.
	ErrInvalidAmount = errors.New("transfer amount must be positive")
	// ErrUnknownAccount indicates the source account has never been funded.
	ErrUnknownAccount = errors.New("unknown account")
)

// Ledger holds account balances in the smallest currency unit.
type Ledger struct {
	mu       sync.Mutex
	balances map[string]int64
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{balances: make(map[string]int64)}
}

// Mint credits newly issued funds to an account. Test and bootstrap helper;
// production deployments seed balances from the chain state instead.
func (l *Ledger) Mint(account string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[account] += amount
	return nil
}

// Transfer moves amount from one account to another atomically.
func (l *Ledger) Transfer(from, to string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	bal, ok := l.balances[from]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAccount, from)
	}
	if bal < amount {
		return fmt.Errorf("%w: account %s has %d, needs %d", ErrInsufficientFunds, from, bal, amount)
	}

	l.balances[from] = bal - amount
	l.balances[to] += amount
	return nil
}

// Balance returns the current balance of an account. Unknown accounts read as zero.
func (l *Ledger) Balance(account string) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[account]
}

// TotalSupply sums every balance. Transfers never change it.
func (l *Ledger) TotalSupply() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	var total int64
	for _, bal := range l.balances {
		total += bal
	}
	return total
}
