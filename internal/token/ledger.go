// Package token implements a fixed-supply fungible ledger. Balances are
// held in base units; the full supply is minted to a treasury account at
// construction and only moves through transfers afterward, so the sum of
// all balances always equals the total supply.
package token

import (
	"errors"
	"sync"

	"crowdsale/internal/domain"
)

// Ledger errors.
var (
	// ErrInsufficientBalance is returned when a transfer exceeds the
	// sender's balance. The ledger state is unchanged.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInsufficientAllowance is returned when a delegated transfer
	// exceeds the spender's approved allowance.
	ErrInsufficientAllowance = errors.New("insufficient allowance")

	// ErrInvalidAccount is returned for empty account identifiers.
	ErrInvalidAccount = errors.New("invalid account")
)

// Ledger tracks base-unit balances for a fixed total supply.
type Ledger struct {
	name        string
	symbol      string
	decimals    uint8
	totalSupply uint64

	mu         sync.RWMutex
	balances   map[string]uint64
	allowances map[string]map[string]uint64 // owner -> spender -> remaining
}

// NewLedger creates a ledger and mints the entire supply to treasury.
func NewLedger(name, symbol string, decimals uint8, totalSupply uint64, treasury string) *Ledger {
	l := &Ledger{
		name:        name,
		symbol:      symbol,
		decimals:    decimals,
		totalSupply: totalSupply,
		balances:    make(map[string]uint64),
		allowances:  make(map[string]map[string]uint64),
	}
	l.balances[treasury] = totalSupply
	return l
}

// BalanceOf returns the balance of account. Unknown accounts hold zero.
func (l *Ledger) BalanceOf(account string) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balances[account]
}

// Transfer moves quantity units from one account to another. It fails
// without state change if the sender's balance is insufficient.
func (l *Ledger) Transfer(from, to string, quantity uint64) error {
	if from == "" || to == "" {
		return ErrInvalidAccount
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.transferLocked(from, to, quantity)
}

// transferLocked applies a transfer. Caller must hold l.mu.
func (l *Ledger) transferLocked(from, to string, quantity uint64) error {
	if l.balances[from] < quantity {
		return ErrInsufficientBalance
	}

	l.balances[from] -= quantity
	l.balances[to] += quantity
	return nil
}

// Approve sets spender's allowance over owner's balance to quantity.
func (l *Ledger) Approve(owner, spender string, quantity uint64) error {
	if owner == "" || spender == "" {
		return ErrInvalidAccount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.allowances[owner]; !ok {
		l.allowances[owner] = make(map[string]uint64)
	}
	l.allowances[owner][spender] = quantity
	return nil
}

// Allowance returns the remaining quantity spender may move from owner.
func (l *Ledger) Allowance(owner, spender string) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.allowances[owner][spender]
}

// TransferFrom moves quantity units from one account to another on behalf
// of spender, consuming allowance. Allowance and balance checks both pass
// before any state changes.
func (l *Ledger) TransferFrom(spender, from, to string, quantity uint64) error {
	if spender == "" || from == "" || to == "" {
		return ErrInvalidAccount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	remaining := l.allowances[from][spender]
	if remaining < quantity {
		return ErrInsufficientAllowance
	}
	if err := l.transferLocked(from, to, quantity); err != nil {
		return err
	}
	l.allowances[from][spender] = remaining - quantity
	return nil
}

// TotalSupply returns the fixed total supply in base units.
func (l *Ledger) TotalSupply() uint64 { return l.totalSupply }

// Name returns the ledger's display name.
func (l *Ledger) Name() string { return l.name }

// Symbol returns the ledger's ticker symbol.
func (l *Ledger) Symbol() string { return l.symbol }

// Decimals returns the number of base-unit decimals.
func (l *Ledger) Decimals() uint8 { return l.decimals }

// Info returns the ledger's static metadata.
func (l *Ledger) Info() domain.TokenInfo {
	return domain.TokenInfo{
		Name:        l.name,
		Symbol:      l.symbol,
		Decimals:    l.decimals,
		TotalSupply: l.totalSupply,
	}
}
