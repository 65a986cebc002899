package wallet

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound          = errors.New("wallet: wallet not found")
	ErrInvalidAmount     = errors.New("wallet: amount must be greater than zero")
	ErrInvalidBalance    = errors.New("wallet: balance must be zero or greater")
	ErrInsufficientFunds = errors.New("wallet: insufficient funds")
)

// Wallet is the per-profile balance ledger record. Balance is in the
// smallest currency unit and never goes negative.
type Wallet struct {
	ProfileID string
	Balance   int64
	UpdatedAt time.Time
}

func New(profileID string, balance int64) (*Wallet, error) {
	if balance < 0 {
		return nil, ErrInvalidBalance
	}
	return &Wallet{
		ProfileID: profileID,
		Balance:   balance,
		UpdatedAt: time.Now().UTC(),
	}, nil
}

// Debit decrements the balance when funds cover the amount. The repository
// must call it while holding the record's lock.
func (w *Wallet) Debit(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if amount > w.Balance {
		return &InsufficientFundsError{ProfileID: w.ProfileID, Requested: amount, Balance: w.Balance}
	}
	w.Balance -= amount
	w.touch()
	return nil
}

// Credit increments the balance. Used for refunds and top-ups.
func (w *Wallet) Credit(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	w.Balance += amount
	w.touch()
	return nil
}

func (w *Wallet) touch() {
	w.UpdatedAt = time.Now().UTC()
}

// InsufficientFundsError reports a failed debit along with the current
// balance, so callers can adjust without a second read.
type InsufficientFundsError struct {
	ProfileID string
	Requested int64
	Balance   int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("wallet: insufficient funds for profile %s: requested %d, balance %d",
		e.ProfileID, e.Requested, e.Balance)
}

func (e *InsufficientFundsError) Is(target error) bool { return target == ErrInsufficientFunds }
