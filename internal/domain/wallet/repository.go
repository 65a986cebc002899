package wallet

import "context"

// Repository owns the balances. Debit and Credit must be atomic per
// profile: the check-and-update happens inside a single repository
// operation.
type Repository interface {
	Create(ctx context.Context, w *Wallet) error
	Get(ctx context.Context, profileID string) (*Wallet, error)
	Debit(ctx context.Context, profileID string, amount int64) (balance int64, err error)
	Credit(ctx context.Context, profileID string, amount int64) (balance int64, err error)
}
