package payment

import "context"

// Ledger is append-only: records are never mutated after insert.
type Ledger interface {
	Append(ctx context.Context, r *Record) error
	ListByOrder(ctx context.Context, orderID string) ([]*Record, error)
}
