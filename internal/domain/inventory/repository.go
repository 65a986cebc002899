package inventory

import "context"

// Repository owns the stock counters. Reserve and Release must be atomic
// per product: the check-and-update happens inside a single repository
// operation, never as a read-then-write at the caller.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	Get(ctx context.Context, productID string) (*Product, error)
	List(ctx context.Context) ([]*Product, error)
	Reserve(ctx context.Context, productID string, quantity int) (remaining int, err error)
	Release(ctx context.Context, productID string, quantity int) (remaining int, err error)
}
