package order

import "context"

// Repository stores committed orders. Orders are written once and never
// updated.
type Repository interface {
	Insert(ctx context.Context, o *Order) error
	Get(ctx context.Context, id string) (*Order, error)
	// ListByIdentity returns the identity's orders newest first.
	ListByIdentity(ctx context.Context, identityID string) ([]*Order, error)
}
