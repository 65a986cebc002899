package profile

import "context"

// Directory resolves identities to profiles. Exactly one profile per
// identity id.
type Directory interface {
	Create(ctx context.Context, p *Profile) error
	Get(ctx context.Context, profileID string) (*Profile, error)
	GetByIdentity(ctx context.Context, identityID string) (*Profile, error)
}
