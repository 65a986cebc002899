package profile

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("profile: profile not found")
	ErrAlreadyExists   = errors.New("profile: identity already has a profile")
	ErrInvalidIdentity = errors.New("profile: identity id is required")
)

// Profile maps an external identity id onto the internal profile id that
// the wallet ledger and order store key on. The two id namespaces are
// deliberately separate (identity service vs. profile service).
type Profile struct {
	ID         string
	IdentityID string
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	CreatedAt  time.Time
}

func New(id, identityID, firstName, lastName, email, phone string) (*Profile, error) {
	if identityID == "" {
		return nil, ErrInvalidIdentity
	}
	return &Profile{
		ID:         id,
		IdentityID: identityID,
		FirstName:  firstName,
		LastName:   lastName,
		Email:      email,
		Phone:      phone,
		CreatedAt:  time.Now().UTC(),
	}, nil
}
