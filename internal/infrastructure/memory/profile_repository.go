package memory

import (
	"context"
	"fmt"
	"sync"

	domain "github.com/RahulSharma2309/sharma-ecommerce-go/internal/domain/profile"
)

type ProfileRepository struct {
	mu         sync.RWMutex
	profiles   map[string]*domain.Profile
	byIdentity map[string]string
}

func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{
		profiles:   make(map[string]*domain.Profile),
		byIdentity: make(map[string]string),
	}
}

func (r *ProfileRepository) Create(ctx context.Context, p *domain.Profile) error {
	_ = ctx
	if p == nil || p.ID == "" {
		return fmt.Errorf("profile repository: id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byIdentity[p.IdentityID]; exists {
		return domain.ErrAlreadyExists
	}

	r.profiles[p.ID] = cloneProfile(p)
	r.byIdentity[p.IdentityID] = p.ID
	return nil
}

func (r *ProfileRepository) Get(ctx context.Context, profileID string) (*domain.Profile, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[profileID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneProfile(p), nil
}

func (r *ProfileRepository) GetByIdentity(ctx context.Context, identityID string) (*domain.Profile, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byIdentity[identityID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p, ok := r.profiles[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneProfile(p), nil
}

func cloneProfile(p *domain.Profile) *domain.Profile {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}
