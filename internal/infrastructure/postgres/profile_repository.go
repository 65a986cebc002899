package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/RahulSharma2309/sharma-ecommerce-go/internal/domain/profile"
)

type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

func (r *ProfileRepository) Create(ctx context.Context, p *domain.Profile) error {
	tag, err := r.pool.Exec(ctx,
		`INSERT INTO profiles (id, identity_id, first_name, last_name, email, phone, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (identity_id) DO NOTHING`,
		p.ID, p.IdentityID, p.FirstName, p.LastName, p.Email, p.Phone, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("postgres: insert profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyExists
	}
	return nil
}

func (r *ProfileRepository) Get(ctx context.Context, profileID string) (*domain.Profile, error) {
	return r.scanOne(ctx,
		`SELECT id, identity_id, first_name, last_name, email, phone, created_at
		 FROM profiles WHERE id = $1`, profileID)
}

func (r *ProfileRepository) GetByIdentity(ctx context.Context, identityID string) (*domain.Profile, error) {
	return r.scanOne(ctx,
		`SELECT id, identity_id, first_name, last_name, email, phone, created_at
		 FROM profiles WHERE identity_id = $1`, identityID)
}

func (r *ProfileRepository) scanOne(ctx context.Context, query string, arg any) (*domain.Profile, error) {
	var p domain.Profile
	err := r.pool.QueryRow(ctx, query, arg).
		Scan(&p.ID, &p.IdentityID, &p.FirstName, &p.LastName, &p.Email, &p.Phone, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: get profile: %w", err)
	}
	return &p, nil
}
