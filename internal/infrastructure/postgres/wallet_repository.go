package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/RahulSharma2309/sharma-ecommerce-go/internal/domain/wallet"
)

// WalletRepository mirrors ProductRepository: debit is one conditional
// statement, so the balance check and the decrement are atomic.
type WalletRepository struct {
	pool *pgxpool.Pool
}

func NewWalletRepository(pool *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{pool: pool}
}

func (r *WalletRepository) Create(ctx context.Context, w *domain.Wallet) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO wallets (profile_id, balance, updated_at) VALUES ($1, $2, $3)`,
		w.ProfileID, w.Balance, w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("postgres: insert wallet: %w", err)
	}
	return nil
}

func (r *WalletRepository) Get(ctx context.Context, profileID string) (*domain.Wallet, error) {
	var w domain.Wallet
	err := r.pool.QueryRow(ctx,
		`SELECT profile_id, balance, updated_at FROM wallets WHERE profile_id = $1`, profileID).
		Scan(&w.ProfileID, &w.Balance, &w.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: get wallet: %w", err)
	}
	return &w, nil
}

func (r *WalletRepository) Debit(ctx context.Context, profileID string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, domain.ErrInvalidAmount
	}

	var balance int64
	err := r.pool.QueryRow(ctx,
		`UPDATE wallets SET balance = balance - $2, updated_at = now()
		 WHERE profile_id = $1 AND balance >= $2
		 RETURNING balance`, profileID, amount).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		w, getErr := r.Get(ctx, profileID)
		if getErr != nil {
			return 0, getErr
		}
		return 0, &domain.InsufficientFundsError{ProfileID: profileID, Requested: amount, Balance: w.Balance}
	}
	if err != nil {
		return 0, fmt.Errorf("postgres: debit wallet: %w", err)
	}
	return balance, nil
}

func (r *WalletRepository) Credit(ctx context.Context, profileID string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, domain.ErrInvalidAmount
	}

	var balance int64
	err := r.pool.QueryRow(ctx,
		`UPDATE wallets SET balance = balance + $2, updated_at = now()
		 WHERE profile_id = $1
		 RETURNING balance`, profileID, amount).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("postgres: credit wallet: %w", err)
	}
	return balance, nil
}
