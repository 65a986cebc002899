package memory

import (
	"context"
	"fmt"
	"sync"

	domain "github.com/RahulSharma2309/sharma-ecommerce-go/internal/domain/wallet"
)

// WalletRepository keeps balances in memory. Debit and Credit run their
// check-and-update under the lock, serializing per profile.
type WalletRepository struct {
	mu      sync.Mutex
	wallets map[string]*domain.Wallet
}

func NewWalletRepository() *WalletRepository {
	return &WalletRepository{
		wallets: make(map[string]*domain.Wallet),
	}
}

func (r *WalletRepository) Create(ctx context.Context, w *domain.Wallet) error {
	_ = ctx
	if w == nil || w.ProfileID == "" {
		return fmt.Errorf("wallet repository: profile id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.wallets[w.ProfileID] = cloneWallet(w)
	return nil
}

func (r *WalletRepository) Get(ctx context.Context, profileID string) (*domain.Wallet, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.wallets[profileID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneWallet(w), nil
}

func (r *WalletRepository) Debit(ctx context.Context, profileID string, amount int64) (int64, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.wallets[profileID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	if err := w.Debit(amount); err != nil {
		return 0, err
	}
	return w.Balance, nil
}

func (r *WalletRepository) Credit(ctx context.Context, profileID string, amount int64) (int64, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.wallets[profileID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	if err := w.Credit(amount); err != nil {
		return 0, err
	}
	return w.Balance, nil
}

func cloneWallet(w *domain.Wallet) *domain.Wallet {
	if w == nil {
		return nil
	}
	clone := *w
	return &clone
}
