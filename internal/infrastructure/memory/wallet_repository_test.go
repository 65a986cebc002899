package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	domain "github.com/RahulSharma2309/sharma-ecommerce-go/internal/domain/wallet"
)

func seedWallet(t *testing.T, repo *WalletRepository, profileID string, balance int64) {
	t.Helper()
	w, err := domain.New(profileID, balance)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), w))
}

func TestDebitAndCredit(t *testing.T) {
	repo := NewWalletRepository()
	seedWallet(t, repo, "prof-1", 1000)

	balance, err := repo.Debit(context.Background(), "prof-1", 400)
	require.NoError(t, err)
	require.Equal(t, int64(600), balance)

	balance, err = repo.Credit(context.Background(), "prof-1", 400)
	require.NoError(t, err)
	require.Equal(t, int64(1000), balance)
}

func TestDebitInsufficientFundsReportsBalance(t *testing.T) {
	repo := NewWalletRepository()
	seedWallet(t, repo, "prof-1", 100)

	_, err := repo.Debit(context.Background(), "prof-1", 500)
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	var funds *domain.InsufficientFundsError
	require.ErrorAs(t, err, &funds)
	require.Equal(t, int64(100), funds.Balance)

	// A declined debit must not touch the balance.
	w, err := repo.Get(context.Background(), "prof-1")
	require.NoError(t, err)
	require.Equal(t, int64(100), w.Balance)
}

func TestDebitUnknownWallet(t *testing.T) {
	repo := NewWalletRepository()
	_, err := repo.Debit(context.Background(), "missing", 100)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

// Two concurrent debits of 60 against balance 100: exactly one may win.
func TestConcurrentDebitNeverOverdraws(t *testing.T) {
	repo := NewWalletRepository()
	seedWallet(t, repo, "prof-1", 100)

	const attempts = 2
	results := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, results[i] = repo.Debit(context.Background(), "prof-1", 60)
		}()
	}
	wg.Wait()

	var successes int
	for _, err := range results {
		if err == nil {
			successes++
		} else {
			require.ErrorIs(t, err, domain.ErrInsufficientFunds)
		}
	}
	require.Equal(t, 1, successes)

	w, err := repo.Get(context.Background(), "prof-1")
	require.NoError(t, err)
	require.Equal(t, int64(40), w.Balance)
}
