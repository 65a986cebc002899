package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/RahulSharma2309/sharma-ecommerce-go/internal/domain/order"
)

func makeOrder(t *testing.T, id, identityID string, createdAt time.Time) *domain.Order {
	t.Helper()
	o, err := domain.New(id, identityID, []domain.LineItem{
		{ProductID: "p1", Quantity: 1, UnitPrice: 100},
	})
	require.NoError(t, err)
	o.CreatedAt = createdAt
	return o
}

func TestInsertAndGet(t *testing.T) {
	repo := NewOrderRepository()
	o := makeOrder(t, "ord-1", "identity-1", time.Now().UTC())

	require.NoError(t, repo.Insert(context.Background(), o))

	got, err := repo.Get(context.Background(), "ord-1")
	require.NoError(t, err)
	require.Equal(t, o.TotalAmount, got.TotalAmount)
	require.Equal(t, "identity-1", got.IdentityID)
}

func TestInsertRejectsDuplicateID(t *testing.T) {
	repo := NewOrderRepository()
	now := time.Now().UTC()

	require.NoError(t, repo.Insert(context.Background(), makeOrder(t, "ord-1", "identity-1", now)))
	err := repo.Insert(context.Background(), makeOrder(t, "ord-1", "identity-1", now))
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestGetUnknownOrder(t *testing.T) {
	repo := NewOrderRepository()
	_, err := repo.Get(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListByIdentityNewestFirst(t *testing.T) {
	repo := NewOrderRepository()
	base := time.Now().UTC()

	require.NoError(t, repo.Insert(context.Background(), makeOrder(t, "ord-old", "identity-1", base.Add(-2*time.Hour))))
	require.NoError(t, repo.Insert(context.Background(), makeOrder(t, "ord-new", "identity-1", base)))
	require.NoError(t, repo.Insert(context.Background(), makeOrder(t, "ord-mid", "identity-1", base.Add(-time.Hour))))
	require.NoError(t, repo.Insert(context.Background(), makeOrder(t, "ord-other", "identity-2", base)))

	list, err := repo.ListByIdentity(context.Background(), "identity-1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, "ord-new", list[0].ID)
	require.Equal(t, "ord-mid", list[1].ID)
	require.Equal(t, "ord-old", list[2].ID)
}
