package order

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewComputesTotalOnce(t *testing.T) {
	o, err := New("ord-1", "identity-1", []LineItem{
		{ProductID: "p1", Quantity: 2, UnitPrice: 500},
		{ProductID: "p2", Quantity: 1, UnitPrice: 1250},
	})
	require.NoError(t, err)
	require.Equal(t, int64(2*500+1250), o.TotalAmount)
	require.Len(t, o.Items, 2)
	require.False(t, o.CreatedAt.IsZero())
}

func TestNewRejectsEmptyCart(t *testing.T) {
	_, err := New("ord-1", "identity-1", nil)
	require.ErrorIs(t, err, ErrNoItems)
}

func TestNewRejectsNonPositiveQuantity(t *testing.T) {
	_, err := New("ord-1", "identity-1", []LineItem{
		{ProductID: "p1", Quantity: 0, UnitPrice: 500},
	})
	require.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestNewCopiesItems(t *testing.T) {
	items := []LineItem{{ProductID: "p1", Quantity: 1, UnitPrice: 100}}
	o, err := New("ord-1", "identity-1", items)
	require.NoError(t, err)

	items[0].Quantity = 99
	require.Equal(t, 1, o.Items[0].Quantity)
}

func TestCloneIsDeep(t *testing.T) {
	o, err := New("ord-1", "identity-1", []LineItem{
		{ProductID: "p1", Quantity: 1, UnitPrice: 100},
	})
	require.NoError(t, err)

	clone := o.Clone()
	clone.Items[0].Quantity = 42
	require.Equal(t, 1, o.Items[0].Quantity)
}
