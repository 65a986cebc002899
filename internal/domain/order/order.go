package order

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("order: not found")
	ErrConflict        = errors.New("order: already exists")
	ErrNoItems         = errors.New("order: at least one line item is required")
	ErrInvalidQuantity = errors.New("order: quantity must be greater than zero")
)

// LineItem is a snapshot of one ordered product. UnitPrice is captured at
// order time and is immune to later catalog price changes.
type LineItem struct {
	ProductID string
	Quantity  int
	UnitPrice int64
}

// Order is the immutable aggregate persisted only on the committed path.
// TotalAmount is computed once at construction and never recomputed.
type Order struct {
	ID          string
	IdentityID  string
	Items       []LineItem
	TotalAmount int64
	CreatedAt   time.Time
}

func New(id, identityID string, items []LineItem) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	var total int64
	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		total += int64(it.Quantity) * it.UnitPrice
	}

	return &Order{
		ID:          id,
		IdentityID:  identityID,
		Items:       append([]LineItem(nil), items...),
		TotalAmount: total,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// Clone returns a deep copy so repositories never hand out shared slices.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Items = append([]LineItem(nil), o.Items...)
	return &clone
}
