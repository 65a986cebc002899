package inventory

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound          = errors.New("inventory: product not found")
	ErrInvalidName       = errors.New("inventory: name is required")
	ErrInvalidPrice      = errors.New("inventory: unit price must be zero or greater")
	ErrInvalidQuantity   = errors.New("inventory: quantity must be greater than zero")
	ErrInvalidStock      = errors.New("inventory: stock must be zero or greater")
	ErrInsufficientStock = errors.New("inventory: insufficient stock")
)

// Product is the per-product stock ledger record. UnitPrice is in the
// smallest currency unit; Stock never goes negative.
type Product struct {
	ID          string
	Name        string
	Description string
	UnitPrice   int64
	Stock       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewProduct(id, name, description string, unitPrice int64, stock int) (*Product, error) {
	if name == "" {
		return nil, ErrInvalidName
	}
	if unitPrice < 0 {
		return nil, ErrInvalidPrice
	}
	if stock < 0 {
		return nil, ErrInvalidStock
	}

	now := time.Now().UTC()
	return &Product{
		ID:          id,
		Name:        name,
		Description: description,
		UnitPrice:   unitPrice,
		Stock:       stock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Reserve decrements stock by quantity when enough is available. The
// repository must call it while holding the record's lock so the
// check-and-decrement is atomic.
func (p *Product) Reserve(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if quantity > p.Stock {
		return &ShortfallError{ProductID: p.ID, Requested: quantity, Available: p.Stock}
	}
	p.Stock -= quantity
	p.touch()
	return nil
}

// Release returns previously reserved stock. Same locking requirement as Reserve.
func (p *Product) Release(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	p.Stock += quantity
	p.touch()
	return nil
}

func (p *Product) touch() {
	p.UpdatedAt = time.Now().UTC()
}

// ShortfallError reports a failed reservation along with the stock still
// available, so callers can adjust without a second read.
type ShortfallError struct {
	ProductID string
	Requested int
	Available int
}

func (e *ShortfallError) Error() string {
	return fmt.Sprintf("inventory: insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

func (e *ShortfallError) Is(target error) bool { return target == ErrInsufficientStock }
