package payment

import (
	"errors"
	"time"
)

var ErrInvalidAmount = errors.New("payment: amount must be non-zero")

type Status string

const (
	StatusPaid     Status = "paid"
	StatusRefunded Status = "refunded"
)

// Record is one append-only ledger entry. Amount is signed: positive for a
// payment, negative for a refund. OrderID may be a provisional reference
// when the record is written before the order aggregate exists.
type Record struct {
	ID         string
	OrderID    string
	IdentityID string
	Amount     int64
	Status     Status
	Timestamp  time.Time
}

func NewRecord(id, orderID, identityID string, amount int64, status Status) (*Record, error) {
	if amount == 0 {
		return nil, ErrInvalidAmount
	}
	return &Record{
		ID:         id,
		OrderID:    orderID,
		IdentityID: identityID,
		Amount:     amount,
		Status:     status,
		Timestamp:  time.Now().UTC(),
	}, nil
}
