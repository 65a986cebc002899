package order

import (
	"errors"
	"fmt"
)

// Saga failure taxonomy. Business rejections are terminal; upstream
// unavailability is a distinct, caller-retryable class.
var (
	ErrInvalidRequest      = errors.New("order: invalid request")
	ErrUnknownIdentity     = errors.New("order: unknown identity")
	ErrUnknownProduct      = errors.New("order: unknown product")
	ErrPaymentFailed       = errors.New("order: payment failed")
	ErrReservationFailed   = errors.New("order: reservation failed")
	ErrUpstreamUnavailable = errors.New("order: upstream unavailable")
)

// UnknownProductError identifies which requested product does not exist.
type UnknownProductError struct {
	ProductID string
}

func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("order: unknown product %s", e.ProductID)
}

func (e *UnknownProductError) Is(target error) bool { return target == ErrUnknownProduct }

// PaymentDeclinedError carries the wallet balance at decline time so the
// caller can adjust the cart without a second round trip.
type PaymentDeclinedError struct {
	Balance int64
	Cause   error
}

func (e *PaymentDeclinedError) Error() string {
	return fmt.Sprintf("order: payment failed: %v", e.Cause)
}

func (e *PaymentDeclinedError) Is(target error) bool { return target == ErrPaymentFailed }

func (e *PaymentDeclinedError) Unwrap() error { return e.Cause }

// ReservationError reports the product whose reservation failed after
// payment succeeded. By the time the caller sees it, compensation (release
// of earlier reservations, wallet refund) has already been attempted.
type ReservationError struct {
	ProductID string
	Cause     error
}

func (e *ReservationError) Error() string {
	return fmt.Sprintf("order: reservation failed for product %s: %v", e.ProductID, e.Cause)
}

func (e *ReservationError) Is(target error) bool { return target == ErrReservationFailed }

func (e *ReservationError) Unwrap() error { return e.Cause }
