package order

import (
	"context"
	"fmt"

	domain "github.com/RahulSharma2309/sharma-ecommerce-go/internal/domain/order"
)

// Service fronts the saga use case and the order queries.
type Service struct {
	placeOrder *PlaceOrderUseCase
	orders     domain.Repository
}

func NewService(placeOrder *PlaceOrderUseCase, orders domain.Repository) *Service {
	return &Service{
		placeOrder: placeOrder,
		orders:     orders,
	}
}

func (s *Service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*domain.Order, error) {
	return s.placeOrder.Execute(ctx, input)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Order, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: order id is required", ErrInvalidRequest)
	}
	return s.orders.Get(ctx, id)
}

// ListByOwner returns the identity's orders, newest first.
func (s *Service) ListByOwner(ctx context.Context, identityID string) ([]*domain.Order, error) {
	if identityID == "" {
		return nil, fmt.Errorf("%w: identity id is required", ErrInvalidRequest)
	}
	return s.orders.ListByIdentity(ctx, identityID)
}
