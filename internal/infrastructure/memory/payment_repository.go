package memory

import (
	"context"
	"fmt"
	"sync"

	domain "github.com/RahulSharma2309/sharma-ecommerce-go/internal/domain/payment"
)

// PaymentRepository is append-only; records are never updated or removed.
type PaymentRepository struct {
	mu      sync.RWMutex
	records []*domain.Record
}

func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{}
}

func (r *PaymentRepository) Append(ctx context.Context, rec *domain.Record) error {
	_ = ctx
	if rec == nil || rec.ID == "" {
		return fmt.Errorf("payment repository: id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *rec
	r.records = append(r.records, &clone)
	return nil
}

func (r *PaymentRepository) ListByOrder(ctx context.Context, orderID string) ([]*domain.Record, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Record, 0)
	for _, rec := range r.records {
		if rec.OrderID == orderID {
			clone := *rec
			out = append(out, &clone)
		}
	}
	return out, nil
}
