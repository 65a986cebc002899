package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	domain "github.com/RahulSharma2309/sharma-ecommerce-go/internal/domain/inventory"
)

// ProductRepository keeps stock counters in memory. Reserve and Release
// run their check-and-update while holding the lock, so concurrent calls
// against the same product serialize and stock never goes negative.
type ProductRepository struct {
	mu       sync.Mutex
	products map[string]*domain.Product
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{
		products: make(map[string]*domain.Product),
	}
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	_ = ctx
	if p == nil || p.ID == "" {
		return fmt.Errorf("product repository: id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.products[p.ID] = cloneProduct(p)
	return nil
}

func (r *ProductRepository) Get(ctx context.Context, productID string) (*domain.Product, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[productID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneProduct(p), nil
}

func (r *ProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*domain.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, cloneProduct(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *ProductRepository) Reserve(ctx context.Context, productID string, quantity int) (int, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[productID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	if err := p.Reserve(quantity); err != nil {
		return 0, err
	}
	return p.Stock, nil
}

func (r *ProductRepository) Release(ctx context.Context, productID string, quantity int) (int, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[productID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	if err := p.Release(quantity); err != nil {
		return 0, err
	}
	return p.Stock, nil
}

func cloneProduct(p *domain.Product) *domain.Product {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}
