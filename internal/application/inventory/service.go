package inventory

import (
	"context"
	"fmt"

	domain "github.com/RahulSharma2309/sharma-ecommerce-go/internal/domain/inventory"
	"github.com/RahulSharma2309/sharma-ecommerce-go/internal/observability"
	"github.com/RahulSharma2309/sharma-ecommerce-go/internal/observability/logctx"
)

const componentInventory = "inventory_service"

type IDGenerator interface {
	NewID() string
}

// Service is the inventory ledger: catalog management plus the atomic
// reserve/release mutators the order saga depends on.
type Service struct {
	repo        domain.Repository
	idGenerator IDGenerator
	log         observability.Logger
}

func NewService(repo domain.Repository, idGen IDGenerator, logger observability.Logger) *Service {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Service{
		repo:        repo,
		idGenerator: idGen,
		log:         logger.With(observability.F("component", componentInventory)),
	}
}

type CreateProductInput struct {
	Name        string
	Description string
	UnitPrice   int64
	Stock       int
}

func (s *Service) Create(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	entity, err := domain.NewProduct(s.idGenerator.NewID(), input.Name, input.Description, input.UnitPrice, input.Stock)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, entity); err != nil {
		return nil, fmt.Errorf("inventory: create: %w", err)
	}
	logctx.FromOr(ctx, s.log).Info("product_created",
		observability.F("product_id", entity.ID),
		observability.F("unit_price", entity.UnitPrice),
		observability.F("stock", entity.Stock),
	)
	return entity, nil
}

func (s *Service) List(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.List(ctx)
}

// GetStock is a pure read; it never mutates state.
func (s *Service) GetStock(ctx context.Context, productID string) (*domain.Product, error) {
	if productID == "" {
		return nil, domain.ErrNotFound
	}
	return s.repo.Get(ctx, productID)
}

func (s *Service) Reserve(ctx context.Context, productID string, quantity int) (int, error) {
	remaining, err := s.repo.Reserve(ctx, productID, quantity)
	if err != nil {
		return 0, err
	}
	logctx.FromOr(ctx, s.log).Info("stock_reserved",
		observability.F("product_id", productID),
		observability.F("quantity", quantity),
		observability.F("remaining", remaining),
	)
	return remaining, nil
}

func (s *Service) Release(ctx context.Context, productID string, quantity int) (int, error) {
	remaining, err := s.repo.Release(ctx, productID, quantity)
	if err != nil {
		return 0, err
	}
	logctx.FromOr(ctx, s.log).Info("stock_released",
		observability.F("product_id", productID),
		observability.F("quantity", quantity),
		observability.F("remaining", remaining),
	)
	return remaining, nil
}
