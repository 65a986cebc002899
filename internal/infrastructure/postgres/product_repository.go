package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/RahulSharma2309/sharma-ecommerce-go/internal/domain/inventory"
)

// ProductRepository delegates atomicity to the database: Reserve and
// Release are single conditional statements, so the row lock serializes
// concurrent callers and stock can never go negative.
type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO products (id, name, description, unit_price, stock, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.Name, p.Description, p.UnitPrice, p.Stock, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("postgres: insert product: %w", err)
	}
	return nil
}

func (r *ProductRepository) Get(ctx context.Context, productID string) (*domain.Product, error) {
	var p domain.Product
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, description, unit_price, stock, created_at, updated_at
		 FROM products WHERE id = $1`, productID).
		Scan(&p.ID, &p.Name, &p.Description, &p.UnitPrice, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: get product: %w", err)
	}
	return &p, nil
}

func (r *ProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, description, unit_price, stock, created_at, updated_at
		 FROM products ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("postgres: list products: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.Product, 0)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.UnitPrice, &p.Stock, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan product: %w", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

func (r *ProductRepository) Reserve(ctx context.Context, productID string, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, domain.ErrInvalidQuantity
	}

	var remaining int
	err := r.pool.QueryRow(ctx,
		`UPDATE products SET stock = stock - $2, updated_at = now()
		 WHERE id = $1 AND stock >= $2
		 RETURNING stock`, productID, quantity).Scan(&remaining)
	if errors.Is(err, pgx.ErrNoRows) {
		// Conditional update missed: product absent or short on stock.
		p, getErr := r.Get(ctx, productID)
		if getErr != nil {
			return 0, getErr
		}
		return 0, &domain.ShortfallError{ProductID: productID, Requested: quantity, Available: p.Stock}
	}
	if err != nil {
		return 0, fmt.Errorf("postgres: reserve stock: %w", err)
	}
	return remaining, nil
}

func (r *ProductRepository) Release(ctx context.Context, productID string, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, domain.ErrInvalidQuantity
	}

	var remaining int
	err := r.pool.QueryRow(ctx,
		`UPDATE products SET stock = stock + $2, updated_at = now()
		 WHERE id = $1
		 RETURNING stock`, productID, quantity).Scan(&remaining)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("postgres: release stock: %w", err)
	}
	return remaining, nil
}
