package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/RahulSharma2309/sharma-ecommerce-go/internal/domain/payment"
)

type PaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

func (r *PaymentRepository) Append(ctx context.Context, rec *domain.Record) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO payments (id, order_id, identity_id, amount, status, recorded_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.OrderID, rec.IdentityID, rec.Amount, string(rec.Status), rec.Timestamp)
	if err != nil {
		return fmt.Errorf("postgres: insert payment: %w", err)
	}
	return nil
}

func (r *PaymentRepository) ListByOrder(ctx context.Context, orderID string) ([]*domain.Record, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, order_id, identity_id, amount, status, recorded_at
		 FROM payments WHERE order_id = $1 ORDER BY recorded_at`, orderID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list payments: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.Record, 0)
	for rows.Next() {
		var rec domain.Record
		var status string
		if err := rows.Scan(&rec.ID, &rec.OrderID, &rec.IdentityID, &rec.Amount, &status, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("postgres: scan payment: %w", err)
		}
		rec.Status = domain.Status(status)
		out = append(out, &rec)
	}
	return out, rows.Err()
}
