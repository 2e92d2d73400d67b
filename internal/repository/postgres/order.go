package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/swaritsharma001/welness-studio/internal/domain"
	"github.com/swaritsharma001/welness-studio/pkg/database"
	apperrors "github.com/swaritsharma001/welness-studio/pkg/errors"
)

// OrderRepository implements repository.OrderRepository using PostgreSQL.
// Items and the shipping address are stored as JSONB snapshots: once an
// order is placed, later product edits must not change it.
type OrderRepository struct {
	pool database.DBTX
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool database.DBTX) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create inserts a new order into the database.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshal order items: %w", err)
	}

	addressJSON, err := json.Marshal(o.Address)
	if err != nil {
		return fmt.Errorf("marshal order address: %w", err)
	}

	query := `
		INSERT INTO orders (id, user_id, items, address, subtotal_amount, tax_amount, total_amount, currency, status, provider_ref, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err = r.pool.Exec(ctx, query,
		o.ID,
		o.UserID,
		itemsJSON,
		addressJSON,
		o.SubtotalAmount,
		o.TaxAmount,
		o.TotalAmount,
		o.Currency,
		o.Status,
		o.ProviderRef,
		o.CreatedAt,
		o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	return nil
}

// GetByID retrieves an order by its ID.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `
		SELECT id, user_id, items, address, subtotal_amount, tax_amount, total_amount, currency, status, provider_ref, created_at, updated_at
		FROM orders
		WHERE id = $1`

	o, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	return o, nil
}

// ListByUser returns all orders placed by the given user, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	query := `
		SELECT id, user_id, items, address, subtotal_amount, tax_amount, total_amount, currency, status, provider_ref, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	return orders, nil
}

// UpdateStatus sets the status of the given order.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`

	ct, err := r.pool.Exec(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("order", id)
	}

	return nil
}

// SetProviderRef records the payment provider reference for the order.
func (r *OrderRepository) SetProviderRef(ctx context.Context, id, ref string) error {
	query := `UPDATE orders SET provider_ref = $1, updated_at = $2 WHERE id = $3`

	ct, err := r.pool.Exec(ctx, query, ref, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("set order provider ref: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("order", id)
	}

	return nil
}

// scanOrder scans a single order row, decoding the JSONB columns.
func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o           domain.Order
		itemsJSON   []byte
		addressJSON []byte
	)

	err := row.Scan(
		&o.ID,
		&o.UserID,
		&itemsJSON,
		&addressJSON,
		&o.SubtotalAmount,
		&o.TaxAmount,
		&o.TotalAmount,
		&o.Currency,
		&o.Status,
		&o.ProviderRef,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pgx.ErrNoRows
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}

	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return nil, fmt.Errorf("unmarshal order items: %w", err)
	}
	if err := json.Unmarshal(addressJSON, &o.Address); err != nil {
		return nil, fmt.Errorf("unmarshal order address: %w", err)
	}

	return &o, nil
}
