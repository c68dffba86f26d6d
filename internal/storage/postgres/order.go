package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/sweetsalty/backend/internal/domain/order"
)

const (
	createOrderSQL = `INSERT INTO orders (id, user_id, status, items, subtotal, delivery_fee, total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	listOrdersByUserSQL = `SELECT id, user_id, status, items, subtotal, delivery_fee, total, created_at
		FROM orders WHERE user_id = $1 ORDER BY created_at, id`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists a new order. The resolved line items are serialized to
// JSON for storage in the JSONB column.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshaling order items: %w", err)
	}

	_, err = r.pool.Exec(ctx, createOrderSQL,
		o.ID, o.UserID, string(o.Status), itemsJSON,
		o.Subtotal, o.DeliveryFee, o.Total, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating order %q: %w", o.ID, err)
	}
	return nil
}

// ListByUser returns all orders owned by userID, oldest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersByUserSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("listing orders for user %q: %w", userID, err)
	}
	defer rows.Close()

	var orders []order.Order
	for rows.Next() {
		var (
			o                    order.Order
			status               string
			items                []byte
			subtotal, fee, total decimal.Decimal
		)
		if err := rows.Scan(&o.ID, &o.UserID, &status, &items, &subtotal, &fee, &total, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		o.Status = order.Status(status)
		o.Subtotal = subtotal
		o.DeliveryFee = fee
		o.Total = total
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return nil, fmt.Errorf("decoding items for order %q: %w", o.ID, err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating orders: %w", err)
	}
	return orders, nil
}
