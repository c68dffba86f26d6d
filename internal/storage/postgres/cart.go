package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sweetsalty/backend/internal/domain/cart"
)

const (
	loadCartSQL = `SELECT items FROM carts WHERE user_id = $1`

	saveCartSQL = `INSERT INTO carts (user_id, items, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (user_id) DO UPDATE SET items = EXCLUDED.items, updated_at = now()`

	deleteCartSQL = `DELETE FROM carts WHERE user_id = $1`
)

var _ cart.Repository = (*CartRepository)(nil)

// CartRepository implements cart.Repository backed by PostgreSQL, one JSONB
// row per user.
type CartRepository struct {
	pool *pgxpool.Pool
}

// NewCartRepository returns a CartRepository that uses the given pool.
func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

// Load returns the cart stored under key, or an empty cart when none exists.
func (r *CartRepository) Load(ctx context.Context, key string) (*cart.Cart, error) {
	var items []byte
	err := r.pool.QueryRow(ctx, loadCartSQL, key).Scan(&items)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &cart.Cart{}, nil
		}
		return nil, fmt.Errorf("loading cart for %q: %w", key, err)
	}

	var c cart.Cart
	if err := json.Unmarshal(items, &c.Entries); err != nil {
		return nil, fmt.Errorf("decoding cart for %q: %w", key, err)
	}
	return &c, nil
}

// Save upserts the cart under key. An empty cart deletes the row.
func (r *CartRepository) Save(ctx context.Context, key string, c *cart.Cart) error {
	if c == nil || len(c.Entries) == 0 {
		if _, err := r.pool.Exec(ctx, deleteCartSQL, key); err != nil {
			return fmt.Errorf("deleting cart for %q: %w", key, err)
		}
		return nil
	}

	items, err := json.Marshal(c.Entries)
	if err != nil {
		return fmt.Errorf("marshaling cart: %w", err)
	}
	if _, err := r.pool.Exec(ctx, saveCartSQL, key, items); err != nil {
		return fmt.Errorf("saving cart for %q: %w", key, err)
	}
	return nil
}
