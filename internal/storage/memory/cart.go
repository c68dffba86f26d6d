package memory

import (
	"context"

	"github.com/sweetsalty/backend/internal/domain/cart"
)

type cartRepo struct {
	s *Store
}

var _ cart.Repository = cartRepo{}

// Load returns the cart stored under key, or an empty cart when none exists.
func (r cartRepo) Load(_ context.Context, key string) (*cart.Cart, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	stored, ok := r.s.db.Carts[key]
	if !ok {
		return &cart.Cart{}, nil
	}
	cp := cart.Cart{Entries: append([]cart.Entry(nil), stored.Entries...)}
	return &cp, nil
}

// Save stores a copy of the cart under key, replacing any previous value.
// An empty cart deletes the record.
func (r cartRepo) Save(_ context.Context, key string, c *cart.Cart) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if c == nil || len(c.Entries) == 0 {
		delete(r.s.db.Carts, key)
		return nil
	}
	r.s.db.Carts[key] = cart.Cart{Entries: append([]cart.Entry(nil), c.Entries...)}
	return nil
}
