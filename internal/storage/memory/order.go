package memory

import (
	"context"

	"github.com/sweetsalty/backend/internal/domain/order"
)

type orderRepo struct {
	s *Store
}

var _ order.Repository = orderRepo{}

// Create appends a new order. Orders are immutable once stored.
func (r orderRepo) Create(_ context.Context, o *order.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.db.Orders = append(r.s.db.Orders, copyOrder(*o))
	return nil
}

// ListByUser returns all orders owned by userID in insertion order.
func (r orderRepo) ListByUser(_ context.Context, userID string) ([]order.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []order.Order
	for _, o := range r.s.db.Orders {
		if o.UserID == userID {
			out = append(out, copyOrder(o))
		}
	}
	return out, nil
}

func copyOrder(o order.Order) order.Order {
	cp := o
	cp.Items = append([]order.OrderItem(nil), o.Items...)
	return cp
}
