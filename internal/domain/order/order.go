package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of an order. Orders are created as
// StatusPlaced; the draft and delivered transitions are driven outside this
// service, and only the status field may change after creation.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPlaced    Status = "placed"
	StatusDelivered Status = "delivered"
)

// OrderItem is a resolved line item. Price is the unit price snapshotted at
// resolution time; it is never recomputed, even if the catalog changes.
type OrderItem struct {
	ItemID   string          `json:"itemId"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// Order is an immutable record of a priced checkout.
//
// Invariants: Total = Subtotal + DeliveryFee, and
// Subtotal = sum of Price * Quantity over Items.
type Order struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	Status      Status          `json:"status"`
	Items       []OrderItem     `json:"items"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"deliveryFee"`
	Total       decimal.Decimal `json:"total"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Repository defines persistence operations for orders.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	ListByUser(ctx context.Context, userID string) ([]Order, error)
}
