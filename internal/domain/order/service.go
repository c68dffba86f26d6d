package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sweetsalty/backend/internal/domain/catalog"
)

// Sentinel errors for checkout validation.
var (
	ErrEmptyItems          = fmt.Errorf("items required")
	ErrNegativeDeliveryFee = fmt.Errorf("delivery fee must not be negative")
)

// ItemNotFoundError indicates a requested menu item does not exist in the
// catalog at resolution time.
type ItemNotFoundError struct {
	ItemID string
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("item %s not found", e.ItemID)
}

// InvalidQuantityError indicates a line item has a non-positive quantity.
type InvalidQuantityError struct {
	ItemID string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for item %s", e.ItemID)
}

// Line is a requested (itemId, quantity) pair submitted for pricing.
type Line struct {
	ItemID   string
	Quantity int
}

// QuoteLine is a line resolved against the catalog with its snapshotted unit
// price and line total.
type QuoteLine struct {
	Item      catalog.MenuItem
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// Quote is the priced view of a set of lines. The cart preview returns it
// directly; checkout persists it as an Order. Both go through Service.Quote,
// so the preview total always matches the persisted total.
type Quote struct {
	Lines       []QuoteLine
	Subtotal    decimal.Decimal
	DeliveryFee decimal.Decimal
	Total       decimal.Decimal
}

// PlaceOrderRequest holds the input for placing an order.
type PlaceOrderRequest struct {
	UserID      string
	Items       []Line
	DeliveryFee decimal.Decimal
}

// Service resolves requested lines against the catalog, prices them, and
// persists the resulting orders.
type Service struct {
	catalog catalog.Repository
	orders  Repository
	now     func() time.Time
}

// NewService creates an order Service with the required dependencies.
func NewService(catalogRepo catalog.Repository, orders Repository) *Service {
	return &Service{
		catalog: catalogRepo,
		orders:  orders,
		now:     time.Now,
	}
}

// Quote resolves and prices the given lines without persisting anything.
// Resolution is all-or-nothing: an unknown item id fails the whole call with
// ItemNotFoundError. The unit price snapshotted per line is the item's
// effective (discounted) price.
func (s *Service) Quote(ctx context.Context, items []Line, deliveryFee decimal.Decimal) (*Quote, error) {
	if len(items) == 0 {
		return nil, ErrEmptyItems
	}
	if deliveryFee.IsNegative() {
		return nil, ErrNegativeDeliveryFee
	}

	// Validate quantities and collect item IDs before any catalog lookup.
	ids := make([]string, len(items))
	for i, line := range items {
		if line.Quantity <= 0 {
			return nil, &InvalidQuantityError{ItemID: line.ItemID}
		}
		ids[i] = line.ItemID
	}

	// Batch fetch, then verify every requested id was found.
	fetched, err := s.catalog.GetItems(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	byID := make(map[string]catalog.MenuItem, len(fetched))
	for _, m := range fetched {
		byID[m.ID] = m
	}

	q := &Quote{
		Lines:       make([]QuoteLine, len(items)),
		Subtotal:    decimal.Zero,
		DeliveryFee: deliveryFee,
	}
	for i, line := range items {
		m, ok := byID[line.ItemID]
		if !ok {
			return nil, &ItemNotFoundError{ItemID: line.ItemID}
		}

		unit := m.EffectivePrice()
		lineTotal := unit.Mul(decimal.NewFromInt(int64(line.Quantity)))
		q.Lines[i] = QuoteLine{
			Item:      m,
			Quantity:  line.Quantity,
			UnitPrice: unit,
			LineTotal: lineTotal,
		}
		q.Subtotal = q.Subtotal.Add(lineTotal)
	}
	q.Total = q.Subtotal.Add(deliveryFee)

	return q, nil
}

// PlaceOrder quotes the requested lines and persists the result as a new
// order with status "placed". No order is created when any line fails to
// resolve.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Order, error) {
	q, err := s.Quote(ctx, req.Items, req.DeliveryFee)
	if err != nil {
		return nil, err
	}

	orderItems := make([]OrderItem, len(q.Lines))
	for i, line := range q.Lines {
		orderItems[i] = OrderItem{
			ItemID:   line.Item.ID,
			Quantity: line.Quantity,
			Price:    line.UnitPrice,
		}
	}

	o := &Order{
		ID:          uuid.New().String(),
		UserID:      req.UserID,
		Status:      StatusPlaced,
		Items:       orderItems,
		Subtotal:    q.Subtotal,
		DeliveryFee: q.DeliveryFee,
		Total:       q.Total,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	return o, nil
}

// ListForUser returns all orders owned by the given user in store insertion
// order.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}
