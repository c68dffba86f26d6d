package order

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweetsalty/backend/internal/domain/catalog"
)

// --- Mock implementations ---

type mockCatalog struct {
	byID   map[string]catalog.MenuItem
	getErr error
}

func (m *mockCatalog) ListCategories(_ context.Context) ([]catalog.Category, error) {
	return nil, nil
}

func (m *mockCatalog) GetCategory(_ context.Context, _ string) (*catalog.Category, error) {
	return nil, catalog.ErrNotFound
}

func (m *mockCatalog) GetItem(_ context.Context, id string) (*catalog.MenuItem, error) {
	item, ok := m.byID[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return &item, nil
}

func (m *mockCatalog) GetItems(_ context.Context, ids []string) ([]catalog.MenuItem, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	var out []catalog.MenuItem
	for _, id := range ids {
		if item, ok := m.byID[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *mockCatalog) ListOffers(_ context.Context) ([]catalog.Offer, error) {
	return nil, nil
}

type mockOrderRepo struct {
	orders []Order
	err    error
}

func (m *mockOrderRepo) Create(_ context.Context, o *Order) error {
	if m.err != nil {
		return m.err
	}
	m.orders = append(m.orders, *o)
	return nil
}

func (m *mockOrderRepo) ListByUser(_ context.Context, userID string) ([]Order, error) {
	var out []Order
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

// --- Helpers ---

func newTestItem(id, price string, discount int) catalog.MenuItem {
	return catalog.MenuItem{
		ID:       id,
		Name:     catalog.LocalizedString{EN: "Item " + id, AR: "صنف " + id},
		Price:    decimal.RequireFromString(price),
		Discount: discount,
	}
}

func newCatalog(items ...catalog.MenuItem) *mockCatalog {
	byID := make(map[string]catalog.MenuItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	return &mockCatalog{byID: byID}
}

// --- Tests ---

func TestPlaceOrder_PricesAtListPrice(t *testing.T) {
	a := newTestItem("A", "10.00", 0)
	repo := &mockOrderRepo{}
	svc := NewService(newCatalog(a), repo)

	o, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		UserID:      "u1",
		Items:       []Line{{ItemID: "A", Quantity: 2}},
		DeliveryFee: decimal.NewFromInt(12),
	})

	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("20.00").Equal(o.Subtotal))
	assert.True(t, decimal.RequireFromString("32.00").Equal(o.Total))
	assert.Equal(t, StatusPlaced, o.Status)
	assert.Equal(t, "u1", o.UserID)
	assert.False(t, o.CreatedAt.IsZero())
	require.Len(t, o.Items, 1)
	assert.True(t, decimal.RequireFromString("10.00").Equal(o.Items[0].Price))
}

func TestPlaceOrder_SnapshotsDiscountedPrice(t *testing.T) {
	// 20.00 at 25% off -> 15.00 per unit.
	a := newTestItem("A", "20.00", 25)
	svc := NewService(newCatalog(a), &mockOrderRepo{})

	o, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		UserID:      "u1",
		Items:       []Line{{ItemID: "A", Quantity: 2}},
		DeliveryFee: decimal.NewFromInt(5),
	})

	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("15.00").Equal(o.Items[0].Price))
	assert.True(t, decimal.RequireFromString("30.00").Equal(o.Subtotal))
	assert.True(t, decimal.RequireFromString("35.00").Equal(o.Total))
}

func TestPlaceOrder_TotalInvariant(t *testing.T) {
	a := newTestItem("A", "7.25", 0)
	b := newTestItem("B", "13.10", 10)
	svc := NewService(newCatalog(a, b), &mockOrderRepo{})

	fee := decimal.RequireFromString("4.50")
	o, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		UserID:      "u1",
		Items:       []Line{{ItemID: "A", Quantity: 3}, {ItemID: "B", Quantity: 1}},
		DeliveryFee: fee,
	})

	require.NoError(t, err)
	sum := decimal.Zero
	for _, item := range o.Items {
		sum = sum.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	assert.True(t, sum.Equal(o.Subtotal))
	assert.True(t, o.Subtotal.Add(fee).Equal(o.Total))
}

func TestPlaceOrder_EmptyItems(t *testing.T) {
	cat := newCatalog()
	cat.getErr = errors.New("catalog must not be queried")
	svc := NewService(cat, &mockOrderRepo{})

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{UserID: "u1"})
	require.ErrorIs(t, err, ErrEmptyItems)
}

func TestPlaceOrder_InvalidQuantity(t *testing.T) {
	cat := newCatalog(newTestItem("A", "10.00", 0))
	cat.getErr = errors.New("catalog must not be queried")
	svc := NewService(cat, &mockOrderRepo{})

	for _, qty := range []int{0, -1} {
		_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
			UserID: "u1",
			Items:  []Line{{ItemID: "A", Quantity: qty}},
		})

		var iqErr *InvalidQuantityError
		require.ErrorAs(t, err, &iqErr)
		assert.Equal(t, "A", iqErr.ItemID)
	}
}

func TestPlaceOrder_NegativeDeliveryFee(t *testing.T) {
	svc := NewService(newCatalog(newTestItem("A", "10.00", 0)), &mockOrderRepo{})

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		UserID:      "u1",
		Items:       []Line{{ItemID: "A", Quantity: 1}},
		DeliveryFee: decimal.NewFromInt(-1),
	})
	require.ErrorIs(t, err, ErrNegativeDeliveryFee)
}

func TestPlaceOrder_ItemNotFound_NothingPersisted(t *testing.T) {
	repo := &mockOrderRepo{}
	svc := NewService(newCatalog(newTestItem("A", "10.00", 0)), repo)

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		UserID: "u1",
		Items: []Line{
			{ItemID: "A", Quantity: 1},
			{ItemID: "missing", Quantity: 1},
		},
	})

	var nfErr *ItemNotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, "missing", nfErr.ItemID)

	orders, listErr := svc.ListForUser(context.Background(), "u1")
	require.NoError(t, listErr)
	assert.Empty(t, orders)
}

func TestPlaceOrder_SequentialCheckoutsDistinctIDs(t *testing.T) {
	repo := &mockOrderRepo{}
	svc := NewService(newCatalog(newTestItem("A", "10.00", 0)), repo)

	req := PlaceOrderRequest{
		UserID: "u1",
		Items:  []Line{{ItemID: "A", Quantity: 1}},
	}
	first, err := svc.PlaceOrder(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.PlaceOrder(context.Background(), req)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)

	orders, err := svc.ListForUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, first.ID, orders[0].ID)
	assert.Equal(t, second.ID, orders[1].ID)
}

func TestListForUser_Idempotent(t *testing.T) {
	repo := &mockOrderRepo{}
	svc := NewService(newCatalog(newTestItem("A", "10.00", 0)), repo)

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		UserID: "u1",
		Items:  []Line{{ItemID: "A", Quantity: 1}},
	})
	require.NoError(t, err)

	first, err := svc.ListForUser(context.Background(), "u1")
	require.NoError(t, err)
	second, err := svc.ListForUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestQuote_MatchesCheckoutTotals(t *testing.T) {
	a := newTestItem("A", "9.99", 15)
	b := newTestItem("B", "4.00", 0)
	repo := &mockOrderRepo{}
	svc := NewService(newCatalog(a, b), repo)

	lines := []Line{{ItemID: "A", Quantity: 2}, {ItemID: "B", Quantity: 3}}
	fee := decimal.RequireFromString("7.00")

	q, err := svc.Quote(context.Background(), lines, fee)
	require.NoError(t, err)

	o, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		UserID:      "u1",
		Items:       lines,
		DeliveryFee: fee,
	})
	require.NoError(t, err)

	assert.True(t, q.Subtotal.Equal(o.Subtotal))
	assert.True(t, q.Total.Equal(o.Total))
}

func TestPlaceOrder_CreateError(t *testing.T) {
	repo := &mockOrderRepo{err: errors.New("store unavailable")}
	svc := NewService(newCatalog(newTestItem("A", "10.00", 0)), repo)

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		UserID: "u1",
		Items:  []Line{{ItemID: "A", Quantity: 1}},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "create order")
}
