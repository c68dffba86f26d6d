package memory

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweetsalty/backend/db"
	"github.com/sweetsalty/backend/internal/domain/cart"
	"github.com/sweetsalty/backend/internal/domain/catalog"
	"github.com/sweetsalty/backend/internal/domain/order"
	"github.com/sweetsalty/backend/internal/domain/session"
	"github.com/sweetsalty/backend/internal/domain/user"
)

func newSeededStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewSeeded(db.SeedMenu)
	require.NoError(t, err)
	return s
}

func TestSeedMenu(t *testing.T) {
	s := newSeededStore(t)
	ctx := context.Background()

	categories, err := s.Catalog().ListCategories(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, categories)
	assert.Equal(t, "sweet", categories[0].ID)
	assert.Equal(t, "حلو", categories[0].Name.AR)
	require.NotEmpty(t, categories[0].Items)

	offers, err := s.Catalog().ListOffers(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, offers)
}

func TestCatalog_GetItem(t *testing.T) {
	s := newSeededStore(t)
	ctx := context.Background()

	item, err := s.Catalog().GetItem(ctx, "kunafa-cheese")
	require.NoError(t, err)
	assert.Equal(t, "Cheese Kunafa", item.Name.EN)
	assert.True(t, decimal.RequireFromString("24.00").Equal(item.Price))

	_, err = s.Catalog().GetItem(ctx, "no-such-item")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestCatalog_GetItems_SkipsUnknown(t *testing.T) {
	s := newSeededStore(t)

	items, err := s.Catalog().GetItems(context.Background(), []string{"basbousa", "no-such-item"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "basbousa", items[0].ID)
}

func TestUsers_CreateAndLookup(t *testing.T) {
	s := New()
	ctx := context.Background()

	p := &user.Profile{
		ID:        "u1",
		Email:     "amira@example.com",
		Name:      "Amira",
		Language:  user.LocaleAR,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.Users().Create(ctx, p))

	err := s.Users().Create(ctx, &user.Profile{ID: "u2", Email: "AMIRA@example.com"})
	assert.ErrorIs(t, err, user.ErrEmailTaken)

	byEmail, err := s.Users().FindByEmail(ctx, "Amira@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", byEmail.ID)

	_, err = s.Users().FindByID(ctx, "nope")
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestUsers_Update(t *testing.T) {
	s := New()
	ctx := context.Background()

	p := &user.Profile{ID: "u1", Email: "a@b.c", Name: "Before"}
	require.NoError(t, s.Users().Create(ctx, p))

	p.Name = "After"
	p.Language = user.LocaleEN
	require.NoError(t, s.Users().Update(ctx, p))

	got, err := s.Users().FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "After", got.Name)
	assert.Equal(t, user.LocaleEN, got.Language)

	err = s.Users().Update(ctx, &user.Profile{ID: "ghost"})
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestOrders_InsertionOrderPerUser(t *testing.T) {
	s := New()
	ctx := context.Background()

	for i, userID := range []string{"u1", "u2", "u1"} {
		o := &order.Order{
			ID:     string(rune('a' + i)),
			UserID: userID,
			Status: order.StatusPlaced,
		}
		require.NoError(t, s.Orders().Create(ctx, o))
	}

	orders, err := s.Orders().ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "a", orders[0].ID)
	assert.Equal(t, "c", orders[1].ID)
}

func TestCarts_LoadSave(t *testing.T) {
	s := New()
	ctx := context.Background()

	empty, err := s.Carts().Load(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, empty.Entries)

	c := &cart.Cart{Entries: []cart.Entry{{ItemID: "basbousa", Quantity: 2}}}
	require.NoError(t, s.Carts().Save(ctx, "u1", c))

	// Mutating the saved value must not leak into the store.
	c.SetQuantity("basbousa", 9)

	got, err := s.Carts().Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Quantity("basbousa"))

	require.NoError(t, s.Carts().Save(ctx, "u1", &cart.Cart{}))
	got, err = s.Carts().Load(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, got.Entries)
}

func TestSnapshot_RoundTrip(t *testing.T) {
	for _, name := range []string{"store.json", "store.json.gz"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			ctx := context.Background()

			s := newSeededStore(t)
			require.NoError(t, s.Users().Create(ctx, &user.Profile{ID: "u1", Email: "a@b.c"}))
			require.NoError(t, s.Orders().Create(ctx, &order.Order{
				ID:          "o1",
				UserID:      "u1",
				Status:      order.StatusPlaced,
				Items:       []order.OrderItem{{ItemID: "basbousa", Quantity: 1, Price: decimal.RequireFromString("13.05")}},
				Subtotal:    decimal.RequireFromString("13.05"),
				DeliveryFee: decimal.RequireFromString("5.00"),
				Total:       decimal.RequireFromString("18.05"),
				CreatedAt:   time.Now().UTC(),
			}))
			require.NoError(t, s.SaveFile(path))

			restored := New()
			require.NoError(t, restored.LoadFile(path))

			_, err := restored.Users().FindByID(ctx, "u1")
			require.NoError(t, err)

			orders, err := restored.Orders().ListByUser(ctx, "u1")
			require.NoError(t, err)
			require.Len(t, orders, 1)
			assert.True(t, decimal.RequireFromString("18.05").Equal(orders[0].Total))

			item, err := restored.Catalog().GetItem(ctx, "kunafa-cheese")
			require.NoError(t, err)
			assert.Equal(t, "كنافة بالجبن", item.Name.AR)
		})
	}
}

func TestLoadFile_MissingIsNoop(t *testing.T) {
	s := newSeededStore(t)
	require.NoError(t, s.LoadFile(filepath.Join(t.TempDir(), "absent.json")))

	categories, err := s.Catalog().ListCategories(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, categories)
}

func TestUsers_CreateStampsCreatedAt(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.Users().Create(ctx, &user.Profile{
		ID:    "u1",
		Email: "noor@example.com",
		Name:  "Noor",
	}))

	stored, err := s.Users().FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, stored.CreatedAt.IsZero())

	// An explicit timestamp is kept as-is.
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, s.Users().Create(ctx, &user.Profile{
		ID:        "u2",
		Email:     "salma@example.com",
		CreatedAt: at,
	}))
	stored, err = s.Users().FindByID(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, at, stored.CreatedAt)
}

func TestSessions_DeleteExpired(t *testing.T) {
	s := New()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, s.Sessions().Create(ctx, &session.Session{
		TokenHash: "h-live",
		UserID:    "u1",
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}))
	require.NoError(t, s.Sessions().Create(ctx, &session.Session{
		TokenHash: "h-stale",
		UserID:    "u1",
		CreatedAt: now.Add(-2 * time.Hour),
		ExpiresAt: now.Add(-time.Hour),
	}))

	dropped, err := sessionRepo{s}.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), dropped)

	_, err = s.Sessions().FindByHash(ctx, "h-live")
	assert.NoError(t, err)
	_, err = s.Sessions().FindByHash(ctx, "h-stale")
	assert.ErrorIs(t, err, session.ErrUnauthorized)
}
