// Package catalog defines the read-only bilingual menu: categories,
// items, and promotional offers.
package catalog

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested category or item does not exist.
var ErrNotFound = errors.New("catalog: not found")

// LocalizedString holds the Arabic and English renderings of a display string.
type LocalizedString struct {
	EN string `json:"en"`
	AR string `json:"ar"`
}

// MenuItem is a single orderable dish. Price is the undiscounted list price;
// Discount is a percentage in [0, 100] applied by EffectivePrice.
type MenuItem struct {
	ID          string            `json:"id"`
	Name        LocalizedString   `json:"name"`
	Description LocalizedString   `json:"description"`
	Price       decimal.Decimal   `json:"price"`
	Discount    int               `json:"discount"`
	Ingredients []LocalizedString `json:"ingredients"`
	Image       string            `json:"image"`
	MostOrdered bool              `json:"mostOrdered"`
}

// Category groups menu items under a bilingual heading.
type Category struct {
	ID          string          `json:"id"`
	Name        LocalizedString `json:"name"`
	Description LocalizedString `json:"description"`
	Items       []MenuItem      `json:"items"`
}

// Offer is a promotional banner shown alongside the menu.
type Offer struct {
	ID          string          `json:"id"`
	Title       LocalizedString `json:"title"`
	Description LocalizedString `json:"description"`
	Image       string          `json:"image"`
}

var hundred = decimal.NewFromInt(100)

// EffectivePrice returns the unit price with the item's percentage discount
// applied, rounded to 2 decimal places. Items without a discount keep their
// list price exactly. Both the cart preview and order checkout price through
// this single function, so the total shown before checkout is the total
// persisted on the order.
func (m MenuItem) EffectivePrice() decimal.Decimal {
	if m.Discount <= 0 {
		return m.Price
	}
	d := m.Discount
	if d > 100 {
		d = 100
	}
	factor := hundred.Sub(decimal.NewFromInt(int64(d))).Div(hundred)
	return m.Price.Mul(factor).Round(2)
}

// Repository defines read operations over the menu catalog.
type Repository interface {
	ListCategories(ctx context.Context) ([]Category, error)
	GetCategory(ctx context.Context, id string) (*Category, error)
	GetItem(ctx context.Context, id string) (*MenuItem, error)
	GetItems(ctx context.Context, ids []string) ([]MenuItem, error)
	ListOffers(ctx context.Context) ([]Offer, error)
}
