package memory

import (
	"context"

	"github.com/sweetsalty/backend/internal/domain/catalog"
)

type catalogRepo struct {
	s *Store
}

var _ catalog.Repository = catalogRepo{}

// ListCategories returns all menu categories with their items.
func (r catalogRepo) ListCategories(_ context.Context) ([]catalog.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]catalog.Category, len(r.s.db.Menu.Categories))
	for i, c := range r.s.db.Menu.Categories {
		out[i] = copyCategory(c)
	}
	return out, nil
}

// GetCategory returns the category with the given id.
func (r catalogRepo) GetCategory(_ context.Context, id string) (*catalog.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, c := range r.s.db.Menu.Categories {
		if c.ID == id {
			cp := copyCategory(c)
			return &cp, nil
		}
	}
	return nil, catalog.ErrNotFound
}

// GetItem returns the menu item with the given id, searching all categories.
func (r catalogRepo) GetItem(_ context.Context, id string) (*catalog.MenuItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, c := range r.s.db.Menu.Categories {
		for _, item := range c.Items {
			if item.ID == id {
				cp := copyItem(item)
				return &cp, nil
			}
		}
	}
	return nil, catalog.ErrNotFound
}

// GetItems returns the menu items matching the given ids. Unknown ids are
// simply absent from the result; callers decide whether that is an error.
func (r catalogRepo) GetItems(_ context.Context, ids []string) ([]catalog.MenuItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	var out []catalog.MenuItem
	for _, c := range r.s.db.Menu.Categories {
		for _, item := range c.Items {
			if wanted[item.ID] {
				out = append(out, copyItem(item))
				delete(wanted, item.ID)
			}
		}
	}
	return out, nil
}

// ListOffers returns all promotional offers.
func (r catalogRepo) ListOffers(_ context.Context) ([]catalog.Offer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]catalog.Offer, len(r.s.db.Menu.Offers))
	copy(out, r.s.db.Menu.Offers)
	return out, nil
}

func copyCategory(c catalog.Category) catalog.Category {
	cp := c
	cp.Items = make([]catalog.MenuItem, len(c.Items))
	for i, item := range c.Items {
		cp.Items[i] = copyItem(item)
	}
	return cp
}

func copyItem(m catalog.MenuItem) catalog.MenuItem {
	cp := m
	cp.Ingredients = append([]catalog.LocalizedString(nil), m.Ingredients...)
	return cp
}
