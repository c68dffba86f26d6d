// Package memory implements every repository over a single in-memory
// document, mirroring the JSON mock database the storefront runs against.
// The store is externally synchronized with one RWMutex and can be loaded
// from and snapshotted to a JSON file (optionally gzip-compressed).
package memory

import (
	"sync"

	"github.com/go-faster/errors"

	"github.com/sweetsalty/backend/internal/domain/cart"
	"github.com/sweetsalty/backend/internal/domain/catalog"
	"github.com/sweetsalty/backend/internal/domain/order"
	"github.com/sweetsalty/backend/internal/domain/session"
	"github.com/sweetsalty/backend/internal/domain/user"
)

// menuDoc is the menu subtree of the database document.
type menuDoc struct {
	Categories []catalog.Category `json:"categories"`
	Offers     []catalog.Offer    `json:"offers"`
}

// database is the whole persisted document. Orders are append-only so user
// order listings keep insertion order.
type database struct {
	Users    []user.Profile       `json:"users"`
	Menu     menuDoc              `json:"menu"`
	Orders   []order.Order        `json:"orders"`
	Carts    map[string]cart.Cart `json:"carts"`
	Sessions []session.Session    `json:"sessions"`
}

// Store holds the database document behind a RWMutex. The typed accessors
// (Catalog, Users, Orders, Carts, Sessions) expose it as the domain
// repository interfaces.
type Store struct {
	mu sync.RWMutex
	db database
}

// New creates an empty store.
func New() *Store {
	return &Store{db: database{Carts: make(map[string]cart.Cart)}}
}

// NewSeeded creates a store with its menu loaded from the given JSON
// document ({"categories": [...], "offers": [...]}).
func NewSeeded(seedMenu []byte) (*Store, error) {
	s := New()
	if err := s.SeedMenu(seedMenu); err != nil {
		return nil, err
	}
	return s, nil
}

// SeedMenu replaces the store's menu with the given JSON document.
func (s *Store) SeedMenu(data []byte) error {
	var menu menuDoc
	if err := unmarshalJSON(data, &menu); err != nil {
		return errors.Wrap(err, "decode seed menu")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.db.Menu = menu
	return nil
}

// Catalog returns the store's catalog.Repository view.
func (s *Store) Catalog() catalog.Repository { return catalogRepo{s} }

// Users returns the store's user.Repository view.
func (s *Store) Users() user.Repository { return userRepo{s} }

// Orders returns the store's order.Repository view.
func (s *Store) Orders() order.Repository { return orderRepo{s} }

// Carts returns the store's cart.Repository view.
func (s *Store) Carts() cart.Repository { return cartRepo{s} }

// Sessions returns the store's session.Repository view.
func (s *Store) Sessions() session.Repository { return sessionRepo{s} }
