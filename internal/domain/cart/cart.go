// Package cart implements the client cart as a serializable quantity ledger.
// It maps item ids to quantities and holds no pricing information; all
// monetary computation happens in the order service against live catalog
// data.
package cart

import "context"

// Entry is a single (itemId, quantity) pair in the ledger.
type Entry struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

// Cart is an ordered quantity ledger. The zero value is an empty cart.
type Cart struct {
	Entries []Entry `json:"items"`
}

// Add merges delta into the entry for itemID, appending a new entry when none
// exists. The resulting entry is removed if its quantity drops to zero or
// below.
func (c *Cart) Add(itemID string, delta int) {
	for i := range c.Entries {
		if c.Entries[i].ItemID == itemID {
			c.SetQuantity(itemID, c.Entries[i].Quantity+delta)
			return
		}
	}
	if delta > 0 {
		c.Entries = append(c.Entries, Entry{ItemID: itemID, Quantity: delta})
	}
}

// SetQuantity overwrites the quantity for itemID. A quantity of zero or below
// removes the entry.
func (c *Cart) SetQuantity(itemID string, quantity int) {
	if quantity <= 0 {
		c.Remove(itemID)
		return
	}
	for i := range c.Entries {
		if c.Entries[i].ItemID == itemID {
			c.Entries[i].Quantity = quantity
			return
		}
	}
	c.Entries = append(c.Entries, Entry{ItemID: itemID, Quantity: quantity})
}

// Remove deletes the entry for itemID, preserving the order of the rest.
func (c *Cart) Remove(itemID string) {
	for i := range c.Entries {
		if c.Entries[i].ItemID == itemID {
			c.Entries = append(c.Entries[:i], c.Entries[i+1:]...)
			return
		}
	}
}

// Clear empties the ledger.
func (c *Cart) Clear() {
	c.Entries = nil
}

// Quantity returns the quantity for itemID, or 0 when absent.
func (c *Cart) Quantity(itemID string) int {
	for _, e := range c.Entries {
		if e.ItemID == itemID {
			return e.Quantity
		}
	}
	return 0
}

// Normalize merges duplicate entries by summation and drops entries with
// non-positive quantities, keeping first-seen order. Used when accepting a
// cart from a client.
func (c *Cart) Normalize() {
	merged := make([]Entry, 0, len(c.Entries))
	index := make(map[string]int, len(c.Entries))
	for _, e := range c.Entries {
		if i, ok := index[e.ItemID]; ok {
			merged[i].Quantity += e.Quantity
			continue
		}
		index[e.ItemID] = len(merged)
		merged = append(merged, e)
	}
	out := merged[:0]
	for _, e := range merged {
		if e.Quantity > 0 {
			out = append(out, e)
		}
	}
	if len(out) == 0 {
		c.Entries = nil
		return
	}
	c.Entries = out
}

// Repository persists carts keyed by a stable storage identifier (the user
// id). Load returns an empty cart for unknown keys.
type Repository interface {
	Load(ctx context.Context, key string) (*Cart, error)
	Save(ctx context.Context, key string, c *Cart) error
}
