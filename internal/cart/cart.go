// Package cart holds the items a client session intends to purchase.
// The server is not authoritative over cart contents: entries carry the
// snapshot taken at add time, and prices are re-resolved from the
// catalog at the checkout boundary rather than trusted from here.
package cart

import (
	"fmt"
	"strconv"

	"github.com/cazuela-chapina/cazuela/internal/pricing"
	"github.com/cazuela-chapina/cazuela/internal/shared"
)

// idKeys mirrors the identifier spellings legacy records use.
var idKeys = []string{"ID_PRODUCTO", "ID", "_id", "id"}

// Entry is one cart line: a weak reference plus the snapshot of the
// referenced product or combo taken when it was added. The snapshot is
// not re-fetched on render.
type Entry struct {
	ID   int64          `json:"id"`
	Item map[string]any `json:"item"`
	Qty  int            `json:"qty"`
}

// Cart is an ordered collection of entries. It is not safe for
// concurrent use; each session works on its own hydrated copy.
type Cart struct {
	Entries []Entry `json:"entries"`
}

// ResolveID extracts the entity identifier from a record of unknown
// shape, returning false when no usable identifier is present.
func ResolveID(item map[string]any) (int64, bool) {
	for _, key := range idKeys {
		raw, ok := item[key]
		if !ok {
			continue
		}
		switch v := raw.(type) {
		case float64:
			if v > 0 {
				return int64(v), true
			}
		case int64:
			if v > 0 {
				return v, true
			}
		case int:
			if v > 0 {
				return int64(v), true
			}
		case string:
			if id, err := strconv.ParseInt(v, 10, 64); err == nil && id > 0 {
				return id, true
			}
		}
	}
	return 0, false
}

// Add appends an item or, when an entry with the same identifier
// already exists, sums the quantities onto it.
func (c *Cart) Add(item map[string]any, qty int) error {
	id, ok := ResolveID(item)
	if !ok {
		return fmt.Errorf("%w: item has no resolvable identifier", shared.ErrInvalidInput)
	}
	if qty < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", shared.ErrInvalidInput)
	}
	for i := range c.Entries {
		if c.Entries[i].ID == id {
			c.Entries[i].Qty += qty
			return nil
		}
	}
	c.Entries = append(c.Entries, Entry{ID: id, Item: item, Qty: qty})
	return nil
}

// Remove drops the entry with the given id. Removing an absent id is
// not an error.
func (c *Cart) Remove(id int64) {
	for i := range c.Entries {
		if c.Entries[i].ID == id {
			c.Entries = append(c.Entries[:i], c.Entries[i+1:]...)
			return
		}
	}
}

// SetQuantity replaces an entry's quantity. A quantity of zero or less
// removes the entry, matching the historical client behavior; it is
// neither an error nor stored as zero.
func (c *Cart) SetQuantity(id int64, qty int) {
	if qty <= 0 {
		c.Remove(id)
		return
	}
	for i := range c.Entries {
		if c.Entries[i].ID == id {
			c.Entries[i].Qty = qty
			return
		}
	}
}

// Count returns the sum of quantities across entries.
func (c *Cart) Count() int {
	var count int
	for _, e := range c.Entries {
		count += e.Qty
	}
	return count
}

// Total sums resolved price times quantity over all entries. The
// result is unrounded; callers round once at display.
func (c *Cart) Total() float64 {
	var total float64
	for _, e := range c.Entries {
		total += pricing.LineTotal(pricing.Resolve(e.Item), e.Qty)
	}
	return total
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Entries = nil
}
