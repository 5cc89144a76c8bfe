package cart

import "github.com/shopspring/decimal"

// Item is one product line held in a kiosk cart. Identity is the product ID;
// the store never holds two lines for the same ID.
type Item struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// Store holds the products selected during one kiosk session. It is not safe
// for concurrent use; the owning session serializes access.
type Store struct {
	items []Item
}

func NewStore() *Store {
	return &Store{}
}

// Add appends the item, or merges its quantity into an existing line with the
// same ID. It never fails.
func (s *Store) Add(item Item) {
	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i].Quantity += item.Quantity
			return
		}
	}
	s.items = append(s.items, item)
}

// Remove drops the line with the given ID unconditionally.
func (s *Store) Remove(id string) {
	kept := s.items[:0]
	for _, item := range s.items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	s.items = kept
}

// Increment raises the quantity of the matching line by one. Unknown IDs are
// ignored.
func (s *Store) Increment(id string) {
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Quantity++
			return
		}
	}
}

// Decrement lowers the quantity of the matching line by one and removes the
// line once it reaches zero. Unknown IDs are ignored.
func (s *Store) Decrement(id string) {
	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}
		s.items[i].Quantity--
		if s.items[i].Quantity <= 0 {
			s.items = append(s.items[:i], s.items[i+1:]...)
		}
		return
	}
}

// UpdateQuantity sets the quantity of the matching line directly. A value of
// zero or less removes the line, so the store never holds a non-positive
// quantity. Unknown IDs are ignored.
func (s *Store) UpdateQuantity(id string, quantity int) {
	if quantity <= 0 {
		s.Remove(id)
		return
	}
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Quantity = quantity
			return
		}
	}
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.items = nil
}

// Items returns a copy of the current lines in insertion order.
func (s *Store) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Total recomputes the cart total from the current lines on every read.
func (s *Store) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// Len reports how many distinct lines the cart holds.
func (s *Store) Len() int {
	return len(s.items)
}
