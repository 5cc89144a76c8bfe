package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrInsufficientDenomination reports a deduction larger than what the store
// holds for that face value. The store is left unchanged.
var ErrInsufficientDenomination = errors.New("insufficient denomination count")

// Denomination is a coin or banknote face value with how many units of it
// have been inserted.
type Denomination struct {
	Value decimal.Decimal `json:"value"`
	Count int             `json:"count"`
}

// Store tracks the money inserted during one payment attempt. The running
// total is maintained alongside the denomination counts on every mutation, so
// the two can never drift apart. Not safe for concurrent use; the owning
// session serializes access.
type Store struct {
	total         decimal.Decimal
	denominations []Denomination
}

func NewStore() *Store {
	return &Store{total: decimal.Zero}
}

// Add inserts count units of the given face value, merging into an existing
// denomination entry when one exists.
func (s *Store) Add(value decimal.Decimal, count int) {
	s.total = s.total.Add(value.Mul(decimal.NewFromInt(int64(count))))
	for i := range s.denominations {
		if s.denominations[i].Value.Equal(value) {
			s.denominations[i].Count += count
			return
		}
	}
	s.denominations = append(s.denominations, Denomination{Value: value, Count: count})
}

// Deduct removes count units of the given face value. When the denomination is
// missing or holds fewer units than requested the store is left untouched and
// ErrInsufficientDenomination is returned. Entries that reach zero are pruned.
func (s *Store) Deduct(value decimal.Decimal, count int) error {
	for i := range s.denominations {
		if !s.denominations[i].Value.Equal(value) {
			continue
		}
		if s.denominations[i].Count < count {
			return ErrInsufficientDenomination
		}
		s.denominations[i].Count -= count
		s.total = s.total.Sub(value.Mul(decimal.NewFromInt(int64(count))))
		if s.denominations[i].Count == 0 {
			s.denominations = append(s.denominations[:i], s.denominations[i+1:]...)
		}
		return nil
	}
	return ErrInsufficientDenomination
}

// Reset clears the total and all denomination entries.
func (s *Store) Reset() {
	s.total = decimal.Zero
	s.denominations = nil
}

// Total returns the running total of inserted money.
func (s *Store) Total() decimal.Decimal {
	return s.total
}

// Denominations returns a copy of the entries in insertion order.
func (s *Store) Denominations() []Denomination {
	out := make([]Denomination, len(s.denominations))
	copy(out, s.denominations)
	return out
}
