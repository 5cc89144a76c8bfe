package cart

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestAddMergesByID(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Add(Item{ID: "p1", Name: "Cola", Price: decimal.NewFromInt(10), Quantity: 2})
	s.Add(Item{ID: "p1", Name: "Cola", Price: decimal.NewFromInt(10), Quantity: 3})

	items := s.Items()
	if len(items) != 1 {
		t.Fatalf("expected one line after merge, got %d", len(items))
	}
	if items[0].Quantity != 5 {
		t.Fatalf("expected merged quantity 5, got %d", items[0].Quantity)
	}
	if !s.Total().Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected total 50, got %s", s.Total())
	}
}

func TestIncrementDecrementScenario(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Add(Item{ID: "p1", Name: "Cola", Price: decimal.NewFromInt(10), Quantity: 2})

	s.Increment("p1")
	if got := s.Items()[0].Quantity; got != 3 {
		t.Fatalf("expected quantity 3 after increment, got %d", got)
	}
	if !s.Total().Equal(decimal.NewFromInt(30)) {
		t.Fatalf("expected total 30, got %s", s.Total())
	}

	s.Decrement("p1")
	s.Decrement("p1")
	s.Decrement("p1")
	if s.Len() != 0 {
		t.Fatalf("expected empty cart after decrementing to zero, got %d lines", s.Len())
	}
	if !s.Total().IsZero() {
		t.Fatalf("expected zero total for empty cart, got %s", s.Total())
	}
}

func TestQuantityNeverNonPositive(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Add(Item{ID: "a", Price: decimal.NewFromInt(5), Quantity: 1})
	s.Add(Item{ID: "b", Price: decimal.NewFromInt(7), Quantity: 2})

	s.Decrement("a")
	s.Decrement("a") // already gone, must stay a no-op
	s.UpdateQuantity("b", 0)
	s.UpdateQuantity("missing", 4)

	for _, item := range s.Items() {
		if item.Quantity <= 0 {
			t.Fatalf("cart holds non-positive quantity: %+v", item)
		}
	}
	if s.Len() != 0 {
		t.Fatalf("expected both lines removed, got %d", s.Len())
	}
}

func TestUpdateQuantitySetsDirectly(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Add(Item{ID: "p1", Price: decimal.NewFromInt(10), Quantity: 2})
	s.UpdateQuantity("p1", 7)

	if got := s.Items()[0].Quantity; got != 7 {
		t.Fatalf("expected quantity 7, got %d", got)
	}
	if !s.Total().Equal(decimal.NewFromInt(70)) {
		t.Fatalf("expected total 70, got %s", s.Total())
	}
}

func TestRemoveAndIncrementUnknownID(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Add(Item{ID: "p1", Price: decimal.NewFromInt(10), Quantity: 1})
	s.Add(Item{ID: "p2", Price: decimal.NewFromInt(20), Quantity: 1})

	s.Remove("p1")
	s.Increment("ghost")

	items := s.Items()
	if len(items) != 1 || items[0].ID != "p2" {
		t.Fatalf("expected only p2 to remain, got %+v", items)
	}
}

func TestClearIsIdempotent(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Add(Item{ID: "p1", Price: decimal.NewFromInt(10), Quantity: 2})

	s.Clear()
	s.Clear()

	if s.Len() != 0 {
		t.Fatalf("expected empty cart, got %d lines", s.Len())
	}
	if !s.Total().IsZero() {
		t.Fatalf("expected zero total, got %s", s.Total())
	}
}

func TestTotalMatchesLines(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Add(Item{ID: "p1", Price: decimal.RequireFromString("12.50"), Quantity: 2})
	s.Add(Item{ID: "p2", Price: decimal.NewFromInt(35), Quantity: 3})
	s.Decrement("p2")

	want := decimal.Zero
	for _, item := range s.Items() {
		want = want.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	if !s.Total().Equal(want) {
		t.Fatalf("derived total %s does not match recomputed %s", s.Total(), want)
	}
}
