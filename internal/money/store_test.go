package money

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestAddKeepsInsertionOrder(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Add(decimal.NewFromInt(20), 1)
	s.Add(decimal.NewFromInt(5), 2)

	if !s.Total().Equal(decimal.NewFromInt(30)) {
		t.Fatalf("expected total 30, got %s", s.Total())
	}
	denoms := s.Denominations()
	if len(denoms) != 2 {
		t.Fatalf("expected two denominations, got %d", len(denoms))
	}
	if !denoms[0].Value.Equal(decimal.NewFromInt(20)) || denoms[0].Count != 1 {
		t.Fatalf("unexpected first denomination: %+v", denoms[0])
	}
	if !denoms[1].Value.Equal(decimal.NewFromInt(5)) || denoms[1].Count != 2 {
		t.Fatalf("unexpected second denomination: %+v", denoms[1])
	}
}

func TestAddMergesSameValue(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Add(decimal.NewFromInt(10), 1)
	s.Add(decimal.NewFromInt(10), 3)

	denoms := s.Denominations()
	if len(denoms) != 1 || denoms[0].Count != 4 {
		t.Fatalf("expected single merged entry with count 4, got %+v", denoms)
	}
	if !s.Total().Equal(decimal.NewFromInt(40)) {
		t.Fatalf("expected total 40, got %s", s.Total())
	}
}

func TestDeductRejectsWithoutMutating(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Add(decimal.NewFromInt(20), 1)

	if err := s.Deduct(decimal.NewFromInt(50), 1); !errors.Is(err, ErrInsufficientDenomination) {
		t.Fatalf("expected ErrInsufficientDenomination for missing value, got %v", err)
	}
	if err := s.Deduct(decimal.NewFromInt(20), 2); !errors.Is(err, ErrInsufficientDenomination) {
		t.Fatalf("expected ErrInsufficientDenomination for short count, got %v", err)
	}

	if !s.Total().Equal(decimal.NewFromInt(20)) {
		t.Fatalf("rejected deduction mutated total: %s", s.Total())
	}
	if denoms := s.Denominations(); len(denoms) != 1 || denoms[0].Count != 1 {
		t.Fatalf("rejected deduction mutated denominations: %+v", denoms)
	}
}

func TestDeductPrunesZeroCounts(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Add(decimal.NewFromInt(20), 2)
	s.Add(decimal.NewFromInt(5), 1)

	if err := s.Deduct(decimal.NewFromInt(20), 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !s.Total().Equal(decimal.NewFromInt(5)) {
		t.Fatalf("expected total 5, got %s", s.Total())
	}
	for _, d := range s.Denominations() {
		if d.Count == 0 {
			t.Fatalf("zero-count denomination left in store: %+v", d)
		}
	}
	if len(s.Denominations()) != 1 {
		t.Fatalf("expected single remaining denomination, got %+v", s.Denominations())
	}
}

func TestResetClearsEverything(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Add(decimal.NewFromInt(100), 3)
	s.Reset()

	if !s.Total().IsZero() {
		t.Fatalf("expected zero total after reset, got %s", s.Total())
	}
	if len(s.Denominations()) != 0 {
		t.Fatalf("expected no denominations after reset, got %+v", s.Denominations())
	}
}

func TestTotalTracksMutations(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Add(decimal.NewFromInt(100), 1)
	s.Add(decimal.NewFromInt(10), 5)
	if err := s.Deduct(decimal.NewFromInt(10), 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := decimal.Zero
	for _, d := range s.Denominations() {
		want = want.Add(d.Value.Mul(decimal.NewFromInt(int64(d.Count))))
	}
	if !s.Total().Equal(want) {
		t.Fatalf("total %s drifted from denominations sum %s", s.Total(), want)
	}
}
