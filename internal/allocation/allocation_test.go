package allocation

import (
	"errors"
	"reflect"
	"testing"
)

func TestCompute_FixedRule(t *testing.T) {
	got, err := Compute(50000, FixedSplits())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := Totals{Needs: 25000, Wants: 15000, Savings: 10000, Total: 50000}
	if got.Totals != want {
		t.Errorf("expected totals %+v, got %+v", want, got.Totals)
	}
	if got.Amounts[Needs] != 25000 || got.Amounts[Wants] != 15000 || got.Amounts[Savings] != 10000 {
		t.Errorf("unexpected amounts %v", got.Amounts)
	}
}

func TestCompute_Deterministic(t *testing.T) {
	splits := Splits{Needs: 33.3, Wants: 33.3, Savings: 33.4, "travel": 7.5}

	first, err := Compute(12345.67, splits)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 50; i++ {
		again, err := Compute(12345.67, splits)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs: %+v vs %+v", i, first, again)
		}
	}
}

func TestCompute_TotalIsIncome(t *testing.T) {
	// Percentages summing to 60 still report the full income as the total.
	got, err := Compute(1000, Splits{Needs: 30, Wants: 20, Savings: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Totals.Total != 1000 {
		t.Errorf("expected total 1000, got %v", got.Totals.Total)
	}
	if sum := got.Totals.Needs + got.Totals.Wants + got.Totals.Savings; sum != 600 {
		t.Errorf("expected allocated sum 600, got %d", sum)
	}
}

func TestCompute_OverAllocationAllowed(t *testing.T) {
	got, err := Compute(100, Splits{Needs: 80, Wants: 40, Savings: 30})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Totals.Needs != 80 || got.Totals.Wants != 40 || got.Totals.Savings != 30 {
		t.Errorf("unexpected totals %+v", got.Totals)
	}
}

func TestCompute_MissingBuckets(t *testing.T) {
	got, err := Compute(2000, Splits{"rent": 25})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Totals.Needs != 0 || got.Totals.Wants != 0 || got.Totals.Savings != 0 {
		t.Errorf("expected zero buckets, got %+v", got.Totals)
	}
	if got.Amounts["rent"] != 500 {
		t.Errorf("expected rent 500, got %d", got.Amounts["rent"])
	}
}

func TestCompute_Negative(t *testing.T) {
	if _, err := Compute(-1, FixedSplits()); !errors.Is(err, ErrNegative) {
		t.Errorf("expected ErrNegative for negative income, got %v", err)
	}
	if _, err := Compute(100, Splits{Needs: -5}); !errors.Is(err, ErrNegative) {
		t.Errorf("expected ErrNegative for negative pct, got %v", err)
	}
}

func TestAmount_RoundsHalfUp(t *testing.T) {
	tests := []struct {
		name   string
		income float64
		pct    float64
		want   int64
	}{
		{name: "exact", income: 50000, pct: 50, want: 25000},
		{name: "half_rounds_up", income: 1005, pct: 50, want: 503},
		{name: "below_half_rounds_down", income: 1001, pct: 12, want: 120},
		{name: "above_half_rounds_up", income: 1005, pct: 12, want: 121},
		{name: "fractional_income", income: 999.99, pct: 30, want: 300},
		{name: "fractional_pct", income: 12000, pct: 2.5, want: 300},
		{name: "float_noise", income: 0.5, pct: 100, want: 1},
		{name: "zero_income", income: 0, pct: 50, want: 0},
		{name: "zero_pct", income: 1234, pct: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Amount(tt.income, tt.pct); got != tt.want {
				t.Errorf("Amount(%v, %v) = %d, want %d", tt.income, tt.pct, got, tt.want)
			}
		})
	}
}

func TestAllocateCategories(t *testing.T) {
	in := []Category{
		{Key: "rent", Name: "Rent", Pct: 30, Amount: 1},
		{Key: "groceries", Name: "Groceries", Pct: 12},
		{Key: "transport", Name: "Transportation", Pct: 2},
	}

	out, err := AllocateCategories(50000, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []int64{15000, 6000, 1000}
	for i, c := range out {
		if c.Key != in[i].Key {
			t.Errorf("order changed at %d: %s", i, c.Key)
		}
		if c.Amount != want[i] {
			t.Errorf("%s: expected %d, got %d", c.Key, want[i], c.Amount)
		}
	}
	if in[0].Amount != 1 {
		t.Error("input slice must not be modified")
	}

	if _, err := AllocateCategories(100, []Category{{Key: "x", Pct: -1}}); !errors.Is(err, ErrNegative) {
		t.Errorf("expected ErrNegative, got %v", err)
	}
}

func TestSumPct(t *testing.T) {
	cats := []Category{{Pct: 30}, {Pct: 12}, {Pct: 6}, {Pct: 2}, {Pct: 8}, {Pct: 6}, {Pct: 20}, {Pct: 4}, {Pct: 20}}
	if got := SumPct(cats); got != 108 {
		t.Errorf("expected 108, got %v", got)
	}
	if got := SumPct([]Category{{Pct: 0.1}, {Pct: 0.2}}); got != 0.3 {
		t.Errorf("expected exact 0.3, got %v", got)
	}
}

func TestSplitsKeys(t *testing.T) {
	s := Splits{"travel": 5, Savings: 20, "dining": 3, Needs: 50}
	want := []string{Needs, Savings, "dining", "travel"}
	if got := s.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
