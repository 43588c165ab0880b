// Package allocation splits an income across budget buckets and categories.
// Amounts are whole currency units, rounded half-up.
package allocation

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Canonical bucket keys.
const (
	Needs   = "needs"
	Wants   = "wants"
	Savings = "savings"
)

// ErrNegative is returned when income or a percentage is below zero.
var ErrNegative = errors.New("allocation: income and percentages must not be negative")

var hundred = decimal.NewFromInt(100)

// Splits maps a category key to its percentage of income.
type Splits map[string]float64

// FixedSplits returns the 50/30/20 rule.
func FixedSplits() Splits {
	return Splits{Needs: 50, Wants: 30, Savings: 20}
}

// Totals are the canonical bucket amounts. Total is always the income.
type Totals struct {
	Needs   int64   `json:"needs"`
	Wants   int64   `json:"wants"`
	Savings int64   `json:"savings"`
	Total   float64 `json:"total"`
}

// Allocation is the result of Compute.
type Allocation struct {
	Amounts map[string]int64 `json:"amounts"`
	Totals  Totals           `json:"totals"`
}

// Amount returns round(income * pct / 100), half-up to a whole unit.
func Amount(income, pct float64) int64 {
	return decimal.NewFromFloat(income).
		Mul(decimal.NewFromFloat(pct)).
		Div(hundred).
		Round(0).
		IntPart()
}

// Compute allocates income across every key in splits. Bucket keys missing
// from splits allocate zero. Percentages are not required to sum to 100.
func Compute(income float64, splits Splits) (Allocation, error) {
	if income < 0 {
		return Allocation{}, fmt.Errorf("%w: income %v", ErrNegative, income)
	}

	amounts := make(map[string]int64, len(splits))
	for key, pct := range splits {
		if pct < 0 {
			return Allocation{}, fmt.Errorf("%w: %s=%v", ErrNegative, key, pct)
		}
		amounts[key] = Amount(income, pct)
	}

	return Allocation{
		Amounts: amounts,
		Totals: Totals{
			Needs:   amounts[Needs],
			Wants:   amounts[Wants],
			Savings: amounts[Savings],
			Total:   income,
		},
	}, nil
}

// Category is one line of a category plan.
type Category struct {
	Key    string  `json:"key"`
	Name   string  `json:"name"`
	Pct    float64 `json:"pct"`
	Amount int64   `json:"amount"`
}

// AllocateCategories returns a copy of categories with Amount recomputed
// from income. Order is preserved.
func AllocateCategories(income float64, categories []Category) ([]Category, error) {
	if income < 0 {
		return nil, fmt.Errorf("%w: income %v", ErrNegative, income)
	}

	out := make([]Category, len(categories))
	for i, c := range categories {
		if c.Pct < 0 {
			return nil, fmt.Errorf("%w: %s=%v", ErrNegative, c.Key, c.Pct)
		}
		c.Amount = Amount(income, c.Pct)
		out[i] = c
	}
	return out, nil
}

// SumPct returns the total percentage allocated across categories.
func SumPct(categories []Category) float64 {
	sum := decimal.Zero
	for _, c := range categories {
		sum = sum.Add(decimal.NewFromFloat(c.Pct))
	}
	f, _ := sum.Float64()
	return f
}

// Keys returns the split keys in a stable order: canonical buckets first,
// then the rest alphabetically.
func (s Splits) Keys() []string {
	keys := make([]string, 0, len(s))
	for _, k := range []string{Needs, Wants, Savings} {
		if _, ok := s[k]; ok {
			keys = append(keys, k)
		}
	}
	var rest []string
	for k := range s {
		if k != Needs && k != Wants && k != Savings {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}
