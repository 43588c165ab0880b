// Package period identifies the calendar month a budget belongs to. Together
// with the owner id a Period is the natural key of a budget: at most one
// budget exists per (owner, month, year).
package period

import (
	"fmt"
	"time"

	apperrors "finview/internal/errors"
)

// Period is a calendar month. Zero values mean "absent".
type Period struct {
	Month int `gorm:"not null;uniqueIndex:idx_budgets_owner_period,priority:2;check:chk_budgets_month,month >= 1 AND month <= 12" json:"month"`
	Year  int `gorm:"not null;uniqueIndex:idx_budgets_owner_period,priority:3" json:"year"`
}

// New validates month and year and returns the Period. A missing month or
// year fails with ErrPeriodRequired, a month outside 1..12 with
// ErrMonthOutOfRange.
func New(month, year int) (Period, error) {
	p := Period{Month: month, Year: year}
	return p, p.Validate()
}

// Validate checks the period without touching any store.
func (p Period) Validate() error {
	if p.Month == 0 || p.Year == 0 {
		return apperrors.ErrPeriodRequired
	}
	if p.Month < 1 || p.Month > 12 {
		return apperrors.ErrMonthOutOfRange
	}
	return nil
}

// Of returns the period containing t.
func Of(t time.Time) Period {
	return Period{Month: int(t.Month()), Year: t.Year()}
}

// Before reports whether p is an earlier calendar month than other.
func (p Period) Before(other Period) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Month < other.Month
}

// DefaultTitle returns the title used when a budget is saved without one,
// e.g. "March 2025 Budget".
func (p Period) DefaultTitle() string {
	return fmt.Sprintf("%s %d Budget", time.Month(p.Month), p.Year)
}

// String formats the period as YYYY-MM.
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// Key returns the opaque identity of the budget owned by ownerID for p.
func Key(ownerID string, p Period) string {
	return ownerID + "/" + p.String()
}
