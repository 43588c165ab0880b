package models

import (
	"gorm.io/datatypes"

	"finview/internal/allocation"
	"finview/internal/period"
)

// BudgetRule is the strategy used to split income into needs, wants and savings.
type BudgetRule string

const (
	BudgetRuleFixed  BudgetRule = "50-30-20"
	BudgetRuleCustom BudgetRule = "custom"
)

// CategoryOrigin distinguishes template categories from user-created ones.
type CategoryOrigin string

const (
	CategoryOriginDefault CategoryOrigin = "default"
	CategoryOriginCustom  CategoryOrigin = "custom"
)

// BudgetCategory is a named spending bucket with its share of income.
type BudgetCategory struct {
	Key    string         `json:"key"`
	Name   string         `json:"name"`
	Pct    float64        `json:"pct"`
	Amount int64          `json:"amount"`
	Type   CategoryOrigin `json:"type"`
}

// BudgetTotals holds the canonical bucket amounts. They are derived from
// income and splits and are never authoritative on their own.
type BudgetTotals struct {
	Needs   int64   `gorm:"not null;default:0" json:"needs"`
	Wants   int64   `gorm:"not null;default:0" json:"wants"`
	Savings int64   `gorm:"not null;default:0" json:"savings"`
	Total   float64 `gorm:"not null;default:0" json:"total"`
}

// Budget is the monthly snapshot of a user's income split. There is at most
// one budget per (user, month, year).
type Budget struct {
	Base
	UserID       string                                 `gorm:"type:uuid;not null;uniqueIndex:idx_budgets_owner_period,priority:1" json:"user_id"`
	Income       float64                                `gorm:"not null;default:0" json:"income"`
	Rule         BudgetRule                             `gorm:"size:16;not null;default:'50-30-20'" json:"rule"`
	CustomSplits datatypes.JSONType[map[string]float64] `json:"customSplits"`
	Categories   datatypes.JSONSlice[BudgetCategory]    `json:"categories"`
	Totals       BudgetTotals                           `gorm:"embedded;embeddedPrefix:totals_" json:"totals"`
	Title        string                                 `gorm:"not null;default:'My Budget'" json:"title"`
	Period       period.Period                          `gorm:"embedded" json:"period"`
}

// DefaultBudgetCategories returns the three canonical buckets used when a
// budget is saved without categories.
func DefaultBudgetCategories() []BudgetCategory {
	return []BudgetCategory{
		{Key: allocation.Needs, Name: "Needs", Pct: 50, Type: CategoryOriginDefault},
		{Key: allocation.Wants, Name: "Wants", Pct: 30, Type: CategoryOriginDefault},
		{Key: allocation.Savings, Name: "Savings", Pct: 20, Type: CategoryOriginDefault},
	}
}

// CategoryTemplate returns the suggested spending categories offered during setup.
func CategoryTemplate() []BudgetCategory {
	return []BudgetCategory{
		{Key: "rent", Name: "Rent", Pct: 30, Type: CategoryOriginDefault},
		{Key: "groceries", Name: "Groceries", Pct: 12, Type: CategoryOriginDefault},
		{Key: "utilities", Name: "Utilities", Pct: 6, Type: CategoryOriginDefault},
		{Key: "transport", Name: "Transportation", Pct: 2, Type: CategoryOriginDefault},
		{Key: "dining", Name: "Dining Out", Pct: 8, Type: CategoryOriginDefault},
		{Key: "entertainment", Name: "Entertainment", Pct: 6, Type: CategoryOriginDefault},
		{Key: "subscriptions", Name: "Subscriptions", Pct: 20, Type: CategoryOriginDefault},
		{Key: "health", Name: "Healthcare", Pct: 4, Type: CategoryOriginDefault},
		{Key: "investments", Name: "Investments", Pct: 20, Type: CategoryOriginDefault},
	}
}

// NewSplitsColumn wraps custom splits for storage in a JSON column.
func NewSplitsColumn(splits map[string]float64) datatypes.JSONType[map[string]float64] {
	return datatypes.NewJSONType(splits)
}

// NewCategoriesColumn wraps categories for storage in a JSON column.
func NewCategoriesColumn(categories []BudgetCategory) datatypes.JSONSlice[BudgetCategory] {
	return datatypes.NewJSONSlice(categories)
}
