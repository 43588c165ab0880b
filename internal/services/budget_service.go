package services

import (
	"context"
	"errors"
	"strings"

	"finview/internal/allocation"
	apperrors "finview/internal/errors"
	"finview/internal/models"
	"finview/internal/period"
	"finview/internal/store"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	budgets   store.BudgetStore
	recompute bool
}

// NewBudgetService creates a new BudgetServicer. When recomputeOnSave is set,
// totals and category amounts sent by the client are replaced by the
// server-side allocation before the budget is stored.
func NewBudgetService(budgets store.BudgetStore, recomputeOnSave bool) BudgetServicer {
	return &budgetService{budgets: budgets, recompute: recomputeOnSave}
}

// SaveBudget creates or replaces the owner's budget for the input's month.
func (s *budgetService) SaveBudget(ctx context.Context, ownerID string, input SaveBudgetInput) (*models.Budget, error) {
	if ownerID == "" {
		return nil, apperrors.ErrUnauthorized
	}

	p, err := period.New(input.Month, input.Year)
	if err != nil {
		return nil, err
	}

	rule, err := normalizeRule(input.Rule)
	if err != nil {
		return nil, err
	}
	if err := validateAmounts(input.Income, input.CustomSplits, input.Categories); err != nil {
		return nil, err
	}

	customSplits := input.CustomSplits
	if customSplits == nil {
		customSplits = map[string]float64{}
	}

	categories := withDefaultOrigin(input.Categories)
	totals := input.Totals
	if len(categories) == 0 {
		categories, err = allocateCategories(input.Income, models.DefaultBudgetCategories())
		if err != nil {
			return nil, err
		}
	}

	if s.recompute {
		alloc, err := allocation.Compute(input.Income, splitsFor(rule, customSplits))
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInvalidSplit, err)
		}
		totals = totalsFrom(alloc.Totals)
		if categories, err = allocateCategories(input.Income, categories); err != nil {
			return nil, err
		}
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = p.DefaultTitle()
	}

	budget := &models.Budget{
		UserID:       ownerID,
		Income:       input.Income,
		Rule:         rule,
		CustomSplits: models.NewSplitsColumn(customSplits),
		Categories:   models.NewCategoriesColumn(categories),
		Totals:       totals,
		Title:        title,
		Period:       p,
	}

	return s.budgets.Upsert(ctx, budget)
}

// GetBudget returns the owner's budget for the given month and year.
func (s *budgetService) GetBudget(ctx context.Context, ownerID string, month, year int) (*models.Budget, error) {
	if ownerID == "" {
		return nil, apperrors.ErrUnauthorized
	}

	p, err := period.New(month, year)
	if err != nil {
		return nil, err
	}
	return s.budgets.Find(ctx, ownerID, p)
}

// ListBudgets returns every budget of the owner, newest period first.
func (s *budgetService) ListBudgets(ctx context.Context, ownerID string) ([]models.Budget, error) {
	if ownerID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	return s.budgets.List(ctx, ownerID)
}

// Preview computes the allocation of a draft without storing anything.
func (s *budgetService) Preview(input PreviewInput) (*BudgetPreview, error) {
	rule, err := normalizeRule(input.Rule)
	if err != nil {
		return nil, err
	}
	if err := validateAmounts(input.Income, input.CustomSplits, input.Categories); err != nil {
		return nil, err
	}

	splits := splitsFor(rule, input.CustomSplits)
	alloc, err := allocation.Compute(input.Income, splits)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidSplit, err)
	}

	categories := withDefaultOrigin(input.Categories)
	if len(categories) == 0 {
		categories = models.DefaultBudgetCategories()
	}
	categories, err = allocateCategories(input.Income, categories)
	if err != nil {
		return nil, err
	}

	allocated := allocation.SumPct(toAllocationCategories(categories))
	unallocated := 100 - allocated
	if unallocated < 0 {
		unallocated = 0
	}

	return &BudgetPreview{
		Rule:           rule,
		Splits:         splits,
		Totals:         totalsFrom(alloc.Totals),
		Categories:     categories,
		AllocatedPct:   allocated,
		UnallocatedPct: unallocated,
		OverAllocated:  allocated > 100,
	}, nil
}

// Defaults returns the default rule, its splits and the category templates.
func (s *budgetService) Defaults() BudgetDefaults {
	return BudgetDefaults{
		Rule:       models.BudgetRuleFixed,
		Splits:     allocation.FixedSplits(),
		Categories: models.DefaultBudgetCategories(),
		Template:   models.CategoryTemplate(),
	}
}

func normalizeRule(rule models.BudgetRule) (models.BudgetRule, error) {
	switch rule {
	case "":
		return models.BudgetRuleFixed, nil
	case models.BudgetRuleFixed, models.BudgetRuleCustom:
		return rule, nil
	default:
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Rule must be 50-30-20 or custom")
	}
}

func validateAmounts(income float64, splits map[string]float64, categories []models.BudgetCategory) error {
	if income < 0 {
		return apperrors.ErrInvalidSplit
	}
	for _, pct := range splits {
		if pct < 0 {
			return apperrors.ErrInvalidSplit
		}
	}
	for _, c := range categories {
		if c.Pct < 0 {
			return apperrors.ErrInvalidSplit
		}
	}
	return nil
}

func splitsFor(rule models.BudgetRule, custom map[string]float64) allocation.Splits {
	if rule == models.BudgetRuleCustom {
		splits := make(allocation.Splits, len(custom))
		for k, v := range custom {
			splits[k] = v
		}
		return splits
	}
	return allocation.FixedSplits()
}

func totalsFrom(t allocation.Totals) models.BudgetTotals {
	return models.BudgetTotals{
		Needs:   t.Needs,
		Wants:   t.Wants,
		Savings: t.Savings,
		Total:   t.Total,
	}
}

func toAllocationCategories(categories []models.BudgetCategory) []allocation.Category {
	out := make([]allocation.Category, len(categories))
	for i, c := range categories {
		out[i] = allocation.Category{Key: c.Key, Name: c.Name, Pct: c.Pct, Amount: c.Amount}
	}
	return out
}

// allocateCategories returns a copy of categories with amounts derived from income.
func allocateCategories(income float64, categories []models.BudgetCategory) ([]models.BudgetCategory, error) {
	allocated, err := allocation.AllocateCategories(income, toAllocationCategories(categories))
	if err != nil {
		if errors.Is(err, allocation.ErrNegative) {
			return nil, apperrors.Wrap(apperrors.ErrInvalidSplit, err)
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	out := make([]models.BudgetCategory, len(categories))
	for i, c := range categories {
		c.Amount = allocated[i].Amount
		out[i] = c
	}
	return out, nil
}

// withDefaultOrigin returns a copy of categories in which an empty type is
// set to CategoryOriginDefault.
func withDefaultOrigin(categories []models.BudgetCategory) []models.BudgetCategory {
	if categories == nil {
		return nil
	}
	out := make([]models.BudgetCategory, len(categories))
	for i, c := range categories {
		if c.Type == "" {
			c.Type = models.CategoryOriginDefault
		}
		out[i] = c
	}
	return out
}
