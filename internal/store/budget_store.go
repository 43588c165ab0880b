// Package store persists budgets. It owns the invariant that at most one
// budget exists per (owner, month, year).
package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "finview/internal/errors"
	"finview/internal/models"
	"finview/internal/period"
)

// upsertColumns are overwritten when a save hits an existing (owner, period).
// Owner, period, id and created_at are immutable.
var upsertColumns = []string{
	"income",
	"rule",
	"custom_splits",
	"categories",
	"totals_needs",
	"totals_wants",
	"totals_savings",
	"totals_total",
	"title",
	"updated_at",
	"deleted_at",
}

// BudgetStore defines the persistence contract for budgets.
type BudgetStore interface {
	Upsert(ctx context.Context, budget *models.Budget) (*models.Budget, error)
	Find(ctx context.Context, ownerID string, p period.Period) (*models.Budget, error)
	List(ctx context.Context, ownerID string) ([]models.Budget, error)
}

// budgetStore is the gorm implementation of BudgetStore.
type budgetStore struct {
	db *gorm.DB
}

// NewBudgetStore creates a new BudgetStore.
func NewBudgetStore(db *gorm.DB) BudgetStore {
	return &budgetStore{db: db}
}

// Upsert inserts the budget or, when one already exists for the same owner
// and period, replaces its mutable fields in a single statement. The stored
// row is returned.
func (s *budgetStore) Upsert(ctx context.Context, budget *models.Budget) (*models.Budget, error) {
	var stored models.Budget
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"},
				{Name: "month"},
				{Name: "year"},
			},
			DoUpdates: clause.AssignmentColumns(upsertColumns),
		}).Create(budget).Error
		if err != nil {
			return err
		}

		return tx.Where("user_id = ? AND month = ? AND year = ?",
			budget.UserID, budget.Period.Month, budget.Period.Year).
			First(&stored).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &stored, nil
}

// Find returns the owner's budget for the period.
func (s *budgetStore) Find(ctx context.Context, ownerID string, p period.Period) (*models.Budget, error) {
	var budget models.Budget
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND month = ? AND year = ?", ownerID, p.Month, p.Year).
		First(&budget).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// List returns every budget of the owner, newest period first.
func (s *budgetStore) List(ctx context.Context, ownerID string) ([]models.Budget, error) {
	budgets := []models.Budget{}
	err := s.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("year DESC").
		Order("month DESC").
		Find(&budgets).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budgets, nil
}
