package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"finview/internal/models"
	"finview/internal/period"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Name:     fmt.Sprintf("Test User %d", nextID()),
		Email:    email,
		Password: string(hash),
		Role:     models.UserRoleUser,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestBudget creates a 50-30-20 budget with an income of 50000 for the given period.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID string, month, year int) *models.Budget {
	t.Helper()

	p := period.Period{Month: month, Year: year}
	budget := &models.Budget{
		UserID:       userID,
		Income:       50000,
		Rule:         models.BudgetRuleFixed,
		CustomSplits: datatypes.NewJSONType(map[string]float64{}),
		Categories: datatypes.NewJSONSlice([]models.BudgetCategory{
			{Key: "needs", Name: "Needs", Pct: 50, Amount: 25000, Type: models.CategoryOriginDefault},
			{Key: "wants", Name: "Wants", Pct: 30, Amount: 15000, Type: models.CategoryOriginDefault},
			{Key: "savings", Name: "Savings", Pct: 20, Amount: 10000, Type: models.CategoryOriginDefault},
		}),
		Totals: models.BudgetTotals{Needs: 25000, Wants: 15000, Savings: 10000, Total: 50000},
		Title:  p.DefaultTitle(),
		Period: p,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CountBudgets returns the number of budget rows for the owner and period.
func CountBudgets(t *testing.T, db *gorm.DB, userID string, month, year int) int64 {
	t.Helper()

	var count int64
	if err := db.Model(&models.Budget{}).
		Where("user_id = ? AND month = ? AND year = ?", userID, month, year).
		Count(&count).Error; err != nil {
		t.Fatalf("failed to count budgets: %v", err)
	}
	return count
}
