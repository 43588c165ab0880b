package services

import (
	"context"
	"time"

	"finview/internal/allocation"
	"finview/internal/models"
	"finview/internal/pagination"
)

// UpdateProfileInput holds the optional profile fields a user may change.
// Nil fields are left untouched.
type UpdateProfileInput struct {
	Name   *string
	Phone  *string
	Avatar *string
}

// GoogleProfile is the identity extracted from a verified Google ID token.
type GoogleProfile struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(ctx context.Context, name, email, phone, password string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(ctx context.Context, email, password string) (*models.User, error)
	FindOrCreateGoogleUser(ctx context.Context, profile GoogleProfile) (*models.User, error)
	UpdateProfile(ctx context.Context, id string, input UpdateProfileInput) (*models.User, error)
}

// SaveBudgetInput is the client payload of a budget save.
type SaveBudgetInput struct {
	Income       float64
	Rule         models.BudgetRule
	CustomSplits map[string]float64
	Categories   []models.BudgetCategory
	Totals       models.BudgetTotals
	Title        string
	Month        int
	Year         int
}

// PreviewInput is the data needed to compute an allocation without saving it.
type PreviewInput struct {
	Income       float64
	Rule         models.BudgetRule
	CustomSplits map[string]float64
	Categories   []models.BudgetCategory
}

// BudgetPreview is the server-side allocation of a budget draft.
type BudgetPreview struct {
	Rule           models.BudgetRule       `json:"rule"`
	Splits         allocation.Splits       `json:"splits"`
	Totals         models.BudgetTotals     `json:"totals"`
	Categories     []models.BudgetCategory `json:"categories"`
	AllocatedPct   float64                 `json:"allocated_pct"`
	UnallocatedPct float64                 `json:"unallocated_pct"`
	OverAllocated  bool                    `json:"over_allocated"`
}

// BudgetDefaults describes the starting point offered to new budgets.
type BudgetDefaults struct {
	Rule       models.BudgetRule       `json:"rule"`
	Splits     allocation.Splits       `json:"splits"`
	Categories []models.BudgetCategory `json:"categories"`
	Template   []models.BudgetCategory `json:"template"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	SaveBudget(ctx context.Context, ownerID string, input SaveBudgetInput) (*models.Budget, error)
	GetBudget(ctx context.Context, ownerID string, month, year int) (*models.Budget, error)
	ListBudgets(ctx context.Context, ownerID string) ([]models.Budget, error)
	Preview(input PreviewInput) (*BudgetPreview, error)
	Defaults() BudgetDefaults
}

// PasswordResetServicer defines the contract for the OTP password reset flow.
type PasswordResetServicer interface {
	RequestReset(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, otp string) error
	ResetPassword(ctx context.Context, email, otp, newPassword string) (*models.User, error)
}

// Notification is one entry of the activity feed derived from saved budgets.
type Notification struct {
	ID        string    `json:"id"`
	BudgetID  string    `json:"budget_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Group     string    `json:"group"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationFilter narrows the notification feed.
type NotificationFilter struct {
	Type  string
	Query string
}

// NotificationServicer defines the contract for the notification feed.
type NotificationServicer interface {
	List(ctx context.Context, ownerID string, filter NotificationFilter, page pagination.PageRequest) (*pagination.PageResponse[Notification], error)
}

// GoogleVerifier validates Google ID tokens.
type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (*GoogleProfile, error)
}

// Mailer delivers transactional email.
type Mailer interface {
	SendOTP(ctx context.Context, to, name, otp string, expiresIn time.Duration) error
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
