package models

import "time"

// UserRole represents the authorization role of a user
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// User represents the user model in the database
type User struct {
	Base
	Name              string     `gorm:"not null" json:"name"`
	Email             string     `gorm:"uniqueIndex;not null" json:"email"`
	Password          string     `gorm:"not null" json:"-"`
	Role              UserRole   `gorm:"size:16;not null;default:'user'" json:"role"`
	Phone             string     `json:"phone,omitempty"`
	Avatar            string     `json:"avatar,omitempty"`
	ResetOTPHash      string     `gorm:"size:60" json:"-"`
	ResetOTPExpiresAt *time.Time `json:"-"`
	LastLoginAt       *time.Time `json:"last_login_at,omitempty"`
	Budgets           []Budget   `gorm:"foreignKey:UserID" json:"budgets,omitempty"`
}
