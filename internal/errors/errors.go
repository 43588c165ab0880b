// Package errors provides custom error types for the FinView API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is reports whether target is an AppError with the same code, so that
// errors.Is matches sentinels even after Wrap or WithMessage. Only the code
// is compared: sentinels sharing a code match each other, and the budget
// validation errors are told apart by Message.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized            = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials      = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid login credential", StatusCode: http.StatusUnauthorized}
	ErrForbidden               = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
	ErrTooManyRequests         = &AppError{Code: "TOO_MANY_REQUESTS", Message: "Too many requests, try again later", StatusCode: http.StatusTooManyRequests}
	ErrGoogleLoginDisabled     = &AppError{Code: "GOOGLE_LOGIN_NOT_CONFIGURED", Message: "Google login is not configured", StatusCode: http.StatusServiceUnavailable}
	ErrInvalidGoogleCredential = &AppError{Code: "INVALID_GOOGLE_TOKEN", Message: "Invalid Google credential", StatusCode: http.StatusUnauthorized}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "User already registered", StatusCode: http.StatusConflict}
)

// Password reset errors.
var (
	ErrInvalidOTP         = &AppError{Code: "INVALID_OTP", Message: "Invalid OTP", StatusCode: http.StatusBadRequest}
	ErrOTPExpired         = &AppError{Code: "OTP_EXPIRED", Message: "OTP has expired", StatusCode: http.StatusBadRequest}
	ErrMailDeliveryFailed = &AppError{Code: "MAIL_DELIVERY_FAILED", Message: "Failed to send OTP email", StatusCode: http.StatusBadGateway}
)

// Budget errors. The validation sentinels share the INVALID_INPUT code and
// differ only in Message.
var (
	ErrBudgetNotFound  = &AppError{Code: "BUDGET_NOT_FOUND", Message: "Budget not found", StatusCode: http.StatusNotFound}
	ErrPeriodRequired  = &AppError{Code: "INVALID_INPUT", Message: "Month and year are required", StatusCode: http.StatusBadRequest}
	ErrMonthOutOfRange = &AppError{Code: "INVALID_INPUT", Message: "Month must be between 1 and 12", StatusCode: http.StatusBadRequest}
	ErrInvalidSplit    = &AppError{Code: "INVALID_INPUT", Message: "Income and percentages must not be negative", StatusCode: http.StatusBadRequest}
)
