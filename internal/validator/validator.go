// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	otpRegex         = regexp.MustCompile(`^[0-9]{6}$`)
	phoneRegex       = regexp.MustCompile(`^\+?[0-9][0-9 -]{6,18}[0-9]$`)
	categoryKeyRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterOn(v)
	}
}

// RegisterOn registers the custom validators on v.
func RegisterOn(v *validator.Validate) {
	_ = v.RegisterValidation("budget_rule", validateBudgetRule)
	_ = v.RegisterValidation("category_origin", validateCategoryOrigin)
	_ = v.RegisterValidation("category_key", validateCategoryKey)
	_ = v.RegisterValidation("otp_code", validateOTPCode)
	_ = v.RegisterValidation("phone", validatePhone)
}

func validateBudgetRule(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "50-30-20", "custom":
		return true
	}
	return false
}

func validateCategoryOrigin(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "default", "custom":
		return true
	}
	return false
}

func validateCategoryKey(fl validator.FieldLevel) bool {
	return categoryKeyRegex.MatchString(fl.Field().String())
}

func validateOTPCode(fl validator.FieldLevel) bool {
	return otpRegex.MatchString(fl.Field().String())
}

func validatePhone(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}
