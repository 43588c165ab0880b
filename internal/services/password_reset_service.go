package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "finview/internal/errors"
	"finview/internal/logger"
	"finview/internal/models"
)

const otpDigits = 6

// passwordResetService handles the forgot-password flow: an emailed one-time
// code that is stored hashed on the user and expires after ttl.
type passwordResetService struct {
	db     *gorm.DB
	users  UserServicer
	mailer Mailer
	ttl    time.Duration
}

// NewPasswordResetService creates a new PasswordResetServicer.
func NewPasswordResetService(db *gorm.DB, users UserServicer, mailer Mailer, ttl time.Duration) PasswordResetServicer {
	return &passwordResetService{db: db, users: users, mailer: mailer, ttl: ttl}
}

// RequestReset issues a new OTP for the user and emails it. Any previous
// code is replaced.
func (s *passwordResetService) RequestReset(ctx context.Context, email string) error {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}

	otp, err := generateOTP()
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(otp), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	expiresAt := time.Now().Add(s.ttl)
	err = s.db.WithContext(ctx).Model(user).Updates(map[string]interface{}{
		"reset_otp_hash":       string(hash),
		"reset_otp_expires_at": expiresAt,
	}).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.mailer.SendOTP(ctx, user.Email, user.Name, otp, s.ttl); err != nil {
		return apperrors.Wrap(apperrors.ErrMailDeliveryFailed, err)
	}

	logger.Get().Infow("password reset otp issued", "user_id", user.ID, "expires_at", expiresAt)
	return nil
}

// VerifyOTP checks the code without consuming it.
func (s *passwordResetService) VerifyOTP(ctx context.Context, email, otp string) error {
	_, err := s.checkOTP(ctx, email, otp)
	return err
}

// ResetPassword replaces the user's password and clears the OTP so it
// cannot be reused.
func (s *passwordResetService) ResetPassword(ctx context.Context, email, otp, newPassword string) (*models.User, error) {
	if newPassword == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "password is required")
	}

	user, err := s.checkOTP(ctx, email, otp)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	err = s.db.WithContext(ctx).Model(user).Updates(map[string]interface{}{
		"password":             string(hash),
		"reset_otp_hash":       "",
		"reset_otp_expires_at": nil,
	}).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user.Password = string(hash)
	user.ResetOTPHash = ""
	user.ResetOTPExpiresAt = nil
	return user, nil
}

func (s *passwordResetService) checkOTP(ctx context.Context, email, otp string) (*models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidOTP
		}
		return nil, err
	}

	if user.ResetOTPHash == "" || user.ResetOTPExpiresAt == nil {
		return nil, apperrors.ErrInvalidOTP
	}
	if time.Now().After(*user.ResetOTPExpiresAt) {
		return nil, apperrors.ErrOTPExpired
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.ResetOTPHash), []byte(otp)); err != nil {
		return nil, apperrors.ErrInvalidOTP
	}
	return user, nil
}

// generateOTP returns a zero-padded random numeric code.
func generateOTP() (string, error) {
	limit := big.NewInt(1)
	for i := 0; i < otpDigits; i++ {
		limit.Mul(limit, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", otpDigits, n.Int64()), nil
}
