package services

import (
	"context"

	"google.golang.org/api/idtoken"

	apperrors "finview/internal/errors"
)

// tokenValidator matches idtoken.Validate.
type tokenValidator func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

// googleVerifier checks ID tokens issued for the configured OAuth client.
type googleVerifier struct {
	clientID string
	validate tokenValidator
}

// NewGoogleVerifier creates a GoogleVerifier for clientID. An empty client ID
// yields a verifier that reports Google login as not configured.
func NewGoogleVerifier(clientID string) GoogleVerifier {
	return &googleVerifier{clientID: clientID, validate: idtoken.Validate}
}

// Verify validates the token signature, expiry and audience and returns the
// identity it carries.
func (v *googleVerifier) Verify(ctx context.Context, idToken string) (*GoogleProfile, error) {
	if v.clientID == "" {
		return nil, apperrors.ErrGoogleLoginDisabled
	}
	if idToken == "" {
		return nil, apperrors.ErrInvalidGoogleCredential
	}

	payload, err := v.validate(ctx, idToken, v.clientID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidGoogleCredential, err)
	}

	profile := &GoogleProfile{Subject: payload.Subject}
	profile.Email, _ = payload.Claims["email"].(string)
	profile.Name, _ = payload.Claims["name"].(string)
	profile.Picture, _ = payload.Claims["picture"].(string)

	if verified, ok := payload.Claims["email_verified"].(bool); ok && !verified {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidGoogleCredential, "Google email is not verified")
	}
	if profile.Email == "" {
		return nil, apperrors.ErrInvalidGoogleCredential
	}
	return profile, nil
}
