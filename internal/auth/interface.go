package auth

import (
	"context"

	"waflens/internal/domain/models"
)

// TokenVerifier validates a bearer credential against the identity provider.
// Every failure is a *domain.AuthError; none is ever an internal error.
type TokenVerifier interface {
	// VerifyToken checks signature, issuer, audience and expiry and returns
	// the decoded claim set. Each call is a fresh verification.
	VerifyToken(ctx context.Context, rawToken string) (*models.Claims, error)

	// Close releases any resources held by the verifier (e.g., the JWKS refresh goroutine).
	Close() error
}
