package auth

import (
	"context"
	"errors"

	"waflens/internal/domain"
	"waflens/internal/domain/models"
)

// ResolveIdentity narrows a verified claim set to the caller identity.
// A cryptographically valid token without a subject is unusable and is
// rejected as unauthorized.
func ResolveIdentity(claims *models.Claims) (*models.Identity, error) {
	if claims == nil || claims.Subject == "" {
		return nil, domain.NewAuthError(domain.ReasonMissingSubject, errors.New("token has no subject claim"))
	}

	return &models.Identity{
		SubjectID:   claims.Subject,
		Email:       claims.Email,
		DisplayName: claims.Name,
		AvatarURL:   claims.Picture,
	}, nil
}

// Authenticator verifies a bearer credential and resolves the caller.
type Authenticator struct {
	verifier TokenVerifier
}

// NewAuthenticator creates an authenticator around verifier.
func NewAuthenticator(verifier TokenVerifier) *Authenticator {
	return &Authenticator{verifier: verifier}
}

// Authenticate runs verification then identity resolution.
func (a *Authenticator) Authenticate(ctx context.Context, rawToken string) (*models.Identity, error) {
	if rawToken == "" {
		return nil, domain.NewAuthError(domain.ReasonMissingCredential, nil)
	}

	claims, err := a.verifier.VerifyToken(ctx, rawToken)
	if err != nil {
		return nil, err
	}

	return ResolveIdentity(claims)
}
