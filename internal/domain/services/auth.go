package services

import (
	"context"

	"waflens/internal/domain/models"
)

// AccessGuard decides whether an identity may perform an action on a resource.
// Callers must establish that the resource exists before asking: a lookup
// miss is reported as not found, never as a denial.
type AccessGuard interface {
	Authorize(identity *models.Identity, resource models.OwnedResource, action models.Action) models.Decision

	// Check is Authorize expressed as an error: nil when allowed, an
	// *domain.AccessError (matching domain.ErrForbidden) when denied.
	Check(identity *models.Identity, resource models.OwnedResource, action models.Action) error
}

// IdentityResolver turns a verified bearer credential into a caller identity.
type IdentityResolver interface {
	Authenticate(ctx context.Context, rawToken string) (*models.Identity, error)
}
