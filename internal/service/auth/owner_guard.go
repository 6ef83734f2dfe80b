package auth

import (
	"waflens/internal/domain"
	"waflens/internal/domain/models"
	"waflens/internal/domain/services"
)

// OwnerGuard implements AccessGuard using ownership checks.
// A caller may read or update a resource iff they created it.
//
// The guard is pure: it never looks anything up. Services fetch the resource
// first so a missing resource surfaces as not found rather than forbidden.
type OwnerGuard struct{}

// NewOwnerGuard creates a new ownership-based guard
func NewOwnerGuard() *OwnerGuard {
	return &OwnerGuard{}
}

// Authorize allows the action iff the caller's subject owns the resource.
// The same rule applies to every action.
func (g *OwnerGuard) Authorize(identity *models.Identity, resource models.OwnedResource, action models.Action) models.Decision {
	if identity == nil || resource == nil || identity.SubjectID == "" {
		return models.Deny(domain.DenyNotOwner)
	}
	// A typed nil or an ownerless record passes the nil check above.
	owner := resource.OwnerID()
	if owner == "" || owner != identity.SubjectID {
		return models.Deny(domain.DenyNotOwner)
	}
	return models.Allow()
}

// Check returns an *domain.AccessError when Authorize denies.
func (g *OwnerGuard) Check(identity *models.Identity, resource models.OwnedResource, action models.Action) error {
	decision := g.Authorize(identity, resource, action)
	if decision.Allowed {
		return nil
	}

	accessErr := &domain.AccessError{
		Reason: decision.Reason,
		Action: string(action),
	}
	if resource != nil {
		accessErr.ResourceType = resource.ResourceType()
		accessErr.ResourceID = resource.ResourceID()
	}
	return accessErr
}

var _ services.AccessGuard = (*OwnerGuard)(nil)
