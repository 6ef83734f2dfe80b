package auth

import (
	"errors"
	"testing"

	"waflens/internal/domain"
	"waflens/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOwnerGuardAuthorize(t *testing.T) {
	guard := NewOwnerGuard()
	resource := &models.Assessment{ID: "a1", OwnerSubjectID: "u1"}

	tests := []struct {
		name     string
		identity *models.Identity
		action   models.Action
		allowed  bool
	}{
		{"owner reads", &models.Identity{SubjectID: "u1"}, models.ActionRead, true},
		{"owner updates", &models.Identity{SubjectID: "u1"}, models.ActionUpdate, true},
		{"other reads", &models.Identity{SubjectID: "u2"}, models.ActionRead, false},
		{"other updates", &models.Identity{SubjectID: "u2"}, models.ActionUpdate, false},
		{"empty subject", &models.Identity{}, models.ActionRead, false},
		{"no identity", nil, models.ActionRead, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := guard.Authorize(tt.identity, resource, tt.action)
			assert.Equal(t, tt.allowed, decision.Allowed)
			if !tt.allowed {
				assert.Equal(t, domain.DenyNotOwner, decision.Reason)
			}
		})
	}
}

func TestOwnerGuardCheck(t *testing.T) {
	guard := NewOwnerGuard()
	resource := &models.Assessment{ID: "a1", OwnerSubjectID: "u1"}

	assert.NoError(t, guard.Check(&models.Identity{SubjectID: "u1"}, resource, models.ActionUpdate))

	err := guard.Check(&models.Identity{SubjectID: "u2"}, resource, models.ActionUpdate)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	var accessErr *domain.AccessError
	require.True(t, errors.As(err, &accessErr))
	assert.Equal(t, domain.DenyNotOwner, accessErr.Reason)
	assert.Equal(t, "assessment", accessErr.ResourceType)
	assert.Equal(t, "a1", accessErr.ResourceID)
	assert.Equal(t, "update", accessErr.Action)
}

func TestOwnerGuardNilResources(t *testing.T) {
	guard := NewOwnerGuard()
	caller := &models.Identity{SubjectID: "u1"}

	var missing *models.Assessment
	tests := []struct {
		name     string
		resource models.OwnedResource
	}{
		{"untyped nil", nil},
		{"typed nil", missing},
		{"no owner", &models.Assessment{ID: "a1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				decision := guard.Authorize(caller, tt.resource, models.ActionRead)
				assert.False(t, decision.Allowed)
				assert.ErrorIs(t, guard.Check(caller, tt.resource, models.ActionUpdate), domain.ErrForbidden)
			})
		})
	}

	t.Run("empty subject never matches an ownerless record", func(t *testing.T) {
		decision := guard.Authorize(&models.Identity{}, &models.Assessment{ID: "a1"}, models.ActionRead)
		assert.False(t, decision.Allowed)
	})
}
