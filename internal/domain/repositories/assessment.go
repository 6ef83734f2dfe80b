package repositories

import (
	"context"
	"time"

	"waflens/internal/domain/models"
)

// AssessmentRepository defines data access operations for assessments.
// Implementations never filter by owner on single-record reads: ownership is
// the access guard's decision, not the store's.
type AssessmentRepository interface {
	// Create assigns the ID and stores the assessment as given.
	Create(ctx context.Context, assessment *models.Assessment) error

	// GetByID returns domain.ErrNotFound when no record has this ID.
	GetByID(ctx context.Context, id string) (*models.Assessment, error)

	// ListByOwner returns the owner's assessments ordered by created_at DESC.
	ListByOwner(ctx context.Context, ownerSubjectID string) ([]models.Assessment, error)

	// Update applies patch and sets updated_at to max(updated_at, now).
	// Returns domain.ErrNotFound when no record has this ID.
	Update(ctx context.Context, id string, patch *models.AssessmentPatch, now time.Time) (*models.Assessment, error)
}
