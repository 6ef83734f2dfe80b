package services

import (
	"context"

	"waflens/internal/domain/models"
)

// CreateAssessmentRequest is the client payload for a new assessment.
// Owner fields are part of the schema so that clients sending them are not
// rejected, but their values are never read.
type CreateAssessmentRequest struct {
	PillarID  string            `json:"pillar_id"`
	Responses []models.Response `json:"responses"`

	IgnoredOwnerSubjectID interface{} `json:"owner_subject_id,omitempty"`
	IgnoredUserID         interface{} `json:"user_id,omitempty"`
	IgnoredUserIDCamel    interface{} `json:"userId,omitempty"`
}

// UpdateAssessmentRequest is the client payload for a partial update.
// Score is tri-state: absent, null (clear) or a value.
type UpdateAssessmentRequest struct {
	Responses []models.Response        `json:"responses"`
	Status    *models.AssessmentStatus `json:"lifecycle_status"`
	Score     OptionalInt              // no json tag - mapped from handler DTO
}

// OptionalInt tracks presence and value for JSON PATCH semantics.
// Transport-agnostic: the HTTP layer fills it from httputil.OptionalInt.
type OptionalInt struct {
	Present bool
	Value   *int
}

// AssessmentService defines business logic for assessments. Every method
// takes the authenticated caller; reads and updates of a single assessment go
// through the access guard after the existence check.
type AssessmentService interface {
	CreateAssessment(ctx context.Context, caller *models.Identity, req *CreateAssessmentRequest) (*models.Assessment, error)
	GetAssessment(ctx context.Context, caller *models.Identity, id string) (*models.Assessment, error)
	ListAssessments(ctx context.Context, caller *models.Identity) ([]models.Assessment, error)
	UpdateAssessment(ctx context.Context, caller *models.Identity, id string, req *UpdateAssessmentRequest) (*models.Assessment, error)
}
