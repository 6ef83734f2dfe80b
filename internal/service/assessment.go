package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"waflens/internal/config"
	"waflens/internal/domain"
	"waflens/internal/domain/models"
	"waflens/internal/domain/repositories"
	"waflens/internal/domain/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// assessmentService implements the AssessmentService interface
type assessmentService struct {
	repo      repositories.AssessmentRepository
	txManager repositories.TransactionManager
	catalog   services.Catalog
	guard     services.AccessGuard
	now       func() time.Time
	logger    *slog.Logger
}

// AssessmentOption customizes the assessment service.
type AssessmentOption func(*assessmentService)

// WithClock replaces the wall clock used for created_at and updated_at.
func WithClock(now func() time.Time) AssessmentOption {
	return func(s *assessmentService) {
		s.now = now
	}
}

// NewAssessmentService creates a new assessment service
func NewAssessmentService(
	repo repositories.AssessmentRepository,
	txManager repositories.TransactionManager,
	catalog services.Catalog,
	guard services.AccessGuard,
	logger *slog.Logger,
	opts ...AssessmentOption,
) services.AssessmentService {
	s := &assessmentService{
		repo:      repo,
		txManager: txManager,
		catalog:   catalog,
		guard:     guard,
		now:       time.Now,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// timestamp is the current time at the precision Postgres stores.
func (s *assessmentService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// CreateAssessment stores a new assessment owned by the caller. Owner fields
// in the payload are ignored.
func (s *assessmentService) CreateAssessment(ctx context.Context, caller *models.Identity, req *services.CreateAssessmentRequest) (*models.Assessment, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	now := s.timestamp()
	assessment := &models.Assessment{
		PillarID:       req.PillarID,
		OwnerSubjectID: caller.SubjectID,
		Responses:      req.Responses,
		Status:         models.StatusInProgress,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, assessment); err != nil {
		return nil, err
	}

	s.logger.Info("assessment created",
		"id", assessment.ID,
		"pillar_id", assessment.PillarID,
		"subject_id", caller.SubjectID,
	)

	return assessment, nil
}

// GetAssessment returns the assessment if it exists and the caller owns it.
// A missing assessment is reported before any ownership decision.
func (s *assessmentService) GetAssessment(ctx context.Context, caller *models.Identity, id string) (*models.Assessment, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	assessment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(caller, assessment, models.ActionRead); err != nil {
		return nil, err
	}

	return assessment, nil
}

// ListAssessments returns the caller's assessments, newest first
func (s *assessmentService) ListAssessments(ctx context.Context, caller *models.Identity) ([]models.Assessment, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	return s.repo.ListByOwner(ctx, caller.SubjectID)
}

// UpdateAssessment applies a partial update. Lookup, ownership check and write
// run as one unit of work so the owner cannot change in between.
func (s *assessmentService) UpdateAssessment(ctx context.Context, caller *models.Identity, id string, req *services.UpdateAssessmentRequest) (*models.Assessment, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	patch := &models.AssessmentPatch{
		Responses: req.Responses,
		Status:    req.Status,
	}
	if req.Score.Present {
		if req.Score.Value == nil {
			patch.ClearScore = true
		} else {
			patch.Score = req.Score.Value
		}
	}

	var updated *models.Assessment
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		if err := s.authorize(caller, existing, models.ActionUpdate); err != nil {
			return err
		}

		updated, err = s.repo.Update(txCtx, id, patch, s.timestamp())
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("assessment updated",
		"id", id,
		"subject_id", caller.SubjectID,
		"patch", patch.String(),
	)

	return updated, nil
}

func (s *assessmentService) authorize(caller *models.Identity, assessment *models.Assessment, action models.Action) error {
	if err := s.guard.Check(caller, assessment, action); err != nil {
		s.logger.Warn("assessment access denied",
			"id", assessment.ResourceID(),
			"subject_id", caller.SubjectID,
			"action", action,
		)
		return err
	}
	return nil
}

// validateCreateRequest validates a create assessment request
func (s *assessmentService) validateCreateRequest(req *services.CreateAssessmentRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.PillarID,
			validation.Required,
			validation.Length(1, config.MaxPillarIDLength),
			validation.By(s.validatePillar),
		),
		validation.Field(&req.Responses,
			validation.NotNil,
			validation.Length(0, config.MaxResponsesPerAssessment),
			validation.Each(validation.NotNil),
		),
	)
}

// validateUpdateRequest validates an update assessment request
func (s *assessmentService) validateUpdateRequest(req *services.UpdateAssessmentRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Responses,
			validation.Length(0, config.MaxResponsesPerAssessment),
			validation.Each(validation.NotNil),
		),
		validation.Field(&req.Status, validation.By(validateStatus)),
		validation.Field(&req.Score, validation.By(validateScore)),
	)
}

// validatePillar checks the pillar exists in the catalog
func (s *assessmentService) validatePillar(value interface{}) error {
	id, _ := value.(string)
	if _, err := s.catalog.GetPillar(id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("unknown pillar %q", id)
		}
		return err
	}
	return nil
}

func validateStatus(value interface{}) error {
	status, ok := value.(*models.AssessmentStatus)
	if !ok || status == nil {
		return nil
	}
	if !status.Valid() {
		return fmt.Errorf("must be one of %v", models.AssessmentStatuses)
	}
	return nil
}

func validateScore(value interface{}) error {
	score, ok := value.(services.OptionalInt)
	if !ok || !score.Present || score.Value == nil {
		return nil
	}
	if *score.Value < 0 || *score.Value > config.MaxScore {
		return fmt.Errorf("must be between 0 and %d", config.MaxScore)
	}
	return nil
}

// requireCaller guards against wiring mistakes: routes reaching a service
// must have passed authentication.
func requireCaller(caller *models.Identity) error {
	if caller == nil || caller.SubjectID == "" {
		return domain.NewAuthError(domain.ReasonMissingSubject, errors.New("no authenticated caller"))
	}
	return nil
}
