package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"waflens/internal/domain"
	"waflens/internal/domain/models"
	"waflens/internal/domain/repositories"
	"waflens/internal/telemetry"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

const assessmentColumns = `id, pillar_id, owner_subject_id, responses, status, score, created_at, updated_at`

// PostgresAssessmentRepository implements the AssessmentRepository interface
type PostgresAssessmentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewAssessmentRepository creates a new assessment repository
func NewAssessmentRepository(config *RepositoryConfig) repositories.AssessmentRepository {
	return &PostgresAssessmentRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a new assessment with a fresh UUID
func (r *PostgresAssessmentRepository) Create(ctx context.Context, assessment *models.Assessment) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "db.assessments.create")
	defer func() { span.End(err) }()

	responses, err := encodeResponses(assessment.Responses)
	if err != nil {
		return err
	}

	assessment.ID = uuid.NewString()

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4::jsonb, $5, $6, $7, $8)
	`, r.tables.Assessments, assessmentColumns)

	executor := GetExecutor(ctx, r.pool)
	_, err = executor.Exec(ctx, query,
		assessment.ID,
		assessment.PillarID,
		assessment.OwnerSubjectID,
		responses,
		string(assessment.Status),
		assessment.Score,
		assessment.CreatedAt,
		assessment.UpdatedAt,
	)
	if err != nil {
		if IsPgCheckViolation(err) {
			return fmt.Errorf("create assessment: %w", domain.ErrValidation)
		}
		return wrapStoreError("create assessment", err)
	}

	return nil
}

// GetByID retrieves an assessment by ID regardless of owner
func (r *PostgresAssessmentRepository) GetByID(ctx context.Context, id string) (_ *models.Assessment, err error) {
	ctx, span := telemetry.StartSpan(ctx, "db.assessments.get", attribute.String("assessment.id", id))
	defer func() { span.End(err) }()

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, assessmentColumns, r.tables.Assessments)

	executor := GetExecutor(ctx, r.pool)
	assessment, err := scanAssessment(executor.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("assessment %s: %w", id, domain.ErrNotFound)
		}
		return nil, wrapStoreError("get assessment", err)
	}

	return assessment, nil
}

// ListByOwner retrieves the owner's assessments, newest first
func (r *PostgresAssessmentRepository) ListByOwner(ctx context.Context, ownerSubjectID string) (_ []models.Assessment, err error) {
	ctx, span := telemetry.StartSpan(ctx, "db.assessments.list")
	defer func() { span.End(err) }()

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE owner_subject_id = $1
		ORDER BY created_at DESC, seq DESC
	`, assessmentColumns, r.tables.Assessments)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ownerSubjectID)
	if err != nil {
		return nil, wrapStoreError("list assessments", err)
	}
	defer rows.Close()

	assessments := []models.Assessment{}
	for rows.Next() {
		assessment, err := scanAssessment(rows)
		if err != nil {
			return nil, wrapStoreError("scan assessment", err)
		}
		assessments = append(assessments, *assessment)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapStoreError("iterate assessments", err)
	}

	return assessments, nil
}

// Update applies the patch in one statement. updated_at never moves backwards
// even when the clock does.
func (r *PostgresAssessmentRepository) Update(ctx context.Context, id string, patch *models.AssessmentPatch, now time.Time) (_ *models.Assessment, err error) {
	ctx, span := telemetry.StartSpan(ctx, "db.assessments.update", attribute.String("assessment.id", id))
	defer func() { span.End(err) }()

	var responses *string
	if patch.Responses != nil {
		encoded, err := encodeResponses(patch.Responses)
		if err != nil {
			return nil, err
		}
		responses = &encoded
	}

	var status *string
	if patch.Status != nil {
		s := string(*patch.Status)
		status = &s
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET responses  = COALESCE($2::jsonb, responses),
		    status     = COALESCE($3, status),
		    score      = CASE WHEN $4::boolean THEN NULL ELSE COALESCE($5::integer, score) END,
		    updated_at = GREATEST(updated_at, $6)
		WHERE id = $1
		RETURNING %s
	`, r.tables.Assessments, assessmentColumns)

	executor := GetExecutor(ctx, r.pool)
	updated, err := scanAssessment(executor.QueryRow(ctx, query,
		id,
		responses,
		status,
		patch.ClearScore,
		patch.Score,
		now,
	))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("assessment %s: %w", id, domain.ErrNotFound)
		}
		if IsPgCheckViolation(err) {
			return nil, fmt.Errorf("update assessment: %w", domain.ErrValidation)
		}
		return nil, wrapStoreError("update assessment", err)
	}

	r.logger.Debug("assessment updated", "id", id, "patch", patch.String())
	return updated, nil
}

func scanAssessment(row pgx.Row) (*models.Assessment, error) {
	var a models.Assessment
	var responses []byte
	var status string

	err := row.Scan(
		&a.ID,
		&a.PillarID,
		&a.OwnerSubjectID,
		&responses,
		&status,
		&a.Score,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Status = models.AssessmentStatus(status)
	if err := json.Unmarshal(responses, &a.Responses); err != nil {
		return nil, fmt.Errorf("decode responses: %w", err)
	}
	if a.Responses == nil {
		a.Responses = []models.Response{}
	}
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()

	return &a, nil
}

func encodeResponses(responses []models.Response) (string, error) {
	if responses == nil {
		responses = []models.Response{}
	}
	data, err := json.Marshal(responses)
	if err != nil {
		return "", fmt.Errorf("encode responses: %w", err)
	}
	return string(data), nil
}
