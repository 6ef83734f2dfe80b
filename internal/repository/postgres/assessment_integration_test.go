//go:build integration

package postgres

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"testing"
	"time"

	"waflens/internal/domain"
	"waflens/internal/domain/models"
	"waflens/migrations"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Run with: go test -tags=integration ./internal/repository/postgres/...
func setupRepository(t *testing.T) (*PostgresAssessmentRepository, *TransactionManager) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("waflens_test"),
		tcpostgres.WithUsername("waflens"),
		tcpostgres.WithPassword("waflens_test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := CreateConnectionPool(ctx, dsn, logger)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	tables := NewTableNames("test_")
	require.NoError(t, Migrate(ctx, pool, migrations.FS, tables, logger))
	// Second run is a no-op
	require.NoError(t, Migrate(ctx, pool, migrations.FS, tables, logger))

	var applied int
	require.NoError(t, pool.QueryRow(ctx, "SELECT count(*) FROM "+tables.Migrations).Scan(&applied))
	names, err := fs.Glob(migrations.FS, "*.sql")
	require.NoError(t, err)
	require.Equal(t, len(names), applied)

	cfg := &RepositoryConfig{Pool: pool, Tables: tables, Logger: logger}
	repo := NewAssessmentRepository(cfg).(*PostgresAssessmentRepository)
	tm := NewTransactionManager(pool, logger).(*TransactionManager)
	return repo, tm
}

func newAssessment(owner string, at time.Time) *models.Assessment {
	return &models.Assessment{
		PillarID:       "security",
		OwnerSubjectID: owner,
		Responses:      []models.Response{{"question": "q1", "answer": "yes"}},
		Status:         models.StatusInProgress,
		CreatedAt:      at,
		UpdatedAt:      at,
	}
}

func TestAssessmentRepositoryIntegration(t *testing.T) {
	repo, tm := setupRepository(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	first := newAssessment("u1", base)
	require.NoError(t, repo.Create(ctx, first))
	second := newAssessment("u1", base.Add(time.Minute))
	require.NoError(t, repo.Create(ctx, second))
	require.NoError(t, repo.Create(ctx, newAssessment("u2", base)))

	t.Run("get by id ignores owner", func(t *testing.T) {
		got, err := repo.GetByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "u1", got.OwnerSubjectID)
		assert.Equal(t, "yes", got.Responses[0]["answer"])
		assert.Nil(t, got.Score)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "does-not-exist")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("list newest first", func(t *testing.T) {
		list, err := repo.ListByOwner(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, second.ID, list[0].ID)
		assert.Equal(t, first.ID, list[1].ID)

		empty, err := repo.ListByOwner(ctx, "nobody")
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("creation time ties list in insertion order reversed", func(t *testing.T) {
		var ids []string
		for range 3 {
			a := newAssessment("u3", base)
			require.NoError(t, repo.Create(ctx, a))
			ids = append(ids, a.ID)
		}

		list, err := repo.ListByOwner(ctx, "u3")
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{list[0].ID, list[1].ID, list[2].ID})
	})

	t.Run("expired deadline is upstream unavailable", func(t *testing.T) {
		expired, cancel := context.WithDeadline(ctx, time.Now().Add(-time.Second))
		defer cancel()

		_, err := repo.GetByID(expired, first.ID)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	})

	t.Run("update is partial and monotonic", func(t *testing.T) {
		completed := models.StatusCompleted
		score := 80
		updated, err := repo.Update(ctx, first.ID, &models.AssessmentPatch{Status: &completed, Score: &score}, base.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, models.StatusCompleted, updated.Status)
		assert.Equal(t, 80, *updated.Score)
		assert.Len(t, updated.Responses, 1)
		assert.True(t, updated.UpdatedAt.Equal(base.Add(time.Hour)))

		// Clock moved backwards: updated_at stays put
		again, err := repo.Update(ctx, first.ID, &models.AssessmentPatch{ClearScore: true}, base)
		require.NoError(t, err)
		assert.Nil(t, again.Score)
		assert.True(t, again.UpdatedAt.Equal(base.Add(time.Hour)))
	})

	t.Run("out of range score violates check", func(t *testing.T) {
		bad := 101
		_, err := repo.Update(ctx, first.ID, &models.AssessmentPatch{Score: &bad}, base)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("transaction rollback", func(t *testing.T) {
		archived := models.StatusArchived
		err := tm.ExecTx(ctx, func(txCtx context.Context) error {
			if _, err := repo.Update(txCtx, second.ID, &models.AssessmentPatch{Status: &archived}, base); err != nil {
				return err
			}
			return domain.ErrForbidden
		})
		assert.ErrorIs(t, err, domain.ErrForbidden)

		got, err := repo.GetByID(ctx, second.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusInProgress, got.Status)
	})
}
