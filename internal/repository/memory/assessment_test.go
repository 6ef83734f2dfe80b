package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"waflens/internal/domain"
	"waflens/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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

func TestCreateAssignsIDAndCopies(t *testing.T) {
	store := NewAssessmentStore()
	ctx := context.Background()

	a := newAssessment("u1", time.Now())
	require.NoError(t, store.Create(ctx, a))
	require.NotEmpty(t, a.ID)

	// Mutating the caller's value does not touch the stored record
	a.Responses[0]["answer"] = "no"

	got, err := store.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "yes", got.Responses[0]["answer"])
}

func TestGetByIDNotFound(t *testing.T) {
	_, err := NewAssessmentStore().GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListByOwnerOrder(t *testing.T) {
	store := NewAssessmentStore()
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	older := newAssessment("u1", base)
	newer := newAssessment("u1", base.Add(time.Second))
	tieLater := newAssessment("u1", base)
	other := newAssessment("u2", base.Add(time.Hour))
	for _, a := range []*models.Assessment{older, newer, tieLater, other} {
		require.NoError(t, store.Create(ctx, a))
	}

	list, err := store.ListByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, tieLater.ID, list[1].ID)
	assert.Equal(t, older.ID, list[2].ID)

	empty, err := store.ListByOwner(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestUpdateMonotonicUpdatedAt(t *testing.T) {
	store := NewAssessmentStore()
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	a := newAssessment("u1", base)
	require.NoError(t, store.Create(ctx, a))

	completed := models.StatusCompleted
	score := 42
	updated, err := store.Update(ctx, a.ID, &models.AssessmentPatch{Status: &completed, Score: &score}, base.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)
	assert.Equal(t, 42, *updated.Score)
	assert.Equal(t, base.Add(time.Minute), updated.UpdatedAt)
	assert.Equal(t, base, updated.CreatedAt)

	// Empty patch with a clock behind the record still succeeds
	again, err := store.Update(ctx, a.ID, &models.AssessmentPatch{}, base)
	require.NoError(t, err)
	assert.Equal(t, base.Add(time.Minute), again.UpdatedAt)
	assert.Equal(t, models.StatusCompleted, again.Status)

	cleared, err := store.Update(ctx, a.ID, &models.AssessmentPatch{ClearScore: true}, base.Add(time.Hour))
	require.NoError(t, err)
	assert.Nil(t, cleared.Score)
}

func TestUpdateNotFound(t *testing.T) {
	_, err := NewAssessmentStore().Update(context.Background(), "missing", &models.AssessmentPatch{}, time.Now())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConcurrentUpdatesStayMonotonic(t *testing.T) {
	store := NewAssessmentStore()
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	a := newAssessment("u1", base)
	require.NoError(t, store.Create(ctx, a))

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			_, err := store.Update(ctx, a.ID, &models.AssessmentPatch{}, base.Add(time.Duration(offset)*time.Second))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := store.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, base.Add(50*time.Second), got.UpdatedAt)
}

func TestTransactionManagerPassesThroughError(t *testing.T) {
	tm := NewTransactionManager()
	err := tm.ExecTx(context.Background(), func(ctx context.Context) error {
		return domain.ErrForbidden
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
