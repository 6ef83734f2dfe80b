// Package memory is an in-process assessment store for local development and
// tests. Data lives for the life of the process.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"waflens/internal/domain"
	"waflens/internal/domain/models"
	"waflens/internal/domain/repositories"

	"github.com/google/uuid"
)

type record struct {
	assessment models.Assessment
	seq        uint64
}

// AssessmentStore implements the AssessmentRepository interface in memory.
type AssessmentStore struct {
	mu      sync.RWMutex
	records map[string]*record
	nextSeq uint64
}

// NewAssessmentStore creates an empty store
func NewAssessmentStore() *AssessmentStore {
	return &AssessmentStore{records: make(map[string]*record)}
}

// Create stores a copy of assessment under a fresh UUID
func (s *AssessmentStore) Create(ctx context.Context, assessment *models.Assessment) error {
	stored, err := clone(assessment)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	assessment.ID = uuid.NewString()
	stored.ID = assessment.ID
	s.nextSeq++
	s.records[stored.ID] = &record{assessment: *stored, seq: s.nextSeq}
	return nil
}

// GetByID returns a copy of the assessment regardless of owner
func (s *AssessmentStore) GetByID(ctx context.Context, id string) (*models.Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("assessment %s: %w", id, domain.ErrNotFound)
	}
	return clone(&rec.assessment)
}

// ListByOwner returns the owner's assessments, newest first. Equal creation
// times fall back to insertion order, later first.
func (s *AssessmentStore) ListByOwner(ctx context.Context, ownerSubjectID string) ([]models.Assessment, error) {
	s.mu.RLock()
	matched := make([]*record, 0)
	for _, rec := range s.records {
		if rec.assessment.OwnerSubjectID == ownerSubjectID {
			matched = append(matched, rec)
		}
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.assessment.CreatedAt.Equal(b.assessment.CreatedAt) {
			return a.assessment.CreatedAt.After(b.assessment.CreatedAt)
		}
		return a.seq > b.seq
	})

	out := make([]models.Assessment, 0, len(matched))
	for _, rec := range matched {
		c, err := clone(&rec.assessment)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, nil
}

// Update applies patch. updated_at never moves backwards.
func (s *AssessmentStore) Update(ctx context.Context, id string, patch *models.AssessmentPatch, now time.Time) (*models.Assessment, error) {
	var patchCopy models.AssessmentPatch
	if patch != nil {
		patchCopy = *patch
		if patch.Responses != nil {
			responses, err := cloneResponses(patch.Responses)
			if err != nil {
				return nil, err
			}
			patchCopy.Responses = responses
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("assessment %s: %w", id, domain.ErrNotFound)
	}

	updatedAt := now
	if rec.assessment.UpdatedAt.After(now) {
		updatedAt = rec.assessment.UpdatedAt
	}
	patchCopy.Apply(&rec.assessment, updatedAt)

	return clone(&rec.assessment)
}

// clone deep-copies a so callers never share response maps with the store.
func clone(a *models.Assessment) (*models.Assessment, error) {
	c := *a
	responses, err := cloneResponses(a.Responses)
	if err != nil {
		return nil, err
	}
	c.Responses = responses
	if a.Score != nil {
		score := *a.Score
		c.Score = &score
	}
	return &c, nil
}

// cloneResponses round-trips through JSON, which is also what the Postgres
// store does, so both stores hand back the same shapes.
func cloneResponses(responses []models.Response) ([]models.Response, error) {
	if responses == nil {
		return []models.Response{}, nil
	}
	data, err := json.Marshal(responses)
	if err != nil {
		return nil, fmt.Errorf("encode responses: %w", err)
	}
	var out []models.Response
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode responses: %w", err)
	}
	return out, nil
}

var _ repositories.AssessmentRepository = (*AssessmentStore)(nil)
