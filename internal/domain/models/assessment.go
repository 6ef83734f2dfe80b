package models

import (
	"fmt"
	"time"
)

// AssessmentStatus is the lifecycle state of an assessment.
// Every state is reachable from every other through an update; none is terminal.
type AssessmentStatus string

const (
	StatusInProgress AssessmentStatus = "in_progress"
	StatusCompleted  AssessmentStatus = "completed"
	StatusArchived   AssessmentStatus = "archived"
)

// AssessmentStatuses lists the valid lifecycle states.
var AssessmentStatuses = []AssessmentStatus{StatusInProgress, StatusCompleted, StatusArchived}

// Valid reports whether s is one of the enumerated states.
func (s AssessmentStatus) Valid() bool {
	for _, known := range AssessmentStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Response is a single answered question of an assessment, as sent by the client.
type Response map[string]interface{}

// Assessment is a pillar questionnaire owned by the user that created it.
type Assessment struct {
	ID             string           `json:"id" db:"id"`
	PillarID       string           `json:"pillar_id" db:"pillar_id"`
	OwnerSubjectID string           `json:"owner_subject_id" db:"owner_subject_id"`
	Responses      []Response       `json:"responses" db:"responses"`
	Status         AssessmentStatus `json:"lifecycle_status" db:"status"`
	Score          *int             `json:"score" db:"score"`
	CreatedAt      time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at" db:"updated_at"`
}

// The OwnedResource methods accept a nil receiver, which owns nothing.

func (a *Assessment) ResourceType() string { return "assessment" }

func (a *Assessment) ResourceID() string {
	if a == nil {
		return ""
	}
	return a.ID
}

func (a *Assessment) OwnerID() string {
	if a == nil {
		return ""
	}
	return a.OwnerSubjectID
}

// AssessmentPatch holds the mutable fields of an assessment. Nil pointers are
// left untouched; ClearScore sets score back to null.
type AssessmentPatch struct {
	Responses  []Response
	Status     *AssessmentStatus
	Score      *int
	ClearScore bool
}

// Apply writes the patch onto a and stamps updatedAt.
func (p *AssessmentPatch) Apply(a *Assessment, updatedAt time.Time) {
	if p.Responses != nil {
		a.Responses = p.Responses
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	switch {
	case p.ClearScore:
		a.Score = nil
	case p.Score != nil:
		score := *p.Score
		a.Score = &score
	}
	a.UpdatedAt = updatedAt
}

func (p *AssessmentPatch) String() string {
	return fmt.Sprintf("responses=%t status=%t score=%t clear_score=%t",
		p.Responses != nil, p.Status != nil, p.Score != nil, p.ClearScore)
}
