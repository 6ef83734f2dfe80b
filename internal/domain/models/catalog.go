package models

// Pillar is one of the Well-Architected Framework pillars.
type Pillar struct {
	ID            string `json:"id" yaml:"id"`
	Name          string `json:"name" yaml:"name"`
	Description   string `json:"description" yaml:"description"`
	Icon          string `json:"icon" yaml:"icon"`
	Color         string `json:"color" yaml:"color"`
	ControlsCount int    `json:"controls_count" yaml:"controls_count"`
}

// Control is a single checkable practice within a pillar.
type Control struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Status string `json:"status" yaml:"status"` // compliant, partial, action-required
}

// RecommendationStatus is the workflow state of a recommendation.
type RecommendationStatus string

const (
	RecommendationPending    RecommendationStatus = "pending"
	RecommendationInProgress RecommendationStatus = "in_progress"
	RecommendationCompleted  RecommendationStatus = "completed"
	RecommendationDismissed  RecommendationStatus = "dismissed"
)

// RecommendationStatuses lists the valid recommendation states.
var RecommendationStatuses = []RecommendationStatus{
	RecommendationPending,
	RecommendationInProgress,
	RecommendationCompleted,
	RecommendationDismissed,
}

// Recommendation is a suggested improvement tied to a pillar control.
type Recommendation struct {
	ID               string               `json:"id" yaml:"id"`
	PillarID         string               `json:"pillar_id" yaml:"pillar_id"`
	ControlID        string               `json:"control_id" yaml:"control_id"`
	Title            string               `json:"title" yaml:"title"`
	Description      string               `json:"description" yaml:"description"`
	Priority         string               `json:"priority" yaml:"priority"`
	Effort           string               `json:"effort" yaml:"effort"`
	Impact           string               `json:"impact" yaml:"impact"`
	Status           RecommendationStatus `json:"status" yaml:"status"`
	RemediationSteps []string             `json:"remediation_steps,omitempty" yaml:"remediation_steps"`
	Resources        []string             `json:"resources,omitempty" yaml:"resources"`
}

// RecommendationFilter narrows a recommendation listing. Empty fields match all.
type RecommendationFilter struct {
	PillarID string
	Status   string
}
