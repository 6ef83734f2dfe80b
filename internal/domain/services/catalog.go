package services

import "waflens/internal/domain/models"

// Catalog serves the static Well-Architected reference data.
type Catalog interface {
	ListPillars() []models.Pillar
	GetPillar(id string) (*models.Pillar, error)
	// ListControls returns an empty slice for pillars without controls.
	ListControls(pillarID string) []models.Control
	ListRecommendations(filter models.RecommendationFilter) []models.Recommendation
	GetRecommendation(id string) (*models.Recommendation, error)
}
