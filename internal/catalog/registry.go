// Package catalog serves the static Well-Architected reference data: pillars,
// their controls and the recommendation list. The data is embedded YAML and
// is immutable once loaded.
package catalog

import (
	"embed"
	"fmt"

	"waflens/internal/domain"
	"waflens/internal/domain/models"
	"waflens/internal/domain/services"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFiles embed.FS

type pillarsFile struct {
	Pillars []models.Pillar `yaml:"pillars"`
}

type controlsFile struct {
	Controls map[string][]models.Control `yaml:"controls"`
}

type recommendationsFile struct {
	Recommendations []models.Recommendation `yaml:"recommendations"`
}

// Registry implements services.Catalog over the embedded data files.
// It is read-only after NewRegistry and safe for concurrent use.
type Registry struct {
	pillars         []models.Pillar
	controls        map[string][]models.Control
	recommendations []models.Recommendation
}

// NewRegistry loads and validates the embedded catalog.
func NewRegistry() (*Registry, error) {
	var p pillarsFile
	if err := loadFile("data/pillars.yaml", &p); err != nil {
		return nil, err
	}
	var c controlsFile
	if err := loadFile("data/controls.yaml", &c); err != nil {
		return nil, err
	}
	var rec recommendationsFile
	if err := loadFile("data/recommendations.yaml", &rec); err != nil {
		return nil, err
	}

	r := &Registry{
		pillars:         p.Pillars,
		controls:        c.Controls,
		recommendations: rec.Recommendations,
	}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func loadFile(name string, out interface{}) error {
	data, err := dataFiles.ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", name, err)
	}
	return nil
}

// validate checks cross references between the data files.
func (r *Registry) validate() error {
	seen := make(map[string]bool, len(r.pillars))
	for _, p := range r.pillars {
		if p.ID == "" {
			return fmt.Errorf("pillar without id")
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate pillar %s", p.ID)
		}
		seen[p.ID] = true
	}
	for pillarID := range r.controls {
		if !seen[pillarID] {
			return fmt.Errorf("controls reference unknown pillar %s", pillarID)
		}
	}
	for _, rec := range r.recommendations {
		if !seen[rec.PillarID] {
			return fmt.Errorf("recommendation %s references unknown pillar %s", rec.ID, rec.PillarID)
		}
	}
	return nil
}

// ListPillars returns all pillars in catalog order.
func (r *Registry) ListPillars() []models.Pillar {
	out := make([]models.Pillar, len(r.pillars))
	copy(out, r.pillars)
	return out
}

// GetPillar returns the pillar with id or ErrNotFound.
func (r *Registry) GetPillar(id string) (*models.Pillar, error) {
	for i := range r.pillars {
		if r.pillars[i].ID == id {
			p := r.pillars[i]
			return &p, nil
		}
	}
	return nil, fmt.Errorf("pillar %s: %w", id, domain.ErrNotFound)
}

// ListControls returns the controls of a pillar, or an empty slice.
func (r *Registry) ListControls(pillarID string) []models.Control {
	controls := r.controls[pillarID]
	out := make([]models.Control, len(controls))
	copy(out, controls)
	return out
}

// ListRecommendations returns recommendations matching filter.
func (r *Registry) ListRecommendations(filter models.RecommendationFilter) []models.Recommendation {
	out := make([]models.Recommendation, 0, len(r.recommendations))
	for _, rec := range r.recommendations {
		if filter.PillarID != "" && rec.PillarID != filter.PillarID {
			continue
		}
		if filter.Status != "" && string(rec.Status) != filter.Status {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// GetRecommendation returns the recommendation with id or ErrNotFound.
func (r *Registry) GetRecommendation(id string) (*models.Recommendation, error) {
	for i := range r.recommendations {
		if r.recommendations[i].ID == id {
			rec := r.recommendations[i]
			return &rec, nil
		}
	}
	return nil, fmt.Errorf("recommendation %s: %w", id, domain.ErrNotFound)
}

var _ services.Catalog = (*Registry)(nil)
