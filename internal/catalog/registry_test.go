package catalog

import (
	"testing"

	"waflens/internal/domain"
	"waflens/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry()
	require.NoError(t, err)
	return r
}

func TestListPillarsKeepsOrder(t *testing.T) {
	r := newTestRegistry(t)

	pillars := r.ListPillars()
	require.Len(t, pillars, 5)

	ids := make([]string, len(pillars))
	for i, p := range pillars {
		ids[i] = p.ID
	}
	assert.Equal(t, []string{
		"security",
		"reliability",
		"performance-efficiency",
		"cost-optimization",
		"operational-excellence",
	}, ids)
	assert.Equal(t, "ShieldCheck", pillars[0].Icon)
	assert.Equal(t, 5, pillars[0].ControlsCount)
}

func TestListPillarsReturnsCopy(t *testing.T) {
	r := newTestRegistry(t)
	pillars := r.ListPillars()
	pillars[0].Name = "mutated"

	assert.Equal(t, "Security", r.ListPillars()[0].Name)
}

func TestGetPillar(t *testing.T) {
	r := newTestRegistry(t)

	p, err := r.GetPillar("reliability")
	require.NoError(t, err)
	assert.Equal(t, "Reliability", p.Name)

	_, err = r.GetPillar("unknown")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListControls(t *testing.T) {
	r := newTestRegistry(t)

	controls := r.ListControls("security")
	require.Len(t, controls, 5)
	assert.Equal(t, "sec-1", controls[0].ID)
	assert.Equal(t, "action-required", controls[2].Status)

	empty := r.ListControls("cost-optimization")
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestListRecommendations(t *testing.T) {
	r := newTestRegistry(t)

	tests := []struct {
		name   string
		filter models.RecommendationFilter
		want   []string
	}{
		{"all", models.RecommendationFilter{}, []string{"rec-1", "rec-2", "rec-3"}},
		{"by pillar", models.RecommendationFilter{PillarID: "security"}, []string{"rec-1", "rec-2"}},
		{"by status", models.RecommendationFilter{Status: "pending"}, []string{"rec-1", "rec-2", "rec-3"}},
		{"no match", models.RecommendationFilter{Status: "completed"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := r.ListRecommendations(tt.filter)
			ids := make([]string, 0, len(recs))
			for _, rec := range recs {
				ids = append(ids, rec.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestGetRecommendation(t *testing.T) {
	r := newTestRegistry(t)

	rec, err := r.GetRecommendation("rec-1")
	require.NoError(t, err)
	assert.Len(t, rec.RemediationSteps, 5)
	assert.Equal(t, models.RecommendationPending, rec.Status)

	_, err = r.GetRecommendation("rec-99")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
