package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"slices"

	"waflens/internal/domain"
	"waflens/internal/domain/models"
	"waflens/internal/domain/services"
	"waflens/internal/httputil"
)

// CatalogHandler serves pillars, controls and recommendations
type CatalogHandler struct {
	catalog services.Catalog
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog services.Catalog, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// updateRecommendationStatusRequest is the body of a recommendation status change
type updateRecommendationStatusRequest struct {
	Status models.RecommendationStatus `json:"status"`
}

// recommendationStatusResponse acknowledges a status change
type recommendationStatusResponse struct {
	ID      string                      `json:"id"`
	Status  models.RecommendationStatus `json:"status"`
	Message string                      `json:"message"`
}

// ListPillars lists the framework pillars (public)
// GET /api/v1/pillars
func (h *CatalogHandler) ListPillars(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.catalog.ListPillars())
}

// GetPillar retrieves one pillar (public)
// GET /api/v1/pillars/{id}
func (h *CatalogHandler) GetPillar(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	pillar, err := h.catalog.GetPillar(id)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, pillar)
}

// ListControls lists the controls of a pillar. Unknown pillars have none.
// GET /api/v1/pillars/{id}/controls
func (h *CatalogHandler) ListControls(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, h.catalog.ListControls(id))
}

// ListRecommendations lists recommendations, optionally filtered
// GET /api/v1/recommendations?pillar_id=&status=
func (h *CatalogHandler) ListRecommendations(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := models.RecommendationFilter{
		PillarID: query.Get("pillar_id"),
		Status:   query.Get("status"),
	}

	httputil.RespondJSON(w, http.StatusOK, h.catalog.ListRecommendations(filter))
}

// GetRecommendation retrieves one recommendation
// GET /api/v1/recommendations/{id}
func (h *CatalogHandler) GetRecommendation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	rec, err := h.catalog.GetRecommendation(id)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, rec)
}

// UpdateRecommendationStatus acknowledges a status change. Reference data is
// static, so nothing is persisted.
// PATCH /api/v1/recommendations/{id}/status
func (h *CatalogHandler) UpdateRecommendationStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	var req updateRecommendationStatusRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	if !slices.Contains(models.RecommendationStatuses, req.Status) {
		handleError(w, r, h.logger, fmt.Errorf("%w: status must be one of %v", domain.ErrValidation, models.RecommendationStatuses))
		return
	}

	if _, err := h.catalog.GetRecommendation(id); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	h.logger.Info("recommendation status updated",
		"recommendation_id", id,
		"status", req.Status,
		"subject_id", httputil.GetSubjectID(r),
	)

	httputil.RespondJSON(w, http.StatusOK, recommendationStatusResponse{
		ID:      id,
		Status:  req.Status,
		Message: "Status updated successfully",
	})
}
