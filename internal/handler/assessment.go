package handler

import (
	"log/slog"
	"net/http"

	"waflens/internal/domain/models"
	"waflens/internal/domain/services"
	"waflens/internal/httputil"
)

// AssessmentHandler handles assessment HTTP requests
type AssessmentHandler struct {
	service services.AssessmentService
	logger  *slog.Logger
}

// NewAssessmentHandler creates a new assessment handler
func NewAssessmentHandler(service services.AssessmentService, logger *slog.Logger) *AssessmentHandler {
	return &AssessmentHandler{
		service: service,
		logger:  logger,
	}
}

// updateAssessmentRequest is the PATCH body. Identity and timestamp fields are
// deliberately absent so that strict decoding rejects them.
type updateAssessmentRequest struct {
	Responses []models.Response        `json:"responses"`
	Status    *models.AssessmentStatus `json:"lifecycle_status"`
	Score     httputil.OptionalInt     `json:"score"`
}

// CreateAssessment creates an assessment owned by the caller
// POST /api/v1/assessments
func (h *AssessmentHandler) CreateAssessment(w http.ResponseWriter, r *http.Request) {
	identity, err := caller(r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	var req services.CreateAssessmentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	assessment, err := h.service.CreateAssessment(r.Context(), identity, &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, assessment)
}

// ListAssessments lists the caller's assessments, newest first
// GET /api/v1/assessments
func (h *AssessmentHandler) ListAssessments(w http.ResponseWriter, r *http.Request) {
	identity, err := caller(r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	assessments, err := h.service.ListAssessments(r.Context(), identity)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, assessments)
}

// GetAssessment retrieves one assessment
// GET /api/v1/assessments/{id}
func (h *AssessmentHandler) GetAssessment(w http.ResponseWriter, r *http.Request) {
	identity, err := caller(r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	id, err := pathID(r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	assessment, err := h.service.GetAssessment(r.Context(), identity, id)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, assessment)
}

// UpdateAssessment applies a partial update
// PATCH /api/v1/assessments/{id}
func (h *AssessmentHandler) UpdateAssessment(w http.ResponseWriter, r *http.Request) {
	identity, err := caller(r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	id, err := pathID(r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	var req updateAssessmentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	serviceReq := &services.UpdateAssessmentRequest{
		Responses: req.Responses,
		Status:    req.Status,
		Score: services.OptionalInt{
			Present: req.Score.Present,
			Value:   req.Score.Value,
		},
	}

	assessment, err := h.service.UpdateAssessment(r.Context(), identity, id, serviceReq)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, assessment)
}
