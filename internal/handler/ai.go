package handler

import (
	"log/slog"
	"net/http"

	"waflens/internal/domain/services"
	"waflens/internal/httputil"
)

// AIHandler exposes the generative-AI operations
type AIHandler struct {
	service services.AIService
	logger  *slog.Logger
}

// NewAIHandler creates a new AI handler
func NewAIHandler(service services.AIService, logger *slog.Logger) *AIHandler {
	return &AIHandler{
		service: service,
		logger:  logger,
	}
}

// Chat answers a free-form question
// POST /api/v1/ai/chat
func (h *AIHandler) Chat(w http.ResponseWriter, r *http.Request) {
	identity, err := caller(r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	var req services.ChatRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	resp, err := h.service.Chat(r.Context(), identity, &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}

// Analyze analyzes the responses of one pillar
// POST /api/v1/ai/analyze
func (h *AIHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	identity, err := caller(r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	var req services.AnalyzeRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	resp, err := h.service.Analyze(r.Context(), identity, &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}

// Remediation generates remediation steps for a control
// POST /api/v1/ai/remediation
func (h *AIHandler) Remediation(w http.ResponseWriter, r *http.Request) {
	identity, err := caller(r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	var req services.RemediationRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	resp, err := h.service.Remediation(r.Context(), identity, &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}
