package handler

import (
	"net/http"

	"waflens/internal/httputil"
)

// ServiceName is reported by the root endpoint.
const ServiceName = "waflens"

// HealthHandler answers the liveness probes
type HealthHandler struct {
	version string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{version: version}
}

// Root describes the service
// GET /
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": ServiceName,
		"version": h.version,
	})
}

// Health is the load balancer probe
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
