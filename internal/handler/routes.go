package handler

import "net/http"

// Routes groups the handlers mounted on the API mux.
type Routes struct {
	Health      *HealthHandler
	Assessments *AssessmentHandler
	Catalog     *CatalogHandler
	AI          *AIHandler
}

// Register mounts every endpoint on mux under apiPrefix (e.g. "/api/v1").
// Which routes need a credential is decided by middleware.PublicRoutes.
func (rt *Routes) Register(mux *http.ServeMux, apiPrefix string) {
	// Probes
	mux.HandleFunc("GET /{$}", rt.Health.Root)
	mux.HandleFunc("GET /health", rt.Health.Health)

	// Assessments
	mux.HandleFunc("POST "+apiPrefix+"/assessments", rt.Assessments.CreateAssessment)
	mux.HandleFunc("GET "+apiPrefix+"/assessments", rt.Assessments.ListAssessments)
	mux.HandleFunc("GET "+apiPrefix+"/assessments/{id}", rt.Assessments.GetAssessment)
	mux.HandleFunc("PATCH "+apiPrefix+"/assessments/{id}", rt.Assessments.UpdateAssessment)

	// Catalog
	mux.HandleFunc("GET "+apiPrefix+"/pillars", rt.Catalog.ListPillars)
	mux.HandleFunc("GET "+apiPrefix+"/pillars/{id}", rt.Catalog.GetPillar)
	mux.HandleFunc("GET "+apiPrefix+"/pillars/{id}/controls", rt.Catalog.ListControls)
	mux.HandleFunc("GET "+apiPrefix+"/recommendations", rt.Catalog.ListRecommendations)
	mux.HandleFunc("GET "+apiPrefix+"/recommendations/{id}", rt.Catalog.GetRecommendation)
	mux.HandleFunc("PATCH "+apiPrefix+"/recommendations/{id}/status", rt.Catalog.UpdateRecommendationStatus)

	// AI
	mux.HandleFunc("POST "+apiPrefix+"/ai/chat", rt.AI.Chat)
	mux.HandleFunc("POST "+apiPrefix+"/ai/analyze", rt.AI.Analyze)
	mux.HandleFunc("POST "+apiPrefix+"/ai/remediation", rt.AI.Remediation)
}
