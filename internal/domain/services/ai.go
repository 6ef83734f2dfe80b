package services

import (
	"context"

	"waflens/internal/domain/models"
)

// AIGateway sends a fully assembled prompt to the hosted model and returns its
// text unmodified. Any failure is reported as domain.ErrUpstreamUnavailable.
type AIGateway interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Name() string
}

// ChatRequest is a free-form question, optionally with assessment context.
type ChatRequest struct {
	Message string  `json:"message"`
	Context *string `json:"context"`
}

// ChatResponse echoes the question next to the model's answer.
type ChatResponse struct {
	Response    string `json:"response"`
	UserMessage string `json:"user_message"`
}

// AnalyzeRequest asks for an analysis of a pillar's responses.
type AnalyzeRequest struct {
	Pillar    string            `json:"pillar"`
	Responses []models.Response `json:"responses"`
}

// AnalyzeResponse carries the model output unparsed.
type AnalyzeResponse struct {
	RawResponse string `json:"raw_response"`
	Pillar      string `json:"pillar"`
}

// RemediationRequest asks for remediation steps for one control.
type RemediationRequest struct {
	Control       string `json:"control"`
	CurrentState  string `json:"current_state"`
	CloudProvider string `json:"cloud_provider"`
}

// RemediationResponse carries the model's remediation guidance.
type RemediationResponse struct {
	Control       string `json:"control"`
	CloudProvider string `json:"cloud_provider"`
	Remediation   string `json:"remediation"`
}

// AIService assembles prompts from validated requests and calls the gateway.
type AIService interface {
	Chat(ctx context.Context, caller *models.Identity, req *ChatRequest) (*ChatResponse, error)
	Analyze(ctx context.Context, caller *models.Identity, req *AnalyzeRequest) (*AnalyzeResponse, error)
	Remediation(ctx context.Context, caller *models.Identity, req *RemediationRequest) (*RemediationResponse, error)
}
