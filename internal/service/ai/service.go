// Package ai assembles Well-Architected prompts and forwards them to the
// configured AI gateway. Model output is returned as-is.
package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"waflens/internal/config"
	"waflens/internal/domain"
	"waflens/internal/domain/models"
	"waflens/internal/domain/services"
	"waflens/internal/telemetry"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.opentelemetry.io/otel/attribute"
)

// DefaultCloudProvider is assumed when a remediation request names none.
const DefaultCloudProvider = "gcp"

// aiService implements the AIService interface
type aiService struct {
	gateway services.AIGateway
	metrics *telemetry.Metrics
	logger  *slog.Logger
}

// NewService creates a new AI service. metrics may be nil.
func NewService(gateway services.AIGateway, metrics *telemetry.Metrics, logger *slog.Logger) services.AIService {
	return &aiService{
		gateway: gateway,
		metrics: metrics,
		logger:  logger,
	}
}

// Chat answers a free-form question
func (s *aiService) Chat(ctx context.Context, caller *models.Identity, req *services.ChatRequest) (*services.ChatResponse, error) {
	if err := validateChatRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	text, err := s.complete(ctx, caller, "chat", chatPrompt(req.Message, req.Context))
	if err != nil {
		return nil, err
	}

	return &services.ChatResponse{
		Response:    text,
		UserMessage: req.Message,
	}, nil
}

// Analyze asks for an analysis of a pillar's responses
func (s *aiService) Analyze(ctx context.Context, caller *models.Identity, req *services.AnalyzeRequest) (*services.AnalyzeResponse, error) {
	if err := validateAnalyzeRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	prompt, err := analyzePrompt(req.Pillar, req.Responses)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	text, err := s.complete(ctx, caller, "analyze", prompt)
	if err != nil {
		return nil, err
	}

	return &services.AnalyzeResponse{
		RawResponse: text,
		Pillar:      req.Pillar,
	}, nil
}

// Remediation asks for remediation steps for one control
func (s *aiService) Remediation(ctx context.Context, caller *models.Identity, req *services.RemediationRequest) (*services.RemediationResponse, error) {
	if strings.TrimSpace(req.CloudProvider) == "" {
		req.CloudProvider = DefaultCloudProvider
	}
	if err := validateRemediationRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	text, err := s.complete(ctx, caller, "remediation", remediationPrompt(req.Control, req.CurrentState, req.CloudProvider))
	if err != nil {
		return nil, err
	}

	return &services.RemediationResponse{
		Control:       req.Control,
		CloudProvider: req.CloudProvider,
		Remediation:   text,
	}, nil
}

// complete makes exactly one gateway call. Every failure, including an empty
// reply, becomes ErrUpstreamUnavailable; the provider's error text is logged
// but never returned to the client.
func (s *aiService) complete(ctx context.Context, caller *models.Identity, operation, prompt string) (_ string, err error) {
	ctx, span := telemetry.StartSpan(ctx, "ai.Complete",
		attribute.String("ai.provider", s.gateway.Name()),
		attribute.String("ai.operation", operation),
	)
	defer func() { span.End(err) }()

	subject := ""
	if caller != nil {
		subject = caller.SubjectID
	}

	text, callErr := s.gateway.Complete(ctx, prompt)
	if callErr == nil && strings.TrimSpace(text) == "" {
		callErr = errors.New("empty completion")
	}
	if callErr != nil {
		s.observe("error")
		s.logger.Error("AI provider call failed",
			"provider", s.gateway.Name(),
			"operation", operation,
			"subject_id", subject,
			"error", callErr,
		)
		return "", fmt.Errorf("%s via %s: %w", operation, s.gateway.Name(), domain.ErrUpstreamUnavailable)
	}

	s.observe("ok")
	s.logger.Debug("AI provider call succeeded",
		"provider", s.gateway.Name(),
		"operation", operation,
		"subject_id", subject,
		"chars", len(text),
	)
	return text, nil
}

func (s *aiService) observe(outcome string) {
	if s.metrics != nil {
		s.metrics.IncUpstream(s.gateway.Name(), outcome)
	}
}

func validateChatRequest(req *services.ChatRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Message,
			validation.Required,
			validation.Length(1, config.MaxChatMessageLength),
			validation.By(notBlank),
		),
		validation.Field(&req.Context, validation.Length(0, config.MaxChatContextLength)),
	)
}

func validateAnalyzeRequest(req *services.AnalyzeRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Pillar,
			validation.Required,
			validation.Length(1, config.MaxPillarIDLength),
			validation.By(notBlank),
		),
		validation.Field(&req.Responses,
			validation.NotNil,
			validation.Length(0, config.MaxResponsesPerAssessment),
			validation.Each(validation.NotNil),
		),
	)
}

func validateRemediationRequest(req *services.RemediationRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Control,
			validation.Required,
			validation.Length(1, config.MaxRemediationFieldLength),
			validation.By(notBlank),
		),
		validation.Field(&req.CurrentState,
			validation.Required,
			validation.Length(1, config.MaxRemediationFieldLength),
			validation.By(notBlank),
		),
		validation.Field(&req.CloudProvider, validation.Length(1, config.MaxPillarIDLength)),
	)
}

func notBlank(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
}
