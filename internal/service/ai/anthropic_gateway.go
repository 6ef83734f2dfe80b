package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"waflens/internal/domain/services"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicConfig configures the hosted Claude gateway.
type AnthropicConfig struct {
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int
	Timeout   time.Duration
}

// AnthropicGateway implements AIGateway with the Anthropic Messages API.
// The SDK's automatic retries are disabled: one prompt, one call.
type AnthropicGateway struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewAnthropicGateway creates a gateway bound to one model.
func NewAnthropicGateway(cfg AnthropicConfig) (*AnthropicGateway, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("anthropic API key is required")
	}
	if !strings.HasPrefix(cfg.Model, "claude-") {
		return nil, fmt.Errorf("model '%s' is not supported by Anthropic provider", cfg.Model)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	return &AnthropicGateway{
		client:    anthropic.NewClient(opts...),
		model:     cfg.Model,
		maxTokens: int64(cfg.MaxTokens),
	}, nil
}

// Name returns the provider name.
func (g *AnthropicGateway) Name() string {
	return "anthropic"
}

// Complete sends prompt as a single user message and joins the text blocks
// of the reply.
func (g *AnthropicGateway) Complete(ctx context.Context, prompt string) (string, error) {
	message, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: g.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("anthropic API call failed with status %d: %w", apiErr.StatusCode, err)
		}
		return "", fmt.Errorf("anthropic API call failed: %w", err)
	}

	var b strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String(), nil
}

var _ services.AIGateway = (*AnthropicGateway)(nil)
