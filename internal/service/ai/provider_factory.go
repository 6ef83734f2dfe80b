package ai

import (
	"fmt"

	"waflens/internal/config"
	"waflens/internal/domain/services"
)

// NewGateway returns the AI gateway selected by cfg.AIProvider.
//
// Supported providers:
//   - "anthropic" - Claude models via the Anthropic API
//   - "lorem" - offline placeholder text (no API key required)
func NewGateway(cfg *config.Config) (services.AIGateway, error) {
	switch cfg.AIProvider {
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
		gateway, err := NewAnthropicGateway(AnthropicConfig{
			APIKey:    cfg.AnthropicAPIKey,
			Model:     cfg.AIModel,
			BaseURL:   cfg.AIBaseURL,
			MaxTokens: cfg.AIMaxTokens,
			Timeout:   cfg.AITimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Anthropic gateway: %w", err)
		}
		return gateway, nil

	case "lorem":
		return NewLoremGateway(cfg.AIModel), nil

	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.AIProvider)
	}
}
