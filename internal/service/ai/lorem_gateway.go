package ai

import (
	"context"
	"fmt"
	"strings"

	"waflens/internal/domain/services"

	llmprovider "github.com/haowjy/meridian-llm-go"
	"github.com/haowjy/meridian-llm-go/providers/lorem"
)

// DefaultLoremModel is used when no model is configured for the lorem provider.
const DefaultLoremModel = "lorem-fast"

// LoremGateway implements AIGateway with the offline lorem ipsum provider.
// It needs no API key and is meant for local development and demos.
type LoremGateway struct {
	provider llmprovider.Provider
	model    string
}

// NewLoremGateway creates a lorem gateway. An empty model selects lorem-fast.
func NewLoremGateway(model string) *LoremGateway {
	return NewLoremGatewayWithProvider(lorem.NewProvider(), model)
}

// NewLoremGatewayWithProvider wraps an existing library provider.
func NewLoremGatewayWithProvider(provider llmprovider.Provider, model string) *LoremGateway {
	if !strings.HasPrefix(model, "lorem-") {
		model = DefaultLoremModel
	}
	return &LoremGateway{provider: provider, model: model}
}

// Name returns the provider name.
func (g *LoremGateway) Name() string {
	return g.provider.Name().String()
}

// Complete generates placeholder text for prompt.
func (g *LoremGateway) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.provider.GenerateResponse(ctx, &llmprovider.GenerateRequest{
		Messages: []llmprovider.Message{
			{
				Role: "user",
				Blocks: []*llmprovider.Block{
					{BlockType: "text", Sequence: 0, TextContent: &prompt},
				},
			},
		},
		Model: g.model,
	})
	if err != nil {
		return "", fmt.Errorf("lorem provider failed: %w", err)
	}

	var b strings.Builder
	for _, block := range resp.Blocks {
		if block.TextContent != nil {
			b.WriteString(*block.TextContent)
		}
	}
	return b.String(), nil
}

var _ services.AIGateway = (*LoremGateway)(nil)
