package llm

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/outreach-cli/internal/config"
	"github.com/sells-group/outreach-cli/pkg/anthropic"
)

// AnthropicGenerator generates text via the Anthropic Messages API.
type AnthropicGenerator struct {
	client      anthropic.Client
	model       string
	maxTokens   int64
	temperature float64
}

// NewAnthropicGenerator creates a generator over an Anthropic client.
func NewAnthropicGenerator(client anthropic.Client, cfg config.GenerationConfig) *AnthropicGenerator {
	return &AnthropicGenerator{
		client:      client,
		model:       cfg.AnthropicModel,
		maxTokens:   int64(cfg.MaxTokens),
		temperature: cfg.Temperature,
	}
}

// Generate sends a single-turn user prompt and returns the text response.
func (g *AnthropicGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	temp := g.temperature
	resp, err := g.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       g.model,
		MaxTokens:   g.maxTokens,
		Temperature: &temp,
		Messages: []anthropic.Message{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", eris.Wrap(err, "llm: anthropic generate")
	}

	text := resp.Text()
	if text == "" {
		return "", eris.New("llm: anthropic returned empty response")
	}
	return text, nil
}
