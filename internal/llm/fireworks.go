package llm

import (
	"context"

	openai "github.com/sashabaranov/go-openai"

	"github.com/rotisserie/eris"

	"github.com/sells-group/outreach-cli/internal/config"
)

// FireworksGenerator generates text via the Fireworks AI inference API,
// which speaks the OpenAI chat-completion protocol.
type FireworksGenerator struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

// NewFireworksGenerator creates a generator pointed at the Fireworks API.
func NewFireworksGenerator(cfg config.GenerationConfig) *FireworksGenerator {
	clientCfg := openai.DefaultConfig(cfg.FireworksKey)
	if cfg.FireworksURL != "" {
		clientCfg.BaseURL = cfg.FireworksURL
	}
	return &FireworksGenerator{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.FireworksModel,
		maxTokens:   cfg.MaxTokens,
		temperature: float32(cfg.Temperature),
	}
}

// Generate sends a single-turn user prompt and returns the text response.
func (g *FireworksGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
	})
	if err != nil {
		return "", eris.Wrap(err, "llm: fireworks generate")
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", eris.New("llm: fireworks returned empty response")
	}
	return resp.Choices[0].Message.Content, nil
}
