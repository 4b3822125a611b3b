// Package llm provides the text-generation collaborator with pluggable
// provider backends.
package llm

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/outreach-cli/internal/config"
	"github.com/sells-group/outreach-cli/pkg/anthropic"
)

// Generator produces raw text from a prompt. Callers own parsing.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// New builds the Generator selected by cfg.Provider.
func New(cfg config.GenerationConfig) (Generator, error) {
	switch cfg.Provider {
	case "anthropic":
		return NewAnthropicGenerator(anthropic.NewClient(cfg.AnthropicKey), cfg), nil
	case "fireworks":
		return NewFireworksGenerator(cfg), nil
	default:
		return nil, eris.Errorf("llm: unknown provider %q (want anthropic or fireworks)", cfg.Provider)
	}
}
