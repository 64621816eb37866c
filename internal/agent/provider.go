package agent

import (
	"context"

	"github.com/kayz/shopmate/internal/config"
)

// Provider is the narrow LLM contract the router and answerer depend on:
// one system-prompted completion in, free text out.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends a single user prompt under a system prompt and returns
	// the model's text response
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// NewProvider creates an LLM provider based on configuration
func NewProvider(cfg config.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case "claude", "anthropic":
		return NewClaudeProvider(cfg)
	default:
		return NewOpenAICompatProvider(cfg)
	}
}
