package agent

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/kayz/shopmate/internal/config"
)

// OpenAICompatProvider implements the Provider interface for any
// OpenAI-compatible API: OpenAI/GPT, Gemini, DeepSeek, Grok, etc.
type OpenAICompatProvider struct {
	client       *openai.Client
	model        string
	providerName string
}

var openAICompatDefaults = map[string]struct {
	baseURL string
	model   string
}{
	"openai":   {"https://api.openai.com/v1", "gpt-4o-mini"},
	"gemini":   {"https://generativelanguage.googleapis.com/v1beta/openai", "gemini-2.0-flash"},
	"deepseek": {"https://api.deepseek.com/v1", "deepseek-chat"},
	"grok":     {"https://api.x.ai/v1", "grok-2-latest"},
}

var openAICompatAliases = map[string]string{
	"gpt":     "openai",
	"chatgpt": "openai",
	"google":  "gemini",
	"xai":     "grok",
}

// NewOpenAICompatProvider creates a new OpenAI-compatible provider
func NewOpenAICompatProvider(cfg config.LLMConfig) (*OpenAICompatProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	name := cfg.Provider
	if name == "" {
		name = "openai"
	}
	if canonical, ok := openAICompatAliases[name]; ok {
		name = canonical
	}

	model := cfg.Model
	baseURL := cfg.BaseURL
	if d, ok := openAICompatDefaults[name]; ok {
		if model == "" {
			model = d.model
		}
		if baseURL == "" {
			baseURL = d.baseURL
		}
	}
	if model == "" {
		return nil, fmt.Errorf("model is required for provider %s", name)
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if baseURL != "" {
		clientCfg.BaseURL = baseURL
	}

	return &OpenAICompatProvider{
		client:       openai.NewClientWithConfig(clientCfg),
		model:        model,
		providerName: name,
	}, nil
}

// Name returns the provider name
func (p *OpenAICompatProvider) Name() string {
	return p.providerName
}

// Complete sends one completion request and returns the response text
func (p *OpenAICompatProvider) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userPrompt,
	})

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    messages,
		MaxTokens:   1024,
		Temperature: 0.1,
	})
	if err != nil {
		return "", fmt.Errorf("%s API error: %w", p.providerName, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s returned no choices", p.providerName)
	}
	return resp.Choices[0].Message.Content, nil
}
