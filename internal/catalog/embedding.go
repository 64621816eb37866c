package catalog

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/kayz/shopmate/internal/config"
)

// EmbeddingProvider defines the interface for embedding backends
type EmbeddingProvider interface {
	// CreateEmbedding creates embeddings for the given texts
	CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error)

	// Name returns the provider name (e.g., "openai")
	Name() string
}

// NewEmbeddingProvider creates a new embedding provider based on configuration
func NewEmbeddingProvider(cfg config.EmbeddingConfig) (EmbeddingProvider, error) {
	switch cfg.Provider {
	case "openai", "":
		return NewOpenAIEmbeddingProvider(cfg)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}

const openaiEmbeddingDefaultModel = "text-embedding-3-small"

// OpenAIEmbeddingProvider implements EmbeddingProvider for OpenAI
type OpenAIEmbeddingProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIEmbeddingProvider creates a new OpenAI embedding provider
func NewOpenAIEmbeddingProvider(cfg config.EmbeddingConfig) (*OpenAIEmbeddingProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required for OpenAI embedding")
	}

	model := cfg.Model
	if model == "" {
		model = openaiEmbeddingDefaultModel
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &OpenAIEmbeddingProvider{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
	}, nil
}

// Name returns the provider name
func (p *OpenAIEmbeddingProvider) Name() string {
	return "openai"
}

// CreateEmbedding creates embeddings for the given texts
func (p *OpenAIEmbeddingProvider) CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	req := openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(p.model),
		Input: texts,
	}

	resp, err := p.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openai embedding API error: %w", err)
	}

	embeddings := make([][]float32, len(resp.Data))
	for i, data := range resp.Data {
		embeddings[i] = data.Embedding
	}

	return embeddings, nil
}
