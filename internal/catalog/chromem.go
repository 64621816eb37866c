package catalog

import (
	"context"
	"fmt"
	"strconv"

	"github.com/philippgille/chromem-go"

	"github.com/kayz/shopmate/internal/config"
	"github.com/kayz/shopmate/internal/logger"
)

// ChromemSearcher queries a persistent chromem-go collection of products.
// Document metadata carries product_id, title, price and url; embeddings are
// computed externally at index-build time and per query through the
// embedding provider.
type ChromemSearcher struct {
	db          *chromem.DB
	collection  *chromem.Collection
	embProvider EmbeddingProvider
}

// NewChromemSearcher opens the pre-built product index at cfg.Path.
func NewChromemSearcher(cfg config.CatalogConfig, embProvider EmbeddingProvider) (*ChromemSearcher, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("catalog path is not configured")
	}

	db, err := chromem.NewPersistentDB(cfg.Path, false)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog index: %w", err)
	}

	name := cfg.Collection
	if name == "" {
		name = "products"
	}
	collection, err := db.GetOrCreateCollection(name, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open collection %s: %w", name, err)
	}

	return &ChromemSearcher{
		db:          db,
		collection:  collection,
		embProvider: embProvider,
	}, nil
}

// Search embeds the query and returns the topK nearest catalog products.
func (s *ChromemSearcher) Search(ctx context.Context, query string, topK int) ([]Hit, error) {
	if query == "" {
		return nil, nil
	}
	if topK <= 0 {
		topK = 5
	}

	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if topK > count {
		topK = count
	}

	embeddings, err := s.embProvider.CreateEmbedding(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	results, err := s.collection.QueryEmbedding(ctx, embeddings[0], topK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog query failed: %w", err)
	}

	hits := make([]Hit, 0, len(results))
	for _, res := range results {
		hits = append(hits, resultToHit(res))
	}

	logger.Debug("catalog search returned %d hits for %q", len(hits), query)
	return hits, nil
}

func resultToHit(res chromem.Result) Hit {
	hit := Hit{
		ID:    res.ID,
		Title: res.Content,
		Score: float64(res.Similarity),
	}
	if id, ok := res.Metadata["product_id"]; ok && id != "" {
		hit.ID = id
	}
	if title, ok := res.Metadata["title"]; ok && title != "" {
		hit.Title = title
	}
	if rawPrice, ok := res.Metadata["price"]; ok && rawPrice != "" {
		if price, err := strconv.ParseFloat(rawPrice, 64); err == nil {
			hit.Price = price
			hit.HasPrice = true
		}
	}
	if u, ok := res.Metadata["url"]; ok {
		hit.URL = u
	}
	return hit
}
