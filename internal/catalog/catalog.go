// Package catalog wraps the locally indexed product collection. The vector
// index itself is built and persisted by external tooling; this package only
// queries it.
package catalog

import "context"

// Hit is one raw catalog match as stored in the index metadata.
type Hit struct {
	ID       string
	Title    string
	URL      string
	Price    float64
	HasPrice bool
	Score    float64
}

// Searcher is the catalog search collaborator: an opaque similarity search
// over a pre-built product index.
type Searcher interface {
	Search(ctx context.Context, query string, topK int) ([]Hit, error)
}
