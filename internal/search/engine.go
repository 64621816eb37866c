package search

import (
	"context"

	"github.com/kayz/shopmate/internal/config"
)

// Engine is a web search backend. Searches are restricted to the given
// domains; the engine passes the restriction upstream when the API supports
// it, but callers still filter results themselves.
type Engine interface {
	Name() string
	Type() string
	Search(ctx context.Context, query string, domains []string, limit int) (*Response, error)
	IsEnabled() bool
	Priority() int
}

// EngineFactory builds an Engine from its configuration.
type EngineFactory func(cfg config.SearchEngineConfig) (Engine, error)
