package search

import (
	"fmt"
	"sync"

	"github.com/kayz/shopmate/internal/config"
)

// Registry maps engine type names to factories.
type Registry struct {
	factories map[string]EngineFactory
	mu        sync.RWMutex
}

func NewRegistry() *Registry {
	r := &Registry{
		factories: make(map[string]EngineFactory),
	}

	r.Register("tavily", NewTavilyEngine)
	r.Register("custom", NewCustomHTTPEngine)
	r.Register("custom_http", NewCustomHTTPEngine)

	return r
}

func (r *Registry) Register(engineType string, factory EngineFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[engineType] = factory
}

func (r *Registry) CreateEngine(cfg config.SearchEngineConfig) (Engine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[cfg.Type]
	if !ok {
		return nil, fmt.Errorf("unknown engine type: %s", cfg.Type)
	}

	return factory(cfg)
}

func (r *Registry) ListTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.factories))
	for t := range r.factories {
		types = append(types, t)
	}
	return types
}
