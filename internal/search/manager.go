package search

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/kayz/shopmate/internal/config"
	"github.com/kayz/shopmate/internal/logger"
)

// Manager holds the configured engines and tries them in priority order
// until one returns results.
type Manager struct {
	registry *Registry
	engines  map[string]Engine
	primary  string
	mu       sync.RWMutex
}

func NewManager(cfg config.SearchConfig, registry *Registry) (*Manager, error) {
	m := &Manager{
		registry: registry,
		engines:  make(map[string]Engine),
		primary:  cfg.PrimaryEngine,
	}

	for _, engineCfg := range cfg.Engines {
		if !engineCfg.Enabled || engineCfg.APIKey == "" {
			continue
		}
		engine, err := registry.CreateEngine(engineCfg)
		if err != nil {
			return nil, err
		}
		m.engines[engineCfg.Name] = engine
	}

	return m, nil
}

func (m *Manager) AddEngine(cfg config.SearchEngineConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	engine, err := m.registry.CreateEngine(cfg)
	if err != nil {
		return err
	}

	m.engines[cfg.Name] = engine
	return nil
}

func (m *Manager) ListEngines() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.engines))
	for name := range m.engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Search queries the enabled engines in priority order, restricted to the
// given domains, and returns the first non-empty response.
func (m *Manager) Search(ctx context.Context, query string, domains []string, limit int) (*Response, error) {
	m.mu.RLock()
	engines := make([]Engine, 0, len(m.engines))
	for _, e := range m.engines {
		if e.IsEnabled() {
			engines = append(engines, e)
		}
	}
	m.mu.RUnlock()

	if len(engines) == 0 {
		return nil, fmt.Errorf("no available search engine")
	}

	sort.Slice(engines, func(i, j int) bool {
		if engines[i].Priority() != engines[j].Priority() {
			return engines[i].Priority() < engines[j].Priority()
		}
		return engines[i].Name() < engines[j].Name()
	})

	var lastErr error
	var lastEmpty *Response
	for _, engine := range engines {
		resp, err := engine.Search(ctx, query, domains, limit)
		if err == nil && len(resp.Results) > 0 {
			return resp, nil
		}
		if err != nil {
			logger.Warn("search engine %s failed: %v", engine.Name(), err)
			lastErr = err
		} else {
			lastEmpty = resp
		}
		if ctx.Err() != nil {
			break
		}
	}

	// An engine that answered with zero hits is a legitimate empty result,
	// not a source failure.
	if lastEmpty != nil {
		return lastEmpty, nil
	}
	return nil, lastErr
}
