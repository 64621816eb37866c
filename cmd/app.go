package cmd

import (
	"fmt"
	"os"

	"github.com/kayz/shopmate/internal/agent"
	"github.com/kayz/shopmate/internal/catalog"
	"github.com/kayz/shopmate/internal/config"
	"github.com/kayz/shopmate/internal/logger"
	"github.com/kayz/shopmate/internal/persist"
	"github.com/kayz/shopmate/internal/search"
)

// app holds the wired runtime: one pipeline plus the collaborators it was
// built from, so commands can also expose the pieces individually.
type app struct {
	cfg      *config.Config
	pipeline *agent.Pipeline
	catalog  catalog.Searcher
	web      *search.Manager
	history  *persist.Store
}

func loadConfig() (*config.Config, error) {
	if cfgPath != "" {
		return config.LoadFromPath(cfgPath)
	}
	return config.Load()
}

// buildApp loads the config and wires every stage explicitly. Any
// misconfiguration fails here, before a single query is accepted.
func buildApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Logging.Level != "" && !rootCmd.PersistentFlags().Changed("log") {
		if level, err := logger.ParseLevel(cfg.Logging.Level); err == nil {
			logger.SetLevel(level)
		}
	}
	if cfg.Logging.File != "" {
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		logger.SetOutput(f)
	}

	provider, err := agent.NewProvider(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create llm provider: %w", err)
	}

	var cat catalog.Searcher
	if cfg.Catalog.Path != "" {
		emb, err := catalog.NewEmbeddingProvider(cfg.Embedding)
		if err != nil {
			return nil, fmt.Errorf("failed to create embedding provider: %w", err)
		}
		searcher, err := catalog.NewChromemSearcher(cfg.Catalog, emb)
		if err != nil {
			return nil, fmt.Errorf("failed to open catalog: %w", err)
		}
		cat = searcher
	} else {
		logger.Warn("no catalog path configured, catalog source disabled")
	}

	web, err := search.NewManager(cfg.Search, search.NewRegistry())
	if err != nil {
		return nil, fmt.Errorf("failed to create search manager: %w", err)
	}

	var lookup search.PriceLookup
	if cfg.Pricing.Enabled && cfg.Pricing.APIKey != "" {
		rf, err := search.NewRainforestLookup(cfg.Pricing)
		if err != nil {
			return nil, fmt.Errorf("failed to create price lookup: %w", err)
		}
		lookup = rf
	}

	pipeline := agent.NewPipeline(
		agent.NewRouter(provider),
		agent.NewPlanner(),
		agent.NewRetriever(cat, web, lookup, cfg.Retrieval),
		agent.NewAnswerer(provider),
	)

	a := &app{cfg: cfg, pipeline: pipeline, catalog: cat, web: web}

	if cfg.History.Path != "" {
		store, err := persist.NewStore(cfg.History.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open history store: %w", err)
		}
		a.history = store
	}

	return a, nil
}

func (a *app) close() {
	if a.history != nil {
		_ = a.history.Close()
	}
}
