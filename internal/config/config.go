package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var (
	exeDirCache string
)

// getExecutableDir returns the directory where the executable is located
func getExecutableDir() string {
	if exeDirCache != "" {
		return exeDirCache
	}
	execPath, err := os.Executable()
	if err != nil {
		exeDirCache = "."
		return exeDirCache
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		exeDirCache = "."
		return exeDirCache
	}
	exeDirCache = filepath.Dir(execPath)
	return exeDirCache
}

type Config struct {
	Port      int             `yaml:"port"`
	Logging   LoggingConfig   `yaml:"logging"`
	LLM       LLMConfig       `yaml:"llm,omitempty"`
	Embedding EmbeddingConfig `yaml:"embedding,omitempty"`
	Catalog   CatalogConfig   `yaml:"catalog,omitempty"`
	Search    SearchConfig    `yaml:"search,omitempty"`
	Pricing   PricingConfig   `yaml:"pricing,omitempty"`
	Retrieval RetrievalConfig `yaml:"retrieval,omitempty"`
	History   HistoryConfig   `yaml:"history,omitempty"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// LLMConfig selects the chat model used by the router and answerer stages.
type LLMConfig struct {
	Provider string `yaml:"provider,omitempty"` // "openai", "claude", or any OpenAI-compatible type
	APIKey   string `yaml:"api_key,omitempty"`
	BaseURL  string `yaml:"base_url,omitempty"`
	Model    string `yaml:"model,omitempty"`
}

// EmbeddingConfig selects the embedding backend used for catalog queries.
type EmbeddingConfig struct {
	Provider string `yaml:"provider,omitempty"`
	APIKey   string `yaml:"api_key,omitempty"`
	BaseURL  string `yaml:"base_url,omitempty"`
	Model    string `yaml:"model,omitempty"`
}

// CatalogConfig points at the pre-built product vector index.
type CatalogConfig struct {
	Path       string `yaml:"path,omitempty"`
	Collection string `yaml:"collection,omitempty"`
}

// SearchEngineConfig configures a single web search engine
type SearchEngineConfig struct {
	Name     string                 `yaml:"name"`
	Type     string                 `yaml:"type"`
	APIKey   string                 `yaml:"api_key,omitempty"`
	BaseURL  string                 `yaml:"base_url,omitempty"`
	Enabled  bool                   `yaml:"enabled"`
	Priority int                    `yaml:"priority"`
	Options  map[string]interface{} `yaml:"options,omitempty"`
}

// SearchConfig configures the web search collaborator
type SearchConfig struct {
	PrimaryEngine string               `yaml:"primary_engine"`
	Engines       []SearchEngineConfig `yaml:"engines"`
}

// PricingConfig configures the authoritative per-item price lookup.
type PricingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Type    string `yaml:"type,omitempty"` // "rainforest"
	APIKey  string `yaml:"api_key,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`
}

// RetrievalConfig tunes the retriever stage.
type RetrievalConfig struct {
	AllowedDomains    []string `yaml:"allowed_domains"`
	TopK              int      `yaml:"top_k"`
	SourceTimeoutSec  int      `yaml:"source_timeout_sec"`
	LookupTimeoutSec  int      `yaml:"lookup_timeout_sec"`
	LookupConcurrency int      `yaml:"lookup_concurrency"`
	// PreferWebPrice makes a freshly extracted web price win over catalog
	// metadata when both sources resolve a price for the same item.
	// Default is false: catalog metadata is structured and more reliable.
	PreferWebPrice bool `yaml:"prefer_web_price,omitempty"`
}

// HistoryConfig configures optional query-history persistence.
// An empty path disables it.
type HistoryConfig struct {
	Path string `yaml:"path,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Port: 8787,
		Logging: LoggingConfig{
			Level: "info",
			File:  "/tmp/shopmate.log",
		},
		LLM: LLMConfig{
			Provider: "openai",
		},
		Embedding: EmbeddingConfig{
			Provider: "openai",
		},
		Catalog: CatalogConfig{
			Path:       filepath.Join(getExecutableDir(), ".shopmate", "catalog"),
			Collection: "products",
		},
		Search: SearchConfig{
			PrimaryEngine: "tavily",
			Engines: []SearchEngineConfig{
				{
					Name:     "tavily",
					Type:     "tavily",
					Enabled:  true,
					Priority: 1,
				},
			},
		},
		Pricing: PricingConfig{
			Enabled: true,
			Type:    "rainforest",
		},
		Retrieval: RetrievalConfig{
			AllowedDomains:    []string{"amazon.com", "walmart.com", "target.com"},
			TopK:              5,
			SourceTimeoutSec:  8,
			LookupTimeoutSec:  5,
			LookupConcurrency: 3,
		},
	}
}

func ConfigDir() string {
	exeDir := getExecutableDir()
	return filepath.Join(exeDir, ".shopmate")
}

func ConfigPath() string {
	exeDir := getExecutableDir()
	return filepath.Join(exeDir, ".shopmate.yaml")
}

func Load() (*Config, error) {
	return LoadFromPath(ConfigPath())
}

// LoadFromPath loads configuration from an explicit file path.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) Save() error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(ConfigPath(), data, 0600)
}

// applyEnv fills API keys from the environment when the config file leaves
// them empty. A .env file next to the process is honored if present.
func (c *Config) applyEnv() {
	_ = godotenv.Load()

	if c.LLM.APIKey == "" {
		switch c.LLM.Provider {
		case "claude", "anthropic":
			c.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		default:
			c.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	}
	if c.Embedding.APIKey == "" {
		c.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if c.Pricing.APIKey == "" {
		c.Pricing.APIKey = os.Getenv("RAINFOREST_API_KEY")
	}
	for i := range c.Search.Engines {
		if c.Search.Engines[i].APIKey != "" {
			continue
		}
		switch c.Search.Engines[i].Type {
		case "tavily":
			key := os.Getenv("TAVILY_API_KEY")
			if key == "" {
				key = os.Getenv("WEB_SEARCH_API_KEY")
			}
			c.Search.Engines[i].APIKey = key
		}
	}
}

// Validate checks that the configuration is usable before any query is
// served. Misconfiguration fails here, at startup, never mid-query.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("llm api key is not configured (set OPENAI_API_KEY or ANTHROPIC_API_KEY)")
	}
	if c.Embedding.APIKey == "" {
		return fmt.Errorf("embedding api key is not configured (set OPENAI_API_KEY)")
	}
	if len(c.Retrieval.AllowedDomains) == 0 {
		return fmt.Errorf("retrieval.allowed_domains must not be empty")
	}
	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("retrieval.top_k must be positive")
	}
	if c.Retrieval.LookupConcurrency <= 0 {
		return fmt.Errorf("retrieval.lookup_concurrency must be positive")
	}
	enabled := 0
	for _, e := range c.Search.Engines {
		if e.Enabled && e.APIKey != "" {
			enabled++
		}
	}
	if enabled == 0 {
		return fmt.Errorf("no web search engine is configured (set TAVILY_API_KEY)")
	}
	return nil
}
