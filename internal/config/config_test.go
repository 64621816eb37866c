package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromPathReadsRetrievalSection(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, ".shopmate.yaml")
	content := `retrieval:
  allowed_domains:
    - "amazon.com"
    - "walmart.com"
  top_k: 7
  source_timeout_sec: 4
  lookup_concurrency: 2
  prefer_web_price: true
`
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromPath(cfgPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.Retrieval.AllowedDomains) != 2 || cfg.Retrieval.AllowedDomains[0] != "amazon.com" {
		t.Fatalf("unexpected allowed domains: %#v", cfg.Retrieval.AllowedDomains)
	}
	if cfg.Retrieval.TopK != 7 {
		t.Fatalf("unexpected top_k: %d", cfg.Retrieval.TopK)
	}
	if cfg.Retrieval.SourceTimeoutSec != 4 {
		t.Fatalf("unexpected source_timeout_sec: %d", cfg.Retrieval.SourceTimeoutSec)
	}
	if !cfg.Retrieval.PreferWebPrice {
		t.Fatalf("expected prefer_web_price=true")
	}
}

func TestLoadFromPathFillsEngineKeyFromEnv(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, ".shopmate.yaml")
	if err := os.WriteFile(cfgPath, []byte("port: 9000\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("TAVILY_API_KEY", "tv-test-key")

	cfg, err := LoadFromPath(cfgPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Port != 9000 {
		t.Fatalf("unexpected port: %d", cfg.Port)
	}
	var found bool
	for _, e := range cfg.Search.Engines {
		if e.Type == "tavily" && e.APIKey == "tv-test-key" {
			found = true
		}
	}
	if !found {
		t.Fatalf("tavily engine did not pick up TAVILY_API_KEY: %#v", cfg.Search.Engines)
	}
}

func TestValidateRejectsEmptyAllowlist(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LLM.APIKey = "k"
	cfg.Embedding.APIKey = "k"
	cfg.Search.Engines[0].APIKey = "k"
	cfg.Retrieval.AllowedDomains = nil

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error for empty allowlist")
	}
}

func TestValidateRejectsMissingLLMKey(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Embedding.APIKey = "k"
	cfg.Search.Engines[0].APIKey = "k"
	cfg.LLM.APIKey = ""

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error for missing llm key")
	}
}

func TestValidateAcceptsCompleteConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LLM.APIKey = "k"
	cfg.Embedding.APIKey = "k"
	cfg.Search.Engines[0].APIKey = "k"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got: %v", err)
	}
}
