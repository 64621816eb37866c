package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kayz/shopmate/internal/config"
)

// CustomHTTPEngine queries any self-hosted search API that accepts
// GET {base_url}?q=...&limit=... and answers with
// {"results": [{"title", "url", "snippet", "score"}]}.
type CustomHTTPEngine struct {
	name     string
	apiKey   string
	baseURL  string
	enabled  bool
	priority int
	client   *http.Client
}

func NewCustomHTTPEngine(cfg config.SearchEngineConfig) (Engine, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("custom engine requires base_url")
	}
	return &CustomHTTPEngine{
		name:     cfg.Name,
		apiKey:   cfg.APIKey,
		baseURL:  cfg.BaseURL,
		enabled:  cfg.Enabled,
		priority: cfg.Priority,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

func (e *CustomHTTPEngine) Name() string {
	return e.name
}

func (e *CustomHTTPEngine) Type() string {
	return "custom"
}

func (e *CustomHTTPEngine) IsEnabled() bool {
	return e.enabled
}

func (e *CustomHTTPEngine) Priority() int {
	return e.priority
}

func (e *CustomHTTPEngine) Search(ctx context.Context, query string, domains []string, limit int) (*Response, error) {
	startTime := time.Now()

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", fmt.Sprintf("%d", limit))
	if len(domains) > 0 {
		params.Set("domains", strings.Join(domains, ","))
	}

	req, err := http.NewRequestWithContext(ctx, "GET", e.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("custom engine returned status %d", resp.StatusCode)
	}

	var apiResponse struct {
		Results []struct {
			Title   string   `json:"title"`
			URL     string   `json:"url"`
			Snippet string   `json:"snippet"`
			Score   *float64 `json:"score"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	results := make([]Result, 0, len(apiResponse.Results))
	for _, r := range apiResponse.Results {
		result := Result{
			Title:   r.Title,
			URL:     r.URL,
			Snippet: r.Snippet,
		}
		if r.Score != nil {
			result.Score = *r.Score
			result.HasScore = true
		}
		results = append(results, result)
	}

	return &Response{
		Query:    query,
		Results:  results,
		Engine:   e.name,
		Duration: time.Since(startTime),
	}, nil
}
