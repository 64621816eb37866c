package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/kayz/shopmate/internal/config"
)

// ItemInfo is the authoritative record for one marketplace item.
type ItemInfo struct {
	Title    string
	Price    float64
	HasPrice bool
}

// PriceLookup resolves a trusted price (and title) for a recognized
// marketplace item code. A nil ItemInfo with nil error means the item is
// unknown to the provider.
type PriceLookup interface {
	Lookup(ctx context.Context, itemCode string) (*ItemInfo, error)
}

// RainforestLookup resolves Amazon ASINs through the Rainforest product API.
type RainforestLookup struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewRainforestLookup(cfg config.PricingConfig) (*RainforestLookup, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("rainforest api key is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.rainforestapi.com"
	}
	return &RainforestLookup{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

func (l *RainforestLookup) Lookup(ctx context.Context, itemCode string) (*ItemInfo, error) {
	if itemCode == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("api_key", l.apiKey)
	params.Set("type", "product")
	params.Set("amazon_domain", "amazon.com")
	params.Set("asin", itemCode)

	req, err := http.NewRequestWithContext(ctx, "GET", l.baseURL+"/request?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rainforest returned status %d", resp.StatusCode)
	}

	var payload struct {
		Product *struct {
			Title string `json:"title"`
			Price *struct {
				Value float64 `json:"value"`
			} `json:"price"`
		} `json:"product"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if payload.Product == nil {
		return nil, nil
	}

	info := &ItemInfo{Title: payload.Product.Title}
	if payload.Product.Price != nil {
		info.Price = payload.Product.Price.Value
		info.HasPrice = true
	}
	return info, nil
}
