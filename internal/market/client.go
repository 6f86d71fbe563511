// Package market fetches token and market data used by offerings.
//
// The client is a thin collaborator over an HTTP API; offerings treat every
// fetch as optional enrichment and degrade gracefully when a call fails.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"hawker/internal/config"
)

// HTTPDoer describes the HTTP client used by the market service.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenStats summarizes one token's market standing.
type TokenStats struct {
	Address      string  `json:"address"`
	Symbol       string  `json:"symbol"`
	PriceUSD     float64 `json:"price_usd"`
	LiquidityUSD float64 `json:"liquidity_usd"`
	Volume24h    float64 `json:"volume_24h"`
	Change24h    float64 `json:"change_24h"`
}

// TrendingToken is one entry of the trending list.
type TrendingToken struct {
	Symbol    string  `json:"symbol"`
	PriceUSD  float64 `json:"price_usd"`
	Change24h float64 `json:"change_24h"`
}

// Client talks to the market data API.
type Client struct {
	baseURL string
	apiKey  string
	client  HTTPDoer
}

// NewClient builds a client from configuration.
func NewClient(cfg *config.Config) *Client {
	timeout := time.Duration(cfg.Market.RequestTimeout) * time.Second
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.Market.BaseURL), "/"),
		apiKey:  strings.TrimSpace(cfg.Market.APIKey),
		client:  &http.Client{Timeout: timeout},
	}
}

// NewClientWith builds a client against an explicit base URL and HTTP doer,
// used by tests.
func NewClientWith(baseURL, apiKey string, doer HTTPDoer) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:  strings.TrimSpace(apiKey),
		client:  doer,
	}
}

// TokenStats fetches market stats for one token address.
func (c *Client) TokenStats(ctx context.Context, address string) (TokenStats, error) {
	var stats TokenStats
	if err := c.getJSON(ctx, "/tokens/"+address, &stats); err != nil {
		return TokenStats{}, err
	}
	if stats.Address == "" {
		stats.Address = address
	}
	return stats, nil
}

// HolderCount fetches the holder count for one token address.
func (c *Client) HolderCount(ctx context.Context, address string) (int, error) {
	var payload struct {
		Holders int `json:"holders"`
	}
	if err := c.getJSON(ctx, "/tokens/"+address+"/holders", &payload); err != nil {
		return 0, err
	}
	return payload.Holders, nil
}

// Trending fetches the current trending token list.
func (c *Client) Trending(ctx context.Context) ([]TrendingToken, error) {
	var payload struct {
		Tokens []TrendingToken `json:"tokens"`
	}
	if err := c.getJSON(ctx, "/trending", &payload); err != nil {
		return nil, err
	}
	return payload.Tokens, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	if c == nil || c.client == nil || c.baseURL == "" {
		return fmt.Errorf("market client not configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build market request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("market API returned %d for %s", resp.StatusCode, path)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
