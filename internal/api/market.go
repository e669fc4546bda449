package api

import (
	"context"

	"coinwatch/internal/domain"
)

// TopGainersLosers groups the 24h movers feed.
type TopGainersLosers struct {
	TopGainers []domain.TopGainerLoser `json:"top_gainers"`
	TopLosers  []domain.TopGainerLoser `json:"top_losers"`
}

// ListMarketPrices returns bulk market prices keyed by catalog id.
func (c *Client) ListMarketPrices(ctx context.Context) (map[string]float64, error) {
	var raw map[string]struct {
		USD float64 `json:"usd"`
	}
	if err := c.get(ctx, "/market/prices", &raw); err != nil {
		return nil, err
	}

	prices := make(map[string]float64, len(raw))
	for coinID, entry := range raw {
		prices[coinID] = entry.USD
	}
	return prices, nil
}

// ListTrending returns the ranked trending feed.
func (c *Client) ListTrending(ctx context.Context) ([]domain.TrendingCoin, error) {
	var out []domain.TrendingCoin
	if err := c.get(ctx, "/market/trending", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTopGainersLosers returns the 24h movers feed.
func (c *Client) ListTopGainersLosers(ctx context.Context) (*TopGainersLosers, error) {
	var out TopGainersLosers
	if err := c.get(ctx, "/market/top-gainers-losers", &out); err != nil {
		return nil, err
	}
	return &out, nil
}
