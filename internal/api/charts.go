package api

import (
	"context"
	"fmt"
	"net/url"

	"coinwatch/internal/domain"
)

// ListAvailableCoins returns the coin catalog. The catalog is immutable for
// the length of a session and is loaded once.
func (c *Client) ListAvailableCoins(ctx context.Context) ([]domain.CoinOption, error) {
	var out []domain.CoinOption
	if err := c.get(ctx, "/charts/available-coins", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchHistory returns daily OHLC bars for a coin over the given number of
// days. Keyed by catalog id, not symbol.
func (c *Client) FetchHistory(ctx context.Context, coinID string, days int) ([]domain.HistoryItem, error) {
	path := fmt.Sprintf("/charts/history/%s?days=%d", url.PathEscape(coinID), days)

	var out struct {
		History []domain.HistoryItem `json:"history"`
	}
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.History, nil
}

// FetchChart returns candles for a coin at the given interval.
func (c *Client) FetchChart(ctx context.Context, coinID string, days int, interval string) ([]domain.Candle, error) {
	path := fmt.Sprintf("/charts/chart/%s?days=%d&interval=%s",
		url.PathEscape(coinID), days, url.QueryEscape(interval))

	var out struct {
		Candles []domain.Candle `json:"candles"`
	}
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.Candles, nil
}
