package api

import (
	"context"
	"fmt"

	"coinwatch/internal/domain"
)

// ListWatchlist returns the user's watchlist in server-declared order.
func (c *Client) ListWatchlist(ctx context.Context) ([]domain.WatchlistEntry, error) {
	var out []domain.WatchlistEntry
	if err := c.get(ctx, "/watchlist", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddWatchlist adds a coin (by catalog id) to the watchlist and returns the
// created entry.
func (c *Client) AddWatchlist(ctx context.Context, coinID string) (*domain.WatchlistEntry, error) {
	body := map[string]string{"coin_id": coinID}

	var out domain.WatchlistEntry
	if err := c.post(ctx, "/watchlist", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveWatchlist deletes a watchlist entry by id.
func (c *Client) RemoveWatchlist(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/watchlist/%d", id), nil)
}
