package api

import (
	"context"
	"fmt"

	"coinwatch/internal/domain"
)

// ListAlerts returns the user's price-target alerts.
func (c *Client) ListAlerts(ctx context.Context) ([]domain.Alert, error) {
	var out []domain.Alert
	if err := c.get(ctx, "/alerts", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateAlert registers a price target for a symbol. The server evaluates
// alerts; the client only records them.
func (c *Client) CreateAlert(ctx context.Context, symbol string, targetPrice float64) (*domain.Alert, error) {
	body := map[string]any{
		"symbol":       domain.NormalizeSymbol(symbol),
		"target_price": targetPrice,
	}

	var out domain.Alert
	if err := c.post(ctx, "/alerts", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveAlert deletes an alert by id.
func (c *Client) RemoveAlert(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/alerts/%d", id), nil)
}
