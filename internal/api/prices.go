package api

import (
	"context"
	"net/url"

	"coinwatch/internal/domain"
)

// ListPrices returns the latest price per tracked symbol.
func (c *Client) ListPrices(ctx context.Context) ([]domain.PriceQuote, error) {
	var out []domain.PriceQuote
	if err := c.get(ctx, "/prices", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PriceHistory returns the stored price series for one symbol.
func (c *Client) PriceHistory(ctx context.Context, symbol string) ([]domain.PricePoint, error) {
	var out []domain.PricePoint
	if err := c.get(ctx, "/prices/"+url.PathEscape(symbol), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TriggerRefresh asks the backend to re-ingest live prices for all tracked
// coins. Returns the server's status message.
func (c *Client) TriggerRefresh(ctx context.Context) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	if err := c.post(ctx, "/fetch", nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}
