package api

import (
	"context"
	"fmt"

	"coinwatch/internal/domain"
)

// ListCostBasis returns the user's purchase lots.
func (c *Client) ListCostBasis(ctx context.Context) ([]domain.CostLot, error) {
	var out []domain.CostLot
	if err := c.get(ctx, "/cost-basis", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddCostBasis records one purchase lot and returns the created record.
func (c *Client) AddCostBasis(ctx context.Context, symbol string, costPrice, quantity float64) (*domain.CostLot, error) {
	body := map[string]any{
		"symbol":     domain.NormalizeSymbol(symbol),
		"cost_price": costPrice,
		"quantity":   quantity,
	}

	var out domain.CostLot
	if err := c.post(ctx, "/cost-basis", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCostBasis patches an existing lot's price and quantity.
func (c *Client) UpdateCostBasis(ctx context.Context, id int64, costPrice, quantity float64) (*domain.CostLot, error) {
	body := map[string]any{
		"cost_price": costPrice,
		"quantity":   quantity,
	}

	var out domain.CostLot
	if err := c.patch(ctx, fmt.Sprintf("/cost-basis/%d", id), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveCostBasis deletes a lot by id.
func (c *Client) RemoveCostBasis(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/cost-basis/%d", id), nil)
}
