package shapewaysbridge

import (
	"context"
	"fmt"
	"net/http"
)

// CartItem is one model/material line added to the cart.
type CartItem struct {
	ModelID    int `json:"modelId"`
	MaterialID int `json:"materialId"`
	Quantity   int `json:"quantity"`
}

func (c *Client) GetCart(ctx context.Context) (*Result, error) {
	return c.get(ctx, CartURL)
}

// AddToCart adds item to the cart. Model and material are required; quantity
// defaults to 1.
func (c *Client) AddToCart(ctx context.Context, item CartItem) (*Result, error) {
	if m := missing(
		field{"modelId", item.ModelID == 0},
		field{"materialId", item.MaterialID == 0},
	); len(m) > 0 {
		return nil, fmt.Errorf("add to cart: %w: %v", ErrMissingParameter, m)
	}
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	return c.Dispatch(ctx, http.MethodPost, CartURL, item, nil)
}
