package shapewaysbridge

import (
	"context"
	"fmt"
	"net/http"
)

// PriceRequest describes a model's geometry for a price quote. Dimensions are
// in meters, volume in cubic meters and area in square meters.
type PriceRequest struct {
	Volume    float64 `json:"volume"`
	Area      float64 `json:"area"`
	XBoundMin float64 `json:"xBoundMin"`
	XBoundMax float64 `json:"xBoundMax"`
	YBoundMin float64 `json:"yBoundMin"`
	YBoundMax float64 `json:"yBoundMax"`
	ZBoundMin float64 `json:"zBoundMin"`
	ZBoundMax float64 `json:"zBoundMax"`
	Materials []int   `json:"materials,omitempty"`
}

// GetPrice quotes a model without uploading it. Volume and area must be positive.
func (c *Client) GetPrice(ctx context.Context, req PriceRequest) (*Result, error) {
	if m := missing(
		field{"volume", req.Volume <= 0},
		field{"area", req.Area <= 0},
	); len(m) > 0 {
		return nil, fmt.Errorf("get price: %w: %v", ErrMissingParameter, m)
	}
	return c.Dispatch(ctx, http.MethodPost, PriceURL, req, nil)
}
