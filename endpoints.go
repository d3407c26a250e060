package shapewaysbridge

import (
	"context"
	"fmt"
	"net/http"
)

// API paths, relative to the base URL.
const (
	APIInfoURL        = "/api/v1"
	MaterialsURL      = "/materials/v1"
	SingleMaterialURL = "/materials/%d/v1"
	ModelURL          = "/model/v1"
	SingleModelURL    = "/model/%d/v1"
	ModelInfoURL      = "/model/%d/info/v1"
	ModelFilesURL     = "/model/%d/files/v1"
	ModelFileURL      = "/model/%d/files/%d/v1"
	ModelPhotosURL    = "/model/%d/photos/v1"
	CategoriesURL     = "/categories/v1"
	SingleCategoryURL = "/categories/%d/v1"
	CartURL           = "/orders/cart/v1"
	OrdersURL         = "/orders/v1"
	SingleOrderURL    = "/orders/%d/v1"
	PrintersURL       = "/printers/v1"
	SinglePrinterURL  = "/printers/%d/v1"
	PriceURL          = "/price/v1"
)

// GetAPIInfo fetches the API description document.
func (c *Client) GetAPIInfo(ctx context.Context) (*Result, error) {
	return c.Dispatch(ctx, http.MethodGet, APIInfoURL, nil, nil)
}

func (c *Client) get(ctx context.Context, pathFormat string, args ...any) (*Result, error) {
	return c.Dispatch(ctx, http.MethodGet, fmt.Sprintf(pathFormat, args...), nil, nil)
}

// missing lists the names whose values are empty, in order.
func missing(fields ...field) []string {
	var out []string
	for _, f := range fields {
		if f.empty {
			out = append(out, f.name)
		}
	}
	return out
}

type field struct {
	name  string
	empty bool
}
