package shapewaysbridge

import (
	"context"
	"fmt"
	"net/http"
)

const (
	DefaultPaymentMethod  = "credit_card"
	DefaultShippingOption = "Cheapest"
	OrderStatusCancelled  = "cancelled"
)

// OrderItem is one line of an order.
type OrderItem struct {
	ModelID    int `json:"modelId"`
	MaterialID int `json:"materialId"`
	Quantity   int `json:"quantity"`
}

// OrderRequest places an order. Either Items, or ModelID and MaterialID
// (ordered once), must be set.
type OrderRequest struct {
	PaymentVerificationID string
	FirstName             string
	LastName              string
	Country               string
	State                 string
	City                  string
	Address1              string
	Address2              string
	ZipCode               string
	PhoneNumber           string

	Items      []OrderItem
	ModelID    int
	MaterialID int

	// Empty values use DefaultPaymentMethod and DefaultShippingOption.
	PaymentMethod  string
	ShippingOption string
}

type orderBody struct {
	Items                 []OrderItem `json:"items"`
	FirstName             string      `json:"firstName"`
	LastName              string      `json:"lastName"`
	Country               string      `json:"country"`
	State                 *string     `json:"state"`
	City                  string      `json:"city"`
	Address1              string      `json:"address1"`
	Address2              string      `json:"address2"`
	ZipCode               string      `json:"zipCode"`
	PhoneNumber           string      `json:"phoneNumber"`
	PaymentVerificationID string      `json:"paymentVerificationId"`
	PaymentMethod         string      `json:"paymentMethod"`
	ShippingOption        string      `json:"shippingOption"`
}

func (c *Client) GetOrders(ctx context.Context) (*Result, error) {
	return c.get(ctx, OrdersURL)
}

func (c *Client) GetOrder(ctx context.Context, orderID int) (*Result, error) {
	return c.get(ctx, SingleOrderURL, orderID)
}

// OrderModel places an order. It fails with ErrMissingOrderItems, before
// anything is sent, when neither items nor a model/material pair is given.
func (c *Client) OrderModel(ctx context.Context, req OrderRequest) (*Result, error) {
	items := req.Items
	if len(items) == 0 {
		if req.ModelID == 0 || req.MaterialID == 0 {
			return nil, fmt.Errorf("order model: %w", ErrMissingOrderItems)
		}
		items = []OrderItem{{ModelID: req.ModelID, MaterialID: req.MaterialID, Quantity: 1}}
	}

	body := orderBody{
		Items:                 items,
		FirstName:             req.FirstName,
		LastName:              req.LastName,
		Country:               req.Country,
		City:                  req.City,
		Address1:              req.Address1,
		Address2:              req.Address2,
		ZipCode:               req.ZipCode,
		PhoneNumber:           req.PhoneNumber,
		PaymentVerificationID: req.PaymentVerificationID,
		PaymentMethod:         req.PaymentMethod,
		ShippingOption:        req.ShippingOption,
	}
	if req.State != "" {
		body.State = &req.State
	}
	if body.PaymentMethod == "" {
		body.PaymentMethod = DefaultPaymentMethod
	}
	if body.ShippingOption == "" {
		body.ShippingOption = DefaultShippingOption
	}
	return c.Dispatch(ctx, http.MethodPost, OrdersURL, body, nil)
}

// CancelOrder moves an order to the cancelled state.
func (c *Client) CancelOrder(ctx context.Context, orderID int) (*Result, error) {
	body := map[string]any{
		"orderId": orderID,
		"status":  OrderStatusCancelled,
	}
	return c.Dispatch(ctx, http.MethodPut, fmt.Sprintf(SingleOrderURL, orderID), body, nil)
}
