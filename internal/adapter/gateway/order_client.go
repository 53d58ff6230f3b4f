package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

// OrderClient talks to the remote order service.
type OrderClient struct {
	c *Client
}

func NewOrderClient(c *Client) *OrderClient {
	return &OrderClient{c: c}
}

func (o *OrderClient) Create(ctx context.Context, draft domain.Order) (*domain.Order, error) {
	res, err := o.c.do(ctx, http.MethodPost, "/api/orders", draft)
	if err != nil {
		return nil, err
	}
	if res.status != http.StatusOK && res.status != http.StatusCreated {
		return nil, fmt.Errorf("create order: unexpected status %d", res.status)
	}

	var order domain.Order
	if err := json.Unmarshal(res.body, &order); err != nil {
		return nil, fmt.Errorf("decode order: %w", err)
	}
	return &order, nil
}

type cancelRequest struct {
	Reason string `json:"reason,omitempty"`
}

func (o *OrderClient) Cancel(ctx context.Context, orderID, reason string) (*domain.Order, error) {
	res, err := o.c.do(ctx, http.MethodPut, "/api/orders/"+orderID+"/cancel", cancelRequest{Reason: reason})
	if err != nil {
		return nil, err
	}
	switch res.status {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, port.ErrOrderNotFound
	default:
		return nil, fmt.Errorf("cancel order: unexpected status %d", res.status)
	}

	var order domain.Order
	if err := json.Unmarshal(res.body, &order); err != nil {
		return nil, fmt.Errorf("decode order: %w", err)
	}
	return &order, nil
}

func (o *OrderClient) List(ctx context.Context) ([]domain.Order, error) {
	res, err := o.c.do(ctx, http.MethodGet, "/api/orders", nil)
	if err != nil {
		return nil, err
	}
	if res.status != http.StatusOK {
		return nil, fmt.Errorf("list orders: unexpected status %d", res.status)
	}

	var orders []domain.Order
	if err := json.Unmarshal(res.body, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}

func (o *OrderClient) Get(ctx context.Context, orderID string) (*domain.Order, error) {
	res, err := o.c.do(ctx, http.MethodGet, "/api/orders/"+orderID, nil)
	if err != nil {
		return nil, err
	}
	switch res.status {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, port.ErrOrderNotFound
	default:
		return nil, fmt.Errorf("get order: unexpected status %d", res.status)
	}

	var order domain.Order
	if err := json.Unmarshal(res.body, &order); err != nil {
		return nil, fmt.Errorf("decode order: %w", err)
	}
	return &order, nil
}

func (o *OrderClient) Track(ctx context.Context, orderID string) (*domain.TrackingInfo, error) {
	res, err := o.c.do(ctx, http.MethodGet, "/api/orders/"+orderID+"/tracking", nil)
	if err != nil {
		return nil, err
	}
	switch res.status {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, port.ErrOrderNotFound
	default:
		return nil, fmt.Errorf("track order: unexpected status %d", res.status)
	}

	var info domain.TrackingInfo
	if err := json.Unmarshal(res.body, &info); err != nil {
		return nil, fmt.Errorf("decode tracking info: %w", err)
	}
	return &info, nil
}
