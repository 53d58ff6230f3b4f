package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/sync/singleflight"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

// ProductClient fetches catalog entries. Concurrent fetches for the same
// product id are collapsed into one request.
type ProductClient struct {
	c   *Client
	sfg singleflight.Group
}

func NewProductClient(c *Client) *ProductClient {
	return &ProductClient{c: c}
}

func (p *ProductClient) FetchProduct(ctx context.Context, productID string) (*domain.Product, error) {
	v, err, _ := p.sfg.Do(productID, func() (interface{}, error) {
		res, err := p.c.do(ctx, http.MethodGet, "/api/products/"+productID, nil)
		if err != nil {
			return nil, err
		}
		switch res.status {
		case http.StatusOK:
		case http.StatusNotFound:
			return nil, port.ErrProductNotFound
		default:
			return nil, fmt.Errorf("fetch product: unexpected status %d", res.status)
		}

		var product domain.Product
		if err := json.Unmarshal(res.body, &product); err != nil {
			return nil, fmt.Errorf("decode product: %w", err)
		}
		return &product, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Product), nil
}
