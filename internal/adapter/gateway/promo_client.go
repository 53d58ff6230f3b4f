package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

// PromoClient validates promo codes against the remote promo service.
type PromoClient struct {
	c *Client
}

func NewPromoClient(c *Client) *PromoClient {
	return &PromoClient{c: c}
}

type validateRequest struct {
	Code   string          `json:"code"`
	Amount decimal.Decimal `json:"amount"`
}

func (p *PromoClient) Validate(ctx context.Context, code string, subtotal decimal.Decimal) (*domain.PromoCode, error) {
	res, err := p.c.do(ctx, http.MethodPost, "/api/promo-codes/validate", validateRequest{
		Code:   code,
		Amount: subtotal,
	})
	if err != nil {
		return nil, err
	}

	switch res.status {
	case http.StatusOK:
	case http.StatusNotFound, http.StatusUnprocessableEntity, http.StatusBadRequest:
		return nil, port.ErrCodeRejected
	default:
		return nil, fmt.Errorf("validate promo code: unexpected status %d", res.status)
	}

	var promo domain.PromoCode
	if err := json.Unmarshal(res.body, &promo); err != nil {
		return nil, fmt.Errorf("decode promo code: %w", err)
	}
	return &promo, nil
}
