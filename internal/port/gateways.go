package port

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/rl1809/storefront/internal/core/domain"
)

var (
	// ErrCodeRejected means the promo service knows nothing about the code
	// or refused it outright.
	ErrCodeRejected = errors.New("promo code rejected")

	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")
)

// PromoGateway validates promo codes against the remote promo service.
type PromoGateway interface {
	Validate(ctx context.Context, code string, subtotal decimal.Decimal) (*domain.PromoCode, error)
}

// OrderGateway talks to the remote order service. All status transitions
// are owned by the server; the engine never infers them locally.
type OrderGateway interface {
	Create(ctx context.Context, draft domain.Order) (*domain.Order, error)
	Cancel(ctx context.Context, orderID, reason string) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	Get(ctx context.Context, orderID string) (*domain.Order, error)
	Track(ctx context.Context, orderID string) (*domain.TrackingInfo, error)
}

// ProductCatalog resolves product ids to current catalog entries.
type ProductCatalog interface {
	FetchProduct(ctx context.Context, productID string) (*domain.Product, error)
}
