package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

// Storage keys, kept stable so carts survive restarts.
const (
	cartKey  = "cart"
	promoKey = "appliedPromoCode"
)

// CartService owns the cart line items and the single active promo code.
// All mutations run under one lock so no partial state is ever observable;
// every mutation bumps the revision so in-flight validations issued against
// an older cart can be detected and discarded.
type CartService struct {
	mu       sync.Mutex
	items    []domain.LineItem
	applied  *domain.PromoCode
	revision uint64

	store  port.KeyValueStore
	promos port.PromoGateway
	logger *zap.Logger
}

func NewCartService(store port.KeyValueStore, promos port.PromoGateway, logger *zap.Logger) *CartService {
	return &CartService{
		store:  store,
		promos: promos,
		logger: logger,
	}
}

// Load restores line items and the applied promo code from storage.
// A missing or corrupt document yields an empty cart, never an error.
func (s *CartService) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if raw, err := s.store.Get(ctx, cartKey); err == nil {
		var items []domain.LineItem
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			s.logger.Warn("discarding corrupt cart document", zap.Error(err))
		} else {
			s.items = items
		}
	} else if !errors.Is(err, port.ErrKeyNotFound) {
		s.logger.Warn("failed to load cart from storage", zap.Error(err))
	}

	if raw, err := s.store.Get(ctx, promoKey); err == nil {
		var promo domain.PromoCode
		if err := json.Unmarshal([]byte(raw), &promo); err != nil {
			s.logger.Warn("discarding corrupt promo document", zap.Error(err))
		} else {
			s.applied = &promo
		}
	} else if !errors.Is(err, port.ErrKeyNotFound) {
		s.logger.Warn("failed to load promo code from storage", zap.Error(err))
	}
}

// AddItem inserts a new line item or increments the quantity of the
// matching (product, size, color) variant. AddedAt is stamped on first
// insertion only.
func (s *CartService) AddItem(ctx context.Context, product domain.Product, quantity int, opts domain.VariantOptions) (*domain.LineItem, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive, got %d", quantity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].Matches(product.ID, opts) {
			desired := s.items[i].Quantity + quantity
			if !domain.CanSetQuantity(product, desired) {
				return nil, fmt.Errorf("%w: %d available", ErrStockExceeded, product.StockQuantity)
			}
			s.items[i].Quantity = desired
			s.bumpAndPersist(ctx)
			item := s.items[i]
			return &item, nil
		}
	}

	if !domain.CanSetQuantity(product, quantity) {
		return nil, fmt.Errorf("%w: %d available", ErrStockExceeded, product.StockQuantity)
	}

	item := domain.LineItem{
		ID:            uuid.NewString(),
		Product:       product,
		Quantity:      quantity,
		SelectedSize:  opts.Size,
		SelectedColor: opts.Color,
		AddedAt:       time.Now(),
	}
	s.items = append(s.items, item)
	s.bumpAndPersist(ctx)
	return &item, nil
}

// RemoveItem drops a line item by id. Removing an unknown id is a no-op.
func (s *CartService) RemoveItem(ctx context.Context, lineItemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == lineItemID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.bumpAndPersist(ctx)
			return
		}
	}
}

// SetQuantity changes a line item's quantity. A non-positive quantity
// removes the item. Exceeding stock fails and leaves the prior quantity
// untouched.
func (s *CartService) SetQuantity(ctx context.Context, lineItemID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID != lineItemID {
			continue
		}
		if quantity <= 0 {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.bumpAndPersist(ctx)
			return nil
		}
		if !domain.CanSetQuantity(s.items[i].Product, quantity) {
			return fmt.Errorf("%w: %d available", ErrStockExceeded, s.items[i].Product.StockQuantity)
		}
		s.items[i].Quantity = quantity
		s.bumpAndPersist(ctx)
		return nil
	}
	return nil
}

// Clear empties the cart and drops the active promo code in one step.
func (s *CartService) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.applied = nil
	s.revision++
	s.persistItems(ctx)
	if err := s.store.Remove(ctx, promoKey); err != nil {
		s.logger.Warn("failed to remove promo code from storage", zap.Error(err))
	}
}

// ApplyPromoCode validates a code against the current subtotal via the
// promo gateway and stores it as the cart's single active promo. The
// validation response is checked against the cart revision it was issued
// for; if the cart changed in flight the constraints are re-checked
// against the current subtotal before the code is accepted.
func (s *CartService) ApplyPromoCode(ctx context.Context, code string) (*domain.PromoCode, error) {
	s.mu.Lock()
	subtotal := domain.Subtotal(s.items)
	issuedAt := s.revision
	s.mu.Unlock()

	promo, err := s.promos.Validate(ctx, code, subtotal)
	if err != nil {
		if errors.Is(err, port.ErrCodeRejected) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidCode, code)
		}
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	if promo == nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCode, code)
	}
	if err := ctx.Err(); err != nil {
		// Caller abandoned interest while the call was in flight.
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.revision != issuedAt {
		subtotal = domain.Subtotal(s.items)
	}
	if !promo.MeetsMinimum(subtotal) {
		return nil, fmt.Errorf("%w: minimum order amount is %s", ErrMinimumNotMet, promo.MinAmount)
	}

	s.applied = promo
	s.revision++
	s.persistPromo(ctx)
	return promo, nil
}

// RemovePromoCode clears the active promo unconditionally.
func (s *CartService) RemovePromoCode(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.applied = nil
	s.revision++
	if err := s.store.Remove(ctx, promoKey); err != nil {
		s.logger.Warn("failed to remove promo code from storage", zap.Error(err))
	}
}

// Totals recomputes the derived totals from current state on every call.
func (s *CartService) Totals() domain.CartTotals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.ComputeTotals(s.items, s.applied)
}

// Items returns a copy of the current line items.
func (s *CartService) Items() []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]domain.LineItem, len(s.items))
	copy(items, s.items)
	return items
}

// AppliedPromo returns the active promo code, or nil.
func (s *CartService) AppliedPromo() *domain.PromoCode {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.applied == nil {
		return nil
	}
	promo := *s.applied
	return &promo
}

func (s *CartService) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items) == 0
}

func (s *CartService) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.ItemCount(s.items)
}

// HasProduct reports whether any variant of the product is in the cart.
func (s *CartService) HasProduct(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, li := range s.items {
		if li.Product.ID == productID {
			return true
		}
	}
	return false
}

// ItemQuantity returns the total quantity of a product across variants.
func (s *CartService) ItemQuantity(productID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, li := range s.items {
		if li.Product.ID == productID {
			count += li.Quantity
		}
	}
	return count
}

// bumpAndPersist must be called with the lock held.
func (s *CartService) bumpAndPersist(ctx context.Context) {
	s.revision++
	s.persistItems(ctx)
}

// Persistence is best-effort: storage failures must never block cart
// operations, so they are logged and swallowed.
func (s *CartService) persistItems(ctx context.Context) {
	data, err := json.Marshal(s.items)
	if err != nil {
		s.logger.Warn("failed to marshal cart", zap.Error(err))
		return
	}
	if err := s.store.Set(ctx, cartKey, string(data)); err != nil {
		s.logger.Warn("failed to persist cart", zap.Error(err))
	}
}

func (s *CartService) persistPromo(ctx context.Context) {
	data, err := json.Marshal(s.applied)
	if err != nil {
		s.logger.Warn("failed to marshal promo code", zap.Error(err))
		return
	}
	if err := s.store.Set(ctx, promoKey, string(data)); err != nil {
		s.logger.Warn("failed to persist promo code", zap.Error(err))
	}
}
