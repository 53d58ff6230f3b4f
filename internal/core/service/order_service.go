package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

// OrderRequest carries everything needed to place an order from a cart
// snapshot.
type OrderRequest struct {
	Items           []domain.LineItem
	ShippingAddress domain.ShippingAddress
	PaymentMethod   domain.PaymentMethod
	PromoCode       *domain.PromoCode
	Notes           string
}

// OrderService builds order snapshots and keeps the locally known order
// list. The remote order service owns every status transition; local state
// only changes after server confirmation.
type OrderService struct {
	mu     sync.Mutex
	orders []domain.Order

	gateway port.OrderGateway
	logger  *zap.Logger
}

func NewOrderService(gateway port.OrderGateway, logger *zap.Logger) *OrderService {
	return &OrderService{
		gateway: gateway,
		logger:  logger,
	}
}

// CreateOrder snapshots the line items at their current effective prices,
// recomputes totals from the snapshot and submits the draft. On success
// the confirmed order is prepended to the local list; on failure local
// state is untouched.
func (s *OrderService) CreateOrder(ctx context.Context, req OrderRequest) (*domain.Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyCart
	}

	draft := domain.BuildOrder(req.Items, req.PromoCode, req.ShippingAddress, req.PaymentMethod, req.Notes)

	created, err := s.gateway.Create(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("%w: create order: %v", ErrRequestFailed, err)
	}

	s.mu.Lock()
	s.orders = append([]domain.Order{*created}, s.orders...)
	s.mu.Unlock()

	s.logger.Info("order created",
		zap.String("order_id", created.ID),
		zap.String("status", string(created.Status)),
		zap.String("total", created.Total.String()))

	return created, nil
}

// CancelOrder delegates the transition to the order service and applies
// the result only after server confirmation, never optimistically.
func (s *OrderService) CancelOrder(ctx context.Context, orderID, reason string) (*domain.Order, error) {
	updated, err := s.gateway.Cancel(ctx, orderID, reason)
	if err != nil {
		if errors.Is(err, port.ErrOrderNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: cancel order %s: %v", ErrRequestFailed, orderID, err)
	}

	s.mu.Lock()
	for i := range s.orders {
		if s.orders[i].ID == updated.ID {
			s.orders[i] = *updated
			break
		}
	}
	s.mu.Unlock()

	return updated, nil
}

// FetchOrders reloads the order list from the server, newest first.
func (s *OrderService) FetchOrders(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.gateway.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list orders: %v", ErrRequestFailed, err)
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})

	s.mu.Lock()
	s.orders = orders
	s.mu.Unlock()

	return s.Orders(), nil
}

// GetOrder fetches a single order from the server.
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.gateway.Get(ctx, orderID)
	if err != nil {
		if errors.Is(err, port.ErrOrderNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: get order %s: %v", ErrRequestFailed, orderID, err)
	}
	return order, nil
}

// TrackOrder returns tracking info for an order.
func (s *OrderService) TrackOrder(ctx context.Context, orderID string) (*domain.TrackingInfo, error) {
	info, err := s.gateway.Track(ctx, orderID)
	if err != nil {
		if errors.Is(err, port.ErrOrderNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: track order %s: %v", ErrRequestFailed, orderID, err)
	}
	return info, nil
}

// Orders returns a copy of the locally known order list.
func (s *OrderService) Orders() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	orders := make([]domain.Order, len(s.orders))
	copy(orders, s.orders)
	return orders
}

// ActiveOrders returns orders still in flight.
func (s *OrderService) ActiveOrders() []domain.Order {
	return s.filter(func(o domain.Order) bool { return o.Status.Active() })
}

// CompletedOrders returns delivered orders.
func (s *OrderService) CompletedOrders() []domain.Order {
	return s.filter(func(o domain.Order) bool { return o.Status == domain.OrderStatusDelivered })
}

// CancelledOrders returns cancelled and returned orders.
func (s *OrderService) CancelledOrders() []domain.Order {
	return s.filter(func(o domain.Order) bool {
		return o.Status == domain.OrderStatusCancelled || o.Status == domain.OrderStatusReturned
	})
}

func (s *OrderService) filter(keep func(domain.Order) bool) []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Order
	for _, o := range s.orders {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out
}
