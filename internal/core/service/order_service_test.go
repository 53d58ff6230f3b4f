package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

type mockOrderGateway struct {
	mu        sync.Mutex
	created   []domain.Order
	listed    []domain.Order
	createErr error
	cancelErr error
	listErr   error
}

func (m *mockOrderGateway) Create(_ context.Context, draft domain.Order) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	order := draft
	order.ID = uuid.NewString()
	order.OrderNumber = "AI-2026-001"
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	m.created = append(m.created, order)
	return &order, nil
}

func (m *mockOrderGateway) Cancel(_ context.Context, orderID, _ string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancelErr != nil {
		return nil, m.cancelErr
	}
	for _, o := range m.created {
		if o.ID == orderID {
			o.Status = domain.OrderStatusCancelled
			o.UpdatedAt = time.Now()
			return &o, nil
		}
	}
	return nil, port.ErrOrderNotFound
}

func (m *mockOrderGateway) List(context.Context) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.listed, nil
}

func (m *mockOrderGateway) Get(_ context.Context, orderID string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.created {
		if o.ID == orderID {
			return &o, nil
		}
	}
	return nil, port.ErrOrderNotFound
}

func (m *mockOrderGateway) Track(_ context.Context, orderID string) (*domain.TrackingInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.created {
		if o.ID == orderID {
			return &domain.TrackingInfo{OrderID: orderID, TrackingNumber: "TRK-1", Status: o.Status}, nil
		}
	}
	return nil, port.ErrOrderNotFound
}

func orderLineItems(price int64, qty int) []domain.LineItem {
	return []domain.LineItem{{
		ID:       uuid.NewString(),
		Product:  testProduct("1", price, 100),
		Quantity: qty,
		AddedAt:  time.Now(),
	}}
}

func TestCreateOrder_EmptyCart(t *testing.T) {
	svc := NewOrderService(&mockOrderGateway{}, zap.NewNop())

	_, err := svc.CreateOrder(context.Background(), OrderRequest{})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCreateOrder_Success(t *testing.T) {
	gw := &mockOrderGateway{}
	svc := NewOrderService(gw, zap.NewNop())

	order, err := svc.CreateOrder(context.Background(), OrderRequest{
		Items:           orderLineItems(2000, 1),
		ShippingAddress: domain.ShippingAddress{City: "Moscow"},
		PaymentMethod:   domain.PaymentMethod{Type: domain.PaymentCard},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.True(t, order.Subtotal.Equal(decimal.NewFromInt(2000)))
	assert.True(t, order.Shipping.Equal(decimal.NewFromInt(300)))
	assert.True(t, order.Total.Equal(decimal.NewFromInt(2300)), "total %s", order.Total)

	// Confirmed order is prepended to the local list.
	orders := svc.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)
}

func TestCreateOrder_SnapshotImmuneToPriceChanges(t *testing.T) {
	gw := &mockOrderGateway{}
	svc := NewOrderService(gw, zap.NewNop())
	items := orderLineItems(1000, 2)

	order, err := svc.CreateOrder(context.Background(), OrderRequest{
		Items:         items,
		PaymentMethod: domain.PaymentMethod{Type: domain.PaymentCash},
	})
	require.NoError(t, err)

	items[0].Product.Price = decimal.NewFromInt(5000)

	assert.True(t, order.Items[0].UnitPrice.Equal(decimal.NewFromInt(1000)))
	assert.True(t, order.Subtotal.Equal(decimal.NewFromInt(2000)))
}

func TestCreateOrder_GatewayFailureLeavesLocalStateUntouched(t *testing.T) {
	gw := &mockOrderGateway{createErr: errors.New("order service down")}
	svc := NewOrderService(gw, zap.NewNop())

	_, err := svc.CreateOrder(context.Background(), OrderRequest{Items: orderLineItems(1000, 1)})
	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.Empty(t, svc.Orders())
}

func TestCancelOrder_ServerConfirmed(t *testing.T) {
	gw := &mockOrderGateway{}
	svc := NewOrderService(gw, zap.NewNop())

	order, err := svc.CreateOrder(context.Background(), OrderRequest{Items: orderLineItems(1000, 1)})
	require.NoError(t, err)

	cancelled, err := svc.CancelOrder(context.Background(), order.ID, "changed my mind")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, cancelled.Status)

	orders := svc.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, domain.OrderStatusCancelled, orders[0].Status)
}

func TestCancelOrder_FailureKeepsLocalStatus(t *testing.T) {
	gw := &mockOrderGateway{}
	svc := NewOrderService(gw, zap.NewNop())

	order, err := svc.CreateOrder(context.Background(), OrderRequest{Items: orderLineItems(1000, 1)})
	require.NoError(t, err)

	gw.cancelErr = errors.New("order service down")
	_, err = svc.CancelOrder(context.Background(), order.ID, "")
	assert.ErrorIs(t, err, ErrRequestFailed)

	// Never cancelled optimistically.
	assert.Equal(t, domain.OrderStatusPending, svc.Orders()[0].Status)
}

func TestCancelOrder_NotFound(t *testing.T) {
	svc := NewOrderService(&mockOrderGateway{}, zap.NewNop())

	_, err := svc.CancelOrder(context.Background(), "missing", "")
	assert.ErrorIs(t, err, port.ErrOrderNotFound)
}

func TestFetchOrders_SortsNewestFirst(t *testing.T) {
	now := time.Now()
	gw := &mockOrderGateway{listed: []domain.Order{
		{ID: "old", Status: domain.OrderStatusDelivered, CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "new", Status: domain.OrderStatusPending, CreatedAt: now},
		{ID: "mid", Status: domain.OrderStatusCancelled, CreatedAt: now.Add(-time.Hour)},
	}}
	svc := NewOrderService(gw, zap.NewNop())

	orders, err := svc.FetchOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, "new", orders[0].ID)
	assert.Equal(t, "mid", orders[1].ID)
	assert.Equal(t, "old", orders[2].ID)
}

func TestOrderFilters(t *testing.T) {
	gw := &mockOrderGateway{listed: []domain.Order{
		{ID: "a", Status: domain.OrderStatusPending},
		{ID: "b", Status: domain.OrderStatusDelivered},
		{ID: "c", Status: domain.OrderStatusCancelled},
		{ID: "d", Status: domain.OrderStatusReturned},
		{ID: "e", Status: domain.OrderStatusShipped},
	}}
	svc := NewOrderService(gw, zap.NewNop())

	_, err := svc.FetchOrders(context.Background())
	require.NoError(t, err)

	assert.Len(t, svc.ActiveOrders(), 2)
	assert.Len(t, svc.CompletedOrders(), 1)
	assert.Len(t, svc.CancelledOrders(), 2)
}

func TestTrackOrder(t *testing.T) {
	gw := &mockOrderGateway{}
	svc := NewOrderService(gw, zap.NewNop())

	order, err := svc.CreateOrder(context.Background(), OrderRequest{Items: orderLineItems(1000, 1)})
	require.NoError(t, err)

	info, err := svc.TrackOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, "TRK-1", info.TrackingNumber)

	_, err = svc.TrackOrder(context.Background(), "missing")
	assert.ErrorIs(t, err, port.ErrOrderNotFound)
}
