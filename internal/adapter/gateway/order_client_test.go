package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

func TestCreate_ReturnsServerConfirmedOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/orders", r.URL.Path)

		var draft domain.Order
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&draft))
		assert.Equal(t, domain.OrderStatusPending, draft.Status)

		draft.ID = "order-1"
		draft.OrderNumber = "AI-2026-042"
		draft.CreatedAt = time.Now()
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(draft)
	}))
	defer srv.Close()

	client := NewOrderClient(NewClient(srv.URL, zap.NewNop()))

	draft := domain.BuildOrder(
		[]domain.LineItem{{
			ID:       "li-1",
			Product:  domain.Product{ID: "p-1", Price: decimal.NewFromInt(5000), StockQuantity: 10},
			Quantity: 1,
		}},
		nil, domain.ShippingAddress{City: "Moscow"}, domain.PaymentMethod{Type: domain.PaymentCard}, "")

	order, err := client.Create(context.Background(), draft)
	require.NoError(t, err)
	assert.Equal(t, "order-1", order.ID)
	assert.Equal(t, "AI-2026-042", order.OrderNumber)
	assert.True(t, order.Total.Equal(decimal.NewFromInt(5000)))
}

func TestCancel_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such order", http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewOrderClient(NewClient(srv.URL, zap.NewNop()))

	_, err := client.Cancel(context.Background(), "missing", "reason")
	assert.ErrorIs(t, err, port.ErrOrderNotFound)
}

func TestList_DecodesOrders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]domain.Order{
			{ID: "a", Status: domain.OrderStatusShipped},
			{ID: "b", Status: domain.OrderStatusDelivered},
		})
	}))
	defer srv.Close()

	client := NewOrderClient(NewClient(srv.URL, zap.NewNop()))

	orders, err := client.List(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, domain.OrderStatusShipped, orders[0].Status)
}

func TestTrack_DecodesTrackingInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/orders/order-1/tracking", r.URL.Path)
		json.NewEncoder(w).Encode(domain.TrackingInfo{
			OrderID:        "order-1",
			TrackingNumber: "AI123456789",
			Status:         domain.OrderStatusShipped,
		})
	}))
	defer srv.Close()

	client := NewOrderClient(NewClient(srv.URL, zap.NewNop()))

	info, err := client.Track(context.Background(), "order-1")
	require.NoError(t, err)
	assert.Equal(t, "AI123456789", info.TrackingNumber)
}
