package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/core/service"
	"github.com/rl1809/storefront/internal/port"
)

// HTTPHandler exposes the cart engine and order pipeline over HTTP.
// Expected failures surface as a success/message descriptor, never as an
// unhandled fault.
type HTTPHandler struct {
	cart    *service.CartService
	orders  *service.OrderService
	catalog port.ProductCatalog
	logger  *zap.Logger
}

func NewHTTPHandler(cart *service.CartService, orders *service.OrderService, catalog port.ProductCatalog, logger *zap.Logger) *HTTPHandler {
	return &HTTPHandler{cart: cart, orders: orders, catalog: catalog, logger: logger}
}

// Routes mounts every endpoint on a chi router.
func (h *HTTPHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", h.HealthCheck)

	r.Route("/api/cart", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Delete("/", h.ClearCart)
		r.Post("/items", h.AddItem)
		r.Patch("/items/{id}", h.SetQuantity)
		r.Delete("/items/{id}", h.RemoveItem)
		r.Post("/promo-code", h.ApplyPromoCode)
		r.Delete("/promo-code", h.RemovePromoCode)
	})

	r.Route("/api/orders", func(r chi.Router) {
		r.Get("/", h.ListOrders)
		r.Post("/", h.Checkout)
		r.Get("/{id}", h.GetOrder)
		r.Post("/{id}/cancel", h.CancelOrder)
		r.Get("/{id}/tracking", h.TrackOrder)
	})

	return r
}

type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type cartView struct {
	Items  []domain.LineItem `json:"items"`
	Promo  *domain.PromoCode `json:"promoCode,omitempty"`
	Totals domain.CartTotals `json:"totals"`
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: h.cartView()})
}

type addItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
}

func (h *HTTPHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Message: "invalid request body"})
		return
	}
	if req.ProductID == "" || req.Quantity <= 0 {
		writeJSON(w, http.StatusBadRequest, apiResponse{Message: "missing required fields"})
		return
	}

	product, err := h.catalog.FetchProduct(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, port.ErrProductNotFound) {
			writeJSON(w, http.StatusNotFound, apiResponse{Message: "product not found"})
			return
		}
		h.writeError(w, err)
		return
	}

	item, err := h.cart.AddItem(r.Context(), *product, req.Quantity, domain.VariantOptions{Size: req.Size, Color: req.Color})
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: item})
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *HTTPHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	var req setQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Message: "invalid request body"})
		return
	}

	if err := h.cart.SetQuantity(r.Context(), chi.URLParam(r, "id"), req.Quantity); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: h.cartView()})
}

func (h *HTTPHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.cart.RemoveItem(r.Context(), chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: h.cartView()})
}

func (h *HTTPHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.cart.Clear(r.Context())
	writeJSON(w, http.StatusOK, apiResponse{Success: true})
}

type applyPromoRequest struct {
	Code string `json:"code"`
}

func (h *HTTPHandler) ApplyPromoCode(w http.ResponseWriter, r *http.Request) {
	var req applyPromoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		writeJSON(w, http.StatusBadRequest, apiResponse{Message: "missing promo code"})
		return
	}

	promo, err := h.cart.ApplyPromoCode(r.Context(), req.Code)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: promo})
}

func (h *HTTPHandler) RemovePromoCode(w http.ResponseWriter, r *http.Request) {
	h.cart.RemovePromoCode(r.Context())
	writeJSON(w, http.StatusOK, apiResponse{Success: true})
}

type checkoutRequest struct {
	ShippingAddress domain.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   domain.PaymentMethod   `json:"paymentMethod"`
	Notes           string                 `json:"notes,omitempty"`
}

// Checkout snapshots the cart into an order. The cart is cleared only
// after the order service confirms creation.
func (h *HTTPHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Message: "invalid request body"})
		return
	}

	order, err := h.orders.CreateOrder(r.Context(), service.OrderRequest{
		Items:           h.cart.Items(),
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		PromoCode:       h.cart.AppliedPromo(),
		Notes:           req.Notes,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.cart.Clear(r.Context())
	writeJSON(w, http.StatusCreated, apiResponse{Success: true, Data: order})
}

func (h *HTTPHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.FetchOrders(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: orders})
}

func (h *HTTPHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: order})
}

type cancelOrderRequest struct {
	Reason string `json:"reason,omitempty"`
}

func (h *HTTPHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	var req cancelOrderRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	order, err := h.orders.CancelOrder(r.Context(), chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: order})
}

func (h *HTTPHandler) TrackOrder(w http.ResponseWriter, r *http.Request) {
	info, err := h.orders.TrackOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: info})
}

func (h *HTTPHandler) cartView() cartView {
	return cartView{
		Items:  h.cart.Items(),
		Promo:  h.cart.AppliedPromo(),
		Totals: h.cart.Totals(),
	}
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, service.ErrStockExceeded):
		status = http.StatusConflict
	case errors.Is(err, service.ErrInvalidCode), errors.Is(err, service.ErrMinimumNotMet):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrEmptyCart):
		status = http.StatusBadRequest
	case errors.Is(err, port.ErrOrderNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrRequestFailed):
		status = http.StatusBadGateway
	default:
		h.logger.Error("unexpected handler error", zap.Error(err))
	}
	writeJSON(w, status, apiResponse{Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
