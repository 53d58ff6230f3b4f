package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusReturned   OrderStatus = "returned"
)

// Active reports whether the order still requires fulfilment.
func (s OrderStatus) Active() bool {
	switch s {
	case OrderStatusDelivered, OrderStatusCancelled, OrderStatusReturned:
		return false
	}
	return true
}

// OrderItem is an immutable snapshot of a cart line item. UnitPrice is the
// effective price captured at order-creation time; later catalog price
// changes never touch it.
type OrderItem struct {
	ID            string          `json:"id"`
	Product       Product         `json:"product"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"price"`
	SelectedSize  string          `json:"selectedSize,omitempty"`
	SelectedColor string          `json:"selectedColor,omitempty"`
}

type ShippingAddress struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Phone      string `json:"phone"`
	Email      string `json:"email,omitempty"`
	Country    string `json:"country"`
	City       string `json:"city"`
	Address    string `json:"address"`
	PostalCode string `json:"postalCode"`
}

type PaymentType string

const (
	PaymentCard   PaymentType = "card"
	PaymentCash   PaymentType = "cash"
	PaymentOnline PaymentType = "online"
)

type PaymentMethod struct {
	ID         string      `json:"id,omitempty"`
	Type       PaymentType `json:"type"`
	CardNumber string      `json:"cardNumber,omitempty"`
	CardHolder string      `json:"cardHolder,omitempty"`
}

type Order struct {
	ID                string          `json:"id"`
	OrderNumber       string          `json:"orderNumber,omitempty"`
	Status            OrderStatus     `json:"status"`
	Items             []OrderItem     `json:"items"`
	ShippingAddress   ShippingAddress `json:"shippingAddress"`
	PaymentMethod     PaymentMethod   `json:"paymentMethod"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	Discount          decimal.Decimal `json:"discount"`
	Shipping          decimal.Decimal `json:"shipping"`
	Total             decimal.Decimal `json:"total"`
	PromoCode         string          `json:"promoCode,omitempty"`
	TrackingNumber    string          `json:"trackingNumber,omitempty"`
	EstimatedDelivery string          `json:"estimatedDelivery,omitempty"`
	Notes             string          `json:"notes,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

type TrackingInfo struct {
	OrderID           string      `json:"orderId"`
	TrackingNumber    string      `json:"trackingNumber"`
	Status            OrderStatus `json:"status"`
	EstimatedDelivery string      `json:"estimatedDelivery,omitempty"`
	UpdatedAt         time.Time   `json:"updatedAt"`
}

// BuildOrder snapshots cart line items into a pending order draft.
// Subtotal, shipping and discount are recomputed from the captured unit
// prices using the same rules the cart applies.
func BuildOrder(items []LineItem, promo *PromoCode, addr ShippingAddress, payment PaymentMethod, notes string) Order {
	orderItems := make([]OrderItem, 0, len(items))
	subtotal := decimal.Zero
	count := 0

	for _, li := range items {
		oi := OrderItem{
			ID:            li.ID,
			Product:       li.Product,
			Quantity:      li.Quantity,
			UnitPrice:     li.Product.EffectivePrice(),
			SelectedSize:  li.SelectedSize,
			SelectedColor: li.SelectedColor,
		}
		orderItems = append(orderItems, oi)
		subtotal = subtotal.Add(oi.UnitPrice.Mul(decimal.NewFromInt(int64(oi.Quantity))))
		count += oi.Quantity
	}

	totals := totalsFor(subtotal, count, promo, len(orderItems) == 0)

	order := Order{
		Status:          OrderStatusPending,
		Items:           orderItems,
		ShippingAddress: addr,
		PaymentMethod:   payment,
		Subtotal:        totals.Subtotal,
		Discount:        totals.Discount,
		Shipping:        totals.Shipping,
		Total:           totals.Total,
		Notes:           notes,
	}
	if promo != nil {
		order.PromoCode = promo.Code
	}
	return order
}
