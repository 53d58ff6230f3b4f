package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Shipping rules shared by the cart and the order snapshot.
var (
	FreeShippingThreshold = decimal.NewFromInt(3000)
	ShippingFee           = decimal.NewFromInt(300)
)

type VariantOptions struct {
	Size  string `json:"size,omitempty"`
	Color string `json:"color,omitempty"`
}

type LineItem struct {
	ID            string    `json:"id"`
	Product       Product   `json:"product"`
	Quantity      int       `json:"quantity"`
	SelectedSize  string    `json:"selectedSize,omitempty"`
	SelectedColor string    `json:"selectedColor,omitempty"`
	AddedAt       time.Time `json:"addedAt"`
}

// Matches reports whether the line item holds the same product variant.
// (productID, size, color) is the uniqueness key within a cart.
func (li LineItem) Matches(productID string, opts VariantOptions) bool {
	return li.Product.ID == productID &&
		li.SelectedSize == opts.Size &&
		li.SelectedColor == opts.Color
}

func (li LineItem) LineTotal() decimal.Decimal {
	return li.Product.EffectivePrice().Mul(decimal.NewFromInt(int64(li.Quantity)))
}

type CartTotals struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	Discount  decimal.Decimal `json:"discount"`
	Shipping  decimal.Decimal `json:"shipping"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
}

func Subtotal(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, li := range items {
		sum = sum.Add(li.LineTotal())
	}
	return sum
}

func ItemCount(items []LineItem) int {
	count := 0
	for _, li := range items {
		count += li.Quantity
	}
	return count
}

// ComputeTotals derives the full totals breakdown from the current line
// items and the active promo code. Totals are never stored, always derived.
func ComputeTotals(items []LineItem, promo *PromoCode) CartTotals {
	return totalsFor(Subtotal(items), ItemCount(items), promo, len(items) == 0)
}

func totalsFor(subtotal decimal.Decimal, itemCount int, promo *PromoCode, empty bool) CartTotals {
	discount := decimal.Zero
	if promo != nil {
		discount = promo.DiscountFor(subtotal)
	}

	shipping := decimal.Zero
	if !empty && subtotal.LessThan(FreeShippingThreshold) {
		shipping = ShippingFee
	}

	total := subtotal.Sub(discount).Add(shipping)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return CartTotals{
		Subtotal:  subtotal,
		Discount:  discount,
		Shipping:  shipping,
		Total:     total,
		ItemCount: itemCount,
	}
}
