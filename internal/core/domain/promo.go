package domain

import "github.com/shopspring/decimal"

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// PromoCode is a discount rule validated by the remote promo service.
// MinAmount and MaxDiscount are optional; a zero value means unset.
type PromoCode struct {
	Code          string          `json:"code"`
	DiscountType  DiscountType    `json:"type"`
	DiscountValue decimal.Decimal `json:"discount"`
	MinAmount     decimal.Decimal `json:"minAmount,omitempty"`
	MaxDiscount   decimal.Decimal `json:"maxDiscount,omitempty"`
}

func (p PromoCode) MeetsMinimum(subtotal decimal.Decimal) bool {
	return !p.MinAmount.IsPositive() || subtotal.GreaterThanOrEqual(p.MinAmount)
}

// DiscountFor computes the discount amount against a subtotal.
// Percentage discounts are capped at MaxDiscount when set; the result
// never exceeds the subtotal itself.
func (p PromoCode) DiscountFor(subtotal decimal.Decimal) decimal.Decimal {
	var amount decimal.Decimal

	switch p.DiscountType {
	case DiscountPercentage:
		amount = subtotal.Mul(p.DiscountValue).Div(decimal.NewFromInt(100))
		if p.MaxDiscount.IsPositive() {
			amount = decimal.Min(amount, p.MaxDiscount)
		}
	case DiscountFixed:
		amount = p.DiscountValue
	default:
		return decimal.Zero
	}

	return decimal.Min(amount, subtotal)
}
