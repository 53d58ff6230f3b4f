package service

import "errors"

var (
	ErrStockExceeded = errors.New("requested quantity exceeds available stock")
	ErrInvalidCode   = errors.New("promo code is invalid or expired")
	ErrMinimumNotMet = errors.New("subtotal below promo code minimum")
	ErrRequestFailed = errors.New("remote service request failed")
	ErrEmptyCart     = errors.New("cart is empty, nothing to order")
)
