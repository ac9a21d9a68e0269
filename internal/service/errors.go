package service

import (
	"github.com/dukerupert/shopapi/internal/domain"
)

// Cart errors
var (
	ErrCouponInvalid     = domain.Invalid("", "Coupon is not valid")
	ErrProductNotInStore = domain.Invalid("", "Product is not available in this channel")
	ErrVariantNotPriced  = domain.Invalid("", "Product variant has no price in this channel")
	ErrPaymentMethodGone = domain.Invalid("", "Payment method is not available")
)

// Checkout errors
var (
	ErrEstimateAddress = domain.Invalid("", "Country code is required to estimate shipping")
)
