package domain

import (
	"context"
	"time"
)

// =============================================================================
// PROMOTION DOMAIN ERRORS
// =============================================================================

var (
	ErrPromotionNotFound = &Error{Code: ENOTFOUND, Message: "Promotion not found"}
	ErrCouponNotFound    = &Error{Code: ENOTFOUND, Message: "Coupon not found"}
)

// Promotion rule types.
const (
	RuleItemTotal     = "item_total"
	RuleCustomerGroup = "customer_group"
	RuleCartQuantity  = "cart_quantity"
	RuleNthOrder      = "nth_order"
)

// Promotion action types.
const (
	ActionOrderFixedDiscount      = "order_fixed_discount"
	ActionOrderPercentageDiscount = "order_percentage_discount"
)

// Promotion is a discount granted to orders satisfying all of its rules.
// Coupon based promotions apply only to orders carrying one of their coupons.
type Promotion struct {
	Code        string            `json:"code" yaml:"code"`
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description,omitempty" yaml:"description"`
	Priority    int               `json:"priority" yaml:"priority"`
	Exclusive   bool              `json:"exclusive" yaml:"exclusive"`
	CouponBased bool              `json:"couponBased" yaml:"couponBased"`
	UsageLimit  *int              `json:"usageLimit,omitempty" yaml:"usageLimit"`
	Used        int               `json:"used" yaml:"used"`
	StartsAt    *time.Time        `json:"startsAt,omitempty" yaml:"startsAt"`
	EndsAt      *time.Time        `json:"endsAt,omitempty" yaml:"endsAt"`
	Channels    []string          `json:"channels" yaml:"channels"`
	Rules       []PromotionRule   `json:"rules,omitempty" yaml:"rules"`
	Actions     []PromotionAction `json:"actions" yaml:"actions"`
}

// PromotionRule is an eligibility condition.
//   - item_total: Amount[channel] is the minimal items total
//   - customer_group: Group is the required customer group
//   - cart_quantity: Count is the minimal number of units
//   - nth_order: Count is the position of the order among the customer's
//     placed orders, 1 for the first
type PromotionRule struct {
	Type   string           `json:"type" yaml:"type"`
	Amount map[string]int64 `json:"amount,omitempty" yaml:"amount"`
	Group  string           `json:"group,omitempty" yaml:"group"`
	Count  int              `json:"count,omitempty" yaml:"count"`
}

// PromotionAction is the discount granted.
//   - order_fixed_discount: Amount[channel] off the items total
//   - order_percentage_discount: Percentage (0.1 for 10%) off the items total
type PromotionAction struct {
	Type       string           `json:"type" yaml:"type"`
	Amount     map[string]int64 `json:"amount,omitempty" yaml:"amount"`
	Percentage float64          `json:"percentage,omitempty" yaml:"percentage"`
}

// IsActive reports whether the promotion runs in the channel at now and has
// usages left.
func (p *Promotion) IsActive(channelCode string, now time.Time) bool {
	if !contains(p.Channels, channelCode) {
		return false
	}
	if p.StartsAt != nil && now.Before(*p.StartsAt) {
		return false
	}
	if p.EndsAt != nil && now.After(*p.EndsAt) {
		return false
	}
	if p.UsageLimit != nil && p.Used >= *p.UsageLimit {
		return false
	}
	return true
}

// Coupon unlocks a coupon based promotion.
type Coupon struct {
	Code          string     `json:"code" yaml:"code"`
	PromotionCode string     `json:"promotion" yaml:"promotion"`
	UsageLimit    *int       `json:"usageLimit,omitempty" yaml:"usageLimit"`
	Used          int        `json:"used" yaml:"used"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty" yaml:"expiresAt"`
}

// IsUsable reports whether the coupon has not expired and has usages left.
func (c *Coupon) IsUsable(now time.Time) bool {
	if c.ExpiresAt != nil && now.After(*c.ExpiresAt) {
		return false
	}
	if c.UsageLimit != nil && c.Used >= *c.UsageLimit {
		return false
	}
	return true
}

// PromotionRepository persists promotions and coupons.
type PromotionRepository interface {
	// ListPromotions returns all promotions ordered by descending priority.
	ListPromotions(ctx context.Context) ([]Promotion, error)

	// FindPromotion returns ErrPromotionNotFound when code is unknown.
	FindPromotion(ctx context.Context, code string) (*Promotion, error)

	// FindCoupon returns ErrCouponNotFound when code is unknown.
	FindCoupon(ctx context.Context, code string) (*Coupon, error)

	// IncrementUsage records one use of each promotion code and, when
	// couponCode is not empty, of the coupon.
	IncrementUsage(ctx context.Context, promotionCodes []string, couponCode string) error
}
