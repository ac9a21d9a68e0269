package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/shopapi/internal/domain"
)

// CouponStatus is the result of checking a coupon against a cart.
type CouponStatus int

const (
	CouponValid CouponStatus = iota
	CouponNotFound
	CouponUnusable          // expired or used up
	CouponPromotionInactive // promotion ended, used up or not in the channel
	CouponNotEligible       // cart does not satisfy the promotion rules
)

// CheckCoupon reports whether code can be applied to the order.
func (p *Processor) CheckCoupon(ctx context.Context, order *domain.Order, code string) (CouponStatus, error) {
	coupon, err := p.promotions.FindCoupon(ctx, code)
	if errors.Is(err, domain.ErrCouponNotFound) {
		return CouponNotFound, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load coupon: %w", err)
	}

	now := p.now()
	if !coupon.IsUsable(now) {
		return CouponUnusable, nil
	}

	promotion, err := p.promotions.FindPromotion(ctx, coupon.PromotionCode)
	if errors.Is(err, domain.ErrPromotionNotFound) {
		return CouponPromotionInactive, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load promotion: %w", err)
	}
	if !promotion.CouponBased || !promotion.IsActive(order.ChannelCode, now) {
		return CouponPromotionInactive, nil
	}

	eligible, err := p.rulesSatisfied(ctx, order, promotion)
	if err != nil {
		return 0, err
	}
	if !eligible {
		return CouponNotEligible, nil
	}
	return CouponValid, nil
}

// processPromotions re-applies every eligible promotion. When an exclusive
// promotion applies, it is the only one.
func (p *Processor) processPromotions(ctx context.Context, order *domain.Order) error {
	order.RemoveAdjustments(domain.AdjustmentPromotion)
	if order.IsEmpty() {
		return nil
	}

	promotions, err := p.promotions.ListPromotions(ctx)
	if err != nil {
		return fmt.Errorf("failed to list promotions: %w", err)
	}

	var eligible []*domain.Promotion
	for i := range promotions {
		ok, err := p.isEligible(ctx, order, &promotions[i])
		if err != nil {
			return err
		}
		if ok {
			eligible = append(eligible, &promotions[i])
		}
	}

	for _, promo := range eligible {
		if promo.Exclusive {
			p.apply(order, promo)
			return nil
		}
	}
	for _, promo := range eligible {
		p.apply(order, promo)
	}
	return nil
}

func (p *Processor) isEligible(ctx context.Context, order *domain.Order, promo *domain.Promotion) (bool, error) {
	now := p.now()
	if !promo.IsActive(order.ChannelCode, now) {
		return false, nil
	}

	if promo.CouponBased {
		if order.CouponCode == "" {
			return false, nil
		}
		coupon, err := p.promotions.FindCoupon(ctx, order.CouponCode)
		if errors.Is(err, domain.ErrCouponNotFound) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("failed to load coupon: %w", err)
		}
		if coupon.PromotionCode != promo.Code || !coupon.IsUsable(now) {
			return false, nil
		}
	}

	return p.rulesSatisfied(ctx, order, promo)
}

func (p *Processor) rulesSatisfied(ctx context.Context, order *domain.Order, promo *domain.Promotion) (bool, error) {
	for _, rule := range promo.Rules {
		switch rule.Type {
		case domain.RuleItemTotal:
			if order.ItemsTotal() < rule.Amount[order.ChannelCode] {
				return false, nil
			}
		case domain.RuleCartQuantity:
			if order.TotalQuantity() < rule.Count {
				return false, nil
			}
		case domain.RuleCustomerGroup:
			if order.CustomerID == nil {
				return false, nil
			}
			customer, err := p.customers.FindCustomer(ctx, *order.CustomerID)
			if errors.Is(err, domain.ErrCustomerNotFound) {
				return false, nil
			}
			if err != nil {
				return false, fmt.Errorf("failed to load customer: %w", err)
			}
			if customer.GroupCode != rule.Group {
				return false, nil
			}
		case domain.RuleNthOrder:
			ok, err := p.isNthOrder(ctx, order, rule.Count)
			if err != nil || !ok {
				return false, err
			}
		default:
			return false, nil
		}
	}
	return true, nil
}

// isNthOrder reports whether the order would be the customer's nth placed
// order.
func (p *Processor) isNthOrder(ctx context.Context, order *domain.Order, nth int) (bool, error) {
	if nth < 1 || order.CustomerID == nil || p.orders == nil {
		return false, nil
	}
	placed, err := p.orders.ListPlaced(ctx, *order.CustomerID)
	if err != nil {
		return false, fmt.Errorf("failed to count placed orders: %w", err)
	}
	return len(placed) == nth-1, nil
}

// apply adds the promotion's discounts. The discounted base never drops
// below zero.
func (p *Processor) apply(order *domain.Order, promo *domain.Promotion) {
	for _, action := range promo.Actions {
		base := order.ItemsTotal() + order.AdjustmentsTotal(domain.AdjustmentPromotion)
		if base <= 0 {
			return
		}

		var discount int64
		switch action.Type {
		case domain.ActionOrderFixedDiscount:
			discount = action.Amount[order.ChannelCode]
		case domain.ActionOrderPercentageDiscount:
			discount = decimal.NewFromInt(base).
				Mul(decimal.NewFromFloat(action.Percentage)).
				Round(0).
				IntPart()
		}
		if discount > base {
			discount = base
		}

		order.AddAdjustment(domain.Adjustment{
			Type:       domain.AdjustmentPromotion,
			Label:      promo.Name,
			OriginCode: promo.Code,
			Amount:     -discount,
		})
	}
}
