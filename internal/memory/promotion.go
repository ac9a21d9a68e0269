package memory

import (
	"context"
	"sort"

	"github.com/dukerupert/shopapi/internal/domain"
)

func (s *Store) ListPromotions(ctx context.Context) ([]domain.Promotion, error) {
	s.mu.RLock()
	out := make([]domain.Promotion, 0, len(s.data.promotions))
	for _, p := range s.data.promotions {
		out = append(out, p)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].Code < out[j].Code
	})
	return out, nil
}

func (s *Store) FindPromotion(ctx context.Context, code string) (*domain.Promotion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.data.promotions[code]
	if !ok {
		return nil, domain.ErrPromotionNotFound
	}
	return &p, nil
}

func (s *Store) FindCoupon(ctx context.Context, code string) (*domain.Coupon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.data.coupons[code]
	if !ok {
		return nil, domain.ErrCouponNotFound
	}
	return &c, nil
}

func (s *Store) IncrementUsage(ctx context.Context, promotionCodes []string, couponCode string) error {
	unlock := s.write(ctx)
	defer unlock()

	for _, code := range promotionCodes {
		p, ok := s.data.promotions[code]
		if !ok {
			return domain.ErrPromotionNotFound
		}
		p.Used++
		s.data.promotions[code] = p
	}

	if couponCode != "" {
		c, ok := s.data.coupons[couponCode]
		if !ok {
			return domain.ErrCouponNotFound
		}
		c.Used++
		s.data.coupons[couponCode] = c
	}
	return nil
}
