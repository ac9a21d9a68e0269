package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dukerupert/shopapi/internal/domain"
)

func (s *Store) ListPromotions(ctx context.Context) ([]domain.Promotion, error) {
	return listDocuments[domain.Promotion](ctx, s.db(ctx),
		`SELECT data FROM promotions ORDER BY priority DESC, code`)
}

func (s *Store) FindPromotion(ctx context.Context, code string) (*domain.Promotion, error) {
	return findDocument[domain.Promotion](ctx, s.db(ctx), domain.ErrPromotionNotFound,
		`SELECT data FROM promotions WHERE code = $1`, code)
}

func (s *Store) FindCoupon(ctx context.Context, code string) (*domain.Coupon, error) {
	return findDocument[domain.Coupon](ctx, s.db(ctx), domain.ErrCouponNotFound,
		`SELECT data FROM coupons WHERE code = $1`, code)
}

// IncrementUsage bumps the usage counters inside the stored documents.
func (s *Store) IncrementUsage(ctx context.Context, promotionCodes []string, couponCode string) error {
	return s.WithinTx(ctx, func(ctx context.Context) error {
		db := s.db(ctx)
		for _, code := range promotionCodes {
			p, err := findDocument[domain.Promotion](ctx, db, domain.ErrPromotionNotFound,
				`SELECT data FROM promotions WHERE code = $1 FOR UPDATE`, code)
			if err != nil {
				return err
			}
			p.Used++
			if err := updateDocument(ctx, db, "promotions", code, p); err != nil {
				return err
			}
		}

		if couponCode == "" {
			return nil
		}
		c, err := findDocument[domain.Coupon](ctx, db, domain.ErrCouponNotFound,
			`SELECT data FROM coupons WHERE code = $1 FOR UPDATE`, couponCode)
		if err != nil {
			return err
		}
		c.Used++
		return updateDocument(ctx, db, "coupons", couponCode, c)
	})
}

func updateDocument(ctx context.Context, db querier, table, code string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s %s: %w", table, code, err)
	}
	// table is never user input.
	if _, err := db.Exec(ctx, `UPDATE `+table+` SET data = $2 WHERE code = $1`, code, data); err != nil {
		return fmt.Errorf("failed to update %s %s: %w", table, code, err)
	}
	return nil
}
