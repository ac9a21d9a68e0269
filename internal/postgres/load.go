package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dukerupert/shopapi/internal/fixtures"
)

// Load upserts the reference data of d and creates its customers unless they
// exist. Reviews are only seeded into an empty table.
func (s *Store) Load(ctx context.Context, d *fixtures.Data) error {
	return s.WithinTx(ctx, func(ctx context.Context) error {
		db := s.db(ctx)

		upsert := func(table, code string, v any) error {
			data, err := json.Marshal(v)
			if err != nil {
				return fmt.Errorf("failed to encode %s %s: %w", table, code, err)
			}
			_, err = db.Exec(ctx,
				`INSERT INTO `+table+` (code, data) VALUES ($1, $2)
				 ON CONFLICT (code) DO UPDATE SET data = EXCLUDED.data`, code, data)
			if err != nil {
				return fmt.Errorf("failed to upsert %s %s: %w", table, code, err)
			}
			return nil
		}
		ordered := func(table, column, code string, order int, v any) error {
			if err := upsert(table, code, v); err != nil {
				return err
			}
			_, err := db.Exec(ctx, `UPDATE `+table+` SET `+column+` = $2 WHERE code = $1`, code, order)
			return err
		}

		for _, c := range d.Channels {
			if err := upsert("channels", c.Code, c); err != nil {
				return err
			}
		}
		for _, c := range d.Countries {
			if err := upsert("countries", c.Code, c); err != nil {
				return err
			}
		}
		for _, z := range d.Zones {
			if err := upsert("zones", z.Code, z); err != nil {
				return err
			}
		}
		for _, m := range d.ShippingMethods {
			if err := ordered("shipping_methods", "position", m.Code, m.Position, m); err != nil {
				return err
			}
		}
		for _, m := range d.PaymentMethods {
			if err := ordered("payment_methods", "position", m.Code, m.Position, m); err != nil {
				return err
			}
		}
		for _, r := range d.TaxRates {
			if err := upsert("tax_rates", r.Code, r); err != nil {
				return err
			}
		}
		for _, p := range d.Products {
			if err := upsert("products", p.Code, p); err != nil {
				return err
			}
			for _, v := range p.Variants {
				_, err := db.Exec(ctx,
					`INSERT INTO product_variants (code, product_code) VALUES ($1, $2)
					 ON CONFLICT (code) DO UPDATE SET product_code = EXCLUDED.product_code`, v.Code, p.Code)
				if err != nil {
					return fmt.Errorf("failed to upsert variant %s: %w", v.Code, err)
				}
			}
		}
		for _, p := range d.Promotions {
			if err := ordered("promotions", "priority", p.Code, p.Priority, p); err != nil {
				return err
			}
		}
		for _, c := range d.Coupons {
			if err := upsert("coupons", c.Code, c); err != nil {
				return err
			}
		}

		var reviews int
		if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM product_reviews`).Scan(&reviews); err != nil {
			return fmt.Errorf("failed to count reviews: %w", err)
		}
		if reviews == 0 {
			for i := range d.Reviews {
				if err := s.AddReview(ctx, &d.Reviews[i]); err != nil {
					return fmt.Errorf("failed to add review: %w", err)
				}
			}
		}

		return fixtures.LoadCustomers(ctx, d, s)
	})
}
