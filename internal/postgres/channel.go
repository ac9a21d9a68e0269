package postgres

import (
	"context"

	"github.com/dukerupert/shopapi/internal/domain"
)

func (s *Store) FindChannel(ctx context.Context, code string) (*domain.Channel, error) {
	c, err := findDocument[domain.Channel](ctx, s.db(ctx), domain.ErrChannelNotFound,
		`SELECT data FROM channels WHERE code = $1`, code)
	if err != nil {
		return nil, err
	}
	if !c.Enabled {
		return nil, domain.ErrChannelNotFound
	}
	return c, nil
}

func (s *Store) FindCountry(ctx context.Context, code string) (*domain.Country, error) {
	c, err := findDocument[domain.Country](ctx, s.db(ctx), domain.ErrCountryNotFound,
		`SELECT data FROM countries WHERE code = $1`, code)
	if err != nil {
		return nil, err
	}
	if !c.Enabled {
		return nil, domain.ErrCountryNotFound
	}
	return c, nil
}

func (s *Store) ListZones(ctx context.Context) ([]domain.Zone, error) {
	return listDocuments[domain.Zone](ctx, s.db(ctx), `SELECT data FROM zones ORDER BY code`)
}

func (s *Store) ListShippingMethods(ctx context.Context) ([]domain.ShippingMethod, error) {
	return listDocuments[domain.ShippingMethod](ctx, s.db(ctx),
		`SELECT data FROM shipping_methods ORDER BY position, code`)
}

func (s *Store) ListPaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error) {
	return listDocuments[domain.PaymentMethod](ctx, s.db(ctx),
		`SELECT data FROM payment_methods ORDER BY position, code`)
}

func (s *Store) ListTaxRates(ctx context.Context) ([]domain.TaxRate, error) {
	return listDocuments[domain.TaxRate](ctx, s.db(ctx), `SELECT data FROM tax_rates ORDER BY code`)
}
