package memory

import (
	"context"
	"sort"

	"github.com/dukerupert/shopapi/internal/domain"
)

func (s *Store) FindChannel(ctx context.Context, code string) (*domain.Channel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.data.channels[code]
	if !ok || !c.Enabled {
		return nil, domain.ErrChannelNotFound
	}
	return &c, nil
}

func (s *Store) FindCountry(ctx context.Context, code string) (*domain.Country, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.data.countries[code]
	if !ok || !c.Enabled {
		return nil, domain.ErrCountryNotFound
	}
	return &c, nil
}

func (s *Store) ListZones(ctx context.Context) ([]domain.Zone, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]domain.Zone(nil), s.data.zones...), nil
}

func (s *Store) ListShippingMethods(ctx context.Context) ([]domain.ShippingMethod, error) {
	s.mu.RLock()
	out := append([]domain.ShippingMethod(nil), s.data.shippingMethods...)
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (s *Store) ListPaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error) {
	s.mu.RLock()
	out := append([]domain.PaymentMethod(nil), s.data.paymentMethods...)
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (s *Store) ListTaxRates(ctx context.Context) ([]domain.TaxRate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]domain.TaxRate(nil), s.data.taxRates...), nil
}
