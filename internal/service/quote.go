package service

import (
	"context"
	"fmt"

	"github.com/dukerupert/shopapi/internal/domain"
	"github.com/dukerupert/shopapi/internal/shipping"
)

// ShippingQuote is a shipping method with its price for an order.
type ShippingQuote struct {
	Method domain.ShippingMethod
	Price  int64
}

// EstimateShippingCost prices the first method able to ship the cart to the
// destination.
func (s *Shop) EstimateShippingCost(ctx context.Context, token, countryCode, provinceCode string) (int64, string, error) {
	cart, err := s.orders.FindCartByToken(ctx, token)
	if err != nil {
		return 0, "", err
	}
	if countryCode == "" {
		return 0, "", ErrEstimateAddress
	}

	methods, zones, err := s.shippingReference(ctx)
	if err != nil {
		return 0, "", err
	}

	eligible := shipping.EligibleMethods(methods, zones, cart.ChannelCode, &shipping.Destination{
		CountryCode:  countryCode,
		ProvinceCode: provinceCode,
	})
	if len(eligible) == 0 {
		return 0, "", shipping.ErrNoMethodAvailable
	}

	price, err := s.shipping.Calculate(cart, &eligible[0])
	if err != nil {
		return 0, "", err
	}
	return price, cart.CurrencyCode, nil
}

// ShippingQuotes lists the methods able to ship the order with their price.
func (s *Shop) ShippingQuotes(ctx context.Context, order *domain.Order) ([]ShippingQuote, error) {
	methods, err := s.shippingMethodsFor(ctx, order)
	if err != nil {
		return nil, err
	}

	quotes := make([]ShippingQuote, 0, len(methods))
	for i := range methods {
		price, err := s.shipping.Calculate(order, &methods[i])
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, ShippingQuote{Method: methods[i], Price: price})
	}
	return quotes, nil
}

// PaymentMethods lists the methods the order can be paid with.
func (s *Shop) PaymentMethods(ctx context.Context, order *domain.Order) ([]domain.PaymentMethod, error) {
	return s.paymentMethodsFor(ctx, order)
}

func (s *Shop) shippingReference(ctx context.Context) ([]domain.ShippingMethod, []domain.Zone, error) {
	methods, err := s.channels.ListShippingMethods(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list shipping methods: %w", err)
	}
	zones, err := s.channels.ListZones(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list zones: %w", err)
	}
	return methods, zones, nil
}

// shippingMethodsFor returns the methods able to ship to the order address.
// Orders without an address get none.
func (s *Shop) shippingMethodsFor(ctx context.Context, order *domain.Order) ([]domain.ShippingMethod, error) {
	dest, ok := shipping.DestinationOf(order)
	if !ok {
		return nil, nil
	}

	methods, zones, err := s.shippingReference(ctx)
	if err != nil {
		return nil, err
	}
	return shipping.EligibleMethods(methods, zones, order.ChannelCode, &dest), nil
}

// paymentMethodsFor returns the enabled methods of the order's channel whose
// gateway is configured.
func (s *Shop) paymentMethodsFor(ctx context.Context, order *domain.Order) ([]domain.PaymentMethod, error) {
	methods, err := s.channels.ListPaymentMethods(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment methods: %w", err)
	}

	var out []domain.PaymentMethod
	for i := range methods {
		if !methods[i].AvailableIn(order.ChannelCode) {
			continue
		}
		if _, err := s.gateways.For(&methods[i]); err != nil {
			continue
		}
		out = append(out, methods[i])
	}
	return out, nil
}

func findShippingMethod(methods []domain.ShippingMethod, code string) (*domain.ShippingMethod, bool) {
	for i := range methods {
		if methods[i].Code == code {
			return &methods[i], true
		}
	}
	return nil, false
}

func findPaymentMethod(methods []domain.PaymentMethod, code string) (*domain.PaymentMethod, bool) {
	for i := range methods {
		if methods[i].Code == code {
			return &methods[i], true
		}
	}
	return nil, false
}
