// Package pricing recalculates carts: unit prices, shipments and payments,
// promotions, shipping charges and taxes.
package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dukerupert/shopapi/internal/domain"
	"github.com/dukerupert/shopapi/internal/shipping"
	"github.com/dukerupert/shopapi/internal/tax"
)

// Processor recalculates an order after every cart or checkout mutation.
type Processor struct {
	catalog    domain.CatalogRepository
	channels   domain.ChannelRepository
	promotions domain.PromotionRepository
	customers  domain.CustomerRepository
	orders     domain.OrderRepository
	shipping   *shipping.Registry
	tax        tax.Calculator
	now        func() time.Time
}

// Config groups the Processor dependencies.
type Config struct {
	Catalog    domain.CatalogRepository
	Channels   domain.ChannelRepository
	Promotions domain.PromotionRepository
	Customers  domain.CustomerRepository
	Shipping   *shipping.Registry
	Tax        tax.Calculator

	// Orders counts placed orders for nth_order rules. Without it those
	// rules never match.
	Orders domain.OrderRepository

	// Now defaults to time.Now.
	Now func() time.Time
}

// NewProcessor creates a processor.
func NewProcessor(cfg Config) *Processor {
	if cfg.Shipping == nil {
		cfg.Shipping = shipping.NewRegistry()
	}
	if cfg.Tax == nil {
		cfg.Tax = tax.NewNoTaxCalculator()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Processor{
		catalog:    cfg.Catalog,
		channels:   cfg.Channels,
		promotions: cfg.Promotions,
		customers:  cfg.Customers,
		orders:     cfg.Orders,
		shipping:   cfg.Shipping,
		tax:        cfg.Tax,
		now:        cfg.Now,
	}
}

// Process recalculates a cart in place. Placed orders are left untouched.
func (p *Processor) Process(ctx context.Context, order *domain.Order) error {
	if !order.IsCart() {
		return nil
	}

	categories, err := p.refreshPrices(ctx, order)
	if err != nil {
		return err
	}

	zones, err := p.channels.ListZones(ctx)
	if err != nil {
		return fmt.Errorf("failed to list zones: %w", err)
	}

	if err := p.processShipments(ctx, order, zones); err != nil {
		return err
	}
	if err := p.processPromotions(ctx, order); err != nil {
		return err
	}
	if err := p.processShippingCharges(ctx, order); err != nil {
		return err
	}
	if err := p.processTaxes(ctx, order, zones, categories); err != nil {
		return err
	}
	if err := p.processPayments(ctx, order); err != nil {
		return err
	}

	order.UpdatedAt = p.now()
	return nil
}

// refreshPrices copies current channel prices onto the items and returns the
// tax category of each variant.
func (p *Processor) refreshPrices(ctx context.Context, order *domain.Order) (map[string]string, error) {
	categories := make(map[string]string, len(order.Items))

	for i := range order.Items {
		item := &order.Items[i]

		product, err := p.catalog.FindProductByVariant(ctx, item.VariantCode)
		if errors.Is(err, domain.ErrProductNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load variant %s: %w", item.VariantCode, err)
		}

		variant, ok := product.Variant(item.VariantCode)
		if !ok {
			continue
		}
		if price, ok := variant.Price(order.ChannelCode); ok {
			item.UnitPrice = price
		}
		categories[item.VariantCode] = variant.TaxCategory
	}

	return categories, nil
}

// processShipments keeps one shipment per non-empty order and makes sure its
// method can still ship to the order's destination.
func (p *Processor) processShipments(ctx context.Context, order *domain.Order, zones []domain.Zone) error {
	if order.IsEmpty() {
		order.Shipments = nil
		return nil
	}
	if len(order.Shipments) == 0 {
		order.Shipments = []domain.Shipment{{State: domain.ShipmentStateCart}}
	}

	methods, err := p.channels.ListShippingMethods(ctx)
	if err != nil {
		return fmt.Errorf("failed to list shipping methods: %w", err)
	}

	var dest *shipping.Destination
	if d, ok := shipping.DestinationOf(order); ok {
		dest = &d
	}
	eligible := shipping.EligibleMethods(methods, zones, order.ChannelCode, dest)

	for i := range order.Shipments {
		s := &order.Shipments[i]
		if s.MethodCode != "" && hasShippingMethod(eligible, s.MethodCode) {
			continue
		}

		previous := s.MethodCode
		s.MethodCode = ""
		if len(eligible) > 0 {
			s.MethodCode = eligible[0].Code
		}

		// A chosen method that no longer ships here has to be chosen again.
		if previous != "" && previous != s.MethodCode && order.CheckoutState != domain.CheckoutStateCart {
			order.CheckoutState = domain.CheckoutStateAddressed
		}
	}
	return nil
}

func (p *Processor) processShippingCharges(ctx context.Context, order *domain.Order) error {
	order.RemoveAdjustments(domain.AdjustmentShipping)
	if len(order.Shipments) == 0 {
		return nil
	}

	methods, err := p.channels.ListShippingMethods(ctx)
	if err != nil {
		return fmt.Errorf("failed to list shipping methods: %w", err)
	}

	for _, s := range order.Shipments {
		method, ok := findShippingMethod(methods, s.MethodCode)
		if !ok {
			continue
		}

		cost, err := p.shipping.Calculate(order, method)
		if err != nil {
			return err
		}
		order.AddAdjustment(domain.Adjustment{
			Type:       domain.AdjustmentShipping,
			Label:      method.Name,
			OriginCode: method.Code,
			Amount:     cost,
		})
	}
	return nil
}

func (p *Processor) processTaxes(ctx context.Context, order *domain.Order, zones []domain.Zone, categories map[string]string) error {
	order.RemoveAdjustments(domain.AdjustmentTax)
	if order.IsEmpty() {
		return nil
	}

	var zoneCodes []string
	if dest, ok := shipping.DestinationOf(order); ok {
		zoneCodes = domain.MatchingZones(zones, dest.CountryCode, dest.ProvinceCode)
	} else {
		channel, err := p.channels.FindChannel(ctx, order.ChannelCode)
		if err != nil {
			return fmt.Errorf("failed to load channel %s: %w", order.ChannelCode, err)
		}
		if channel.DefaultTaxZone != "" {
			zoneCodes = []string{channel.DefaultTaxZone}
		}
	}
	if len(zoneCodes) == 0 {
		return nil
	}

	weights := make([]int64, len(order.Items))
	for i := range order.Items {
		weights[i] = order.Items[i].Total()
	}
	discounts := Distribute(order.AdjustmentsTotal(domain.AdjustmentPromotion), weights)

	lines := make([]tax.LineItem, len(order.Items))
	for i := range order.Items {
		lines[i] = tax.LineItem{
			VariantCode: order.Items[i].VariantCode,
			TaxCategory: categories[order.Items[i].VariantCode],
			Total:       weights[i] + discounts[i],
		}
	}

	result, err := p.tax.CalculateTax(ctx, tax.TaxParams{ZoneCodes: zoneCodes, LineItems: lines})
	if err != nil {
		return fmt.Errorf("failed to calculate taxes: %w", err)
	}

	for _, b := range result.Breakdown {
		order.AddAdjustment(domain.Adjustment{
			Type:       domain.AdjustmentTax,
			Label:      b.Name,
			OriginCode: b.RateCode,
			Amount:     b.Amount,
		})
	}
	return nil
}

// processPayments keeps one payment per non-empty order carrying the total.
func (p *Processor) processPayments(ctx context.Context, order *domain.Order) error {
	if order.IsEmpty() {
		order.Payments = nil
		return nil
	}
	if len(order.Payments) == 0 {
		order.Payments = []domain.Payment{{State: domain.PaymentStateCart}}
	}

	var methods []domain.PaymentMethod
	for i := range order.Payments {
		pay := &order.Payments[i]
		pay.Amount = order.Total()
		pay.Currency = order.CurrencyCode

		if pay.MethodCode != "" {
			continue
		}
		if methods == nil {
			var err error
			if methods, err = p.channels.ListPaymentMethods(ctx); err != nil {
				return fmt.Errorf("failed to list payment methods: %w", err)
			}
		}
		for _, m := range methods {
			if m.AvailableIn(order.ChannelCode) {
				pay.MethodCode = m.Code
				break
			}
		}
	}
	return nil
}

// Distribute splits amount across weights proportionally. The remainder left
// by integer division goes to the first lines, one unit each.
func Distribute(amount int64, weights []int64) []int64 {
	out := make([]int64, len(weights))
	var sum int64
	for _, w := range weights {
		sum += w
	}
	if sum == 0 || amount == 0 {
		return out
	}

	var given int64
	for i, w := range weights {
		out[i] = amount * w / sum
		given += out[i]
	}

	step := int64(1)
	if amount < 0 {
		step = -1
	}
	for i := 0; given != amount && len(out) > 0; i = (i + 1) % len(out) {
		if weights[i] == 0 {
			continue
		}
		out[i] += step
		given += step
	}
	return out
}

func hasShippingMethod(methods []domain.ShippingMethod, code string) bool {
	_, ok := findShippingMethod(methods, code)
	return ok
}

func findShippingMethod(methods []domain.ShippingMethod, code string) (*domain.ShippingMethod, bool) {
	for i := range methods {
		if methods[i].Code == code {
			return &methods[i], true
		}
	}
	return nil, false
}
