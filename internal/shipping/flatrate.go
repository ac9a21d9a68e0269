package shipping

import "github.com/dukerupert/shopapi/internal/domain"

// FlatRateCalculator charges the configured channel amount per shipment,
// whatever the order contains.
type FlatRateCalculator struct{}

// Calculate implements Calculator.
func (FlatRateCalculator) Calculate(order *domain.Order, method *domain.ShippingMethod) (int64, error) {
	amount, ok := method.Configuration[order.ChannelCode]
	if !ok {
		return 0, ErrMissingConfiguration(method.Code, order.ChannelCode)
	}
	return amount, nil
}

// PerUnitRateCalculator charges the configured channel amount per unit.
type PerUnitRateCalculator struct{}

// Calculate implements Calculator.
func (PerUnitRateCalculator) Calculate(order *domain.Order, method *domain.ShippingMethod) (int64, error) {
	amount, ok := method.Configuration[order.ChannelCode]
	if !ok {
		return 0, ErrMissingConfiguration(method.Code, order.ChannelCode)
	}
	return amount * int64(order.TotalQuantity()), nil
}
