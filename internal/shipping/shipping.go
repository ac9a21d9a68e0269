package shipping

import (
	"sort"

	"github.com/dukerupert/shopapi/internal/domain"
)

// Calculator prices the shipment of an order with a method.
// Implementations: FlatRateCalculator, PerUnitRateCalculator
type Calculator interface {
	// Calculate returns the shipping charge in minor units.
	Calculate(order *domain.Order, method *domain.ShippingMethod) (int64, error)
}

// Registry resolves calculators by the name configured on shipping methods.
type Registry struct {
	calculators map[string]Calculator
}

// NewRegistry returns a registry knowing the built-in calculators.
func NewRegistry() *Registry {
	return &Registry{
		calculators: map[string]Calculator{
			domain.CalculatorFlatRate:    FlatRateCalculator{},
			domain.CalculatorPerUnitRate: PerUnitRateCalculator{},
		},
	}
}

// Register adds or replaces a calculator.
func (r *Registry) Register(name string, c Calculator) {
	r.calculators[name] = c
}

// Calculate prices the shipment with the calculator the method names.
func (r *Registry) Calculate(order *domain.Order, method *domain.ShippingMethod) (int64, error) {
	c, ok := r.calculators[method.Calculator]
	if !ok {
		return 0, ErrUnknownCalculator(method.Calculator)
	}
	return c.Calculate(order, method)
}

// Destination is the country and optional province a shipment goes to.
type Destination struct {
	CountryCode  string
	ProvinceCode string
}

// DestinationOf returns the order's shipping destination. ok is false while
// the order has no shipping address.
func DestinationOf(order *domain.Order) (Destination, bool) {
	if order.ShippingAddress == nil {
		return Destination{}, false
	}
	return Destination{
		CountryCode:  order.ShippingAddress.CountryCode,
		ProvinceCode: order.ShippingAddress.ProvinceCode,
	}, true
}

// EligibleMethods returns the methods enabled in the channel whose zone
// contains the destination, ordered by position. With an unknown
// destination every channel method is eligible.
func EligibleMethods(methods []domain.ShippingMethod, zones []domain.Zone, channelCode string, dest *Destination) []domain.ShippingMethod {
	var matching map[string]bool
	if dest != nil {
		matching = make(map[string]bool)
		for _, code := range domain.MatchingZones(zones, dest.CountryCode, dest.ProvinceCode) {
			matching[code] = true
		}
	}

	var eligible []domain.ShippingMethod
	for _, m := range methods {
		if !m.AvailableIn(channelCode) {
			continue
		}
		if matching != nil && !matching[m.ZoneCode] {
			continue
		}
		eligible = append(eligible, m)
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Position < eligible[j].Position
	})
	return eligible
}
