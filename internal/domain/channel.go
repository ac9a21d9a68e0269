package domain

import "context"

// =============================================================================
// CHANNEL DOMAIN ERRORS
// =============================================================================

var (
	ErrChannelNotFound = &Error{Code: ENOTFOUND, Message: "Channel not found"}
	ErrCountryNotFound = &Error{Code: ENOTFOUND, Message: "Country not found"}
)

// Channel is a sales channel. It fixes the currency and the locales carts
// created in it are priced and translated with.
type Channel struct {
	Code          string   `json:"code" yaml:"code"`
	Name          string   `json:"name" yaml:"name"`
	BaseCurrency  string   `json:"baseCurrency" yaml:"baseCurrency"`
	DefaultLocale string   `json:"defaultLocale" yaml:"defaultLocale"`
	Locales       []string `json:"locales" yaml:"locales"`

	// DefaultTaxZone is used for tax calculation until the order is addressed.
	DefaultTaxZone string `json:"defaultTaxZone,omitempty" yaml:"defaultTaxZone"`
	Enabled        bool   `json:"enabled" yaml:"enabled"`
}

// SupportsLocale reports whether the channel is translated into locale.
func (c *Channel) SupportsLocale(locale string) bool {
	for _, l := range c.Locales {
		if l == locale {
			return true
		}
	}
	return false
}

// Country is a shippable country with its optional provinces.
type Country struct {
	Code      string     `json:"code" yaml:"code"`
	Name      string     `json:"name" yaml:"name"`
	Provinces []Province `json:"provinces,omitempty" yaml:"provinces"`
	Enabled   bool       `json:"enabled" yaml:"enabled"`
}

// Province belongs to a country, e.g. GB-SCT.
type Province struct {
	Code string `json:"code" yaml:"code"`
	Name string `json:"name" yaml:"name"`
}

// HasProvince reports whether code names one of the country's provinces.
func (c *Country) HasProvince(code string) bool {
	for _, p := range c.Provinces {
		if p.Code == code {
			return true
		}
	}
	return false
}

// Zone member types.
const (
	ZoneTypeCountry  = "country"
	ZoneTypeProvince = "province"
)

// Zone groups countries or provinces. Shipping methods and tax rates are
// bound to zones.
type Zone struct {
	Code    string   `json:"code" yaml:"code"`
	Name    string   `json:"name" yaml:"name"`
	Type    string   `json:"type" yaml:"type"`
	Members []string `json:"members" yaml:"members"`
}

// Matches reports whether an address in the given country and province falls
// into the zone.
func (z *Zone) Matches(countryCode, provinceCode string) bool {
	for _, m := range z.Members {
		switch z.Type {
		case ZoneTypeProvince:
			if provinceCode != "" && m == provinceCode {
				return true
			}
		default:
			if m == countryCode {
				return true
			}
		}
	}
	return false
}

// Shipping calculator names.
const (
	CalculatorFlatRate    = "flat_rate"
	CalculatorPerUnitRate = "per_unit_rate"
)

// ShippingMethod is a way an order can be shipped. Configuration holds the
// calculator amount per channel code.
type ShippingMethod struct {
	Code          string           `json:"code" yaml:"code"`
	Name          string           `json:"name" yaml:"name"`
	Description   string           `json:"description,omitempty" yaml:"description"`
	ZoneCode      string           `json:"zone" yaml:"zone"`
	Calculator    string           `json:"calculator" yaml:"calculator"`
	Configuration map[string]int64 `json:"configuration" yaml:"configuration"`
	Channels      []string         `json:"channels" yaml:"channels"`
	Position      int              `json:"position" yaml:"position"`
	Enabled       bool             `json:"enabled" yaml:"enabled"`
}

// AvailableIn reports whether the method is enabled in the channel.
func (m *ShippingMethod) AvailableIn(channelCode string) bool {
	return m.Enabled && contains(m.Channels, channelCode)
}

// Payment gateways.
const (
	GatewayOffline = "offline"
	GatewayStripe  = "stripe"
)

// PaymentMethod is a way an order can be paid.
type PaymentMethod struct {
	Code         string   `json:"code" yaml:"code"`
	Name         string   `json:"name" yaml:"name"`
	Description  string   `json:"description,omitempty" yaml:"description"`
	Instructions string   `json:"instructions,omitempty" yaml:"instructions"`
	Gateway      string   `json:"gateway" yaml:"gateway"`
	Channels     []string `json:"channels" yaml:"channels"`
	Position     int      `json:"position" yaml:"position"`
	Enabled      bool     `json:"enabled" yaml:"enabled"`
}

// AvailableIn reports whether the method is enabled in the channel.
func (m *PaymentMethod) AvailableIn(channelCode string) bool {
	return m.Enabled && contains(m.Channels, channelCode)
}

// TaxRate applies to items of a tax category shipped into a zone.
// Amount is a fraction, 0.23 for 23%.
type TaxRate struct {
	Code     string  `json:"code" yaml:"code"`
	Name     string  `json:"name" yaml:"name"`
	ZoneCode string  `json:"zone" yaml:"zone"`
	Category string  `json:"category" yaml:"category"`
	Amount   float64 `json:"amount" yaml:"amount"`
}

// ChannelRepository gives read access to the shop configuration: channels,
// geography, shipping and payment methods, and tax rates.
type ChannelRepository interface {
	// FindChannel returns ErrChannelNotFound when code is unknown.
	FindChannel(ctx context.Context, code string) (*Channel, error)

	// FindCountry returns ErrCountryNotFound when code is unknown.
	FindCountry(ctx context.Context, code string) (*Country, error)

	ListZones(ctx context.Context) ([]Zone, error)

	// ListShippingMethods returns all methods ordered by position.
	ListShippingMethods(ctx context.Context) ([]ShippingMethod, error)

	// ListPaymentMethods returns all methods ordered by position.
	ListPaymentMethods(ctx context.Context) ([]PaymentMethod, error)

	ListTaxRates(ctx context.Context) ([]TaxRate, error)
}

// MatchingZones returns the codes of the zones containing the address.
func MatchingZones(zones []Zone, countryCode, provinceCode string) []string {
	var codes []string
	for i := range zones {
		if zones[i].Matches(countryCode, provinceCode) {
			codes = append(codes, zones[i].Code)
		}
	}
	return codes
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
