package tax

import (
	"context"

	"github.com/dukerupert/shopapi/internal/domain"
)

// Calculator defines the interface for tax calculation.
// Implementations: PercentageCalculator, NoTaxCalculator
type Calculator interface {
	// CalculateTax computes tax for order line items in minor units.
	CalculateTax(ctx context.Context, params TaxParams) (*TaxResult, error)
}

// RateSource lists the configured tax rates.
// domain.ChannelRepository satisfies it.
type RateSource interface {
	ListTaxRates(ctx context.Context) ([]domain.TaxRate, error)
}

// TaxParams contains all information needed for tax calculation.
type TaxParams struct {
	// ZoneCodes are the zones of the taxed address.
	ZoneCodes []string
	LineItems []LineItem
}

// LineItem is a taxable line. Total is the discounted line total.
type LineItem struct {
	VariantCode string
	TaxCategory string
	Total       int64
}

// TaxResult contains the calculated tax amount and breakdown.
type TaxResult struct {
	TotalTax  int64
	Breakdown []TaxBreakdown
}

// TaxBreakdown is the tax charged under one rate.
type TaxBreakdown struct {
	RateCode string
	Name     string
	Rate     float64 // e.g., 0.2 for 20%
	Amount   int64
}
