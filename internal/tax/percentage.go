package tax

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// PercentageCalculator applies the rate matching each line's tax category and
// the address zones. Amounts are rounded half up per line.
type PercentageCalculator struct {
	rates RateSource
}

// NewPercentageCalculator creates a calculator reading rates from source.
func NewPercentageCalculator(source RateSource) Calculator {
	return &PercentageCalculator{rates: source}
}

// CalculateTax implements Calculator.
func (c *PercentageCalculator) CalculateTax(ctx context.Context, params TaxParams) (*TaxResult, error) {
	rates, err := c.rates.ListTaxRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tax rates: %w", err)
	}

	zones := make(map[string]bool, len(params.ZoneCodes))
	for _, z := range params.ZoneCodes {
		zones[z] = true
	}

	result := &TaxResult{}
	byRate := make(map[string]int)

	for _, line := range params.LineItems {
		if line.Total <= 0 {
			continue
		}

		for _, rate := range rates {
			if !zones[rate.ZoneCode] || rate.Category != line.TaxCategory {
				continue
			}
			if rate.Amount < 0 || rate.Amount > 1 {
				return nil, ErrInvalidTaxRate(rate.Code, rate.Amount)
			}

			amount := decimal.NewFromInt(line.Total).
				Mul(decimal.NewFromFloat(rate.Amount)).
				Round(0).
				IntPart()

			idx, ok := byRate[rate.Code]
			if !ok {
				idx = len(result.Breakdown)
				byRate[rate.Code] = idx
				result.Breakdown = append(result.Breakdown, TaxBreakdown{
					RateCode: rate.Code,
					Name:     rate.Name,
					Rate:     rate.Amount,
				})
			}
			result.Breakdown[idx].Amount += amount
			result.TotalTax += amount
			break
		}
	}

	return result, nil
}
