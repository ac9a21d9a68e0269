package tax

import "context"

// NoTaxCalculator returns zero tax for all calculations.
type NoTaxCalculator struct{}

// NewNoTaxCalculator creates a new no-tax calculator.
func NewNoTaxCalculator() Calculator {
	return NoTaxCalculator{}
}

// CalculateTax always returns zero tax.
func (NoTaxCalculator) CalculateTax(context.Context, TaxParams) (*TaxResult, error) {
	return &TaxResult{}, nil
}
