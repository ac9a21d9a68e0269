package tax

import "github.com/dukerupert/shopapi/internal/domain"

// ============================================================================
// TAX DOMAIN ERRORS
// ============================================================================

// ErrInvalidTaxRate reports a configured rate outside [0, 1].
func ErrInvalidTaxRate(code string, amount float64) error {
	return domain.Errorf(domain.EINTERNAL, "tax.calculate", "tax rate %s must be between 0 and 1, got %v", code, amount)
}
