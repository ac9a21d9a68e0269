package shipping

import (
	"fmt"

	"github.com/dukerupert/shopapi/internal/domain"
)

// ============================================================================
// SHIPPING DOMAIN ERRORS
// ============================================================================

var (
	// ErrNoMethodAvailable is returned when no method ships to a destination.
	ErrNoMethodAvailable = &domain.Error{Code: domain.ENOTFOUND, Message: "No shipping method available for given address"}

	// ErrMethodNotAvailable is returned when the chosen method cannot ship the order.
	ErrMethodNotAvailable = &domain.Error{Code: domain.EINVALID, Message: "Shipping method is not available for this order"}
)

// ErrUnknownCalculator reports a shipping method naming no known calculator.
func ErrUnknownCalculator(name string) error {
	return domain.Errorf(domain.EINTERNAL, "shipping.calculate", "unknown shipping calculator %q", name)
}

// ErrMissingConfiguration reports a method without an amount for a channel.
func ErrMissingConfiguration(methodCode, channelCode string) error {
	return &domain.Error{
		Code:    domain.EINTERNAL,
		Op:      "shipping.calculate",
		Message: fmt.Sprintf("shipping method %s has no amount configured for channel %s", methodCode, channelCode),
	}
}
