package billing

import (
	"errors"
	"fmt"

	"github.com/dukerupert/shopapi/internal/domain"
)

var (
	// ErrInvalidAPIKey is returned when the Stripe API key is missing.
	ErrInvalidAPIKey = errors.New("billing: invalid or missing API key")

	// ErrPaymentFailed is returned when the provider refused the payment.
	ErrPaymentFailed = &domain.Error{Code: domain.EPAYMENT, Message: "Payment failed"}
)

// ErrGatewayUnavailable reports a payment method whose gateway is not
// configured.
func ErrGatewayUnavailable(name string) error {
	return domain.Errorf(domain.EINTERNAL, "billing.gateway", "payment gateway %q is not configured", name)
}

// StripeError wraps a Stripe API error with additional context.
type StripeError struct {
	Message       string // Human-readable error message
	Code          string // Stripe error code (e.g., "card_declined")
	DeclineCode   string // Card decline reason (if applicable)
	RequestID     string // Stripe request ID for debugging
	OriginalError error  // Original error from Stripe SDK
}

func (e *StripeError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("stripe: %s (code: %s)", e.Message, e.Code)
	}
	return fmt.Sprintf("stripe: %s", e.Message)
}

func (e *StripeError) Unwrap() error {
	return e.OriginalError
}

// IsDeclined returns true if error is due to card decline.
func (e *StripeError) IsDeclined() bool {
	return e.Code == "card_declined" || e.DeclineCode != ""
}

// IsTemporary returns true if error is likely transient and retryable.
func (e *StripeError) IsTemporary() bool {
	return e.Code == "rate_limit" || e.Code == "api_connection_error"
}
