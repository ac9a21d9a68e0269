package billing

import (
	"errors"
	"strings"
)

// StripeConfig contains configuration for the Stripe gateway.
type StripeConfig struct {
	// APIKey is the Stripe secret key (sk_test_... or sk_live_...)
	APIKey string

	// MaxRetries is the maximum number of retries for transient failures
	// Default: 2
	MaxRetries int64
}

// Validate checks that required configuration is present.
func (c *StripeConfig) Validate() error {
	if c.APIKey == "" {
		return errors.New("stripe: API key is required")
	}
	if !strings.HasPrefix(c.APIKey, "sk_") && !strings.HasPrefix(c.APIKey, "rk_") {
		return errors.New("stripe: API key must be a secret or restricted key")
	}
	return nil
}

// IsTestMode returns true if using test mode API keys.
func (c *StripeConfig) IsTestMode() bool {
	return strings.HasPrefix(c.APIKey, "sk_test_") || strings.HasPrefix(c.APIKey, "rk_test_")
}
