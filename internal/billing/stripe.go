package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"

	"github.com/dukerupert/shopapi/internal/domain"
)

// StripeGateway starts payments as Stripe PaymentIntents. The storefront
// confirms them with the returned client secret.
type StripeGateway struct {
	intents paymentintent.Client
}

// NewStripeGateway creates a gateway from cfg.
func NewStripeGateway(cfg StripeConfig) (*StripeGateway, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAPIKey, err)
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 2
	}

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		MaxNetworkRetries: stripe.Int64(cfg.MaxRetries),
	})

	return &StripeGateway{
		intents: paymentintent.Client{B: backend, Key: cfg.APIKey},
	}, nil
}

// Authorize implements Gateway.
func (g *StripeGateway) Authorize(ctx context.Context, p PaymentParams) (*PaymentResult, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(p.Amount),
		Currency: stripe.String(strings.ToLower(p.Currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	if p.CustomerEmail != "" {
		params.ReceiptEmail = stripe.String(p.CustomerEmail)
	}
	params.Context = ctx
	params.SetIdempotencyKey("order-" + p.OrderToken)
	params.AddMetadata("order_token", p.OrderToken)
	params.AddMetadata("order_number", p.OrderNumber)

	intent, err := g.intents.New(params)
	if err != nil {
		return nil, wrapStripeError(err)
	}

	return &PaymentResult{
		Reference:    intent.ID,
		ClientSecret: intent.ClientSecret,
		State:        domain.PaymentStateProcessing,
	}, nil
}

func wrapStripeError(err error) error {
	var se *stripe.Error
	if !errors.As(err, &se) {
		return domain.Internal(err, "billing.stripe.authorize", "failed to create payment intent")
	}

	return &domain.Error{
		Code:    ErrPaymentFailed.Code,
		Message: ErrPaymentFailed.Message,
		Op:      "billing.stripe.authorize",
		Err: &StripeError{
			Message:       se.Msg,
			Code:          string(se.Code),
			DeclineCode:   string(se.DeclineCode),
			RequestID:     se.RequestID,
			OriginalError: err,
		},
	}
}
