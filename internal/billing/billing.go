package billing

import (
	"context"

	"github.com/dukerupert/shopapi/internal/domain"
)

// Gateway charges a placed order. Implementations: OfflineGateway,
// StripeGateway
type Gateway interface {
	// Authorize starts the payment of an order and reports the state the
	// payment moves to.
	Authorize(ctx context.Context, params PaymentParams) (*PaymentResult, error)
}

// PaymentParams describes the payment to start.
type PaymentParams struct {
	OrderToken    string
	OrderNumber   string
	CustomerEmail string
	Amount        int64 // minor units
	Currency      string
}

// PaymentResult is the outcome of Authorize.
type PaymentResult struct {
	// Reference identifies the payment at the provider, e.g. a PaymentIntent ID.
	Reference string

	// ClientSecret lets the storefront confirm the payment, when the provider
	// needs client side confirmation.
	ClientSecret string

	State string
}

// Gateways resolves the gateway of a payment method.
type Gateways struct {
	byName map[string]Gateway
}

// NewGateways returns a registry with the offline gateway and the given
// online ones keyed by gateway name.
func NewGateways(online map[string]Gateway) *Gateways {
	g := &Gateways{byName: map[string]Gateway{domain.GatewayOffline: OfflineGateway{}}}
	for name, gw := range online {
		g.byName[name] = gw
	}
	return g
}

// For returns the gateway named by a payment method.
func (g *Gateways) For(method *domain.PaymentMethod) (Gateway, error) {
	gw, ok := g.byName[method.Gateway]
	if !ok {
		return nil, ErrGatewayUnavailable(method.Gateway)
	}
	return gw, nil
}

// OfflineGateway accepts every order; payment happens outside the shop
// (cash on delivery, bank transfer).
type OfflineGateway struct{}

// Authorize implements Gateway.
func (OfflineGateway) Authorize(context.Context, PaymentParams) (*PaymentResult, error) {
	return &PaymentResult{State: domain.PaymentStateNew}, nil
}
