// Package service handles the commands of the shop: the cart and checkout
// workflow, customer accounts and the address book. Every handler loads the
// aggregate, asserts its state, mutates it, lets the order processor
// recalculate it and persists it.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/shopapi/internal/billing"
	"github.com/dukerupert/shopapi/internal/bus"
	"github.com/dukerupert/shopapi/internal/domain"
	"github.com/dukerupert/shopapi/internal/pricing"
	"github.com/dukerupert/shopapi/internal/shipping"
	"github.com/dukerupert/shopapi/internal/telemetry"
)

// OrderProcessor recalculates carts and checks coupons against them.
type OrderProcessor interface {
	Process(ctx context.Context, order *domain.Order) error
	CheckCoupon(ctx context.Context, order *domain.Order, code string) (pricing.CouponStatus, error)
}

// Config groups the Shop dependencies.
type Config struct {
	Orders     domain.OrderRepository
	Catalog    domain.CatalogRepository
	Channels   domain.ChannelRepository
	Customers  domain.CustomerRepository
	Addresses  domain.AddressRepository
	Promotions domain.PromotionRepository

	Processor OrderProcessor
	Shipping  *shipping.Registry
	Gateways  *billing.Gateways

	// Metrics is optional.
	Metrics *telemetry.BusinessMetrics

	// VerificationRequired keeps new accounts disabled until the emailed
	// token is confirmed.
	VerificationRequired bool

	// PasswordCost is the bcrypt cost of new passwords, auth's default when 0.
	PasswordCost int

	// Now defaults to time.Now, NewToken to random UUIDs.
	Now      func() time.Time
	NewToken func() string
}

// Shop implements the command handlers and the read operations the API
// needs besides plain repository lookups.
type Shop struct {
	orders     domain.OrderRepository
	catalog    domain.CatalogRepository
	channels   domain.ChannelRepository
	customers  domain.CustomerRepository
	addresses  domain.AddressRepository
	promotions domain.PromotionRepository

	processor OrderProcessor
	shipping  *shipping.Registry
	gateways  *billing.Gateways
	metrics   *telemetry.BusinessMetrics

	verificationRequired bool
	passwordCost         int
	now                  func() time.Time
	newToken             func() string
}

// New creates a Shop.
func New(cfg Config) *Shop {
	if cfg.Shipping == nil {
		cfg.Shipping = shipping.NewRegistry()
	}
	if cfg.Gateways == nil {
		cfg.Gateways = billing.NewGateways(nil)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewToken == nil {
		cfg.NewToken = uuid.NewString
	}
	return &Shop{
		orders:               cfg.Orders,
		catalog:              cfg.Catalog,
		channels:             cfg.Channels,
		customers:            cfg.Customers,
		addresses:            cfg.Addresses,
		promotions:           cfg.Promotions,
		processor:            cfg.Processor,
		shipping:             cfg.Shipping,
		gateways:             cfg.Gateways,
		metrics:              cfg.Metrics,
		verificationRequired: cfg.VerificationRequired,
		passwordCost:         cfg.PasswordCost,
		now:                  cfg.Now,
		newToken:             cfg.NewToken,
	}
}

// NewToken returns a fresh cart token.
func (s *Shop) NewToken() string {
	return s.newToken()
}

// Register subscribes every handler to the bus.
func (s *Shop) Register(b *bus.Bus) {
	bus.Register(b, s.PickupCart)
	bus.Register(b, s.PutSimpleItemToCart)
	bus.Register(b, s.PutVariantBasedConfigurableItemToCart)
	bus.Register(b, s.PutOptionBasedConfigurableItemToCart)
	bus.Register(b, s.ChangeItemQuantity)
	bus.Register(b, s.RemoveItemFromCart)
	bus.Register(b, s.DropCart)
	bus.Register(b, s.AddCoupon)
	bus.Register(b, s.RemoveCoupon)

	bus.Register(b, s.AssignCustomerToCart)
	bus.Register(b, s.AddressOrder)
	bus.Register(b, s.ChooseShippingMethod)
	bus.Register(b, s.ChoosePaymentMethod)
	bus.Register(b, s.CompleteOrder)

	bus.Register(b, s.RegisterCustomer)
	bus.Register(b, s.VerifyAccount)
	bus.Register(b, s.EnableCustomer)
	bus.Register(b, s.UpdateCustomer)

	bus.Register(b, s.CreateAddress)
	bus.Register(b, s.UpdateAddress)
	bus.Register(b, s.RemoveAddress)
	bus.Register(b, s.SetDefaultAddress)

	bus.Register(b, s.AddReview)
}

// saveCart recalculates and stores a cart.
func (s *Shop) saveCart(ctx context.Context, cart *domain.Order) error {
	if err := s.processor.Process(ctx, cart); err != nil {
		return fmt.Errorf("failed to process cart: %w", err)
	}
	cart.UpdatedAt = s.now()
	if err := s.orders.Save(ctx, cart); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}
