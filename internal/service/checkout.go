package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dukerupert/shopapi/internal/billing"
	"github.com/dukerupert/shopapi/internal/command"
	"github.com/dukerupert/shopapi/internal/domain"
	"github.com/dukerupert/shopapi/internal/events"
	"github.com/dukerupert/shopapi/internal/shipping"
)

// AssignCustomerToCart attaches a customer to the cart by email. Emails of
// registered accounts may only be used by that account.
func (s *Shop) AssignCustomerToCart(ctx context.Context, cmd command.AssignCustomerToCart) error {
	cart, err := s.orders.FindCartByToken(ctx, cmd.Token)
	if err != nil {
		return err
	}

	customer, err := s.customers.FindCustomerByEmail(ctx, cmd.Email)
	switch {
	case errors.Is(err, domain.ErrCustomerNotFound):
		customer = &domain.Customer{
			Email:     cmd.Email,
			Gender:    domain.GenderUnknown,
			CreatedAt: s.now(),
			UpdatedAt: s.now(),
		}
		if err := s.customers.CreateCustomer(ctx, customer); err != nil {
			return fmt.Errorf("failed to create guest customer: %w", err)
		}
	case err != nil:
		return fmt.Errorf("failed to find customer: %w", err)
	default:
		if err := s.assertSameUser(ctx, customer, cmd.AuthenticatedCustomerID); err != nil {
			return err
		}
	}

	cart.AssignCustomer(customer)
	return s.saveCart(ctx, cart)
}

// assertSameUser fails with ErrWrongUser when the customer has an account
// and the request is not authenticated as it.
func (s *Shop) assertSameUser(ctx context.Context, customer *domain.Customer, authenticatedID int64) error {
	_, err := s.customers.FindUserByCustomer(ctx, customer.ID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if customer.ID != authenticatedID {
		return domain.ErrWrongUser
	}
	return nil
}

// AddressOrder sets the order addresses. The billing address defaults to the
// shipping address.
func (s *Shop) AddressOrder(ctx context.Context, cmd command.AddressOrder) error {
	cart, err := s.orders.FindCartByToken(ctx, cmd.Token)
	if err != nil {
		return err
	}

	shippingAddress, err := s.orderAddress(ctx, cmd.ShippingAddress)
	if err != nil {
		return err
	}
	billingAddress := shippingAddress.Copy()
	if cmd.BillingAddress != nil {
		if billingAddress, err = s.orderAddress(ctx, *cmd.BillingAddress); err != nil {
			return err
		}
	}

	if err := cart.ApplyTransition(domain.TransitionAddress, s.now()); err != nil {
		return err
	}
	cart.ShippingAddress = shippingAddress
	cart.BillingAddress = billingAddress

	if err := s.saveCart(ctx, cart); err != nil {
		return err
	}
	s.countStep(cart, domain.TransitionAddress)
	return nil
}

// orderAddress converts a command address, resolving the province name.
func (s *Shop) orderAddress(ctx context.Context, a command.Address) (*domain.Address, error) {
	country, err := s.channels.FindCountry(ctx, a.CountryCode)
	if err != nil {
		return nil, err
	}

	out := &domain.Address{
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		Company:      a.Company,
		Street:       a.Street,
		City:         a.City,
		Postcode:     a.Postcode,
		CountryCode:  country.Code,
		ProvinceCode: a.ProvinceCode,
		PhoneNumber:  a.PhoneNumber,
	}
	if a.ProvinceCode != "" {
		if !country.HasProvince(a.ProvinceCode) {
			return nil, domain.NewValidationError("checkout.address", "provinceCode", "Province does not belong to the country.")
		}
		for _, p := range country.Provinces {
			if p.Code == a.ProvinceCode {
				out.ProvinceName = p.Name
			}
		}
	}
	return out, nil
}

// ChooseShippingMethod selects a method able to ship the order.
func (s *Shop) ChooseShippingMethod(ctx context.Context, cmd command.ChooseShippingMethod) error {
	cart, err := s.orders.FindCartByToken(ctx, cmd.Token)
	if err != nil {
		return err
	}
	if cmd.ShipmentIndex < 0 || cmd.ShipmentIndex >= len(cart.Shipments) {
		return domain.ErrShipmentNotFound
	}

	available, err := s.shippingMethodsFor(ctx, cart)
	if err != nil {
		return err
	}
	if _, ok := findShippingMethod(available, cmd.ShippingMethodCode); !ok {
		return shipping.ErrMethodNotAvailable
	}

	if err := cart.ApplyTransition(domain.TransitionSelectShipping, s.now()); err != nil {
		return err
	}
	cart.Shipments[cmd.ShipmentIndex].MethodCode = cmd.ShippingMethodCode

	if err := s.saveCart(ctx, cart); err != nil {
		return err
	}
	s.countStep(cart, domain.TransitionSelectShipping)
	return nil
}

// ChoosePaymentMethod selects a payment method of the order's channel.
func (s *Shop) ChoosePaymentMethod(ctx context.Context, cmd command.ChoosePaymentMethod) error {
	cart, err := s.orders.FindCartByToken(ctx, cmd.Token)
	if err != nil {
		return err
	}
	if cmd.PaymentIndex < 0 || cmd.PaymentIndex >= len(cart.Payments) {
		return domain.ErrPaymentNotFound
	}

	available, err := s.paymentMethodsFor(ctx, cart)
	if err != nil {
		return err
	}
	if _, ok := findPaymentMethod(available, cmd.PaymentMethodCode); !ok {
		return ErrPaymentMethodGone
	}

	if err := cart.ApplyTransition(domain.TransitionSelectPayment, s.now()); err != nil {
		return err
	}
	cart.Payments[cmd.PaymentIndex].MethodCode = cmd.PaymentMethodCode

	if err := s.saveCart(ctx, cart); err != nil {
		return err
	}
	s.countStep(cart, domain.TransitionSelectPayment)
	return nil
}

// CompleteOrder places the order, starts its payments and consumes the
// promotions it used.
func (s *Shop) CompleteOrder(ctx context.Context, cmd command.CompleteOrder) error {
	cart, err := s.orders.FindCartByToken(ctx, cmd.Token)
	if err != nil {
		return err
	}
	if cart.CustomerID == nil {
		return domain.ErrNoCustomer
	}

	customer, err := s.customers.FindCustomer(ctx, *cart.CustomerID)
	if err != nil {
		return fmt.Errorf("failed to find order customer: %w", err)
	}
	if err := s.assertSameUser(ctx, customer, cmd.AuthenticatedCustomerID); err != nil {
		return err
	}

	if err := s.processor.Process(ctx, cart); err != nil {
		return fmt.Errorf("failed to process order: %w", err)
	}

	now := s.now()
	if err := cart.ApplyTransition(domain.TransitionComplete, now); err != nil {
		return err
	}
	cart.Notes = cmd.Notes

	if cart.Number, err = s.orders.NextNumber(ctx); err != nil {
		return fmt.Errorf("failed to assign order number: %w", err)
	}

	if err := s.authorizePayments(ctx, cart, customer); err != nil {
		return err
	}

	if err := s.promotions.IncrementUsage(ctx, cart.PromotionCodes(), cart.CouponCode); err != nil {
		return fmt.Errorf("failed to record promotion usage: %w", err)
	}

	if err := s.orders.Save(ctx, cart); err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}

	events.Record(ctx, events.OrderCompleted{
		Token:         cart.Token,
		Number:        cart.Number,
		CustomerEmail: customer.Email,
		Total:         cart.Total(),
		Currency:      cart.CurrencyCode,
		CompletedAt:   now,
	})
	if s.metrics != nil {
		s.metrics.CheckoutCompleted.WithLabelValues(cart.ChannelCode).Inc()
		s.metrics.OrderValue.WithLabelValues(cart.CurrencyCode).Observe(float64(cart.Total()))
	}
	return nil
}

func (s *Shop) authorizePayments(ctx context.Context, order *domain.Order, customer *domain.Customer) error {
	methods, err := s.channels.ListPaymentMethods(ctx)
	if err != nil {
		return fmt.Errorf("failed to list payment methods: %w", err)
	}

	for i := range order.Payments {
		payment := &order.Payments[i]

		method, ok := findPaymentMethod(methods, payment.MethodCode)
		if !ok {
			return ErrPaymentMethodGone
		}
		gateway, err := s.gateways.For(method)
		if err != nil {
			return err
		}

		result, err := gateway.Authorize(ctx, billing.PaymentParams{
			OrderToken:    order.Token,
			OrderNumber:   order.Number,
			CustomerEmail: customer.Email,
			Amount:        payment.Amount,
			Currency:      payment.Currency,
		})
		if s.metrics != nil {
			outcome := "success"
			if err != nil {
				outcome = "failure"
			}
			s.metrics.PaymentAttempts.WithLabelValues(method.Gateway, outcome).Inc()
		}
		if err != nil {
			return err
		}

		payment.Reference = result.Reference
		payment.State = result.State
	}
	return nil
}

func (s *Shop) countStep(order *domain.Order, step string) {
	if s.metrics != nil {
		s.metrics.CheckoutStep.WithLabelValues(order.ChannelCode, step).Inc()
	}
}
