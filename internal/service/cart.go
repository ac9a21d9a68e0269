package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dukerupert/shopapi/internal/command"
	"github.com/dukerupert/shopapi/internal/domain"
	"github.com/dukerupert/shopapi/internal/events"
	"github.com/dukerupert/shopapi/internal/pricing"
)

// PickupCart creates an empty cart in the channel.
func (s *Shop) PickupCart(ctx context.Context, cmd command.PickupCart) error {
	channel, err := s.channels.FindChannel(ctx, cmd.ChannelCode)
	if err != nil {
		return err
	}

	if _, err := s.orders.FindByToken(ctx, cmd.Token); err == nil {
		return domain.Conflict("cart.pickup", fmt.Sprintf("Cart with token %s already exists", cmd.Token))
	} else if !errors.Is(err, domain.ErrOrderNotFound) {
		return fmt.Errorf("failed to check cart token: %w", err)
	}

	cart := domain.NewCart(cmd.Token, channel, s.now())

	if cmd.CustomerID != 0 {
		customer, err := s.customers.FindCustomer(ctx, cmd.CustomerID)
		if err != nil {
			return err
		}
		cart.AssignCustomer(customer)
	}

	if err := s.saveCart(ctx, cart); err != nil {
		return err
	}

	events.Record(ctx, events.CartPickedUp{Token: cart.Token, ChannelCode: cart.ChannelCode})
	if s.metrics != nil {
		s.metrics.CartsPickedUp.WithLabelValues(cart.ChannelCode).Inc()
	}
	return nil
}

// PutSimpleItemToCart adds the single variant of a simple product.
func (s *Shop) PutSimpleItemToCart(ctx context.Context, cmd command.PutSimpleItemToCart) error {
	return s.putItem(ctx, cmd.Token, cmd.ProductCode, cmd.Quantity, "simple",
		func(p *domain.Product) (*domain.ProductVariant, error) {
			if !p.IsSimple() {
				return nil, domain.Errorf(domain.EINVALID, "cart.put_item", "Product %s is not simple", p.Code)
			}
			return &p.Variants[0], nil
		})
}

// PutVariantBasedConfigurableItemToCart adds a variant chosen by code.
func (s *Shop) PutVariantBasedConfigurableItemToCart(ctx context.Context, cmd command.PutVariantBasedConfigurableItemToCart) error {
	return s.putItem(ctx, cmd.Token, cmd.ProductCode, cmd.Quantity, "variant",
		func(p *domain.Product) (*domain.ProductVariant, error) {
			v, ok := p.Variant(cmd.VariantCode)
			if !ok {
				return nil, domain.ErrVariantNotFound
			}
			return v, nil
		})
}

// PutOptionBasedConfigurableItemToCart adds the variant matching all options.
func (s *Shop) PutOptionBasedConfigurableItemToCart(ctx context.Context, cmd command.PutOptionBasedConfigurableItemToCart) error {
	return s.putItem(ctx, cmd.Token, cmd.ProductCode, cmd.Quantity, "options",
		func(p *domain.Product) (*domain.ProductVariant, error) {
			v, ok := p.VariantByOptions(cmd.Options)
			if !ok {
				return nil, domain.ErrVariantNotMatched
			}
			return v, nil
		})
}

func (s *Shop) putItem(
	ctx context.Context,
	token, productCode string,
	quantity int,
	kind string,
	resolve func(*domain.Product) (*domain.ProductVariant, error),
) error {
	cart, err := s.orders.FindCartByToken(ctx, token)
	if err != nil {
		return err
	}

	product, err := s.catalog.FindProduct(ctx, productCode)
	if err != nil {
		return err
	}
	if !product.AvailableIn(cart.ChannelCode) {
		return ErrProductNotInStore
	}

	variant, err := resolve(product)
	if err != nil {
		return err
	}
	if !variant.Enabled {
		return domain.ErrVariantNotFound
	}
	price, ok := variant.Price(cart.ChannelCode)
	if !ok {
		return ErrVariantNotPriced
	}

	if _, err := cart.AddItem(product.Code, variant.Code, quantity, price); err != nil {
		return err
	}
	cart.ResetCheckout()

	if err := s.saveCart(ctx, cart); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.CartItemsAdded.WithLabelValues(cart.ChannelCode, kind).Inc()
	}
	return nil
}

// ChangeItemQuantity sets the quantity of a cart item.
func (s *Shop) ChangeItemQuantity(ctx context.Context, cmd command.ChangeItemQuantity) error {
	cart, err := s.orders.FindCartByToken(ctx, cmd.Token)
	if err != nil {
		return err
	}
	if err := cart.ChangeItemQuantity(cmd.ItemID, cmd.Quantity); err != nil {
		return err
	}
	cart.ResetCheckout()
	return s.saveCart(ctx, cart)
}

// RemoveItemFromCart removes a cart item.
func (s *Shop) RemoveItemFromCart(ctx context.Context, cmd command.RemoveItemFromCart) error {
	cart, err := s.orders.FindCartByToken(ctx, cmd.Token)
	if err != nil {
		return err
	}
	if err := cart.RemoveItem(cmd.ItemID); err != nil {
		return err
	}
	cart.ResetCheckout()
	return s.saveCart(ctx, cart)
}

// DropCart deletes a cart.
func (s *Shop) DropCart(ctx context.Context, cmd command.DropCart) error {
	cart, err := s.orders.FindCartByToken(ctx, cmd.Token)
	if err != nil {
		return err
	}
	if err := s.orders.Delete(ctx, cart.ID); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}

	if s.metrics != nil {
		s.metrics.CartsDropped.WithLabelValues(cart.ChannelCode).Inc()
	}
	return nil
}

// AddCoupon applies a coupon that is valid for the cart.
func (s *Shop) AddCoupon(ctx context.Context, cmd command.AddCoupon) error {
	cart, err := s.orders.FindCartByToken(ctx, cmd.Token)
	if err != nil {
		return err
	}

	status, err := s.processor.CheckCoupon(ctx, cart, cmd.CouponCode)
	if err != nil {
		return err
	}
	if status != pricing.CouponValid {
		return ErrCouponInvalid
	}

	cart.CouponCode = cmd.CouponCode
	if err := s.saveCart(ctx, cart); err != nil {
		return err
	}

	if s.metrics != nil {
		promotion := ""
		if coupon, err := s.promotions.FindCoupon(ctx, cmd.CouponCode); err == nil {
			promotion = coupon.PromotionCode
		}
		s.metrics.CouponsApplied.WithLabelValues(cart.ChannelCode, promotion).Inc()
	}
	return nil
}

// RemoveCoupon removes the coupon of a cart, if any.
func (s *Shop) RemoveCoupon(ctx context.Context, cmd command.RemoveCoupon) error {
	cart, err := s.orders.FindCartByToken(ctx, cmd.Token)
	if err != nil {
		return err
	}
	cart.CouponCode = ""
	return s.saveCart(ctx, cart)
}
