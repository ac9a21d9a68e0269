package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/shopapi/internal/command"
	"github.com/dukerupert/shopapi/internal/domain"
)

func TestPickupCart(t *testing.T) {
	ts := newTestShop(t)

	ts.mustDispatch(t, command.PickupCart{Token: "SDAOSLEFNWU35H3QLI5325", ChannelCode: "WEB_GB"})

	cart := ts.cart(t, "SDAOSLEFNWU35H3QLI5325")
	assert.Equal(t, domain.OrderStateCart, cart.State)
	assert.Equal(t, "GBP", cart.CurrencyCode)
	assert.Equal(t, "en_GB", cart.LocaleCode)
	assert.True(t, cart.IsEmpty())
	assert.Equal(t, []string{"cart.picked_up"}, ts.events.Names())

	t.Run("token already used", func(t *testing.T) {
		err := ts.dispatch(t, command.PickupCart{Token: "SDAOSLEFNWU35H3QLI5325", ChannelCode: "WEB_GB"})
		assert.True(t, domain.IsCode(err, domain.ECONFLICT))
	})

	t.Run("unknown channel", func(t *testing.T) {
		err := ts.dispatch(t, command.PickupCart{Token: "OTHER", ChannelCode: "WEB_XX"})
		assert.ErrorIs(t, err, domain.ErrChannelNotFound)
	})

	t.Run("for a logged in customer", func(t *testing.T) {
		ts.mustDispatch(t, command.PickupCart{Token: "OLIVER", ChannelCode: "WEB_GB", CustomerID: ts.customerID(t, "oliver@queen.com")})
		assert.NotNil(t, ts.cart(t, "OLIVER").CustomerID)
	})
}

func TestPutItems(t *testing.T) {
	ts := newTestShop(t)
	ts.mustDispatch(t, command.PickupCart{Token: "CART", ChannelCode: "WEB_GB"})

	tests := []struct {
		name    string
		cmd     command.Command
		variant string
		price   int64
	}{
		{
			name:    "simple product",
			cmd:     command.PutSimpleItemToCart{Token: "CART", ProductCode: "LOGAN_MUG_CODE", Quantity: 3},
			variant: "LOGAN_MUG_CODE",
			price:   1999,
		},
		{
			name: "variant based",
			cmd: command.PutVariantBasedConfigurableItemToCart{
				Token: "CART", ProductCode: "LOGAN_T_SHIRT_CODE", VariantCode: "SMALL_LOGAN_T_SHIRT_CODE", Quantity: 1,
			},
			variant: "SMALL_LOGAN_T_SHIRT_CODE",
			price:   1999,
		},
		{
			name: "option based",
			cmd: command.PutOptionBasedConfigurableItemToCart{
				Token:       "CART",
				ProductCode: "LOGAN_HAT_CODE",
				Options:     map[string]string{"HAT_SIZE": "HAT_SIZE_S", "HAT_COLOR": "HAT_COLOR_RED"},
				Quantity:    2,
			},
			variant: "SMALL_RED_LOGAN_HAT_CODE",
			price:   1499,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts.mustDispatch(t, tt.cmd)

			var found *domain.OrderItem
			for _, item := range ts.cart(t, "CART").Items {
				if item.VariantCode == tt.variant {
					item := item
					found = &item
				}
			}
			require.NotNil(t, found)
			assert.Equal(t, tt.price, found.UnitPrice)
		})
	}

	t.Run("same variant increments quantity", func(t *testing.T) {
		ts.mustDispatch(t, command.PutSimpleItemToCart{Token: "CART", ProductCode: "LOGAN_MUG_CODE", Quantity: 2})

		cart := ts.cart(t, "CART")
		assert.Len(t, cart.Items, 3)
		assert.Equal(t, 5, cart.Items[0].Quantity)
	})

	t.Run("no variant with these options", func(t *testing.T) {
		err := ts.dispatch(t, command.PutOptionBasedConfigurableItemToCart{
			Token:       "CART",
			ProductCode: "LOGAN_HAT_CODE",
			Options:     map[string]string{"HAT_SIZE": "HAT_SIZE_L", "HAT_COLOR": "HAT_COLOR_BLUE"},
			Quantity:    1,
		})
		assert.ErrorIs(t, err, domain.ErrVariantNotMatched)
	})

	t.Run("simple command for configurable product", func(t *testing.T) {
		err := ts.dispatch(t, command.PutSimpleItemToCart{Token: "CART", ProductCode: "LOGAN_HAT_CODE", Quantity: 1})
		assert.True(t, domain.IsCode(err, domain.EINVALID))
	})

	t.Run("product not sold in channel", func(t *testing.T) {
		ts.mustDispatch(t, command.PickupCart{Token: "DE_CART", ChannelCode: "WEB_DE"})
		err := ts.dispatch(t, command.PutVariantBasedConfigurableItemToCart{
			Token: "DE_CART", ProductCode: "LOGAN_HAT_CODE", VariantCode: "SMALL_RED_LOGAN_HAT_CODE", Quantity: 1,
		})
		assert.ErrorIs(t, err, ErrProductNotInStore)
	})

	t.Run("missing cart", func(t *testing.T) {
		err := ts.dispatch(t, command.PutSimpleItemToCart{Token: "NOPE", ProductCode: "LOGAN_MUG_CODE", Quantity: 1})
		assert.ErrorIs(t, err, domain.ErrCartNotFound)
	})

	t.Run("invalid quantity", func(t *testing.T) {
		err := ts.dispatch(t, command.PutSimpleItemToCart{Token: "CART", ProductCode: "LOGAN_MUG_CODE", Quantity: 0})
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	})
}

func TestCartTotals(t *testing.T) {
	ts := newTestShop(t)
	ts.cartWithMug(t, "CART")

	cart := ts.cart(t, "CART")
	// 1999 items + 500 DHL + 400 VAT (20% of 1999, rounded)
	assert.Equal(t, int64(1999), cart.ItemsTotal())
	assert.Equal(t, int64(500), cart.AdjustmentsTotal(domain.AdjustmentShipping))
	assert.Equal(t, int64(400), cart.AdjustmentsTotal(domain.AdjustmentTax))
	assert.Equal(t, int64(2899), cart.Total())
	require.Len(t, cart.Shipments, 1)
	assert.Equal(t, "DHL", cart.Shipments[0].MethodCode)
	require.Len(t, cart.Payments, 1)
	assert.Equal(t, "PBC", cart.Payments[0].MethodCode)
	assert.Equal(t, int64(2899), cart.Payments[0].Amount)

	t.Run("coupon", func(t *testing.T) {
		ts.mustDispatch(t, command.AddCoupon{Token: "CART", CouponCode: "BANANAS"})

		cart := ts.cart(t, "CART")
		// 10% off 1999 = 200; VAT on 1799 = 360
		assert.Equal(t, "BANANAS", cart.CouponCode)
		assert.Equal(t, int64(-200), cart.AdjustmentsTotal(domain.AdjustmentPromotion))
		assert.Equal(t, int64(360), cart.AdjustmentsTotal(domain.AdjustmentTax))
		assert.Equal(t, int64(2659), cart.Total())
	})

	t.Run("remove coupon is idempotent", func(t *testing.T) {
		ts.mustDispatch(t,
			command.RemoveCoupon{Token: "CART"},
			command.RemoveCoupon{Token: "CART"},
		)
		assert.Equal(t, int64(2899), ts.cart(t, "CART").Total())
	})
}

func TestAddCoupon_Invalid(t *testing.T) {
	ts := newTestShop(t)
	ts.cartWithMug(t, "CART")

	for _, code := range []string{"USED_BANANA", "PINEAPPLE", "UNKNOWN"} {
		t.Run(code, func(t *testing.T) {
			err := ts.dispatch(t, command.AddCoupon{Token: "CART", CouponCode: code})
			assert.ErrorIs(t, err, ErrCouponInvalid)
			assert.Empty(t, ts.cart(t, "CART").CouponCode)
		})
	}
}

func TestChangeAndRemoveItem(t *testing.T) {
	ts := newTestShop(t)
	ts.cartWithMug(t, "CART")
	itemID := ts.cart(t, "CART").Items[0].ID

	ts.mustDispatch(t, command.ChangeItemQuantity{Token: "CART", ItemID: itemID, Quantity: 4})
	assert.Equal(t, int64(4*1999), ts.cart(t, "CART").ItemsTotal())

	err := ts.dispatch(t, command.ChangeItemQuantity{Token: "CART", ItemID: 999, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrCartItemNotFound)

	ts.mustDispatch(t, command.RemoveItemFromCart{Token: "CART", ItemID: itemID})
	cart := ts.cart(t, "CART")
	assert.True(t, cart.IsEmpty())
	assert.Zero(t, cart.Total())
	assert.Empty(t, cart.Shipments)
	assert.Empty(t, cart.Payments)

	err = ts.dispatch(t, command.RemoveItemFromCart{Token: "CART", ItemID: itemID})
	assert.ErrorIs(t, err, domain.ErrCartItemNotFound)
}

func TestDropCart(t *testing.T) {
	ts := newTestShop(t)
	ts.cartWithMug(t, "CART")

	ts.mustDispatch(t, command.DropCart{Token: "CART"})

	_, err := ts.store.FindByToken(t.Context(), "CART")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	assert.ErrorIs(t, ts.dispatch(t, command.DropCart{Token: "CART"}), domain.ErrCartNotFound)
}
