package shopapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dukerupert/shopapi/internal/command"
	"github.com/dukerupert/shopapi/internal/domain"
	"github.com/dukerupert/shopapi/internal/handler"
	"github.com/dukerupert/shopapi/internal/i18n"
	"github.com/dukerupert/shopapi/internal/middleware"
	"github.com/dukerupert/shopapi/internal/view"
)

// CartHandler handles the cart routes.
type CartHandler struct {
	*base
}

// Pickup handles POST /carts. A logged in customer gets their latest cart
// in the channel back instead of a new one.
func (h *CartHandler) Pickup(c echo.Context) error {
	ctx := c.Request().Context()

	var req pickupRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	req.Channel = h.channelCode(req.Channel)
	if err := h.validate(ctx, c, &req); err != nil {
		return err
	}

	token, err := h.pickup(ctx, req.Channel)
	if err != nil {
		return err
	}
	return h.renderCart(c, http.StatusCreated, token)
}

// pickup creates a cart in the channel, or finds the latest cart of the
// logged in customer, and returns its token.
func (h *CartHandler) pickup(ctx context.Context, channelCode string) (string, error) {
	customerID := middleware.CustomerID(ctx)
	if customerID != 0 {
		cart, err := h.orders.FindLatestCart(ctx, customerID, channelCode)
		if err == nil {
			return cart.Token, nil
		}
		if !errors.Is(err, domain.ErrCartNotFound) {
			return "", fmt.Errorf("failed to find latest cart: %w", err)
		}
	}

	token := h.shop.NewToken()
	err := h.dispatch(ctx, command.PickupCart{Token: token, ChannelCode: channelCode, CustomerID: customerID})
	return token, err
}

// Summary handles GET /carts/:token.
func (h *CartHandler) Summary(c echo.Context) error {
	return h.renderCart(c, http.StatusOK, c.Param("token"))
}

// Drop handles DELETE /carts/:token.
func (h *CartHandler) Drop(c echo.Context) error {
	var req cartRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	if err := h.dispatch(c.Request().Context(), command.DropCart{Token: req.Token}); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// PutItem handles POST|PUT /carts/:token/items. The token "new" creates the
// cart first.
func (h *CartHandler) PutItem(c echo.Context) error {
	var req putItemRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	token := req.Token
	err := h.inTx(c.Request().Context(), func(ctx context.Context) error {
		var err error
		if token, err = h.cartFor(ctx, c, token); err != nil {
			return err
		}

		check, cmd := req.request(token)
		if err := h.validate(ctx, c, check); err != nil {
			return err
		}
		return h.dispatch(ctx, cmd)
	})
	if err != nil {
		return err
	}
	return h.renderCart(c, http.StatusCreated, token)
}

// PutItems handles POST|PUT /carts/:token/multiple-items. Either every item
// is added or none.
func (h *CartHandler) PutItems(c echo.Context) error {
	var req putItemsRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	token := req.Token
	err := h.inTx(c.Request().Context(), func(ctx context.Context) error {
		var err error
		if token, err = h.cartFor(ctx, c, token); err != nil {
			return err
		}

		violations := &domain.ValidationError{Op: "shopapi.put_items"}
		cmds := make([]command.Command, 0, len(req.Items))
		for i, item := range req.Items {
			check, cmd := item.request(token)
			err := h.validate(ctx, c, check)
			if domain.IsValidationError(err) {
				for field, messages := range domain.GetValidationFields(err) {
					for _, m := range messages {
						violations.Add(fmt.Sprintf("items[%d].%s", i, field), m)
					}
				}
				continue
			}
			if err != nil {
				return err
			}
			cmds = append(cmds, cmd)
		}
		if len(req.Items) == 0 {
			violations.Add("items", i18n.T(handler.Locale(c), i18n.MsgNotBlank))
		}
		if err := violations.ErrOrNil(); err != nil {
			return err
		}
		return h.dispatch(ctx, cmds...)
	})
	if err != nil {
		return err
	}
	return h.renderCart(c, http.StatusCreated, token)
}

// cartFor returns token, or the token of a freshly picked up cart when token
// asks for a new one.
func (h *CartHandler) cartFor(ctx context.Context, c echo.Context, token string) (string, error) {
	if token != newCartToken {
		return token, nil
	}
	channel := h.channelCode(c.QueryParam("channel"))
	if err := h.validate(ctx, c, &pickupRequest{Channel: channel}); err != nil {
		return "", err
	}
	return h.pickup(ctx, channel)
}

// ChangeItemQuantity handles PUT /carts/:token/items/:id.
func (h *CartHandler) ChangeItemQuantity(c echo.Context) error {
	var req changeQuantityRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	cmd := command.ChangeItemQuantity{Token: req.Token, ItemID: req.ItemID, Quantity: req.Quantity}
	if err := h.dispatch(c.Request().Context(), cmd); err != nil {
		return err
	}
	return h.renderCart(c, http.StatusOK, req.Token)
}

// RemoveItem handles DELETE /carts/:token/items/:id.
func (h *CartHandler) RemoveItem(c echo.Context) error {
	var req removeItemRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	cmd := command.RemoveItemFromCart{Token: req.Token, ItemID: req.ItemID}
	if err := h.dispatch(c.Request().Context(), cmd); err != nil {
		return err
	}
	return h.renderCart(c, http.StatusOK, req.Token)
}

// AddCoupon handles PUT /carts/:token/coupon.
func (h *CartHandler) AddCoupon(c echo.Context) error {
	var req couponRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	cmd := command.AddCoupon{Token: req.Token, CouponCode: req.Coupon}
	if err := h.dispatch(c.Request().Context(), cmd); err != nil {
		return err
	}
	return h.renderCart(c, http.StatusOK, req.Token)
}

// RemoveCoupon handles DELETE /carts/:token/coupon.
func (h *CartHandler) RemoveCoupon(c echo.Context) error {
	var req cartRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	if err := h.dispatch(c.Request().Context(), command.RemoveCoupon{Token: req.Token}); err != nil {
		return err
	}
	return h.renderCart(c, http.StatusOK, req.Token)
}

// EstimateShippingCost handles GET /carts/:token/estimated-shipping-cost.
func (h *CartHandler) EstimateShippingCost(c echo.Context) error {
	var req estimateRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}

	price, currency, err := h.shop.EstimateShippingCost(c.Request().Context(), req.Token, req.CountryCode, req.ProvinceCode)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view.EstimatedShippingCost{
		Price: view.Price{Current: price, Currency: currency},
	})
}
