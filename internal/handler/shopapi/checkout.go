package shopapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dukerupert/shopapi/internal/command"
	"github.com/dukerupert/shopapi/internal/middleware"
	"github.com/dukerupert/shopapi/internal/view"
)

// CheckoutHandler handles the checkout routes.
type CheckoutHandler struct {
	*base
}

// Summary handles GET /checkout/:token.
func (h *CheckoutHandler) Summary(c echo.Context) error {
	return h.renderCart(c, http.StatusOK, c.Param("token"))
}

// Address handles PUT /checkout/:token/address.
func (h *CheckoutHandler) Address(c echo.Context) error {
	var req addressOrderRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}

	cmd := command.AddressOrder{Token: req.Token, ShippingAddress: req.ShippingAddress.command()}
	if req.BillingAddress != nil {
		billing := req.BillingAddress.command()
		cmd.BillingAddress = &billing
	}
	if err := h.dispatch(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ShippingMethods handles GET /checkout/:token/shipping. Methods are listed
// per shipment with their price for the cart.
func (h *CheckoutHandler) ShippingMethods(c echo.Context) error {
	ctx := c.Request().Context()
	cart, err := h.orders.FindCartByToken(ctx, c.Param("token"))
	if err != nil {
		return err
	}

	quotes, err := h.shop.ShippingQuotes(ctx, cart)
	if err != nil {
		return err
	}

	// Every shipment carries the whole cart, so all share the same quotes.
	methods := make(map[string]view.ShippingMethod, len(quotes))
	for _, quote := range quotes {
		methods[quote.Method.Code] = view.NewShippingMethod(&quote.Method, quote.Price, cart.CurrencyCode)
	}
	out := view.AvailableShippingMethods{Shipments: make([]view.ShipmentMethods, len(cart.Shipments))}
	for i := range out.Shipments {
		out.Shipments[i] = view.ShipmentMethods{Methods: methods}
	}
	return c.JSON(http.StatusOK, out)
}

// ChooseShippingMethod handles PUT /checkout/:token/shipping/:id.
func (h *CheckoutHandler) ChooseShippingMethod(c echo.Context) error {
	var req chooseMethodRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}

	cmd := command.ChooseShippingMethod{Token: req.Token, ShipmentIndex: req.Index, ShippingMethodCode: req.Method}
	if err := h.dispatch(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// PaymentMethods handles GET /checkout/:token/payment.
func (h *CheckoutHandler) PaymentMethods(c echo.Context) error {
	ctx := c.Request().Context()
	cart, err := h.orders.FindCartByToken(ctx, c.Param("token"))
	if err != nil {
		return err
	}

	available, err := h.shop.PaymentMethods(ctx, cart)
	if err != nil {
		return err
	}

	methods := make(map[string]view.PaymentMethod, len(available))
	for _, method := range available {
		methods[method.Code] = view.NewPaymentMethod(&method)
	}
	out := view.AvailablePaymentMethods{Payments: make([]view.PaymentMethods, len(cart.Payments))}
	for i := range out.Payments {
		out.Payments[i] = view.PaymentMethods{Methods: methods}
	}
	return c.JSON(http.StatusOK, out)
}

// ChoosePaymentMethod handles PUT /checkout/:token/payment/:id.
func (h *CheckoutHandler) ChoosePaymentMethod(c echo.Context) error {
	var req chooseMethodRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}

	cmd := command.ChoosePaymentMethod{Token: req.Token, PaymentIndex: req.Index, PaymentMethodCode: req.Method}
	if err := h.dispatch(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Complete handles POST|PUT /checkout/:token/complete. An email in the body
// assigns the customer before the order is placed.
func (h *CheckoutHandler) Complete(c echo.Context) error {
	var req completeRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	authenticated := middleware.CustomerID(ctx)
	if req.Email == "" && authenticated != 0 {
		customer, err := h.currentCustomer(c)
		if err != nil {
			return err
		}
		req.Email = customer.Email
	}

	err := h.inTx(ctx, func(ctx context.Context) error {
		if req.Email != "" {
			assign := command.AssignCustomerToCart{Token: req.Token, Email: req.Email, AuthenticatedCustomerID: authenticated}
			if err := h.dispatch(ctx, assign); err != nil {
				return err
			}
		}
		return h.dispatch(ctx, command.CompleteOrder{Token: req.Token, Notes: req.Notes, AuthenticatedCustomerID: authenticated})
	})
	if err != nil {
		return err
	}

	middleware.GetLogger(ctx).Info().Str("token", req.Token).Msg("order completed")
	return c.NoContent(http.StatusNoContent)
}
