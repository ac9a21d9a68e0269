package shopapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dukerupert/shopapi/internal/command"
	"github.com/dukerupert/shopapi/internal/domain"
	"github.com/dukerupert/shopapi/internal/middleware"
	"github.com/dukerupert/shopapi/internal/view"
)

// CustomerHandler handles login, registration and the customer's own
// profile and orders.
type CustomerHandler struct {
	*base
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Login handles POST /login. A cart token in the body assigns that cart to
// the customer.
func (h *CustomerHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	customer, err := h.shop.Login(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}

	if req.Token != "" {
		assign := command.AssignCustomerToCart{Token: req.Token, Email: customer.Email, AuthenticatedCustomerID: customer.ID}
		if err := h.dispatch(ctx, assign); err != nil {
			return err
		}
	}

	token, expiresAt, err := h.tokens.Issue(customer.ID, customer.Email)
	if err != nil {
		return err
	}

	middleware.GetLogger(ctx).Info().Int64("customer_id", customer.ID).Msg("customer logged in")
	return c.JSON(http.StatusOK, tokenResponse{Token: token, ExpiresAt: expiresAt})
}

// Register handles POST /register.
func (h *CustomerHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Channel = h.channelCode(req.Channel)
	if err := h.validate(ctx, c, &req); err != nil {
		return err
	}

	cmd := command.RegisterCustomer{
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
		ChannelCode: req.Channel,
	}
	if err := h.dispatch(ctx, cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// VerifyAccount handles GET /verify-account?token=.
func (h *CustomerHandler) VerifyAccount(c echo.Context) error {
	var req verifyRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	if err := h.dispatch(c.Request().Context(), command.VerifyAccount{Token: req.Token}); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Me handles GET /me.
func (h *CustomerHandler) Me(c echo.Context) error {
	customer, err := h.currentCustomer(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view.NewCustomer(customer))
}

// UpdateMe handles PUT /me.
func (h *CustomerHandler) UpdateMe(c echo.Context) error {
	var req updateCustomerRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	cmd := req.command(middleware.CustomerID(ctx))
	if err := h.dispatch(ctx, cmd); err != nil {
		return err
	}

	customer, err := h.customers.FindCustomer(ctx, cmd.CustomerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view.NewCustomer(customer))
}

// Orders handles GET /orders.
func (h *CustomerHandler) Orders(c echo.Context) error {
	customer, err := h.currentCustomer(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	orders, err := h.orders.ListPlaced(ctx, customer.ID)
	if err != nil {
		return err
	}

	out := make([]view.PlacedOrder, 0, len(orders))
	for i := range orders {
		placed, err := h.views.PlacedOrder(ctx, &orders[i])
		if err != nil {
			return err
		}
		out = append(out, *placed)
	}
	return c.JSON(http.StatusOK, out)
}

// Order handles GET /orders/:token. Orders of other customers and carts are
// reported as missing.
func (h *CustomerHandler) Order(c echo.Context) error {
	customer, err := h.currentCustomer(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	order, err := h.orders.FindByToken(ctx, c.Param("token"))
	if err != nil {
		return err
	}
	if order.IsCart() || !order.BelongsTo(customer.ID) {
		return domain.ErrOrderNotFound
	}

	placed, err := h.views.PlacedOrder(ctx, order)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, placed)
}
