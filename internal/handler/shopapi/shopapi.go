// Package shopapi serves the cart, checkout, customer and catalog endpoints
// of the shop API. Mutations are validated, dispatched on the command bus and
// answered from the repositories.
package shopapi

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/dukerupert/shopapi/internal/auth"
	"github.com/dukerupert/shopapi/internal/bus"
	"github.com/dukerupert/shopapi/internal/command"
	"github.com/dukerupert/shopapi/internal/domain"
	"github.com/dukerupert/shopapi/internal/handler"
	"github.com/dukerupert/shopapi/internal/i18n"
	"github.com/dukerupert/shopapi/internal/middleware"
	"github.com/dukerupert/shopapi/internal/service"
	"github.com/dukerupert/shopapi/internal/validation"
	"github.com/dukerupert/shopapi/internal/view"
)

// Config groups the API dependencies.
type Config struct {
	Bus       *bus.Bus
	Shop      *service.Shop
	Orders    domain.OrderRepository
	Catalog   domain.CatalogRepository
	Channels  domain.ChannelRepository
	Customers domain.CustomerRepository
	Addresses domain.AddressRepository
	Validator *validation.Validator
	Views     *view.Factory
	Tokens    *auth.TokenIssuer

	// Work groups the commands of one request. Without it every command
	// commits on its own.
	Work *bus.UnitOfWork

	// DefaultChannel is used when a request names no channel.
	DefaultChannel string
}

// base holds what every handler of the API needs.
type base struct {
	bus            *bus.Bus
	shop           *service.Shop
	work           *bus.UnitOfWork
	orders         domain.OrderRepository
	catalog        domain.CatalogRepository
	channels       domain.ChannelRepository
	customers      domain.CustomerRepository
	addresses      domain.AddressRepository
	validator      *validation.Validator
	views          *view.Factory
	tokens         *auth.TokenIssuer
	defaultChannel string
}

func newBase(cfg Config) *base {
	return &base{
		bus:            cfg.Bus,
		shop:           cfg.Shop,
		work:           cfg.Work,
		orders:         cfg.Orders,
		catalog:        cfg.Catalog,
		channels:       cfg.Channels,
		customers:      cfg.Customers,
		addresses:      cfg.Addresses,
		validator:      cfg.Validator,
		views:          cfg.Views,
		tokens:         cfg.Tokens,
		defaultChannel: cfg.DefaultChannel,
	}
}

// Register mounts the API routes on g. limit, when not nil, guards the login
// and registration routes.
func Register(g *echo.Group, cfg Config, limit echo.MiddlewareFunc) {
	b := newBase(cfg)
	carts := &CartHandler{b}
	checkout := &CheckoutHandler{b}
	customers := &CustomerHandler{b}
	addressBook := &AddressBookHandler{b}
	products := &ProductHandler{b}

	g.Use(NegotiateLocale)

	var guarded []echo.MiddlewareFunc
	if limit != nil {
		guarded = append(guarded, limit)
	}

	g.POST("/carts", carts.Pickup)
	g.GET("/carts/:token", carts.Summary)
	g.DELETE("/carts/:token", carts.Drop)
	g.POST("/carts/:token/items", carts.PutItem)
	g.PUT("/carts/:token/items", carts.PutItem)
	g.POST("/carts/:token/multiple-items", carts.PutItems)
	g.PUT("/carts/:token/multiple-items", carts.PutItems)
	g.PUT("/carts/:token/items/:id", carts.ChangeItemQuantity)
	g.DELETE("/carts/:token/items/:id", carts.RemoveItem)
	g.PUT("/carts/:token/coupon", carts.AddCoupon)
	g.DELETE("/carts/:token/coupon", carts.RemoveCoupon)
	g.GET("/carts/:token/estimated-shipping-cost", carts.EstimateShippingCost)

	g.GET("/checkout/:token", checkout.Summary)
	g.PUT("/checkout/:token/address", checkout.Address)
	g.GET("/checkout/:token/shipping", checkout.ShippingMethods)
	g.PUT("/checkout/:token/shipping/:id", checkout.ChooseShippingMethod)
	g.GET("/checkout/:token/payment", checkout.PaymentMethods)
	g.PUT("/checkout/:token/payment/:id", checkout.ChoosePaymentMethod)
	g.POST("/checkout/:token/complete", checkout.Complete)
	g.PUT("/checkout/:token/complete", checkout.Complete)

	g.POST("/login", customers.Login, guarded...)
	g.POST("/register", customers.Register, guarded...)
	g.GET("/verify-account", customers.VerifyAccount)
	g.GET("/me", customers.Me, middleware.RequireCustomer)
	g.PUT("/me", customers.UpdateMe, middleware.RequireCustomer)
	g.GET("/orders", customers.Orders, middleware.RequireCustomer)
	g.GET("/orders/:token", customers.Order, middleware.RequireCustomer)

	book := g.Group("/address-book", requireAddressBookOwner)
	book.GET("", addressBook.List)
	book.POST("", addressBook.Create)
	book.PUT("/:id", addressBook.Update)
	book.DELETE("/:id", addressBook.Remove)
	book.PATCH("/:id/default", addressBook.SetDefault)

	g.GET("/products/by-code/:code", products.Show)
	g.GET("/products/by-code/:code/reviews", products.Reviews)
	g.POST("/products/by-code/:code/reviews", products.AddReview)
}

const headerAcceptLanguage = "Accept-Language"

// requireAddressBookOwner answers anonymous address book requests with 404,
// as there is no customer whose book could be shown.
func requireAddressBookOwner(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if middleware.CustomerID(c.Request().Context()) == 0 {
			return domain.ErrCustomerNotFound
		}
		return next(c)
	}
}

// messageLocales are the locales with translated messages.
var messageLocales = []string{i18n.EnUS, i18n.DeDE}

// NegotiateLocale picks the locale of error messages from the locale query
// parameter or the Accept-Language header.
func NegotiateLocale(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		locale := i18n.Negotiate(
			c.QueryParam("locale"),
			c.Request().Header.Get(headerAcceptLanguage),
			messageLocales,
			i18n.EnUS,
		)
		c.Set(handler.LocaleKey, locale)
		return next(c)
	}
}

// bind reads path parameters, query parameters and the JSON body into req
// and validates it.
func (b *base) bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	return b.validate(c.Request().Context(), c, req)
}

// validate runs the validator with ctx, which may carry a transaction.
func (b *base) validate(ctx context.Context, c echo.Context, req any) error {
	return b.validator.Validate(ctx, handler.Locale(c), req)
}

func (b *base) dispatch(ctx context.Context, cmds ...command.Command) error {
	for _, cmd := range cmds {
		if err := b.bus.Dispatch(ctx, cmd); err != nil {
			return err
		}
	}
	return nil
}

// renderCart answers with the summary of the cart.
func (b *base) renderCart(c echo.Context, status int, token string) error {
	ctx := c.Request().Context()
	cart, err := b.orders.FindCartByToken(ctx, token)
	if err != nil {
		return err
	}
	summary, err := b.views.CartSummary(ctx, cart)
	if err != nil {
		return err
	}
	return c.JSON(status, summary)
}

// channelCode returns requested, or the default channel when empty.
func (b *base) channelCode(requested string) string {
	if requested != "" {
		return requested
	}
	return b.defaultChannel
}

// currentCustomer loads the customer of the authenticated request.
func (b *base) currentCustomer(c echo.Context) (*domain.Customer, error) {
	ctx := c.Request().Context()
	id := middleware.CustomerID(ctx)
	if id == 0 {
		return nil, domain.Unauthorized("shopapi.current_customer", "JWT Token not found")
	}
	return b.customers.FindCustomer(ctx, id)
}

// inTx runs fn in one unit of work when the API has one.
func (b *base) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if b.work == nil {
		return fn(ctx)
	}
	return b.work.Run(ctx, fn)
}
