// Package router assembles the echo instance serving the shop API.
package router

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/dukerupert/shopapi/internal/auth"
	"github.com/dukerupert/shopapi/internal/handler"
	"github.com/dukerupert/shopapi/internal/handler/shopapi"
	"github.com/dukerupert/shopapi/internal/middleware"
)

// Config groups what the router needs.
type Config struct {
	Logger  zerolog.Logger
	Metrics *middleware.Metrics
	Tokens  *auth.TokenIssuer
	ShopAPI shopapi.Config

	// BodyLimit is an echo size string such as "1M". Empty disables it.
	BodyLimit string

	// LoginRate limits login and registration per client and second.
	LoginRate float64

	// Health reports whether the storage is reachable. Optional.
	Health func(ctx context.Context) error
}

// New creates the echo instance with the global middleware, the ops
// endpoints and the shop API mounted under /shop-api.
func New(cfg Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.HTTPErrorHandler(cfg.Logger)

	// Metrics and the request logger call the error handler themselves so
	// they observe the final status.
	if cfg.Metrics != nil {
		e.Use(cfg.Metrics.Middleware())
	}
	e.Use(middleware.RequestID())
	e.Use(middleware.Authenticate(cfg.Tokens))
	e.Use(middleware.RequestLogger(cfg.Logger))
	e.Use(Recovery(cfg.Logger))
	if cfg.BodyLimit != "" {
		e.Use(echomw.BodyLimit(cfg.BodyLimit))
	}
	e.Use(echomw.Secure())

	e.GET("/health", health(cfg.Health))
	if cfg.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(cfg.Metrics.Handler()))
	}

	shopapi.Register(e.Group("/shop-api"), cfg.ShopAPI, RateLimit(cfg.LoginRate))
	return e
}

func health(check func(ctx context.Context) error) echo.HandlerFunc {
	return func(c echo.Context) error {
		if check != nil {
			if err := check(c.Request().Context()); err != nil {
				middleware.GetLogger(c.Request().Context()).Error().Err(err).Msg("health check failed")
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			}
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}
}
