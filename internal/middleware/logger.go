package middleware

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// RequestLogger creates middleware that injects a request-scoped logger into
// the context and logs each finished request. The logger carries request_id,
// method and path, plus customer once Authenticate identified one. Place it
// after RequestID and Authenticate.
func RequestLogger(base zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			fields := base.With().
				Str("method", req.Method).
				Str("path", req.URL.Path)
			if requestID := GetRequestID(req.Context()); requestID != "" {
				fields = fields.Str("request_id", requestID)
			}
			if id := CustomerID(req.Context()); id != 0 {
				fields = fields.Int64("customer_id", id)
			}
			logger := fields.Logger()

			c.SetRequest(req.WithContext(logger.WithContext(req.Context())))

			err := next(c)
			if err != nil {
				// Let the error handler write the response so the status
				// below is the one sent.
				c.Error(err)
			}

			status := c.Response().Status
			event := logger.Info()
			switch {
			case status >= 500:
				event = logger.Error()
			case status >= 400:
				event = logger.Warn()
			}
			event.
				Str("route", c.Path()).
				Int("status", status).
				Int64("size", c.Response().Size).
				Dur("latency", time.Since(start)).
				Str("remote_ip", c.RealIP()).
				Msg("request completed")

			return nil
		}
	}
}

// GetLogger retrieves the request-scoped logger from the context.
// If no logger is found, returns the provided fallback logger, or a disabled
// logger without one.
func GetLogger(ctx context.Context, fallback ...*zerolog.Logger) *zerolog.Logger {
	if logger := zerolog.Ctx(ctx); logger.GetLevel() != zerolog.Disabled {
		return logger
	}
	if len(fallback) > 0 && fallback[0] != nil {
		return fallback[0]
	}
	return zerolog.Ctx(ctx)
}
