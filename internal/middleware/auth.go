package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dukerupert/shopapi/internal/auth"
	"github.com/dukerupert/shopapi/internal/domain"
)

const (
	// CustomerContextKey is the context key for the authenticated customer's
	// token claims
	CustomerContextKey contextKey = "customer"
)

// Authenticate reads a bearer token and adds its claims to the request
// context. Requests without a token continue anonymously; an invalid token
// is rejected with 401.
func Authenticate(issuer *auth.TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return next(c)
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				return domain.Unauthorized("auth.authenticate", "Invalid authorization header.")
			}

			claims, err := issuer.Parse(strings.TrimSpace(token))
			if err != nil {
				return domain.WrapError(err, domain.EUNAUTHORIZED, "auth.authenticate", "Invalid or expired token.")
			}

			ctx := context.WithValue(c.Request().Context(), CustomerContextKey, claims)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// RequireCustomer rejects anonymous requests with 401.
func RequireCustomer(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if GetClaims(c.Request().Context()) == nil {
			return domain.Unauthorized("auth.require_customer", "JWT Token not found")
		}
		return next(c)
	}
}

// GetClaims returns the token claims of the authenticated customer, nil for
// anonymous requests.
func GetClaims(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(CustomerContextKey).(*auth.Claims)
	return claims
}

// CustomerID returns the ID of the authenticated customer, or 0 for
// anonymous requests.
func CustomerID(ctx context.Context) int64 {
	claims := GetClaims(ctx)
	if claims == nil {
		return 0
	}
	id, err := claims.CustomerID()
	if err != nil {
		return 0
	}
	return id
}
