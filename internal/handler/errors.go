// Package handler holds what the HTTP handlers share: error responses and
// request locale access.
package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dukerupert/shopapi/internal/domain"
	"github.com/dukerupert/shopapi/internal/i18n"
)

// LocaleKey is the echo context key holding the negotiated request locale.
const LocaleKey = "locale"

// Locale returns the negotiated locale of the request, en_US when none was
// negotiated.
func Locale(c echo.Context) string {
	if l, ok := c.Get(LocaleKey).(string); ok && l != "" {
		return l
	}
	return i18n.EnUS
}

// ErrorBody is the JSON body of every error response. Errors is set for
// validation failures only.
type ErrorBody struct {
	Code    int                 `json:"code"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// ErrorCodeToHTTPStatus maps domain error codes to HTTP status codes.
func ErrorCodeToHTTPStatus(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest
	case domain.EUNAUTHORIZED:
		return http.StatusUnauthorized
	case domain.EPAYMENT:
		return http.StatusPaymentRequired
	case domain.EFORBIDDEN:
		return http.StatusForbidden
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.ECONFLICT:
		return http.StatusConflict
	case domain.ENOTIMPL:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// NewErrorBody converts err into a status and response body. Internal errors
// never leak their details.
func NewErrorBody(err error, locale string) (int, ErrorBody) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok {
			msg = s
		}
		return he.Code, ErrorBody{Code: he.Code, Message: msg}
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ErrorBody{
			Code:    http.StatusBadRequest,
			Message: i18n.T(locale, i18n.MsgValidationFailed),
			Errors:  ve.Fields,
		}
	}

	status := ErrorCodeToHTTPStatus(domain.ErrorCode(err))
	return status, ErrorBody{Code: status, Message: domain.ErrorMessage(err)}
}

// HTTPErrorHandler renders errors returned by handlers and middleware as
// JSON. Server errors are logged at error level, client errors at debug.
func HTTPErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := NewErrorBody(err, Locale(c))

		log := zerolog.Ctx(c.Request().Context())
		if log.GetLevel() == zerolog.Disabled {
			log = &logger
		}
		event := log.Debug()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.Err(err).
			Int("status", status).
			Str("code", domain.ErrorCode(err)).
			Str("op", domain.ErrorOp(err)).
			Msg("request failed")

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			log.Error().Err(err).Msg("failed to write error response")
		}
	}
}
