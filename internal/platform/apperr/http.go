package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hms/hms/pkg/response"
)

// HTTPErrorHandler returns the echo error handler that maps service
// errors to the response envelope. Known kinds pass their message
// through; unexpected errors are logged with the request correlation id
// and the client only sees the id, not the cause.
func HTTPErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		rid, _ := c.Get("request_id").(string)

		var ae *Error
		if errors.As(err, &ae) {
			if ae.Kind == Unexpected {
				logger.Error().
					Err(err).
					Str("request_id", rid).
					Str("path", c.Request().URL.Path).
					Msg("unexpected error")
				_ = response.Fail(c, http.StatusInternalServerError, Unexpected.String(),
					fmt.Sprintf("internal error (request %s)", rid))
				return
			}
			_ = response.Fail(c, ae.Kind.HTTPStatus(), ae.Kind.String(), ae.Msg)
			return
		}

		// echo's own errors (bad routes, malformed bodies from Bind).
		var he *echo.HTTPError
		if errors.As(err, &he) {
			msg := fmt.Sprintf("%v", he.Message)
			code := Unexpected.String()
			switch he.Code {
			case http.StatusBadRequest:
				code = InvalidValue.String()
			case http.StatusUnauthorized:
				code = Unauthenticated.String()
			case http.StatusForbidden:
				code = Forbidden.String()
			case http.StatusNotFound:
				code = NotFound.String()
			}
			_ = response.Fail(c, he.Code, code, msg)
			return
		}

		logger.Error().
			Err(err).
			Str("request_id", rid).
			Str("path", c.Request().URL.Path).
			Msg("unhandled error")
		_ = response.Fail(c, http.StatusInternalServerError, Unexpected.String(),
			fmt.Sprintf("internal error (request %s)", rid))
	}
}
