package http

import (
	"errors"
	"log/slog"
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// statusFor maps application errors to HTTP status codes. Anything it does
// not recognise is a server fault.
func statusFor(err error) int {
	switch {
	case errors.Is(err, access.ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, services.ErrNoOpTransition),
		errors.Is(err, order.ErrIllegalTransition),
		errors.Is(err, errs.ErrVersionIsInvalid),
		errors.Is(err, errs.ErrObjectExists):
		return http.StatusConflict
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, commands.ErrReferenceIsRequired):
		return http.StatusBadRequest
	case errors.Is(err, errActorMissing):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// errorHandler renders every failure as an Error body. Internal errors are
// logged with the request id and answered with a generic message.
func errorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := http.StatusText(code)

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			code = httpErr.Code
			if m, ok := httpErr.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(code)
			}
			if httpErr.Internal != nil {
				logger.Debug("request rejected",
					"status", code,
					"path", c.Path(),
					"error", httpErr.Internal,
				)
			}
		} else {
			code = statusFor(err)
			if code == http.StatusInternalServerError {
				logger.Error("request failed",
					"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
					"path", c.Path(),
					"error", err,
				)
			} else {
				message = err.Error()
			}
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(code)
		} else {
			writeErr = c.JSON(code, Error{Code: code, Message: message})
		}
		if writeErr != nil {
			logger.Error("failed to write error response", "error", writeErr)
		}
	}
}
