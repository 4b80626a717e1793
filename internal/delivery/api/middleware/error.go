// Package middleware holds the API-only echo middleware: errors, auth, API keys and rate limits.
package middleware

import (
	"log/slog"
	"net/http"

	"ministry/internal/delivery/api/response"
	deliverycontext "ministry/internal/delivery/context"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/errors"

	"github.com/labstack/echo/v4"
)

// ErrorMiddleware handles errors in the HTTP pipeline
type ErrorMiddleware struct {
	logger *slog.Logger
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger: logger,
	}
}

// HandleHTTPError handles errors as Echo's HTTPErrorHandler
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var validationErr *domainerrors.ValidationError
	var appErr domainerrors.AppError
	if errors.As(err, &validationErr) || errors.As(err, &appErr) {
		if appErr != nil && appErr.HTTPCode() >= http.StatusInternalServerError {
			m.log(c).Error("Request failed", slog.Any("error", err), slog.String("code", appErr.ErrorCode()))
		}
		_ = response.HandleAppError(c, err)

		return
	}

	// Check if it is an Echo HTTPError
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := http.StatusText(httpErr.Code)
		if msg, ok := httpErr.Message.(string); ok && msg != "" {
			message = msg
		}

		_ = response.Error(c, httpErr.Code, httpErrorCode(httpErr.Code), message, nil)

		return
	}

	// Default to internal error, log the error but return a generic message
	m.log(c).Error("Unhandled error",
		slog.Any("error", err),
		slog.String("path", c.Request().URL.Path),
		slog.String("method", c.Request().Method),
	)

	_ = response.InternalServerError(c, domainerrors.ErrInternalError.ErrorCode(), "Internal server error, please try again later")
}

func (m *ErrorMiddleware) log(c echo.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger)
}

func httpErrorCode(status int) string {
	switch status {
	case http.StatusNotFound:
		return domainerrors.ErrNotFound.ErrorCode()
	case http.StatusUnauthorized:
		return domainerrors.ErrUnauthorized.ErrorCode()
	case http.StatusForbidden:
		return domainerrors.ErrForbidden.ErrorCode()
	case http.StatusTooManyRequests:
		return domainerrors.ErrTooManyRequests.ErrorCode()
	case http.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	}

	return "HTTP_ERROR"
}
