// Package response writes the API's JSON envelope.
package response

import (
	"net/http"

	deliverycontext "ministry/internal/delivery/context"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/repository"
	"ministry/internal/errors"

	"github.com/labstack/echo/v4"
)

// SuccessResponse defines the structure for successful responses
type SuccessResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Data    any       `json:"data"`
	Meta    *MetaInfo `json:"meta"`
}

// ErrorResponse defines the structure for error responses
type ErrorResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Code    string              `json:"code"`
	Errors  map[string][]string `json:"errors,omitempty"`
	Meta    *MetaInfo           `json:"meta"`
}

// MetaInfo represents response metadata. Pagination fields are set on list responses only.
type MetaInfo struct {
	RequestID string `json:"request_id"`
	Page      int    `json:"page,omitempty"`
	PerPage   int    `json:"per_page,omitempty"`
	Total     *int64 `json:"total,omitempty"`
	LastPage  int    `json:"last_page,omitempty"`
}

// Success returns a successful response
func Success(c echo.Context, statusCode int, message string, data any) error {
	return c.JSON(statusCode, SuccessResponse{
		Success: true,
		Message: message,
		Data:    data,
		Meta: &MetaInfo{
			RequestID: deliverycontext.GetRequestID(c),
		},
	})
}

// OK is Success with 200.
func OK(c echo.Context, message string, data any) error {
	return Success(c, http.StatusOK, message, data)
}

// Created is Success with 201.
func Created(c echo.Context, message string, data any) error {
	return Success(c, http.StatusCreated, message, data)
}

// Paginated writes page.Items as data and the page position as meta.
func Paginated[T any](c echo.Context, message string, page *repository.Page[T]) error {
	total := page.Total
	items := page.Items
	if items == nil {
		items = []T{}
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: message,
		Data:    items,
		Meta: &MetaInfo{
			RequestID: deliverycontext.GetRequestID(c),
			Page:      page.Page,
			PerPage:   page.PerPage,
			Total:     &total,
			LastPage:  page.LastPage,
		},
	})
}

// Error returns an error response
func Error(c echo.Context, statusCode int, errorCode, message string, fieldErrors map[string][]string) error {
	// Field errors should not be included for 5xx errors or authentication/authorization errors
	if statusCode >= http.StatusInternalServerError || statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden {
		fieldErrors = nil
	}

	return c.JSON(statusCode, ErrorResponse{
		Success: false,
		Message: message,
		Code:    errorCode,
		Errors:  fieldErrors,
		Meta: &MetaInfo{
			RequestID: deliverycontext.GetRequestID(c),
		},
	})
}

// BadRequest returns a 400 error
func BadRequest(c echo.Context, errorCode, message string) error {
	return Error(c, http.StatusBadRequest, errorCode, message, nil)
}

// InternalServerError returns a 500 error
func InternalServerError(c echo.Context, errorCode, message string) error {
	return Error(c, http.StatusInternalServerError, errorCode, message, nil)
}

// HandleAppError writes domain errors; anything else is returned for the HTTP error handler.
func HandleAppError(c echo.Context, err error) error {
	var validationErr *domainerrors.ValidationError
	if errors.As(err, &validationErr) {
		return Error(c, validationErr.HTTPCode(), validationErr.ErrorCode(), validationErr.Message(), validationErr.FieldErrors())
	}

	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		message := appErr.Message()
		if appErr.HTTPCode() < http.StatusInternalServerError && appErr.Details() != "" {
			message = message + ": " + appErr.Details()
		}

		return Error(c, appErr.HTTPCode(), appErr.ErrorCode(), message, nil)
	}

	return errors.WithStack(err)
}
