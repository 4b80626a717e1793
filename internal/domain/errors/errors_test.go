package errors

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaseError_WithDetailsKeepsIdentity(t *testing.T) {
	detailed := ErrInsufficientStock.WithDetails("product SKU-1")

	assert.True(t, stderrors.Is(detailed, ErrInsufficientStock))
	assert.False(t, stderrors.Is(detailed, ErrTicketsUnavailable))
	assert.Equal(t, http.StatusConflict, detailed.HTTPCode())
	assert.Equal(t, "product SKU-1", detailed.Details())
}

func TestBaseError_WrapMessage(t *testing.T) {
	err := ErrOrderNotFound.WrapMessage("load order")

	var appErr AppError
	assert.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, "ORDER_NOT_FOUND", appErr.ErrorCode())
	assert.Equal(t, http.StatusNotFound, appErr.HTTPCode())
}

func TestValidationError(t *testing.T) {
	verr := NewFieldError("email", "is required")
	verr.Add("email", "must be a valid email")
	verr.Add("amount", "must be greater than 0")

	assert.True(t, verr.HasErrors())
	assert.Equal(t, http.StatusUnprocessableEntity, verr.HTTPCode())
	assert.Equal(t, "VALIDATION_FAILED", verr.ErrorCode())
	assert.Len(t, verr.FieldErrors()["email"], 2)
	assert.Equal(t, "validation failed: amount: must be greater than 0; email: is required, must be a valid email", verr.Error())

	var appErr AppError = verr
	assert.Equal(t, 422, appErr.HTTPCode())
}
