package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ministry/internal/delivery/api/middleware"
	"ministry/internal/delivery/api/validator"
	deliverycontext "ministry/internal/delivery/context"
	"ministry/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Code    string              `json:"code"`
	Errors  map[string][]string `json:"errors"`
	Data    json.RawMessage     `json:"data"`
	Meta    struct {
		Page  int    `json:"page"`
		Total *int64 `json:"total"`
	} `json:"meta"`
}

func newTestEcho() *echo.Echo {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	e := echo.New()
	e.Validator = validator.New()
	e.HTTPErrorHandler = middleware.NewErrorMiddleware(logger).HandleHTTPError

	return e
}

// asUser authenticates every request as userID.
func asUser(userID uuid.UUID) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			deliverycontext.SetClaims(c, &service.Claims{UserID: userID})

			return next(c)
		}
	}
}

func serve(t *testing.T, e *echo.Echo, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var body envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}

	return rec, body
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	return req
}

func multipartRequest(t *testing.T, target, field, filename, content string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = io.WriteString(part, content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())

	return req
}
