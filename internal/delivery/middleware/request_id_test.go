package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	deliverycontext "ministry/internal/delivery/context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDMiddleware(t *testing.T) {
	const header = "X-Correlation-Id"

	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{name: "generated when absent", incoming: ""},
		{name: "client id reused", incoming: "app-7f3c.42_a", keep: true},
		{name: "too long", incoming: strings.Repeat("a", maxRequestIDLength+1)},
		{name: "spaces and quotes", incoming: `abc" level=ERROR`},
		{name: "newline", incoming: "abc\ndef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			m := NewRequestIDMiddleware(slog.New(slog.NewTextHandler(&buf, nil)), header)

			var seen, fromCtx string
			e := echo.New()
			e.GET("/", func(c echo.Context) error {
				seen = deliverycontext.GetRequestID(c)
				fromCtx = deliverycontext.GetRequestIDFromContext(c.Request().Context())
				deliverycontext.GetLoggerOrDefault(c.Request().Context(), nil).Info("handled")

				return c.NoContent(http.StatusNoContent)
			}, m.Process)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(header, tt.incoming)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			require.Equal(t, http.StatusNoContent, rec.Code)
			assert.Equal(t, seen, rec.Header().Get(header))
			assert.Equal(t, seen, fromCtx)
			assert.Empty(t, rec.Header().Get(deliverycontext.HeaderXRequestID))
			assert.Contains(t, buf.String(), "request_id="+seen)
			if tt.keep {
				assert.Equal(t, tt.incoming, seen)
			} else {
				_, err := uuid.Parse(seen)
				assert.NoError(t, err, "replaced with a generated id")
			}
		})
	}
}

func TestRequestIDMiddlewareDefaultHeader(t *testing.T) {
	m := NewRequestIDMiddleware(slog.New(slog.DiscardHandler), "")

	e := echo.New()
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }, m.Process)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(deliverycontext.HeaderXRequestID, "req-1")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "req-1", rec.Header().Get(deliverycontext.HeaderXRequestID))
}
