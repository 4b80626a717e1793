package middleware

import (
	"log/slog"

	deliverycontext "ministry/internal/delivery/context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// maxRequestIDLength bounds client supplied IDs before they reach the logs.
const maxRequestIDLength = 64

// RequestIDMiddleware correlates a request across the API, the notification
// queue and the worker. The ID is echoed back under the same header.
type RequestIDMiddleware struct {
	logger *slog.Logger
	header string
}

// NewRequestIDMiddleware reads and writes the ID under header, falling back to X-Request-Id.
func NewRequestIDMiddleware(logger *slog.Logger, header string) *RequestIDMiddleware {
	if header == "" {
		header = deliverycontext.HeaderXRequestID
	}

	return &RequestIDMiddleware{
		logger: logger,
		header: header,
	}
}

func (m *RequestIDMiddleware) Process(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get(m.header)
		if !validRequestID(requestID) {
			requestID = uuid.New().String()
		}

		deliverycontext.SetRequestID(c, requestID)
		c.Response().Header().Set(m.header, requestID)

		ctx := deliverycontext.WithRequestID(c.Request().Context(), requestID)
		ctx = deliverycontext.WithLogger(ctx, m.logger.With(slog.String("request_id", requestID)))
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}

// validRequestID accepts IDs made of letters, digits, '-', '_' and '.'.
// Anything else is replaced so log lines and response headers stay clean.
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.':
		default:
			return false
		}
	}

	return true
}
