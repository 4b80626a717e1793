// Package context carries request-scoped values between the transports and the use cases.
package context

import (
	"context"
	"log/slog"

	"ministry/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

const (
	KeyRequestID ContextKey = "request_id"
	KeyLogger    ContextKey = "logger"
	KeyClaims    ContextKey = "claims"

	// HeaderXRequestID is the HTTP header name for request ID.
	HeaderXRequestID = "X-Request-Id"
)

// GetRequestID extracts the request ID from echo.Context, generating one when missing.
func GetRequestID(c echo.Context) string {
	if id, ok := c.Get(string(KeyRequestID)).(string); ok && id != "" {
		return id
	}

	return uuid.New().String()
}

func SetRequestID(c echo.Context, requestID string) {
	c.Set(string(KeyRequestID), requestID)
}

// GetRequestIDFromContext returns "" when ctx carries no request ID.
func GetRequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(KeyRequestID).(string); ok {
		return id
	}

	return ""
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, KeyRequestID, requestID)
}

// GetLogger returns the request-scoped logger, or nil.
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(KeyLogger).(*slog.Logger); ok {
		return logger
	}

	return nil
}

// GetLoggerOrDefault returns the request-scoped logger or fallback.
func GetLoggerOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger := GetLogger(ctx); logger != nil {
		return logger
	}

	return fallback
}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, KeyLogger, logger)
}

// SetClaims stores the verified access token claims of the caller.
func SetClaims(c echo.Context, claims *service.Claims) {
	c.Set(string(KeyClaims), claims)
}

// GetClaims returns nil for anonymous requests.
func GetClaims(c echo.Context) *service.Claims {
	claims, _ := c.Get(string(KeyClaims)).(*service.Claims)

	return claims
}

// GetUserID returns the authenticated user's ID.
func GetUserID(c echo.Context) (uuid.UUID, bool) {
	claims := GetClaims(c)
	if claims == nil || claims.UserID == uuid.Nil {
		return uuid.Nil, false
	}

	return claims.UserID, true
}
