package middleware

import (
	"crypto/subtle"

	"ministry/config"
	domainerrors "ministry/internal/domain/errors"

	"github.com/labstack/echo/v4"
)

// HeaderAPIKey carries the client key on public catalog routes.
const HeaderAPIKey = "X-API-Key"

type APIKeyMiddleware struct {
	keys [][]byte
}

func NewAPIKeyMiddleware(cfg *config.Config) *APIKeyMiddleware {
	keys := make([][]byte, 0, len(cfg.APIKeys))
	for _, k := range cfg.APIKeys {
		if k != "" {
			keys = append(keys, []byte(k))
		}
	}

	return &APIKeyMiddleware{keys: keys}
}

// Require rejects requests whose X-API-Key matches no configured key.
func (m *APIKeyMiddleware) Require(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !m.valid(c.Request().Header.Get(HeaderAPIKey)) {
			return domainerrors.ErrInvalidAPIKey
		}

		return next(c)
	}
}

func (m *APIKeyMiddleware) valid(key string) bool {
	if key == "" {
		return false
	}

	match := 0
	for _, k := range m.keys {
		// no early exit on match
		match |= subtle.ConstantTimeCompare(k, []byte(key))
	}

	return match == 1
}
