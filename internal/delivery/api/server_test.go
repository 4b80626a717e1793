package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ministry/config"
	"ministry/internal/delivery"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServerConfig() *config.Config {
	cfg := &config.Config{}
	cfg.HTTP.RequestIDHeader = "X-Correlation-Id"
	cfg.HTTP.CORSOrigins = []string{"https://ministry.example.org"}
	cfg.HTTP.Timeouts.ReadTimeout = 15 * time.Second
	cfg.HTTP.Timeouts.ReadHeaderTimeout = 5 * time.Second
	cfg.HTTP.Timeouts.WriteTimeout = 30 * time.Second
	cfg.HTTP.Timeouts.IdleTimeout = time.Minute

	return cfg
}

func TestCORSConfig(t *testing.T) {
	e := echo.New()
	e.Use(echomiddleware.CORSWithConfig(corsConfig(newServerConfig())))
	e.GET("/api/products", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/api/products", nil)
		req.Header.Set(echo.HeaderOrigin, origin)
		req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodGet)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		return rec
	}

	rec := preflight("https://ministry.example.org")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://ministry.example.org", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Contains(t, rec.Header().Get(echo.HeaderAccessControlAllowHeaders), "X-Correlation-Id")
	assert.Contains(t, rec.Header().Get(echo.HeaderAccessControlAllowHeaders), "X-API-Key")

	rec = preflight("https://elsewhere.example.com")
	assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set(echo.HeaderOrigin, "https://ministry.example.org")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	exposed := rec.Header().Get(echo.HeaderAccessControlExposeHeaders)
	assert.Contains(t, exposed, "X-Correlation-Id")
	assert.Contains(t, exposed, "X-RateLimit-Remaining")
}

func TestCORSConfigAllowsAnyOriginByDefault(t *testing.T) {
	cfg := newServerConfig()
	cfg.HTTP.CORSOrigins = nil

	assert.Equal(t, []string{"*"}, corsConfig(cfg).AllowOrigins)
}

func TestServerTimeouts(t *testing.T) {
	cfg := newServerConfig()
	server := &http.Server{}
	applyTimeouts(server, cfg)

	assert.Equal(t, 15*time.Second, server.ReadTimeout)
	assert.Equal(t, 5*time.Second, server.ReadHeaderTimeout)
	assert.Equal(t, 30*time.Second, server.WriteTimeout)
	assert.Equal(t, time.Minute, server.IdleTimeout)

	assert.Equal(t, 10*time.Second, delivery.ShutdownTimeout(cfg))
	cfg.HTTP.Timeouts.ShutdownTimeout = 3 * time.Second
	assert.Equal(t, 3*time.Second, delivery.ShutdownTimeout(cfg))
}
