package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ministry/config"
	"ministry/internal/delivery/api/response"
	deliverycontext "ministry/internal/delivery/context"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/service"
	"ministry/internal/errors"
	"ministry/internal/infra/auth"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Code    string              `json:"code"`
	Errors  map[string][]string `json:"errors"`
	Data    map[string]string   `json:"data"`
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = NewErrorMiddleware(slog.Default()).HandleHTTPError

	return e
}

func newTestTokens(t *testing.T) service.TokenService {
	t.Helper()

	cfg := &config.Config{}
	cfg.SecretKey.Access = "access_secret_for_middleware_tests"
	cfg.SecretKey.Refresh = "refresh_secret_for_middleware_tests"
	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	return tokens
}

func newTestAuth(t *testing.T) (*AuthMiddleware, func(perms ...string) string) {
	t.Helper()

	tokens := newTestTokens(t)

	issue := func(perms ...string) string {
		pair, err := tokens.GenerateTokens(uuid.New(), []string{"member"}, perms)
		require.NoError(t, err)

		return pair.AccessToken
	}

	return NewAuthMiddleware(AuthMiddlewareParams{TokenService: tokens}), issue
}

func do(e *echo.Echo, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var body envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &body)

	return rec, body
}

func whoami(c echo.Context) error {
	userID, ok := deliverycontext.GetUserID(c)
	if !ok {
		return response.OK(c, "anonymous", map[string]string{"user": ""})
	}

	return response.OK(c, "ok", map[string]string{"user": userID.String()})
}

func TestAuthMiddleware(t *testing.T) {
	mw, issue := newTestAuth(t)

	e := newTestEcho()
	e.GET("/me", whoami, mw.Authenticate)
	e.GET("/optional", whoami, mw.OptionalAuthenticate)
	e.GET("/orders", whoami, mw.Authenticate, mw.RequirePermission("orders.manage"))
	e.GET("/members", whoami, mw.Authenticate, mw.RequireRole("admin", "member"))

	tests := []struct {
		name   string
		path   string
		token  string
		status int
		code   string
	}{
		{name: "missing token", path: "/me", status: http.StatusUnauthorized, code: "UNAUTHORIZED"},
		{name: "garbage token", path: "/me", token: "not-a-jwt", status: http.StatusUnauthorized, code: "UNAUTHORIZED"},
		{name: "valid token", path: "/me", token: issue(), status: http.StatusOK},
		{name: "optional anonymous", path: "/optional", status: http.StatusOK},
		{name: "optional with bad token", path: "/optional", token: "bad", status: http.StatusUnauthorized, code: "UNAUTHORIZED"},
		{name: "permission missing", path: "/orders", token: issue("catalog.manage"), status: http.StatusForbidden, code: "FORBIDDEN"},
		{name: "permission granted", path: "/orders", token: issue("orders.manage"), status: http.StatusOK},
		{name: "role granted", path: "/members", token: issue(), status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.token != "" {
				req.Header.Set(echo.HeaderAuthorization, "Bearer "+tt.token)
			}

			rec, body := do(e, req)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.status == http.StatusOK, body.Success)
			if tt.code != "" {
				assert.Equal(t, tt.code, body.Code)
			}
		})
	}
}

func TestAPIKeyMiddleware(t *testing.T) {
	mw := NewAPIKeyMiddleware(&config.Config{APIKeys: []string{"key-one", "", "key-two"}})

	e := newTestEcho()
	e.GET("/products", whoami, mw.Require)

	for key, status := range map[string]int{
		"key-one": http.StatusOK,
		"key-two": http.StatusOK,
		"":        http.StatusUnauthorized,
		"key":     http.StatusUnauthorized,
	} {
		req := httptest.NewRequest(http.MethodGet, "/products", nil)
		req.Header.Set(HeaderAPIKey, key)

		rec, body := do(e, req)
		assert.Equal(t, status, rec.Code, "key %q", key)
		if status != http.StatusOK {
			assert.Equal(t, "INVALID_API_KEY", body.Code)
		}
	}
}

func TestHandleHTTPError(t *testing.T) {
	e := newTestEcho()
	e.GET("/validation", func(echo.Context) error {
		verr := domainerrors.NewFieldError("email", "The email field is required.")

		return errors.Wrap(verr, "register")
	})
	e.GET("/conflict", func(echo.Context) error {
		return errors.Wrap(domainerrors.ErrInsufficientStock.WithDetails("SKU-1"), "place order")
	})
	e.GET("/boom", func(echo.Context) error {
		return errors.New("pq: connection refused")
	})

	t.Run("validation error lists fields", func(t *testing.T) {
		rec, body := do(e, httptest.NewRequest(http.MethodGet, "/validation", nil))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "VALIDATION_FAILED", body.Code)
		assert.Equal(t, []string{"The email field is required."}, body.Errors["email"])
	})

	t.Run("app error keeps its status", func(t *testing.T) {
		rec, body := do(e, httptest.NewRequest(http.MethodGet, "/conflict", nil))
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
		assert.Contains(t, body.Message, "SKU-1")
	})

	t.Run("unknown error is hidden", func(t *testing.T) {
		rec, body := do(e, httptest.NewRequest(http.MethodGet, "/boom", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "INTERNAL_ERROR", body.Code)
		assert.NotContains(t, rec.Body.String(), "connection refused")
	})

	t.Run("echo not found", func(t *testing.T) {
		rec, body := do(e, httptest.NewRequest(http.MethodGet, "/missing", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "NOT_FOUND", body.Code)
		assert.False(t, body.Success)
	})
}

func TestRateLimitPassThroughWithoutRedis(t *testing.T) {
	cfg := &config.Config{RateLimit: &config.RateLimitConfig{Enabled: true, Capacity: 1}}
	mw := NewRateLimitMiddleware(RateLimitMiddlewareParams{Config: cfg, Logger: slog.Default()})

	e := newTestEcho()
	e.GET("/ping", whoami, mw.Handle)

	for range 3 {
		rec, _ := do(e, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
	}
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
	req.RemoteAddr = "203.0.113.7:5000"
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/api/orders")

	userID := uuid.New()

	tests := []struct {
		strategy string
		claims   bool
		want     string
	}{
		{strategy: "ip", want: "rl:ip:203.0.113.7"},
		{strategy: "user", want: "rl:user:anon"},
		{strategy: "user", claims: true, want: "rl:user:" + userID.String()},
		{strategy: "route", want: "rl:route:POST /api/orders"},
		{strategy: "ip_route", want: "rl:ip:203.0.113.7:route:POST /api/orders"},
		{strategy: "", want: "rl:ip:203.0.113.7:user:anon:route:POST /api/orders"},
	}

	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			uid := "anon"
			if tt.claims {
				uid = userID.String()
			}
			assert.Equal(t, tt.want, buildRateKey("rl:", tt.strategy, uid, c))
		})
	}
}

type testLimiter struct {
	mw    *RateLimitMiddleware
	redis *miniredis.Miniredis
	clock time.Time
}

func newTestLimiter(t *testing.T, strategy string, capacity int, tokens service.TokenService) *testLimiter {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := &config.Config{RateLimit: &config.RateLimitConfig{
		Enabled:        true,
		Capacity:       capacity,
		RefillTokens:   1,
		RefillInterval: time.Minute,
		TTL:            time.Hour,
		Prefix:         "rl:",
		KeyStrategy:    strategy,
	}}

	l := &testLimiter{redis: srv, clock: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	l.mw = NewRateLimitMiddleware(RateLimitMiddlewareParams{
		Config:       cfg,
		Client:       client,
		TokenService: tokens,
		Logger:       slog.Default(),
	})
	l.mw.now = func() time.Time { return l.clock }

	return l
}

func TestRateLimitTokenBucket(t *testing.T) {
	l := newTestLimiter(t, "ip", 2, nil)

	e := newTestEcho()
	e.GET("/ping", whoami, l.mw.Handle)

	ping := func() (*httptest.ResponseRecorder, envelope) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "198.51.100.4:4000"

		return do(e, req)
	}

	for _, remaining := range []string{"1", "0"} {
		rec, _ := ping()
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, remaining, rec.Header().Get("X-RateLimit-Remaining"))
		assert.Empty(t, rec.Header().Get("Retry-After"))
	}

	rec, body := ping()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "TOO_MANY_REQUESTS", body.Code)
	assert.False(t, body.Success)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.True(t, l.redis.Exists("rl:ip:198.51.100.4"))

	// one interval later a single token is back
	l.clock = l.clock.Add(time.Minute)
	rec, _ = ping()
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = ping()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRateLimitKeysByBearerToken(t *testing.T) {
	tokens := newTestTokens(t)
	l := newTestLimiter(t, "user", 1, tokens)
	authMW := NewAuthMiddleware(AuthMiddlewareParams{TokenService: tokens})

	// the limiter sits on the group, ahead of route authentication
	e := newTestEcho()
	api := e.Group("/api", l.mw.Handle)
	api.GET("/me", whoami, authMW.OptionalAuthenticate)

	tokenFor := func(userID uuid.UUID) string {
		pair, err := tokens.GenerateTokens(userID, []string{"member"}, nil)
		require.NoError(t, err)

		return pair.AccessToken
	}
	call := func(token string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		if token != "" {
			req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		}
		rec, _ := do(e, req)

		return rec.Code
	}

	alice, bob := uuid.New(), uuid.New()
	aliceToken, bobToken := tokenFor(alice), tokenFor(bob)

	assert.Equal(t, http.StatusOK, call(aliceToken))
	assert.Equal(t, http.StatusOK, call(bobToken))
	assert.Equal(t, http.StatusOK, call(""))
	assert.Equal(t, http.StatusTooManyRequests, call(aliceToken))
	assert.Equal(t, http.StatusTooManyRequests, call(""))

	assert.True(t, l.redis.Exists("rl:user:"+alice.String()))
	assert.True(t, l.redis.Exists("rl:user:"+bob.String()))
	assert.True(t, l.redis.Exists("rl:user:anon"))
}

func TestRateLimitUserKey(t *testing.T) {
	tokens := newTestTokens(t)
	l := newTestLimiter(t, "user", 1, tokens)
	e := echo.New()

	userID := uuid.New()
	pair, err := tokens.GenerateTokens(userID, nil, nil)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		claims bool
		want   string
	}{
		{name: "anonymous", want: "anon"},
		{name: "access token", header: "Bearer " + pair.AccessToken, want: userID.String()},
		{name: "refresh token", header: "Bearer " + pair.RefreshToken, want: "anon"},
		{name: "garbage", header: "Bearer nope", want: "anon"},
		{name: "claims already set", claims: true, want: userID.String()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			c := e.NewContext(req, httptest.NewRecorder())
			if tt.claims {
				deliverycontext.SetClaims(c, &service.Claims{UserID: userID})
			}

			assert.Equal(t, tt.want, l.mw.userKey(c))
		})
	}
}
