package middleware

import (
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"ministry/config"
	"ministry/internal/delivery/api/response"
	deliverycontext "ministry/internal/delivery/context"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/service"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// tokenBucket returns {allowed, tokens left, retry after ms} and refills whole intervals only.
var tokenBucket = redis.NewScript(`
local key = KEYS[1]
local now_ms = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local refill_tokens = tonumber(ARGV[3])
local interval_ms = tonumber(ARGV[4])
local ttl_seconds = tonumber(ARGV[5])

local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
local tokens = tonumber(state[1])
local last_refill = tonumber(state[2])

if tokens == nil or last_refill == nil then
	tokens = capacity
	last_refill = now_ms
end

if interval_ms > 0 and refill_tokens > 0 then
	local elapsed = math.max(0, now_ms - last_refill)
	local intervals = math.floor(elapsed / interval_ms)
	if intervals > 0 then
		tokens = math.min(capacity, tokens + (intervals * refill_tokens))
		last_refill = last_refill + (intervals * interval_ms)
	end
end

local allowed = 0
local retry_after_ms = 0
if tokens > 0 then
	allowed = 1
	tokens = tokens - 1
else
	retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
end

redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
redis.call('EXPIRE', key, ttl_seconds)

return { allowed, tokens, retry_after_ms }
`)

// RateLimitMiddleware is a Redis token bucket shared by every API instance.
// It runs ahead of route authentication, so user-based keys come from the bearer token.
type RateLimitMiddleware struct {
	cfg    *config.RateLimitConfig
	client *redis.Client
	tokens service.TokenService
	logger *slog.Logger
	now    func() time.Time
}

type RateLimitMiddlewareParams struct {
	fx.In

	Config       *config.Config
	Client       *redis.Client        `optional:"true"`
	TokenService service.TokenService `optional:"true"`
	Logger       *slog.Logger
}

func NewRateLimitMiddleware(params RateLimitMiddlewareParams) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		cfg:    params.Config.RateLimit,
		client: params.Client,
		tokens: params.TokenService,
		logger: params.Logger,
		now:    time.Now,
	}
}

// Handle passes requests through when limiting is disabled or Redis is unavailable.
func (m *RateLimitMiddleware) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	if m.cfg == nil || !m.cfg.Enabled || m.client == nil {
		return next
	}

	return func(c echo.Context) error {
		key := m.key(c)
		args := []any{
			m.now().UnixMilli(),
			m.cfg.Capacity,
			m.cfg.RefillTokens,
			m.cfg.RefillInterval.Milliseconds(),
			int64(m.cfg.TTL / time.Second),
		}

		vals, err := tokenBucket.Run(c.Request().Context(), m.client, []string{key}, args...).Int64Slice()
		if err != nil || len(vals) != 3 {
			deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger).Warn("Rate limiter unavailable",
				slog.String("key", key),
				slog.Any("error", err),
			)

			return next(c)
		}

		header := c.Response().Header()
		header.Set("X-RateLimit-Limit", strconv.Itoa(m.cfg.Capacity))
		header.Set("X-RateLimit-Remaining", strconv.FormatInt(vals[1], 10))

		if vals[0] != 1 {
			secs := int(math.Ceil(float64(vals[2]) / 1000.0))
			header.Set("Retry-After", strconv.Itoa(secs))

			return response.HandleAppError(c, domainerrors.ErrTooManyRequests)
		}

		return next(c)
	}
}

func (m *RateLimitMiddleware) key(c echo.Context) string {
	return buildRateKey(m.cfg.Prefix, m.cfg.KeyStrategy, m.userKey(c), c)
}

// userKey is "anon" unless the request already carries claims or a valid access token.
// An invalid token is rejected later by Authenticate, not here.
func (m *RateLimitMiddleware) userKey(c echo.Context) string {
	if id, ok := deliverycontext.GetUserID(c); ok {
		return id.String()
	}
	if m.tokens == nil {
		return "anon"
	}
	token, ok := bearerToken(c)
	if !ok {
		return "anon"
	}
	claims, err := m.tokens.ValidateAccessToken(token)
	if err != nil {
		return "anon"
	}

	return claims.UserID.String()
}

func buildRateKey(prefix, strategy, uid string, c echo.Context) string {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	route := c.Request().Method + " " + c.Path()

	parts := []string{strings.TrimSuffix(prefix, ":")}
	switch strings.ToLower(strategy) {
	case "ip":
		parts = append(parts, "ip", ip)
	case "user":
		parts = append(parts, "user", uid)
	case "route":
		parts = append(parts, "route", route)
	case "ip_user":
		parts = append(parts, "ip", ip, "user", uid)
	case "ip_route":
		parts = append(parts, "ip", ip, "route", route)
	case "user_route":
		parts = append(parts, "user", uid, "route", route)
	default:
		parts = append(parts, "ip", ip, "user", uid, "route", route)
	}

	return strings.Join(parts, ":")
}
