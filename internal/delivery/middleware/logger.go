// Package middleware holds the echo middleware shared by the API and the worker.
package middleware

import (
	"context"
	"log/slog"
	"time"

	"ministry/config"
	deliverycontext "ministry/internal/delivery/context"

	"github.com/labstack/echo/v4"
)

// LoggerMiddleware logs every request in debug mode and server errors always.
type LoggerMiddleware struct {
	logger *slog.Logger
	debug  bool
}

func NewLoggerMiddleware(logger *slog.Logger, config *config.Config) *LoggerMiddleware {
	return &LoggerMiddleware{
		logger: logger,
		debug:  config.Env.Debug,
	}
}

func (m *LoggerMiddleware) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			// let the error handler write the status before it is logged
			c.Error(err)
		}

		status := c.Response().Status
		if m.debug || status >= 500 {
			m.logRequest(c, start, status, err)
		}

		return nil
	}
}

func (m *LoggerMiddleware) logRequest(c echo.Context, start time.Time, status int, err error) {
	req := c.Request()

	fields := []slog.Attr{
		slog.String("request_id", deliverycontext.GetRequestID(c)),
		slog.String("method", req.Method),
		slog.String("uri", req.URL.Path),
		slog.Int("status", status),
		slog.Duration("latency", time.Since(start)),
		slog.String("remote_ip", c.RealIP()),
		slog.String("user_agent", req.UserAgent()),
	}
	if len(req.URL.RawQuery) > 0 {
		fields = append(fields, slog.String("query", req.URL.RawQuery))
	}
	if userID, ok := deliverycontext.GetUserID(c); ok {
		fields = append(fields, slog.String("user_id", userID.String()))
	}
	if err != nil {
		fields = append(fields, slog.Any("error", err))
	}

	level := slog.LevelInfo
	switch {
	case status >= 500:
		level = slog.LevelError
	case status >= 400:
		level = slog.LevelWarn
	}

	m.logger.LogAttrs(context.Background(), level, "HTTP Request", fields...)
}
