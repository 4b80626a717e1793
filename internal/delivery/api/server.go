package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"ministry/config"
	"ministry/internal/delivery"
	apimiddleware "ministry/internal/delivery/api/middleware"
	"ministry/internal/delivery/api/router"
	"ministry/internal/delivery/api/validator"
	"ministry/internal/delivery/middleware"
	"ministry/internal/errors"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"
	"golang.org/x/net/http2"
)

type apiServer struct {
	cfg    *config.Config
	logger *slog.Logger
	server *echo.Echo
}

// ServerParams holds dependencies for HTTP server, injected by Fx.
type ServerParams struct {
	fx.In

	Lc           fx.Lifecycle
	Cfg          *config.Config
	Logger       *slog.Logger
	RouterParams router.RouterParams
}

func NewServer(params ServerParams) (delivery.Delivery, error) {
	cfg := params.Cfg
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = apimiddleware.NewErrorMiddleware(params.Logger).HandleHTTPError
	e.Validator = validator.New()
	applyTimeouts(e.Server, cfg)

	// recover wraps everything; the request ID must exist before the access log runs
	e.Use(echomiddleware.Recover())
	e.Use(middleware.NewRequestIDMiddleware(params.Logger, cfg.HTTP.RequestIDHeader).Process)
	e.Use(middleware.NewLoggerMiddleware(params.Logger, cfg).Handle)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:      "0",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}))
	e.Use(echomiddleware.CORSWithConfig(corsConfig(cfg)))
	e.Use(echomiddleware.BodyLimit(cfg.HTTP.MaxRequestBodySize))

	// uploaded media from a file-backed bucket
	if cfg.Storage != nil && cfg.Storage.LocalDir != "" {
		e.Static("/storage", cfg.Storage.LocalDir)
	}

	// the rate limiter is attached to the /api group by the router
	router.NewRouter(params.RouterParams).RegisterRoutes(e)

	srv := &apiServer{
		cfg:    cfg,
		logger: params.Logger,
		server: e,
	}

	params.Lc.Append(fx.Hook{
		OnStop: srv.stop,
	})

	return srv, nil
}

func applyTimeouts(server *http.Server, cfg *config.Config) {
	server.ReadTimeout = cfg.HTTP.Timeouts.ReadTimeout
	server.ReadHeaderTimeout = cfg.HTTP.Timeouts.ReadHeaderTimeout
	server.WriteTimeout = cfg.HTTP.Timeouts.WriteTimeout
	server.IdleTimeout = cfg.HTTP.Timeouts.IdleTimeout
}

// corsConfig allows every origin when none are configured. Browsers may read
// the request ID and the rate limit headers.
func corsConfig(cfg *config.Config) echomiddleware.CORSConfig {
	corsCfg := echomiddleware.DefaultCORSConfig
	if len(cfg.HTTP.CORSOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.HTTP.CORSOrigins
	}
	corsCfg.AllowHeaders = []string{
		echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept,
		echo.HeaderAuthorization, apimiddleware.HeaderAPIKey, cfg.HTTP.RequestIDHeader,
	}
	corsCfg.ExposeHeaders = []string{
		cfg.HTTP.RequestIDHeader, echo.HeaderRetryAfter,
		"X-RateLimit-Limit", "X-RateLimit-Remaining",
	}

	return corsCfg
}

func (s *apiServer) Serve(ctx context.Context) error {
	hostPort := net.JoinHostPort("0.0.0.0", strconv.Itoa(s.cfg.HTTP.Port))
	s.logger.Info("Starting API HTTP server", slog.String("host_port", hostPort))
	h2Server := &http2.Server{
		IdleTimeout: s.cfg.HTTP.Timeouts.IdleTimeout,
	}
	if err := s.server.StartH2CServer(hostPort, h2Server); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.WithStack(err)
	}

	return nil
}

func (s *apiServer) stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, delivery.ShutdownTimeout(s.cfg))
	defer cancel()

	s.logger.Info("Shutting down API HTTP server")

	return errors.WithStack(s.server.Shutdown(shutdownCtx))
}
