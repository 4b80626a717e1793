package worker

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"ministry/config"
	"ministry/internal/delivery"
	"ministry/internal/delivery/middleware"
	"ministry/internal/delivery/worker/handler"
	"ministry/internal/errors"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"
)

type workerServer struct {
	cfg    *config.Config
	logger *slog.Logger
	server *echo.Echo
}

// ServerParams holds dependencies for the worker server
type ServerParams struct {
	fx.In

	Lc          fx.Lifecycle
	Cfg         *config.Config
	Logger      *slog.Logger
	PushHandler *handler.PushHandler
}

// NewServer creates the worker HTTP server that receives push deliveries.
// Pushes are small JSON envelopes, so the body limit is much tighter than the API's.
func NewServer(params ServerParams) (delivery.Delivery, error) {
	cfg := params.Cfg
	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = cfg.Worker.HTTP.ReadTimeout
	e.Server.WriteTimeout = cfg.Worker.HTTP.WriteTimeout

	e.Use(echomiddleware.Recover())
	e.Use(middleware.NewRequestIDMiddleware(params.Logger, cfg.HTTP.RequestIDHeader).Process)
	e.Use(middleware.NewLoggerMiddleware(params.Logger, cfg).Handle)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.POST("/push", params.PushHandler.HandlePush, echomiddleware.BodyLimit(cfg.Worker.HTTP.MaxRequestBodySize))

	srv := &workerServer{
		cfg:    cfg,
		logger: params.Logger,
		server: e,
	}

	params.Lc.Append(fx.Hook{
		OnStop: srv.stop,
	})

	return srv, nil
}

// Serve starts the worker HTTP server
func (s *workerServer) Serve(ctx context.Context) error {
	hostPort := net.JoinHostPort("0.0.0.0", strconv.Itoa(s.cfg.Worker.HTTP.Port))
	s.logger.Info("Starting Worker HTTP server", slog.String("host_port", hostPort))
	if err := s.server.Start(hostPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.WithStack(err)
	}

	return nil
}

// stop gracefully shuts down the worker server
func (s *workerServer) stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, delivery.ShutdownTimeout(s.cfg))
	defer cancel()

	s.logger.Info("Shutting down Worker HTTP server")

	return errors.WithStack(s.server.Shutdown(shutdownCtx))
}
