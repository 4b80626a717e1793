package handler

import (
	"context"
	"net/http"
	"time"

	"ministry/internal/delivery/api/response"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

const healthTimeout = 2 * time.Second

type HealthHandlerParams struct {
	fx.In

	DB *gorm.DB
}

// HealthHandler reports process and database liveness.
type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(params HealthHandlerParams) *HealthHandler {
	return &HealthHandler{db: params.DB}
}

func (h *HealthHandler) Check(c echo.Context) error {
	status := map[string]string{"status": "ok", "database": "ok"}

	ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
	defer cancel()

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		status["status"] = "degraded"
		status["database"] = "unavailable"

		return response.Success(c, http.StatusServiceUnavailable, "Service degraded", status)
	}

	return response.OK(c, "Service healthy", status)
}
