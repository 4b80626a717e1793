package handler

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"time"

	"ministry/internal/delivery/api/response"
	"ministry/internal/domain/entity"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type ReportHandlerParams struct {
	fx.In

	ReportUC    usecase.ReportUsecase
	DashboardUC usecase.DashboardUsecase
	Logger      *slog.Logger
}

// ReportHandler serves the admin dashboard and the PDF reports.
type ReportHandler struct {
	reportUC    usecase.ReportUsecase
	dashboardUC usecase.DashboardUsecase
	logger      *slog.Logger
	now         func() time.Time
}

func NewReportHandler(params ReportHandlerParams) *ReportHandler {
	return &ReportHandler{
		reportUC:    params.ReportUC,
		dashboardUC: params.DashboardUC,
		logger:      params.Logger,
		now:         time.Now,
	}
}

func (h *ReportHandler) Dashboard(c echo.Context) error {
	stats, err := h.dashboardUC.Stats(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Dashboard", stats)
}

// Download renders the report named by :type as a PDF attachment.
// The document is buffered so render failures still produce a JSON error.
func (h *ReportHandler) Download(c echo.Context) error {
	input, err := h.reportInput(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var buf bytes.Buffer
	if err := h.reportUC.Render(c.Request().Context(), &buf, input); err != nil {
		return response.HandleAppError(c, err)
	}

	filename := fmt.Sprintf("%s-report-%s.pdf", input.Type, h.now().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))

	return c.Blob(http.StatusOK, "application/pdf", buf.Bytes())
}

func (h *ReportHandler) reportInput(c echo.Context) (*usecase.ReportInput, error) {
	reportType := usecase.ReportType(c.Param("type"))
	if !slices.Contains(usecase.ReportTypes(), reportType) {
		return nil, domainerrors.ErrNotFound.WithDetails(fmt.Sprintf("unknown report %q", reportType))
	}

	from, err := queryDate(c, "from", false)
	if err != nil {
		return nil, err
	}
	to, err := queryDate(c, "to", true)
	if err != nil {
		return nil, err
	}

	threshold := 0
	if raw := c.QueryParam("threshold"); raw != "" {
		threshold, err = strconv.Atoi(raw)
		if err != nil || threshold < 0 {
			return nil, domainerrors.NewFieldError("threshold", "The threshold must be a non-negative integer.")
		}
	}

	return &usecase.ReportInput{
		Type:      reportType,
		From:      from,
		To:        to,
		Status:    entity.OrderStatus(c.QueryParam("status")),
		Threshold: threshold,
	}, nil
}
