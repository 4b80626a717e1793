package usecase

import (
	"context"
	"io"
	"time"

	"ministry/internal/domain/entity"
	"ministry/internal/domain/service"
)

// ReportType names a printable report.
type ReportType string

const (
	ReportOrders   ReportType = "orders"
	ReportUsers    ReportType = "users"
	ReportProducts ReportType = "products"
	ReportStock    ReportType = "stock"
)

// ReportTypes lists every report in display order.
func ReportTypes() []ReportType {
	return []ReportType{ReportOrders, ReportUsers, ReportProducts, ReportStock}
}

// ReportInput filters the orders report and sets the stock threshold.
type ReportInput struct {
	Type      ReportType
	From      *time.Time
	To        *time.Time
	Status    entity.OrderStatus
	Threshold int
}

// ReportUsecase renders admin reports as PDF.
type ReportUsecase interface {
	// Build assembles the table without rendering it.
	Build(ctx context.Context, input *ReportInput) (*service.ReportTable, error)
	Render(ctx context.Context, w io.Writer, input *ReportInput) error
}

// DashboardUsecase aggregates the admin overview.
type DashboardUsecase interface {
	Stats(ctx context.Context) (*entity.DashboardStats, error)
}

// NotificationDispatcher delivers one broker message on its channel.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, msg *service.NotificationMessage) error
}
