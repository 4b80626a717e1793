package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "ministry/internal/delivery/context"
	"ministry/internal/domain/service"
	"ministry/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

type notificationService struct {
	publisher service.NotificationPublisher
	logger    *slog.Logger
	now       func() time.Time
}

// NotificationServiceParams holds dependencies for NotificationService, injected by Fx.
type NotificationServiceParams struct {
	fx.In

	Publisher service.NotificationPublisher
	Logger    *slog.Logger
}

// NewNotificationService creates a new notification service instance
func NewNotificationService(params NotificationServiceParams) usecase.NotificationUsecase {
	return &notificationService{
		publisher: params.Publisher,
		logger:    params.Logger,
		now:       time.Now,
	}
}

// Notify stamps the message and hands it to the publisher.
func (srv *notificationService) Notify(ctx context.Context, msg *service.NotificationMessage) {
	if msg.ID == "" {
		msg.ID = uuid.Must(uuid.NewV7()).String()
	}
	if msg.RequestID == "" {
		msg.RequestID = deliverycontext.GetRequestIDFromContext(ctx)
	}
	msg.Timestamp = srv.now().UTC()

	logger := deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
	if err := srv.publisher.Publish(ctx, msg); err != nil {
		logger.Warn("Failed to publish notification",
			slog.String("id", msg.ID),
			slog.String("type", string(msg.Type)),
			slog.String("channel", string(msg.Channel)),
			slog.Any("error", err),
		)

		return
	}

	logger.Debug("Notification published",
		slog.String("id", msg.ID),
		slog.String("type", string(msg.Type)),
		slog.String("channel", string(msg.Channel)),
	)
}
