package handler

import (
	"context"
	"log/slog"

	deliverycontext "ministry/internal/delivery/context"
	"ministry/internal/domain/service"
	"ministry/internal/errors"
	"ministry/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// NotificationProcessor runs one notification through the dispatcher with a
// request-scoped logger. Both the push endpoint and the AMQP consumer use it.
type NotificationProcessor struct {
	dispatcher usecase.NotificationDispatcher
	logger     *slog.Logger
}

type NotificationProcessorParams struct {
	fx.In

	Dispatcher usecase.NotificationDispatcher
	Logger     *slog.Logger
}

func NewNotificationProcessor(params NotificationProcessorParams) *NotificationProcessor {
	return &NotificationProcessor{
		dispatcher: params.Dispatcher,
		logger:     params.Logger,
	}
}

// Process dispatches msg. requestID falls back to the message field, then a new UUID.
func (p *NotificationProcessor) Process(ctx context.Context, msg *service.NotificationMessage, requestID string) error {
	if requestID == "" {
		requestID = msg.RequestID
	}
	if requestID == "" {
		requestID = deliverycontext.GetRequestIDFromContext(ctx)
	}
	if requestID == "" {
		requestID = uuid.NewString()
	}

	reqLogger := p.logger.With(slog.String("request_id", requestID))
	ctx = deliverycontext.WithRequestID(ctx, requestID)
	ctx = deliverycontext.WithLogger(ctx, reqLogger)

	reqLogger.Info("[Worker] Processing notification",
		slog.String("id", msg.ID),
		slog.String("type", string(msg.Type)),
		slog.String("channel", string(msg.Channel)),
	)

	if err := p.dispatcher.Dispatch(ctx, msg); err != nil {
		reqLogger.Error("[Worker] Failed to process notification",
			slog.String("id", msg.ID),
			slog.Any("error", err),
			slog.Bool("retryable", IsRetryable(err)),
		)

		return err
	}

	return nil
}

// IsRetryable reports whether a dispatch failure may succeed on redelivery.
func IsRetryable(err error) bool {
	return err != nil && !errors.Is(err, usecase.ErrNotificationRejected)
}
