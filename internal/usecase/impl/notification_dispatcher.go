package impl

import (
	"context"
	"log/slog"

	deliverycontext "ministry/internal/delivery/context"
	"ministry/internal/domain/repository"
	"ministry/internal/domain/service"
	"ministry/internal/errors"
	"ministry/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

type notificationDispatcher struct {
	mail       service.MailSender
	sms        service.SMSSender
	push       service.PushService
	deviceRepo repository.DeviceRepository
	logger     *slog.Logger
}

// NotificationDispatcherParams holds dependencies for the notifier worker's dispatcher.
type NotificationDispatcherParams struct {
	fx.In

	Mail       service.MailSender
	SMS        service.SMSSender
	Push       service.PushService
	DeviceRepo repository.DeviceRepository
	Logger     *slog.Logger
}

// NewNotificationDispatcher creates a new notification dispatcher instance
func NewNotificationDispatcher(params NotificationDispatcherParams) usecase.NotificationDispatcher {
	return &notificationDispatcher{
		mail:       params.Mail,
		sms:        params.SMS,
		push:       params.Push,
		deviceRepo: params.DeviceRepo,
		logger:     params.Logger,
	}
}

func (d *notificationDispatcher) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, d.logger)
}

// Dispatch delivers msg on its channel. Messages that can never succeed wrap usecase.ErrNotificationRejected.
func (d *notificationDispatcher) Dispatch(ctx context.Context, msg *service.NotificationMessage) error {
	switch msg.Channel {
	case service.ChannelEmail:
		return d.sendEmail(ctx, msg)
	case service.ChannelSMS:
		return d.sendSMS(ctx, msg)
	case service.ChannelPush:
		return d.sendPush(ctx, msg)
	default:
		return errors.Wrapf(usecase.ErrNotificationRejected, "unknown channel %q", msg.Channel)
	}
}

func (d *notificationDispatcher) sendEmail(ctx context.Context, msg *service.NotificationMessage) error {
	if msg.Email == "" {
		return errors.Wrap(usecase.ErrNotificationRejected, "email notification without recipient")
	}

	subject, body, err := renderEmail(msg)
	if err != nil {
		return errors.Wrap(usecase.ErrNotificationRejected, err.Error())
	}

	if err := d.mail.Send(ctx, msg.Email, subject, body); err != nil {
		return errors.Wrap(err, "failed to send email")
	}
	d.log(ctx).Info("Email notification sent", slog.String("id", msg.ID), slog.String("type", string(msg.Type)))

	return nil
}

func (d *notificationDispatcher) sendSMS(ctx context.Context, msg *service.NotificationMessage) error {
	if msg.PhoneNumber == "" {
		return errors.Wrap(usecase.ErrNotificationRejected, "sms notification without phone number")
	}

	if err := d.sms.Send(ctx, msg.PhoneNumber, smsText(msg)); err != nil {
		return errors.Wrap(err, "failed to send sms")
	}
	d.log(ctx).Info("SMS notification sent", slog.String("id", msg.ID), slog.String("type", string(msg.Type)))

	return nil
}

// sendPush fans out to the user's active devices and prunes tokens the provider rejected.
func (d *notificationDispatcher) sendPush(ctx context.Context, msg *service.NotificationMessage) error {
	userID, err := uuid.Parse(msg.UserID)
	if err != nil {
		return errors.Wrapf(usecase.ErrNotificationRejected, "push notification with invalid user id %q", msg.UserID)
	}

	tokens, err := d.deviceRepo.ActiveTokens(ctx, userID)
	if err != nil {
		return errors.Wrap(err, "failed to load device tokens")
	}
	if len(tokens) == 0 {
		d.log(ctx).Debug("No active devices for push notification", slog.String("userID", msg.UserID))

		return nil
	}

	title := msg.Subject
	if title == "" {
		title = defaultSubjects[msg.Type]
	}

	data := make(map[string]string, len(msg.Data)+1)
	for k, v := range msg.Data {
		data[k] = v
	}
	data["type"] = string(msg.Type)

	successCount, failureCount, invalidTokens, err := d.push.SendBatchNotification(ctx, tokens, title, msg.Body, data)
	if len(invalidTokens) > 0 {
		removed, delErr := d.deviceRepo.DeleteByTokens(ctx, invalidTokens)
		if delErr != nil {
			d.log(ctx).Warn("Failed to remove invalid device tokens", slog.Any("error", delErr))
		} else {
			d.log(ctx).Info("Removed invalid device tokens", slog.Int64("count", removed))
		}
	}
	if err != nil {
		return errors.Wrap(err, "failed to send push notification")
	}

	d.log(ctx).Info("Push notification sent",
		slog.String("id", msg.ID),
		slog.Int("success", successCount),
		slog.Int("failure", failureCount),
	)

	return nil
}
