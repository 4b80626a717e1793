package impl

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"ministry/internal/domain/entity"
	"ministry/internal/domain/repository"
	"ministry/internal/domain/service"
	"ministry/internal/infra/persistence/postgres"
	mockService "ministry/internal/mocks/service"
	"ministry/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNotificationService_NotifyStampsMessage(t *testing.T) {
	publisher := mockService.NewMockNotificationPublisher(t)
	srv := NewNotificationService(NotificationServiceParams{Publisher: publisher, Logger: newDiscardLogger()}).(*notificationService)
	fixed := time.Date(2026, 4, 5, 8, 0, 0, 0, time.FixedZone("WAT", 3600))
	srv.now = func() time.Time { return fixed }

	var published []*service.NotificationMessage
	publisher.EXPECT().
		Publish(mock.Anything, mock.AnythingOfType("*service.NotificationMessage")).
		Run(func(_ context.Context, msg *service.NotificationMessage) { published = append(published, msg) }).
		Return(nil).
		Twice()

	msg := &service.NotificationMessage{Type: service.NotificationOTP, Channel: service.ChannelEmail}
	srv.Notify(context.Background(), msg)

	require.Len(t, published, 1)
	assert.NotEmpty(t, msg.ID)
	assert.True(t, fixed.Equal(msg.Timestamp))
	assert.Equal(t, time.UTC, msg.Timestamp.Location())

	kept := &service.NotificationMessage{ID: "given", Type: service.NotificationOTP}
	srv.Notify(context.Background(), kept)
	assert.Equal(t, "given", kept.ID)
	assert.Len(t, published, 2)

	// publish failures are logged, never returned
	publisher.EXPECT().
		Publish(mock.Anything, mock.Anything).
		Return(errors.New("broker down")).
		Once()
	assert.NotPanics(t, func() { srv.Notify(context.Background(), &service.NotificationMessage{}) })
}

type dispatcherFixtures struct {
	dispatcher usecase.NotificationDispatcher
	mail       *mockService.MockMailSender
	sms        *mockService.MockSMSSender
	push       *mockService.MockPushService
	devices    repository.DeviceRepository
}

func createTestDispatcher(t *testing.T, f *fixture) dispatcherFixtures {
	t.Helper()

	fx := dispatcherFixtures{
		mail:    mockService.NewMockMailSender(t),
		sms:     mockService.NewMockSMSSender(t),
		push:    mockService.NewMockPushService(t),
		devices: postgres.NewDeviceRepository(f.db),
	}
	fx.dispatcher = NewNotificationDispatcher(NotificationDispatcherParams{
		Mail:       fx.mail,
		SMS:        fx.sms,
		Push:       fx.push,
		DeviceRepo: fx.devices,
		Logger:     f.logger,
	})

	return fx
}

func TestNotificationDispatcher_Channels(t *testing.T) {
	fx := createTestDispatcher(t, newFixture(t))
	ctx := context.Background()

	fx.mail.EXPECT().
		Send(mock.Anything, "otp@example.com", "Your verification code", mock.MatchedBy(func(body string) bool {
			return strings.Contains(body, "<strong>123456</strong>")
		})).
		Return(nil).
		Once()
	require.NoError(t, fx.dispatcher.Dispatch(ctx, &service.NotificationMessage{
		Type:    service.NotificationOTP,
		Channel: service.ChannelEmail,
		Email:   "otp@example.com",
		OTP:     "123456",
	}))

	fx.sms.EXPECT().
		Send(mock.Anything, "+2348011111111", "Order ORD-1 is now shipped").
		Return(nil).
		Once()
	require.NoError(t, fx.dispatcher.Dispatch(ctx, &service.NotificationMessage{
		Type:        service.NotificationOrderStatus,
		Channel:     service.ChannelSMS,
		PhoneNumber: "+2348011111111",
		Data:        map[string]string{"order_number": "ORD-1", "status": "shipped"},
	}))

	fx.sms.EXPECT().
		Send(mock.Anything, "+234", "hi").
		Return(errors.New("gateway timeout")).
		Once()
	err := fx.dispatcher.Dispatch(ctx, &service.NotificationMessage{Channel: service.ChannelSMS, PhoneNumber: "+234", Body: "hi"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, usecase.ErrNotificationRejected)

	// rejected messages never reach a sender
	rejected := []*service.NotificationMessage{
		{Channel: "fax"},
		{Channel: service.ChannelEmail},
		{Channel: service.ChannelSMS},
		{Channel: service.ChannelPush, UserID: "not-a-uuid"},
	}
	for _, msg := range rejected {
		assert.ErrorIs(t, fx.dispatcher.Dispatch(ctx, msg), usecase.ErrNotificationRejected, string(msg.Channel))
	}
}

func TestNotificationDispatcher_PushPrunesInvalidTokens(t *testing.T) {
	f := newFixture(t)
	fx := createTestDispatcher(t, f)
	ctx := context.Background()

	user := f.createUser(t, "push@example.com")

	// no devices is not an error, and nothing is sent
	require.NoError(t, fx.dispatcher.Dispatch(ctx, &service.NotificationMessage{Channel: service.ChannelPush, UserID: user.ID.String()}))

	for i, token := range []string{"fresh", "stale"} {
		require.NoError(t, fx.devices.Upsert(ctx, &entity.UserDevice{
			ID:       uuid.New(),
			UserID:   user.ID,
			FCMToken: token,
			DeviceID: "device-" + string(rune('a'+i)),
			Platform: entity.DevicePlatformIOS,
		}))
	}

	fx.push.EXPECT().
		SendBatchNotification(
			mock.Anything,
			mock.MatchedBy(func(tokens []string) bool {
				return len(tokens) == 2 && slices.Contains(tokens, "fresh") && slices.Contains(tokens, "stale")
			}),
			"Your tickets are confirmed",
			mock.AnythingOfType("string"),
			mock.MatchedBy(func(data map[string]string) bool {
				return data["type"] == string(service.NotificationTicketConfirmed) && data["code"] == "ABC"
			}),
		).
		Return(1, 1, []string{"stale"}, nil).
		Once()

	require.NoError(t, fx.dispatcher.Dispatch(ctx, &service.NotificationMessage{
		Type:    service.NotificationTicketConfirmed,
		Channel: service.ChannelPush,
		UserID:  user.ID.String(),
		Data:    map[string]string{"code": "ABC"},
	}))

	left, err := fx.devices.ActiveTokens(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh"}, left)
}

func TestRenderEmailEscapesContent(t *testing.T) {
	subject, body, err := renderEmail(&service.NotificationMessage{
		Type: service.NotificationMessageReply,
		Body: "<script>alert(1)</script>",
		Data: map[string]string{"subject": "Choir"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Reply to your message", subject)
	assert.Contains(t, body, "Choir")
	assert.NotContains(t, body, "<script>")

	subject, body, err = renderEmail(&service.NotificationMessage{Type: "custom", Subject: "Hello", Body: "plain body"})
	require.NoError(t, err)
	assert.Equal(t, "Hello", subject)
	assert.Contains(t, body, "<p>plain body</p>")
}
