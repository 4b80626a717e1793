package rabbitmq

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"ministry/config"
	"ministry/internal/domain/service"
	"ministry/internal/errors"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAck struct {
	acked   int
	nacked  int
	requeue bool
}

func (f *fakeAck) Ack(uint64, bool) error {
	f.acked++

	return nil
}

func (f *fakeAck) Nack(_ uint64, _ bool, requeue bool) error {
	f.nacked++
	f.requeue = requeue

	return nil
}

func (f *fakeAck) Reject(uint64, bool) error { return nil }

type published struct {
	key string
	msg amqp.Publishing
}

type recordingPublisher struct {
	sent []published
	err  error
}

func (r *recordingPublisher) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, published{key: key, msg: msg})

	return nil
}

var errRejected = errors.New("rejected")

func newTestConsumer(handle Handler) *Consumer {
	cfg := &config.AMQPConfig{
		Exchange:   "notifications",
		EmailQueue: "email.notifications",
		SMSQueue:   "sms.notifications",
		PushQueue:  "push.notifications",
		DeadLetter: "notifications.dead",
		MaxRetries: 2,
	}

	return NewConsumer(cfg, handle, func(err error) bool { return errors.Is(err, errRejected) },
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func delivery(t *testing.T, ack *fakeAck, retries int) amqp.Delivery {
	t.Helper()
	body, err := json.Marshal(&service.NotificationMessage{ID: "n-1", Channel: service.ChannelEmail, Email: "a@example.com"})
	require.NoError(t, err)

	headers := amqp.Table{}
	if retries > 0 {
		headers[HeaderRetryCount] = int32(retries)
	}

	return amqp.Delivery{Acknowledger: ack, Body: body, Headers: headers, MessageId: "n-1"}
}

func TestConsumerProcess(t *testing.T) {
	failing := func(err error) Handler {
		return func(context.Context, *service.NotificationMessage) error { return err }
	}

	tests := []struct {
		name       string
		handle     Handler
		retries    int
		wantKey    string
		wantRetry  any
		wantNoSend bool
	}{
		{name: "success acks", handle: failing(nil), wantNoSend: true},
		{name: "transient failure is retried", handle: failing(errors.New("smtp down")), wantKey: "email.notifications", wantRetry: int32(1)},
		{name: "second retry increments", handle: failing(errors.New("smtp down")), retries: 1, wantKey: "email.notifications", wantRetry: int32(2)},
		{name: "exhausted retries dead-letter", handle: failing(errors.New("smtp down")), retries: 2, wantKey: "notifications.dead", wantRetry: int32(2)},
		{name: "permanent failure dead-letters at once", handle: failing(errors.Wrap(errRejected, "no recipient")), wantKey: "notifications.dead"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ack := &fakeAck{}
			pub := &recordingPublisher{}
			c := newTestConsumer(tt.handle)

			c.process(context.Background(), pub, "email.notifications", delivery(t, ack, tt.retries))

			assert.Equal(t, 1, ack.acked)
			assert.Zero(t, ack.nacked)
			if tt.wantNoSend {
				assert.Empty(t, pub.sent)

				return
			}
			require.Len(t, pub.sent, 1)
			assert.Equal(t, tt.wantKey, pub.sent[0].key)
			assert.Equal(t, amqp.Persistent, pub.sent[0].msg.DeliveryMode)
			if tt.wantRetry != nil {
				assert.Equal(t, tt.wantRetry, pub.sent[0].msg.Headers[HeaderRetryCount])
			}
			if tt.wantKey == "notifications.dead" {
				assert.Equal(t, "email.notifications", pub.sent[0].msg.Headers[HeaderOriginalQueue])
				assert.NotEmpty(t, pub.sent[0].msg.Headers[HeaderError])
			}
		})
	}
}

func TestConsumerProcessUndecodableBody(t *testing.T) {
	ack := &fakeAck{}
	pub := &recordingPublisher{}
	called := false
	c := newTestConsumer(func(context.Context, *service.NotificationMessage) error {
		called = true

		return nil
	})

	c.process(context.Background(), pub, "sms.notifications", amqp.Delivery{Acknowledger: ack, Body: []byte("{not json")})

	assert.False(t, called)
	require.Len(t, pub.sent, 1)
	assert.Equal(t, "notifications.dead", pub.sent[0].key)
	assert.Equal(t, 1, ack.acked)
}

func TestConsumerProcessRequeuesWhenRepublishFails(t *testing.T) {
	ack := &fakeAck{}
	pub := &recordingPublisher{err: errors.New("channel closed")}
	c := newTestConsumer(func(context.Context, *service.NotificationMessage) error {
		return errors.New("smtp down")
	})

	c.process(context.Background(), pub, "email.notifications", delivery(t, ack, 0))

	assert.Zero(t, ack.acked)
	assert.Equal(t, 1, ack.nacked)
	assert.True(t, ack.requeue)
}
