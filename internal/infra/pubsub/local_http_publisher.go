package pubsub

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"ministry/internal/domain/service"

	"github.com/pkg/errors"
)

// localHTTPPublisher posts Pub/Sub push envelopes straight to the worker's /push endpoint
type localHTTPPublisher struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// PushMessage is the envelope Google Pub/Sub sends to push endpoints
type PushMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// NewLocalHTTPPublisher creates a new local HTTP publisher for development
func NewLocalHTTPPublisher(endpoint string, logger *slog.Logger) service.NotificationPublisher {
	return &localHTTPPublisher{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// NewPushMessage wraps a notification the way a push subscription delivers it
func NewPushMessage(msg *service.NotificationMessage) (*PushMessage, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	pushMsg := &PushMessage{
		Subscription: "projects/local/subscriptions/notifications-push",
	}
	pushMsg.Message.Data = base64.StdEncoding.EncodeToString(data)
	pushMsg.Message.MessageID = msg.ID
	pushMsg.Message.PublishTime = time.Now().UTC().Format(time.RFC3339)
	pushMsg.Message.Attributes = messageAttributes(msg)

	return pushMsg, nil
}

// Publish sends the envelope and expects a 2xx
func (p *localHTTPPublisher) Publish(ctx context.Context, msg *service.NotificationMessage) error {
	pushMsg, err := NewPushMessage(msg)
	if err != nil {
		return err
	}

	body, err := json.Marshal(pushMsg)
	if err != nil {
		return errors.WithStack(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if msg.RequestID != "" {
		req.Header.Set("X-Request-Id", msg.RequestID)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return errors.WithStack(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Errorf("worker returned non-success status: %d", resp.StatusCode)
	}

	p.logger.Info("[LocalPubSub] Notification published",
		slog.String("endpoint", p.endpoint),
		slog.String("notification_id", msg.ID),
		slog.String("channel", string(msg.Channel)),
	)

	return nil
}

// Close is a no-op for the HTTP client
func (p *localHTTPPublisher) Close() error {
	return nil
}
