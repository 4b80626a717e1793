package notification

import (
	"context"
	"log/slog"

	"ministry/config"
	"ministry/internal/domain/service"
	"ministry/internal/errors"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/fx"
	"google.golang.org/api/option"
)

// multicastLimit is the FCM cap on tokens per multicast request.
const multicastLimit = 500

// multicastSender is the slice of *messaging.Client used here.
type multicastSender interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

type firebaseService struct {
	client multicastSender
	logger *slog.Logger
}

type PushParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewPushService returns a Firebase backed PushService, or a log-only one when
// no credentials file is configured.
func NewPushService(params PushParams) (service.PushService, error) {
	cfg := params.Config.Firebase
	if cfg == nil || cfg.CredentialsPath == "" {
		params.Logger.Info("Firebase not configured, push notifications are logged only")

		return &logPushService{logger: params.Logger}, nil
	}

	var fbConfig *firebase.Config
	if cfg.ProjectID != "" {
		fbConfig = &firebase.Config{ProjectID: cfg.ProjectID}
	}

	app, err := firebase.NewApp(params.Ctx, fbConfig, option.WithCredentialsFile(cfg.CredentialsPath))
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize Firebase app")
	}

	client, err := app.Messaging(params.Ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get messaging client")
	}

	return newFirebaseService(client, params.Logger), nil
}

func newFirebaseService(client multicastSender, logger *slog.Logger) *firebaseService {
	return &firebaseService{client: client, logger: logger}
}

// SendBatchNotification sends to every token, splitting into FCM sized batches.
func (s *firebaseService) SendBatchNotification(ctx context.Context, tokens []string, title, body string, data map[string]string) (successCount, failureCount int, invalidTokens []string, err error) {
	for start := 0; start < len(tokens); start += multicastLimit {
		end := min(start+multicastLimit, len(tokens))
		batch := tokens[start:end]

		response, sendErr := s.client.SendEachForMulticast(ctx, &messaging.MulticastMessage{
			Tokens: batch,
			Notification: &messaging.Notification{
				Title: title,
				Body:  body,
			},
			Data: data,
		})
		if sendErr != nil {
			return successCount, failureCount, invalidTokens, errors.Wrap(sendErr, "failed to send multicast notification")
		}

		successCount += response.SuccessCount
		failureCount += response.FailureCount

		for i, resp := range response.Responses {
			if resp.Success || resp.Error == nil {
				continue
			}
			if messaging.IsInvalidArgument(resp.Error) || messaging.IsUnregistered(resp.Error) {
				invalidTokens = append(invalidTokens, batch[i])
			}
		}
	}

	if failureCount > 0 {
		s.logger.Warn("Push batch finished with failures",
			slog.Int("success", successCount),
			slog.Int("failure", failureCount),
			slog.Int("invalid_tokens", len(invalidTokens)),
		)
	}

	return successCount, failureCount, invalidTokens, nil
}

type logPushService struct {
	logger *slog.Logger
}

func (s *logPushService) SendBatchNotification(_ context.Context, tokens []string, title, _ string, _ map[string]string) (int, int, []string, error) {
	s.logger.Info("[LogPush] Push notification",
		slog.String("title", title),
		slog.Int("token_count", len(tokens)),
	)

	return len(tokens), 0, nil, nil
}
