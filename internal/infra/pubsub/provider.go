package pubsub

import (
	"context"
	"log/slog"

	"ministry/config"
	"ministry/internal/domain/constants"
	"ministry/internal/domain/service"
	"ministry/internal/infra/broker/rabbitmq"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// noopPublisher is used when notification publishing is disabled
type noopPublisher struct {
	logger *slog.Logger
}

func (p *noopPublisher) Publish(_ context.Context, msg *service.NotificationMessage) error {
	p.logger.Debug("[NoopPubSub] Notification publishing disabled, skipping",
		slog.String("notification_id", msg.ID),
		slog.String("type", string(msg.Type)),
		slog.String("channel", string(msg.Channel)),
	)

	return nil
}

func (p *noopPublisher) Close() error {
	return nil
}

// PublisherParams holds dependencies for NotificationPublisher, injected by Fx
type PublisherParams struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewNotificationPublisher creates a NotificationPublisher based on configuration
func NewNotificationPublisher(params PublisherParams) (service.NotificationPublisher, error) {
	publisher, err := newPublisher(params.Ctx, params.Config, params.Logger)
	if err != nil {
		return nil, err
	}

	params.Lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			params.Logger.Info("Closing NotificationPublisher")

			return publisher.Close()
		},
	})

	return publisher, nil
}

func newPublisher(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.NotificationPublisher, error) {
	pubsubCfg := cfg.PubSub
	if pubsubCfg == nil || pubsubCfg.Provider == "" {
		logger.Info("PubSub not configured, using no-op publisher")

		return &noopPublisher{logger: logger}, nil
	}

	switch pubsubCfg.Provider {
	case constants.PubSubProviderRabbitMQ:
		if cfg.AMQP == nil || cfg.AMQP.URL == "" {
			return nil, errors.New("amqp url is required for rabbitmq provider")
		}
		logger.Info("Using RabbitMQ notification publisher",
			slog.String("exchange", cfg.AMQP.Exchange),
		)

		return rabbitmq.NewPublisher(cfg.AMQP, logger), nil

	case constants.PubSubProviderLocal:
		if pubsubCfg.LocalEndpoint == "" {
			return nil, errors.New("local endpoint is required for local provider")
		}
		logger.Info("Using local HTTP publisher for Pub/Sub",
			slog.String("endpoint", pubsubCfg.LocalEndpoint),
		)

		return NewLocalHTTPPublisher(pubsubCfg.LocalEndpoint, logger), nil

	case constants.PubSubProviderGoogle:
		if pubsubCfg.ProjectID == "" {
			return nil, errors.New("project ID is required for google provider")
		}
		if pubsubCfg.TopicID == "" {
			return nil, errors.New("topic ID is required for google provider")
		}
		logger.Info("Using Google Pub/Sub publisher",
			slog.String("project_id", pubsubCfg.ProjectID),
			slog.String("topic_id", pubsubCfg.TopicID),
		)

		return NewGooglePubSubPublisher(ctx, pubsubCfg.ProjectID, pubsubCfg.TopicID, logger)

	default:
		return nil, errors.Errorf("unknown pubsub provider: %s", pubsubCfg.Provider)
	}
}

// Module provides the Pub/Sub FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewNotificationPublisher),
)
