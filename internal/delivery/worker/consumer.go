package worker

import (
	"context"
	"log/slog"

	"ministry/config"
	"ministry/internal/delivery"
	"ministry/internal/delivery/worker/handler"
	"ministry/internal/domain/constants"
	"ministry/internal/domain/service"
	"ministry/internal/infra/broker/rabbitmq"

	"go.uber.org/fx"
)

type amqpConsumer struct {
	consumer *rabbitmq.Consumer
	logger   *slog.Logger
	quit     chan struct{}
	done     chan struct{}
}

type ConsumerParams struct {
	fx.In

	Lc        fx.Lifecycle
	Cfg       *config.Config
	Logger    *slog.Logger
	Processor *handler.NotificationProcessor
}

// disabledConsumer stands in when notifications do not travel over RabbitMQ.
type disabledConsumer struct {
	logger *slog.Logger
}

func (d disabledConsumer) Serve(context.Context) error {
	d.logger.Info("AMQP consumer disabled, notifications arrive on /push only")

	return nil
}

// NewConsumer drains the RabbitMQ notification queues.
func NewConsumer(params ConsumerParams) (delivery.Delivery, error) {
	if params.Cfg.PubSub == nil || params.Cfg.PubSub.Provider != constants.PubSubProviderRabbitMQ {
		return disabledConsumer{logger: params.Logger}, nil
	}

	process := func(ctx context.Context, msg *service.NotificationMessage) error {
		return params.Processor.Process(ctx, msg, "")
	}
	permanent := func(err error) bool { return !handler.IsRetryable(err) }

	c := &amqpConsumer{
		consumer: rabbitmq.NewConsumer(params.Cfg.AMQP, process, permanent, params.Logger),
		logger:   params.Logger,
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	params.Lc.Append(fx.Hook{
		OnStop: c.stop,
	})

	return c, nil
}

func (c *amqpConsumer) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer close(c.done)

	go func() {
		select {
		case <-c.quit:
			cancel()
		case <-ctx.Done():
		}
	}()

	return c.consumer.Run(ctx)
}

// stop waits for in-flight deliveries to settle.
func (c *amqpConsumer) stop(ctx context.Context) error {
	c.logger.Info("Stopping AMQP consumer")
	close(c.quit)

	select {
	case <-c.done:
	case <-ctx.Done():
	}

	return nil
}
