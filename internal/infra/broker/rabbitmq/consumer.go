package rabbitmq

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"ministry/config"
	"ministry/internal/domain/service"
	"ministry/internal/errors"

	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/sync/errgroup"
)

const (
	minReconnectDelay = time.Second
	maxReconnectDelay = 30 * time.Second
)

// Handler processes one decoded notification.
type Handler func(ctx context.Context, msg *service.NotificationMessage) error

// republisher is the part of *amqp.Channel used to retry and dead-letter deliveries.
type republisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Consumer drains the work queues with manual acknowledgement. A failed delivery
// is republished with x-retry-count incremented until MaxRetries, then dead-lettered.
type Consumer struct {
	cfg       *config.AMQPConfig
	topology  Topology
	handle    Handler
	permanent func(error) bool
	logger    *slog.Logger
}

// NewConsumer builds a consumer. Errors matching permanent skip the retries.
func NewConsumer(cfg *config.AMQPConfig, handle Handler, permanent func(error) bool, logger *slog.Logger) *Consumer {
	if permanent == nil {
		permanent = func(error) bool { return false }
	}

	return &Consumer{
		cfg:       cfg,
		topology:  NewTopology(cfg),
		handle:    handle,
		permanent: permanent,
		logger:    logger,
	}
}

// Run consumes until ctx is done, reconnecting with exponential backoff.
func (c *Consumer) Run(ctx context.Context) error {
	delay := minReconnectDelay
	for {
		err := c.consume(ctx, func() { delay = minReconnectDelay })
		if ctx.Err() != nil {
			return nil
		}

		c.logger.Warn("[RabbitMQ] Consumer disconnected, reconnecting",
			slog.Any("error", err),
			slog.Duration("delay", delay),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()

			return nil
		case <-timer.C:
		}
		delay = min(delay*2, maxReconnectDelay)
	}
}

func (c *Consumer) consume(ctx context.Context, onReady func()) error {
	conn, err := Dial(c.cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return errors.Wrap(err, "open amqp channel")
	}
	defer ch.Close()

	if err := c.topology.Declare(ch); err != nil {
		return err
	}
	if err := ch.Qos(c.cfg.Prefetch, 0, false); err != nil {
		return errors.Wrap(err, "set amqp prefetch")
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, queue := range c.topology.WorkQueues() {
		deliveries, err := ch.Consume(queue, "", false, false, false, false, nil)
		if err != nil {
			return errors.Wrapf(err, "consume %s", queue)
		}

		g.Go(func() error {
			for d := range deliveries {
				c.process(gctx, ch, queue, d)
			}

			return errors.Errorf("delivery channel for %s closed", queue)
		})
	}

	c.logger.Info("[RabbitMQ] Consumer started", slog.Any("queues", c.topology.WorkQueues()))
	onReady()

	// closing the channel ends every range loop above
	g.Go(func() error {
		<-gctx.Done()
		_ = ch.Close()

		return nil
	})

	return g.Wait()
}

// process settles exactly one delivery: ack on success or after a successful
// republish, nack with requeue when the republish itself fails.
func (c *Consumer) process(ctx context.Context, pub republisher, queue string, d amqp.Delivery) {
	var msg service.NotificationMessage
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		c.deadLetter(ctx, pub, queue, d, errors.Wrap(err, "decode notification"))

		return
	}

	err := c.handle(ctx, &msg)
	if err == nil {
		_ = d.Ack(false)

		return
	}

	retries := RetryCount(d.Headers)
	if c.permanent(err) || retries >= c.cfg.MaxRetries {
		c.deadLetter(ctx, pub, queue, d, err)

		return
	}

	headers := CloneHeaders(d.Headers)
	headers[HeaderRetryCount] = int32(retries + 1)
	if pubErr := pub.PublishWithContext(ctx, c.topology.Exchange, queue, false, false, republish(d, headers)); pubErr != nil {
		c.logger.Error("[RabbitMQ] Failed to republish notification", slog.String("queue", queue), slog.Any("error", pubErr))
		_ = d.Nack(false, true)

		return
	}

	c.logger.Warn("[RabbitMQ] Notification scheduled for retry",
		slog.String("id", msg.ID),
		slog.String("queue", queue),
		slog.Int("retry", retries+1),
		slog.Any("error", err),
	)
	_ = d.Ack(false)
}

func (c *Consumer) deadLetter(ctx context.Context, pub republisher, queue string, d amqp.Delivery, cause error) {
	headers := CloneHeaders(d.Headers)
	headers[HeaderError] = cause.Error()
	headers[HeaderOriginalQueue] = queue

	if err := pub.PublishWithContext(ctx, c.topology.Exchange, c.topology.DeadLetter, false, false, republish(d, headers)); err != nil {
		c.logger.Error("[RabbitMQ] Failed to dead-letter notification", slog.String("queue", queue), slog.Any("error", err))
		_ = d.Nack(false, true)

		return
	}

	c.logger.Error("[RabbitMQ] Notification dead-lettered",
		slog.String("message_id", d.MessageId),
		slog.String("queue", queue),
		slog.Any("error", cause),
	)
	_ = d.Ack(false)
}

func republish(d amqp.Delivery, headers amqp.Table) amqp.Publishing {
	return amqp.Publishing{
		ContentType:  d.ContentType,
		DeliveryMode: amqp.Persistent,
		MessageId:    d.MessageId,
		Timestamp:    d.Timestamp,
		Headers:      headers,
		Body:         d.Body,
	}
}
