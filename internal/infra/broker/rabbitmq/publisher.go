package rabbitmq

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"ministry/config"
	"ministry/internal/domain/service"
	"ministry/internal/errors"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher implements service.NotificationPublisher on RabbitMQ.
// It connects lazily and redials once when the channel has gone away.
type Publisher struct {
	cfg      *config.AMQPConfig
	topology Topology
	logger   *slog.Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewPublisher(cfg *config.AMQPConfig, logger *slog.Logger) *Publisher {
	return &Publisher{
		cfg:      cfg,
		topology: NewTopology(cfg),
		logger:   logger,
	}
}

// Publish routes msg to the queue of its channel with persistent delivery.
func (p *Publisher) Publish(ctx context.Context, msg *service.NotificationMessage) error {
	queue, err := p.topology.QueueFor(msg.Channel)
	if err != nil {
		return err
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "marshal notification")
	}

	headers := amqp.Table{}
	if msg.RequestID != "" {
		headers[HeaderRequestID] = msg.RequestID
	}

	publishing := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.ID,
		Timestamp:    time.Now().UTC(),
		Headers:      headers,
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for attempt := range 2 {
		ch, err := p.channel()
		if err != nil {
			return err
		}

		err = ch.PublishWithContext(ctx, p.topology.Exchange, queue, false, false, publishing)
		if err == nil {
			p.logger.Debug("[RabbitMQ] Notification published",
				slog.String("id", msg.ID),
				slog.String("queue", queue),
			)

			return nil
		}

		p.reset()
		if attempt == 1 {
			return errors.Wrapf(err, "publish to %s", queue)
		}
	}

	return nil
}

// channel returns an open channel, dialing and declaring the topology first when needed.
func (p *Publisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}

	if p.conn == nil || p.conn.IsClosed() {
		conn, err := Dial(p.cfg)
		if err != nil {
			return nil, err
		}
		p.conn = conn
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return nil, errors.Wrap(err, "open amqp channel")
	}
	if err := p.topology.Declare(ch); err != nil {
		_ = ch.Close()

		return nil, err
	}
	p.ch = ch

	return ch, nil
}

func (p *Publisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

// Close releases the connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()

	return nil
}
