// Package rabbitmq carries notification messages over AMQP: one durable direct
// exchange, one durable queue per delivery channel and a dead-letter queue.
package rabbitmq

import (
	"ministry/config"
	"ministry/internal/domain/service"
	"ministry/internal/errors"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Headers set on republished and dead-lettered messages.
const (
	HeaderRetryCount    = "x-retry-count"
	HeaderError         = "x-error"
	HeaderOriginalQueue = "x-original-queue"
	HeaderRequestID     = "x-request-id"
)

// Topology names the exchange and queues. Queues are bound by their own names.
type Topology struct {
	Exchange   string
	Email      string
	SMS        string
	Push       string
	DeadLetter string
}

func NewTopology(cfg *config.AMQPConfig) Topology {
	return Topology{
		Exchange:   cfg.Exchange,
		Email:      cfg.EmailQueue,
		SMS:        cfg.SMSQueue,
		Push:       cfg.PushQueue,
		DeadLetter: cfg.DeadLetter,
	}
}

// QueueFor returns the queue, and therefore routing key, for a delivery channel.
func (t Topology) QueueFor(channel service.NotificationChannel) (string, error) {
	switch channel {
	case service.ChannelEmail:
		return t.Email, nil
	case service.ChannelSMS:
		return t.SMS, nil
	case service.ChannelPush:
		return t.Push, nil
	default:
		return "", errors.Errorf("no queue for notification channel %q", channel)
	}
}

// WorkQueues lists the queues the notifier consumes.
func (t Topology) WorkQueues() []string {
	return []string{t.Email, t.SMS, t.Push}
}

// declarer is the part of *amqp.Channel used to declare the topology.
type declarer interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
}

// Declare is idempotent; both the API and the notifier run it on connect.
func (t Topology) Declare(ch declarer) error {
	if err := ch.ExchangeDeclare(t.Exchange, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
		return errors.Wrapf(err, "declare exchange %s", t.Exchange)
	}

	for _, queue := range append(t.WorkQueues(), t.DeadLetter) {
		if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			return errors.Wrapf(err, "declare queue %s", queue)
		}
		if err := ch.QueueBind(queue, queue, t.Exchange, false, nil); err != nil {
			return errors.Wrapf(err, "bind queue %s", queue)
		}
	}

	return nil
}

// Dial opens a connection with the configured dial timeout.
func Dial(cfg *config.AMQPConfig) (*amqp.Connection, error) {
	conn, err := amqp.DialConfig(cfg.URL, amqp.Config{
		Dial: amqp.DefaultDial(cfg.DialTimeout),
	})
	if err != nil {
		return nil, errors.Wrap(err, "dial amqp broker")
	}

	return conn, nil
}

// RetryCount reads x-retry-count, tolerating the integer widths AMQP tables decode to.
func RetryCount(headers amqp.Table) int {
	switch v := headers[HeaderRetryCount].(type) {
	case int:
		return v
	case int8:
		return int(v)
	case int16:
		return int(v)
	case int32:
		return int(v)
	case int64:
		return int(v)
	case uint8:
		return int(v)
	case uint16:
		return int(v)
	case uint32:
		return int(v)
	default:
		return 0
	}
}

// CloneHeaders copies a table so a republish does not alias the delivery's headers.
func CloneHeaders(headers amqp.Table) amqp.Table {
	out := make(amqp.Table, len(headers)+2)
	for k, v := range headers {
		out[k] = v
	}

	return out
}
