package amqpx

import (
	"context"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// MessageHandler processes one delivery. A nil error acks it; any error
// nacks it without requeue.
type MessageHandler func(ctx context.Context, d amqp.Delivery) error

type ConsumerConfig struct {
	// QueueName empty declares a server-named, exclusive, auto-delete queue.
	QueueName       string
	DurableQueue    bool
	ExchangeName    string
	ExchangeType    string
	DurableExchange bool
	DeclareExchange bool
	// RoutingKeys bind the queue to ExchangeName. Topic wildcards are allowed.
	RoutingKeys   []string
	PrefetchCount int
	ConsumerTag   string
	Logger        Logger
}

func (c ConsumerConfig) validate() error {
	if c.ExchangeName == "" && len(c.RoutingKeys) > 0 {
		return errors.New("routing keys need an exchange to bind to")
	}
	if c.DeclareExchange && c.ExchangeType == "" {
		return errors.New("exchange type is required to declare an exchange")
	}
	return nil
}

// Consumer reads one queue and hands deliveries to a handler in order.
type Consumer struct {
	cfg     ConsumerConfig
	manager *ConnectionManager
	logger  Logger

	ch    *amqp.Channel
	queue string
}

func NewConsumer(cfg ConsumerConfig, manager *ConnectionManager) (*Consumer, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid consumer config: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = NewNoopLogger()
	}
	c := &Consumer{cfg: cfg, manager: manager, logger: logger}
	if err := c.setup(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Consumer) setup() error {
	ch, err := c.manager.Channel()
	if err != nil {
		return fmt.Errorf("consumer: %w", err)
	}
	fail := func(err error) error {
		_ = ch.Close()
		return err
	}

	if c.cfg.PrefetchCount > 0 {
		if err := ch.Qos(c.cfg.PrefetchCount, 0, false); err != nil {
			return fail(fmt.Errorf("failed to set QoS: %w", err))
		}
	}

	if c.cfg.DeclareExchange {
		c.logger.Debug("Declaring exchange", "name", c.cfg.ExchangeName, "type", c.cfg.ExchangeType)
		err := ch.ExchangeDeclare(c.cfg.ExchangeName, c.cfg.ExchangeType, c.cfg.DurableExchange,
			false, false, false, nil)
		if err != nil {
			return fail(fmt.Errorf("failed to declare exchange %q: %w", c.cfg.ExchangeName, err))
		}
	}

	temporary := c.cfg.QueueName == ""
	q, err := ch.QueueDeclare(
		c.cfg.QueueName,
		c.cfg.DurableQueue && !temporary,
		temporary, // auto-delete
		temporary, // exclusive
		false,
		nil,
	)
	if err != nil {
		return fail(fmt.Errorf("failed to declare queue %q: %w", c.cfg.QueueName, err))
	}

	for _, key := range c.cfg.RoutingKeys {
		c.logger.Debug("Binding queue", "queue", q.Name, "exchange", c.cfg.ExchangeName, "routing_key", key)
		if err := ch.QueueBind(q.Name, key, c.cfg.ExchangeName, false, nil); err != nil {
			return fail(fmt.Errorf("failed to bind queue %q with key %q: %w", q.Name, key, err))
		}
	}

	c.ch = ch
	c.queue = q.Name
	return nil
}

// Queue returns the queue name, which the server picks for temporary queues.
func (c *Consumer) Queue() string {
	return c.queue
}

// Consume blocks, handling deliveries one at a time until ctx is done or the
// broker closes the delivery channel.
func (c *Consumer) Consume(ctx context.Context, handler MessageHandler) error {
	if handler == nil {
		return errors.New("consumer: message handler is required")
	}
	msgs, err := c.ch.Consume(c.queue, c.cfg.ConsumerTag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consumer: failed to consume from %q: %w", c.queue, err)
	}
	c.logger.Info("Waiting for messages", "queue", c.queue)

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("consumer: delivery channel closed by broker")
			}
			if err := handler(ctx, d); err != nil {
				c.logger.Error(err, "Handler failed, dropping message", "delivery_tag", d.DeliveryTag)
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *Consumer) Close() error {
	if c.ch == nil {
		return nil
	}
	err := c.ch.Close()
	c.ch = nil
	if err != nil && !errors.Is(err, amqp.ErrClosed) {
		return err
	}
	c.logger.Info("Consumer closed")
	return nil
}
