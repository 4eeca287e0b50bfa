package amqpx

import (
	"context"
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

type PublisherConfig struct {
	ExchangeName string
	// ExchangeType is one of direct, fanout, topic or headers.
	ExchangeType    string
	DurableExchange bool
	// DeclareExchange declares the exchange on start; otherwise it must exist.
	DeclareExchange bool
	Logger          Logger
}

func (c PublisherConfig) validate() error {
	if c.DeclareExchange && (c.ExchangeName == "" || c.ExchangeType == "") {
		return errors.New("exchange name and type are required to declare an exchange")
	}
	return nil
}

// Publisher sends messages to one exchange. A broken channel is reopened on
// the next publish.
type Publisher struct {
	cfg     PublisherConfig
	manager *ConnectionManager
	logger  Logger

	mu sync.Mutex
	ch *amqp.Channel
}

func NewPublisher(cfg PublisherConfig, manager *ConnectionManager) (*Publisher, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid publisher config: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = NewNoopLogger()
	}
	p := &Publisher{cfg: cfg, manager: manager, logger: logger}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := p.channel(); err != nil {
		return nil, err
	}
	return p, nil
}

// channel returns an open channel, declaring the exchange on a new one.
// Callers hold p.mu.
func (p *Publisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	ch, err := p.manager.Channel()
	if err != nil {
		return nil, err
	}
	if p.cfg.DeclareExchange {
		p.logger.Debug("Declaring exchange", "name", p.cfg.ExchangeName, "type", p.cfg.ExchangeType)
		err = ch.ExchangeDeclare(p.cfg.ExchangeName, p.cfg.ExchangeType, p.cfg.DurableExchange,
			false, false, false, nil)
		if err != nil {
			_ = ch.Close()
			return nil, fmt.Errorf("failed to declare exchange %q: %w", p.cfg.ExchangeName, err)
		}
	}
	p.ch = ch
	return ch, nil
}

func (p *Publisher) Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		return fmt.Errorf("publisher not connected: %w", err)
	}
	if err := ch.PublishWithContext(ctx, p.cfg.ExchangeName, routingKey, false, false, msg); err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch == nil {
		return nil
	}
	err := p.ch.Close()
	p.ch = nil
	if err != nil && !errors.Is(err, amqp.ErrClosed) {
		return err
	}
	return nil
}
