package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Venuja2003/Estate-Agent/internal/contextkeys"
	"github.com/Venuja2003/Estate-Agent/internal/core/domain"
	"github.com/Venuja2003/Estate-Agent/internal/core/port"
)

const publishTimeout = 5 * time.Second

// Producer is the part of amqpx.Publisher the adapter needs.
type Producer interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

// FavouritesEventsAdapter publishes favourites changes as JSON, routed by
// "favourites.<action>".
type FavouritesEventsAdapter struct {
	producer Producer
}

func NewFavouritesEventsAdapter(producer Producer) (*FavouritesEventsAdapter, error) {
	if producer == nil {
		return nil, errors.New("rabbitmq adapter: producer cannot be nil")
	}
	return &FavouritesEventsAdapter{producer: producer}, nil
}

func RoutingKey(action domain.FavouritesAction) string {
	return "favourites." + string(action)
}

func (a *FavouritesEventsAdapter) Publish(ctx context.Context, event domain.FavouritesChangedEvent) error {
	routingKey := RoutingKey(event.Action)
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "FavouritesEventsAdapter",
		"routing_key": routingKey,
	})

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("rabbitmq adapter: failed to encode event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Transient,
		Timestamp:    event.OccurredAt,
		Headers:      amqp.Table{},
	}
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := a.producer.Publish(publishCtx, routingKey, msg); err != nil {
		logger.Error("Failed to publish favourites event", err, nil)
		return fmt.Errorf("rabbitmq adapter: publish %s: %w", routingKey, err)
	}
	logger.Debug("Favourites event published", port.Fields{"version": event.Version})
	return nil
}

// NoopEventsAdapter drops every event. Used when the broker is disabled.
type NoopEventsAdapter struct{}

func (NoopEventsAdapter) Publish(context.Context, domain.FavouritesChangedEvent) error {
	return nil
}
