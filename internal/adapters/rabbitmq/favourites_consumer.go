package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Venuja2003/Estate-Agent/internal/contextkeys"
	"github.com/Venuja2003/Estate-Agent/internal/core/domain"
	"github.com/Venuja2003/Estate-Agent/internal/core/port"
	"github.com/Venuja2003/Estate-Agent/pkg/rabbitmq/amqpx"
)

// FavouritesEventHandler receives decoded favourites events.
type FavouritesEventHandler func(ctx context.Context, event domain.FavouritesChangedEvent) error

// BindingKeys returns the routing keys for actions, or every favourites
// event when none are given.
func BindingKeys(actions ...domain.FavouritesAction) []string {
	if len(actions) == 0 {
		return []string{"favourites.*"}
	}
	keys := make([]string, 0, len(actions))
	for _, a := range actions {
		keys = append(keys, RoutingKey(a))
	}
	return keys
}

// HandleFavouritesEvents adapts handler to raw deliveries. The trace id from
// the publisher, if any, is restored into the handler's context.
func HandleFavouritesEvents(handler FavouritesEventHandler) amqpx.MessageHandler {
	return func(ctx context.Context, d amqp.Delivery) error {
		if traceID, ok := d.Headers["x-trace-id"].(string); ok && traceID != "" {
			ctx = contextkeys.ContextWithTraceID(ctx, traceID)
		}
		logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
			"component":   "FavouritesEventsConsumer",
			"routing_key": d.RoutingKey,
		})

		var event domain.FavouritesChangedEvent
		if err := json.Unmarshal(d.Body, &event); err != nil {
			logger.Warn("Discarding malformed favourites event", port.Fields{"error": err.Error()})
			return fmt.Errorf("rabbitmq adapter: decode event: %w", err)
		}
		if event.SessionID == "" || event.Action == "" {
			return errors.New("rabbitmq adapter: event without session or action")
		}
		return handler(ctx, event)
	}
}
