package rabbitmq

import (
	"context"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Venuja2003/Estate-Agent/internal/contextkeys"
	"github.com/Venuja2003/Estate-Agent/internal/core/domain"
)

func TestBindingKeys(t *testing.T) {
	assert.Equal(t, []string{"favourites.*"}, BindingKeys())
	assert.Equal(t, []string{"favourites.added", "favourites.dropped"},
		BindingKeys(domain.FavouritesAdded, domain.FavouritesDropped))
}

func TestHandleFavouritesEvents_DecodesPublishedMessage(t *testing.T) {
	producer := &fakeProducer{}
	adapter, err := NewFavouritesEventsAdapter(producer)
	require.NoError(t, err)

	sent := domain.FavouritesChangedEvent{
		SessionID:    "s-1",
		Action:       domain.FavouritesDropped,
		PropertyID:   "prop3",
		FavouriteIDs: []string{"prop1", "prop3"},
		Version:      4,
		OccurredAt:   time.Date(2024, 11, 5, 9, 0, 0, 0, time.UTC),
	}
	ctx := contextkeys.ContextWithTraceID(context.Background(), "trace-42")
	require.NoError(t, adapter.Publish(ctx, sent))
	require.Len(t, producer.msgs, 1)

	msg := producer.msgs[0]
	delivery := amqp.Delivery{
		RoutingKey: producer.keys[0],
		Headers:    msg.Headers,
		Body:       msg.Body,
	}

	var (
		got     domain.FavouritesChangedEvent
		traceID string
	)
	handler := HandleFavouritesEvents(func(ctx context.Context, e domain.FavouritesChangedEvent) error {
		got = e
		traceID = contextkeys.TraceIDFromContext(ctx)
		return nil
	})
	require.NoError(t, handler(context.Background(), delivery))

	assert.Equal(t, sent, got)
	assert.Equal(t, "trace-42", traceID)
}

func TestHandleFavouritesEvents_RejectsBadBodies(t *testing.T) {
	called := false
	handler := HandleFavouritesEvents(func(context.Context, domain.FavouritesChangedEvent) error {
		called = true
		return nil
	})

	assert.Error(t, handler(context.Background(), amqp.Delivery{Body: []byte("not json")}))
	assert.Error(t, handler(context.Background(), amqp.Delivery{Body: []byte(`{"version":1}`)}))
	assert.False(t, called)
}
