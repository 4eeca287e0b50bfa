package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Venuja2003/Estate-Agent/internal/core/domain"
	"github.com/Venuja2003/Estate-Agent/internal/core/favourites"
	"github.com/Venuja2003/Estate-Agent/internal/core/port"
)

// publishChange announces a favourites change. Failures are logged and
// swallowed: the session state has already moved on.
func publishChange(ctx context.Context, publisher port.FavouritesEventPublisherPort, logger port.LoggerPort,
	sessionID uuid.UUID, action domain.FavouritesAction, propertyID string, snap favourites.Snapshot) {

	event := domain.FavouritesChangedEvent{
		SessionID:    sessionID.String(),
		Action:       action,
		PropertyID:   propertyID,
		FavouriteIDs: snap.IDs(),
		Version:      snap.Version,
		OccurredAt:   time.Now().UTC(),
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish favourites event", port.Fields{"action": action, "error": err.Error()})
	}
}
