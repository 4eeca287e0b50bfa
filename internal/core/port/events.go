package port

import (
	"context"

	"github.com/Venuja2003/Estate-Agent/internal/core/domain"
)

// FavouritesEventPublisherPort announces favourites changes to the outside
// world. Publishing is best effort: a failure never undoes the change.
type FavouritesEventPublisherPort interface {
	Publish(ctx context.Context, event domain.FavouritesChangedEvent) error
}
