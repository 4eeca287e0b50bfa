package usecases_port

import (
	"context"

	"github.com/google/uuid"

	"github.com/Venuja2003/Estate-Agent/internal/core/favourites"
)

type AddToFavouritesUseCasePort interface {
	Execute(ctx context.Context, sessionID uuid.UUID, propertyID string) (favourites.Snapshot, error)
}

type RemoveFromFavouritesUseCasePort interface {
	Execute(ctx context.Context, sessionID uuid.UUID, propertyID string) (favourites.Snapshot, error)
}

type ClearFavouritesUseCasePort interface {
	Execute(ctx context.Context, sessionID uuid.UUID) (favourites.Snapshot, error)
}

type GetFavouritesUseCasePort interface {
	Execute(ctx context.Context, sessionID uuid.UUID) (favourites.Snapshot, error)
}
