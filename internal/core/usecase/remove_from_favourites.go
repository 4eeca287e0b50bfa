package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/Venuja2003/Estate-Agent/internal/contextkeys"
	"github.com/Venuja2003/Estate-Agent/internal/core/domain"
	"github.com/Venuja2003/Estate-Agent/internal/core/favourites"
	"github.com/Venuja2003/Estate-Agent/internal/core/port"
	"github.com/Venuja2003/Estate-Agent/internal/core/session"
)

type RemoveFromFavouritesUseCase struct {
	sessions  port.SessionRepositoryPort
	publisher port.FavouritesEventPublisherPort
}

func NewRemoveFromFavouritesUseCase(sessions port.SessionRepositoryPort,
	publisher port.FavouritesEventPublisherPort) *RemoveFromFavouritesUseCase {
	return &RemoveFromFavouritesUseCase{sessions: sessions, publisher: publisher}
}

// Execute removes propertyID. An id that is not a favourite is a no-op.
func (uc *RemoveFromFavouritesUseCase) Execute(ctx context.Context, sessionID uuid.UUID, propertyID string) (favourites.Snapshot, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":    "RemoveFromFavourites",
		"session_id":  sessionID,
		"property_id": propertyID,
	})
	ucLogger.Info("Use case started", nil)

	sess, err := uc.sessions.Get(sessionID)
	if err != nil {
		ucLogger.Warn("Session lookup failed", port.Fields{"error": err.Error()})
		return favourites.Snapshot{}, err
	}

	var (
		snap    favourites.Snapshot
		changed bool
	)
	sess.Run(func(s *session.Session) {
		changed = s.Favourites.Remove(propertyID)
		snap = s.Favourites.Snapshot()
	})

	if changed {
		publishChange(ctx, uc.publisher, ucLogger, sessionID, domain.FavouritesRemoved, propertyID, snap)
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"removed": changed})
	return snap, nil
}
