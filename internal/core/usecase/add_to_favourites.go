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

type AddToFavouritesUseCase struct {
	catalog   *domain.Catalog
	sessions  port.SessionRepositoryPort
	publisher port.FavouritesEventPublisherPort
}

func NewAddToFavouritesUseCase(catalog *domain.Catalog, sessions port.SessionRepositoryPort,
	publisher port.FavouritesEventPublisherPort) *AddToFavouritesUseCase {
	return &AddToFavouritesUseCase{catalog: catalog, sessions: sessions, publisher: publisher}
}

// Execute is the heart-button path. Adding a property that is already a
// favourite changes nothing.
func (uc *AddToFavouritesUseCase) Execute(ctx context.Context, sessionID uuid.UUID, propertyID string) (favourites.Snapshot, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":    "AddToFavourites",
		"session_id":  sessionID,
		"property_id": propertyID,
	})
	ucLogger.Info("Use case started", nil)

	rec, err := uc.catalog.ByID(propertyID)
	if err != nil {
		ucLogger.Warn("Unknown property", nil)
		return favourites.Snapshot{}, err
	}

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
		changed = s.Favourites.Add(rec)
		snap = s.Favourites.Snapshot()
	})

	if changed {
		publishChange(ctx, uc.publisher, ucLogger, sessionID, domain.FavouritesAdded, propertyID, snap)
	} else {
		ucLogger.Debug("Property already in favourites", nil)
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"favourites_count": snap.Len()})
	return snap, nil
}
