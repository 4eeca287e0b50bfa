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

type ClearFavouritesUseCase struct {
	sessions  port.SessionRepositoryPort
	publisher port.FavouritesEventPublisherPort
}

func NewClearFavouritesUseCase(sessions port.SessionRepositoryPort,
	publisher port.FavouritesEventPublisherPort) *ClearFavouritesUseCase {
	return &ClearFavouritesUseCase{sessions: sessions, publisher: publisher}
}

func (uc *ClearFavouritesUseCase) Execute(ctx context.Context, sessionID uuid.UUID) (favourites.Snapshot, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":   "ClearFavourites",
		"session_id": sessionID,
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
		changed = s.Favourites.Clear()
		snap = s.Favourites.Snapshot()
	})

	if changed {
		publishChange(ctx, uc.publisher, ucLogger, sessionID, domain.FavouritesCleared, "", snap)
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"cleared": changed})
	return snap, nil
}
