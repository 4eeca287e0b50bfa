package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/Venuja2003/Estate-Agent/internal/contextkeys"
	"github.com/Venuja2003/Estate-Agent/internal/core/favourites"
	"github.com/Venuja2003/Estate-Agent/internal/core/port"
)

type GetFavouritesUseCase struct {
	sessions port.SessionRepositoryPort
}

func NewGetFavouritesUseCase(sessions port.SessionRepositoryPort) *GetFavouritesUseCase {
	return &GetFavouritesUseCase{sessions: sessions}
}

func (uc *GetFavouritesUseCase) Execute(ctx context.Context, sessionID uuid.UUID) (favourites.Snapshot, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":   "GetFavourites",
		"session_id": sessionID,
	})

	sess, err := uc.sessions.Get(sessionID)
	if err != nil {
		logger.Warn("Session lookup failed", port.Fields{"error": err.Error()})
		return favourites.Snapshot{}, err
	}
	return sess.Favourites.Snapshot(), nil
}
