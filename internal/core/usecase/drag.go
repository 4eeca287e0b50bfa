package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/Venuja2003/Estate-Agent/internal/contextkeys"
	"github.com/Venuja2003/Estate-Agent/internal/core/domain"
	"github.com/Venuja2003/Estate-Agent/internal/core/dragdrop"
	"github.com/Venuja2003/Estate-Agent/internal/core/favourites"
	"github.com/Venuja2003/Estate-Agent/internal/core/port"
	"github.com/Venuja2003/Estate-Agent/internal/core/session"
)

// dragState reads the session's gesture. Call inside Session.Do.
func dragState(s *session.Session) domain.DragState {
	g := s.Gesture()
	if g == nil {
		return domain.DragState{}
	}
	p := g.Payload()
	return domain.DragState{
		Active:         true,
		Tag:            string(p.Tag),
		PropertyID:     p.Record.ID,
		Dragging:       g.Source().IsDragging(),
		OverFavourites: s.DropZone.IsOver(),
	}
}

func dragLogger(ctx context.Context, name string, sessionID uuid.UUID) port.LoggerPort {
	return contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":   name,
		"session_id": sessionID,
	})
}

// StartDragUseCase picks up a catalog item. Starting a new drag abandons the
// previous one.
type StartDragUseCase struct {
	catalog  *domain.Catalog
	sessions port.SessionRepositoryPort
}

func NewStartDragUseCase(catalog *domain.Catalog, sessions port.SessionRepositoryPort) *StartDragUseCase {
	return &StartDragUseCase{catalog: catalog, sessions: sessions}
}

func (uc *StartDragUseCase) Execute(ctx context.Context, sessionID uuid.UUID, propertyID string) (domain.DragState, error) {
	logger := dragLogger(ctx, "StartDrag", sessionID).WithFields(port.Fields{"property_id": propertyID})

	rec, err := uc.catalog.ByID(propertyID)
	if err != nil {
		logger.Warn("Unknown property", nil)
		return domain.DragState{}, err
	}
	sess, err := uc.sessions.Get(sessionID)
	if err != nil {
		return domain.DragState{}, err
	}

	var state domain.DragState
	sess.Run(func(s *session.Session) {
		s.SetGesture(dragdrop.Begin(dragdrop.NewPropertySource(rec)))
		state = dragState(s)
	})

	logger.Debug("Drag started", nil)
	return state, nil
}

// MoveDragUseCase moves the pointer onto or off the favourites panel.
type MoveDragUseCase struct {
	sessions port.SessionRepositoryPort
}

func NewMoveDragUseCase(sessions port.SessionRepositoryPort) *MoveDragUseCase {
	return &MoveDragUseCase{sessions: sessions}
}

func (uc *MoveDragUseCase) Execute(ctx context.Context, sessionID uuid.UUID, over bool) (domain.DragState, error) {
	logger := dragLogger(ctx, "MoveDrag", sessionID)

	sess, err := uc.sessions.Get(sessionID)
	if err != nil {
		return domain.DragState{}, err
	}

	var state domain.DragState
	err = sess.Do(func(s *session.Session) error {
		g := s.Gesture()
		if g == nil {
			return dragdrop.ErrNoActiveGesture
		}
		if over {
			g.Enter(s.DropZone)
		} else {
			g.Leave()
		}
		state = dragState(s)
		return nil
	})
	if err != nil {
		logger.Debug("No drag to move", nil)
		return domain.DragState{}, err
	}
	return state, nil
}

// DropDragUseCase releases the current drag. A drop anywhere but the
// favourites panel just ends the gesture.
type DropDragUseCase struct {
	sessions  port.SessionRepositoryPort
	publisher port.FavouritesEventPublisherPort
}

func NewDropDragUseCase(sessions port.SessionRepositoryPort, publisher port.FavouritesEventPublisherPort) *DropDragUseCase {
	return &DropDragUseCase{sessions: sessions, publisher: publisher}
}

func (uc *DropDragUseCase) Execute(ctx context.Context, sessionID uuid.UUID) (bool, favourites.Snapshot, error) {
	logger := dragLogger(ctx, "DropDrag", sessionID)

	sess, err := uc.sessions.Get(sessionID)
	if err != nil {
		return false, favourites.Snapshot{}, err
	}

	var (
		accepted   bool
		propertyID string
		before     uint64
		snap       favourites.Snapshot
	)
	err = sess.Do(func(s *session.Session) error {
		g := s.Gesture()
		if g == nil {
			return dragdrop.ErrNoActiveGesture
		}
		propertyID = g.Payload().Record.ID
		before = s.Favourites.Snapshot().Version
		accepted = g.Drop()
		s.SetGesture(nil)
		snap = s.Favourites.Snapshot()
		return nil
	})
	if err != nil {
		logger.Debug("No drag to drop", nil)
		return false, favourites.Snapshot{}, err
	}

	if snap.Version != before {
		publishChange(ctx, uc.publisher, logger, sessionID, domain.FavouritesDropped, propertyID, snap)
	}
	logger.Info("Drag finished", port.Fields{"accepted": accepted, "property_id": propertyID})
	return accepted, snap, nil
}

type CancelDragUseCase struct {
	sessions port.SessionRepositoryPort
}

func NewCancelDragUseCase(sessions port.SessionRepositoryPort) *CancelDragUseCase {
	return &CancelDragUseCase{sessions: sessions}
}

// Execute abandons the current drag. Cancelling with no drag is not an error.
func (uc *CancelDragUseCase) Execute(ctx context.Context, sessionID uuid.UUID) (domain.DragState, error) {
	sess, err := uc.sessions.Get(sessionID)
	if err != nil {
		return domain.DragState{}, err
	}
	sess.Run(func(s *session.Session) {
		if g := s.Gesture(); g != nil {
			g.Cancel()
		}
		s.SetGesture(nil)
	})
	dragLogger(ctx, "CancelDrag", sessionID).Debug("Drag cancelled", nil)
	return domain.DragState{}, nil
}

type GetDragStateUseCase struct {
	sessions port.SessionRepositoryPort
}

func NewGetDragStateUseCase(sessions port.SessionRepositoryPort) *GetDragStateUseCase {
	return &GetDragStateUseCase{sessions: sessions}
}

func (uc *GetDragStateUseCase) Execute(_ context.Context, sessionID uuid.UUID) (domain.DragState, error) {
	sess, err := uc.sessions.Get(sessionID)
	if err != nil {
		return domain.DragState{}, err
	}
	var state domain.DragState
	sess.Run(func(s *session.Session) {
		state = dragState(s)
	})
	return state, nil
}

// DropPayloadUseCase hands a payload straight to the favourites drop zone.
// Payloads with a tag other than PROPERTY are ignored.
type DropPayloadUseCase struct {
	catalog   *domain.Catalog
	sessions  port.SessionRepositoryPort
	publisher port.FavouritesEventPublisherPort
}

func NewDropPayloadUseCase(catalog *domain.Catalog, sessions port.SessionRepositoryPort,
	publisher port.FavouritesEventPublisherPort) *DropPayloadUseCase {
	return &DropPayloadUseCase{catalog: catalog, sessions: sessions, publisher: publisher}
}

func (uc *DropPayloadUseCase) Execute(ctx context.Context, sessionID uuid.UUID, tag dragdrop.Tag, propertyID string) (bool, favourites.Snapshot, error) {
	logger := dragLogger(ctx, "DropPayload", sessionID).WithFields(port.Fields{
		"tag":         tag,
		"property_id": propertyID,
	})

	sess, err := uc.sessions.Get(sessionID)
	if err != nil {
		return false, favourites.Snapshot{}, err
	}

	payload := dragdrop.Payload{Tag: tag}
	if tag == dragdrop.TagProperty {
		rec, err := uc.catalog.ByID(propertyID)
		if err != nil {
			logger.Warn("Unknown property", nil)
			return false, favourites.Snapshot{}, err
		}
		payload.Record = rec
	}

	var (
		accepted bool
		before   uint64
		snap     favourites.Snapshot
	)
	sess.Run(func(s *session.Session) {
		before = s.Favourites.Snapshot().Version
		accepted = s.DropZone.Drop(payload)
		snap = s.Favourites.Snapshot()
	})

	if snap.Version != before {
		publishChange(ctx, uc.publisher, logger, sessionID, domain.FavouritesDropped, propertyID, snap)
	}
	logger.Info("Payload dropped", port.Fields{"accepted": accepted})
	return accepted, snap, nil
}
