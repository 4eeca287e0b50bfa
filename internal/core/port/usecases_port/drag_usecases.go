package usecases_port

import (
	"context"

	"github.com/google/uuid"

	"github.com/Venuja2003/Estate-Agent/internal/core/domain"
	"github.com/Venuja2003/Estate-Agent/internal/core/dragdrop"
	"github.com/Venuja2003/Estate-Agent/internal/core/favourites"
)

type StartDragUseCasePort interface {
	Execute(ctx context.Context, sessionID uuid.UUID, propertyID string) (domain.DragState, error)
}

// MoveDragUseCasePort moves the gesture onto (over=true) or off the
// favourites drop zone.
type MoveDragUseCasePort interface {
	Execute(ctx context.Context, sessionID uuid.UUID, over bool) (domain.DragState, error)
}

type DropDragUseCasePort interface {
	Execute(ctx context.Context, sessionID uuid.UUID) (accepted bool, snap favourites.Snapshot, err error)
}

type CancelDragUseCasePort interface {
	Execute(ctx context.Context, sessionID uuid.UUID) (domain.DragState, error)
}

type GetDragStateUseCasePort interface {
	Execute(ctx context.Context, sessionID uuid.UUID) (domain.DragState, error)
}

// DropPayloadUseCasePort delivers a payload straight onto the favourites
// target, for clients that run the gesture themselves.
type DropPayloadUseCasePort interface {
	Execute(ctx context.Context, sessionID uuid.UUID, tag dragdrop.Tag, propertyID string) (accepted bool, snap favourites.Snapshot, err error)
}
