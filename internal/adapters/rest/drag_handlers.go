package rest

import (
	"net/http"
	"strings"

	"github.com/Venuja2003/Estate-Agent/internal/core/domain"
	"github.com/Venuja2003/Estate-Agent/internal/core/dragdrop"
	"github.com/Venuja2003/Estate-Agent/internal/core/port"
	"github.com/Venuja2003/Estate-Agent/internal/core/port/usecases_port"
)

// DragHandler drives a session's drag gesture over HTTP: start on a card,
// enter or leave the favourites panel, then drop or cancel.
type DragHandler struct {
	startUC   usecases_port.StartDragUseCasePort
	moveUC    usecases_port.MoveDragUseCasePort
	dropUC    usecases_port.DropDragUseCasePort
	cancelUC  usecases_port.CancelDragUseCasePort
	stateUC   usecases_port.GetDragStateUseCasePort
	payloadUC usecases_port.DropPayloadUseCasePort
}

func NewDragHandler(startUC usecases_port.StartDragUseCasePort,
	moveUC usecases_port.MoveDragUseCasePort,
	dropUC usecases_port.DropDragUseCasePort,
	cancelUC usecases_port.CancelDragUseCasePort,
	stateUC usecases_port.GetDragStateUseCasePort,
	payloadUC usecases_port.DropPayloadUseCasePort) *DragHandler {
	return &DragHandler{
		startUC:   startUC,
		moveUC:    moveUC,
		dropUC:    dropUC,
		cancelUC:  cancelUC,
		stateUC:   stateUC,
		payloadUC: payloadUC,
	}
}

func respondDragState(w http.ResponseWriter, logger port.LoggerPort, state domain.DragState, err error) {
	if err != nil {
		status, msg := statusFor(err)
		if status == http.StatusInternalServerError {
			logger.Error("Drag use case failed", err, nil)
		}
		WriteJSONError(w, status, msg)
		return
	}
	RespondWithJSON(w, http.StatusOK, toDragState(state))
}

// Start handles POST /api/v1/drag.
func (h *DragHandler) Start(w http.ResponseWriter, r *http.Request) {
	id, logger, ok := sessionScope(w, r, "StartDrag")
	if !ok {
		return
	}
	var req StartDragRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.PropertyID) == "" {
		WriteJSONError(w, http.StatusBadRequest, "property_id is required")
		return
	}
	state, err := h.startUC.Execute(r.Context(), id, strings.TrimSpace(req.PropertyID))
	respondDragState(w, logger, state, err)
}

// State handles GET /api/v1/drag.
func (h *DragHandler) State(w http.ResponseWriter, r *http.Request) {
	id, logger, ok := sessionScope(w, r, "GetDragState")
	if !ok {
		return
	}
	state, err := h.stateUC.Execute(r.Context(), id)
	respondDragState(w, logger, state, err)
}

// Enter handles POST /api/v1/drag/enter.
func (h *DragHandler) Enter(w http.ResponseWriter, r *http.Request) {
	id, logger, ok := sessionScope(w, r, "EnterFavourites")
	if !ok {
		return
	}
	state, err := h.moveUC.Execute(r.Context(), id, true)
	respondDragState(w, logger, state, err)
}

// Leave handles POST /api/v1/drag/leave.
func (h *DragHandler) Leave(w http.ResponseWriter, r *http.Request) {
	id, logger, ok := sessionScope(w, r, "LeaveFavourites")
	if !ok {
		return
	}
	state, err := h.moveUC.Execute(r.Context(), id, false)
	respondDragState(w, logger, state, err)
}

// Drop handles POST /api/v1/drag/drop.
func (h *DragHandler) Drop(w http.ResponseWriter, r *http.Request) {
	id, logger, ok := sessionScope(w, r, "DropDrag")
	if !ok {
		return
	}
	accepted, snap, err := h.dropUC.Execute(r.Context(), id)
	if err != nil {
		status, msg := statusFor(err)
		if status == http.StatusInternalServerError {
			logger.Error("DropDrag use case failed", err, nil)
		}
		WriteJSONError(w, status, msg)
		return
	}
	RespondWithJSON(w, http.StatusOK, DropResponse{Accepted: accepted, Favourites: toFavourites(snap)})
}

// Cancel handles DELETE /api/v1/drag.
func (h *DragHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, logger, ok := sessionScope(w, r, "CancelDrag")
	if !ok {
		return
	}
	state, err := h.cancelUC.Execute(r.Context(), id)
	respondDragState(w, logger, state, err)
}

// DropPayload handles POST /api/v1/favourites/drop for clients that run
// the gesture locally and only report the drop.
func (h *DragHandler) DropPayload(w http.ResponseWriter, r *http.Request) {
	id, logger, ok := sessionScope(w, r, "DropPayload")
	if !ok {
		return
	}
	var req DropPayloadRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	tag := dragdrop.Tag(strings.TrimSpace(req.Tag))
	if tag == "" {
		tag = dragdrop.TagProperty
	}

	accepted, snap, err := h.payloadUC.Execute(r.Context(), id, tag, strings.TrimSpace(req.PropertyID))
	if err != nil {
		status, msg := statusFor(err)
		if status == http.StatusInternalServerError {
			logger.Error("DropPayload use case failed", err, nil)
		}
		WriteJSONError(w, status, msg)
		return
	}
	RespondWithJSON(w, http.StatusOK, DropResponse{Accepted: accepted, Favourites: toFavourites(snap)})
}
