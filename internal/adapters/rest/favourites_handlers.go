package rest

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Venuja2003/Estate-Agent/internal/adapters/notifier"
	"github.com/Venuja2003/Estate-Agent/internal/contextkeys"
	"github.com/Venuja2003/Estate-Agent/internal/core/favourites"
	"github.com/Venuja2003/Estate-Agent/internal/core/port"
	"github.com/Venuja2003/Estate-Agent/internal/core/port/usecases_port"
)

const keepAliveInterval = 15 * time.Second

// StreamHub is the notifier side the event stream needs.
type StreamHub interface {
	AddClient(sessionID uuid.UUID) notifier.ClientChannel
	RemoveClient(sessionID uuid.UUID, ch notifier.ClientChannel)
}

type FavouritesHandler struct {
	addUC    usecases_port.AddToFavouritesUseCasePort
	removeUC usecases_port.RemoveFromFavouritesUseCasePort
	clearUC  usecases_port.ClearFavouritesUseCasePort
	getUC    usecases_port.GetFavouritesUseCasePort
	hub      StreamHub
}

func NewFavouritesHandler(addUC usecases_port.AddToFavouritesUseCasePort,
	removeUC usecases_port.RemoveFromFavouritesUseCasePort,
	clearUC usecases_port.ClearFavouritesUseCasePort,
	getUC usecases_port.GetFavouritesUseCasePort,
	hub StreamHub) *FavouritesHandler {
	return &FavouritesHandler{addUC: addUC, removeUC: removeUC, clearUC: clearUC, getUC: getUC, hub: hub}
}

// sessionScope pulls the session id that SessionMiddleware stored.
func sessionScope(w http.ResponseWriter, r *http.Request, handler string) (uuid.UUID, port.LoggerPort, bool) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": handler})
	id, ok := sessionIDFromContext(r.Context())
	if !ok {
		logger.Error("Session id missing from context", nil, nil)
		WriteJSONError(w, http.StatusUnauthorized, "Session not found")
		return uuid.Nil, logger, false
	}
	return id, logger.WithFields(port.Fields{"session_id": id}), true
}

func respondSnapshot(w http.ResponseWriter, logger port.LoggerPort, snap favourites.Snapshot, err error) {
	if err != nil {
		status, msg := statusFor(err)
		if status == http.StatusInternalServerError {
			logger.Error("Favourites use case failed", err, nil)
		}
		WriteJSONError(w, status, msg)
		return
	}
	RespondWithJSON(w, http.StatusOK, toFavourites(snap))
}

// List handles GET /api/v1/favourites.
func (h *FavouritesHandler) List(w http.ResponseWriter, r *http.Request) {
	id, logger, ok := sessionScope(w, r, "ListFavourites")
	if !ok {
		return
	}
	snap, err := h.getUC.Execute(r.Context(), id)
	respondSnapshot(w, logger, snap, err)
}

// Add handles POST /api/v1/favourites, the heart button.
func (h *FavouritesHandler) Add(w http.ResponseWriter, r *http.Request) {
	id, logger, ok := sessionScope(w, r, "AddFavourite")
	if !ok {
		return
	}

	var req AddFavouriteRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.PropertyID = strings.TrimSpace(req.PropertyID)
	if req.PropertyID == "" {
		WriteJSONError(w, http.StatusBadRequest, "property_id is required")
		return
	}

	snap, err := h.addUC.Execute(r.Context(), id, req.PropertyID)
	respondSnapshot(w, logger, snap, err)
}

// Remove handles DELETE /api/v1/favourites/{propertyID}.
func (h *FavouritesHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, logger, ok := sessionScope(w, r, "RemoveFavourite")
	if !ok {
		return
	}
	snap, err := h.removeUC.Execute(r.Context(), id, chi.URLParam(r, "propertyID"))
	respondSnapshot(w, logger, snap, err)
}

// Clear handles DELETE /api/v1/favourites.
func (h *FavouritesHandler) Clear(w http.ResponseWriter, r *http.Request) {
	id, logger, ok := sessionScope(w, r, "ClearFavourites")
	if !ok {
		return
	}
	snap, err := h.clearUC.Execute(r.Context(), id)
	respondSnapshot(w, logger, snap, err)
}

// Events handles GET /api/v1/favourites/events. The stream opens with the
// current snapshot and then carries every change.
func (h *FavouritesHandler) Events(w http.ResponseWriter, r *http.Request) {
	id, logger, ok := sessionScope(w, r, "FavouritesEvents")
	if !ok {
		return
	}
	flusher, canFlush := w.(http.Flusher)
	if !canFlush {
		WriteJSONError(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	ch := h.hub.AddClient(id)
	defer h.hub.RemoveClient(id, ch)

	snap, err := h.getUC.Execute(r.Context(), id)
	if err != nil {
		status, msg := statusFor(err)
		WriteJSONError(w, status, msg)
		return
	}
	initial, err := notifier.Frame(snap)
	if err != nil {
		logger.Error("Failed to encode initial snapshot", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(initial); err != nil {
		return
	}
	flusher.Flush()
	logger.Info("Favourites stream opened", nil)

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case frame := <-ch:
			if _, err := w.Write(frame); err != nil {
				logger.Warn("Error writing to client, closing stream", port.Fields{"error": err.Error()})
				return
			}
			flusher.Flush()
		case <-ticker.C:
			// comment lines keep proxies from closing an idle stream
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case <-r.Context().Done():
			logger.Info("Favourites stream closed", nil)
			return
		}
	}
}
