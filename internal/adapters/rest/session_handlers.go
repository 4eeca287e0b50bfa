package rest

import (
	"net/http"
	"time"

	"github.com/Venuja2003/Estate-Agent/internal/contextkeys"
	"github.com/Venuja2003/Estate-Agent/internal/core/port"
	"github.com/Venuja2003/Estate-Agent/internal/core/session"
)

// SessionStore creates sessions and reports how many are live.
type SessionStore interface {
	Create() *session.Session
	Len() int
}

type SessionHandler struct {
	sessions    SessionStore
	catalogSize int
}

func NewSessionHandler(sessions SessionStore, catalogSize int) *SessionHandler {
	return &SessionHandler{sessions: sessions, catalogSize: catalogSize}
}

// Create handles POST /api/v1/sessions.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Create()
	contextkeys.LoggerFromContext(r.Context()).Info("Session created", port.Fields{"session_id": s.ID})
	RespondWithJSON(w, http.StatusCreated, SessionResponse{SessionID: s.ID.String()})
}

// Health handles GET /healthz.
func (h *SessionHandler) Health(w http.ResponseWriter, _ *http.Request) {
	RespondWithJSON(w, http.StatusOK, HealthResponse{
		Status:     "ok",
		Properties: h.catalogSize,
		Sessions:   h.sessions.Len(),
		Time:       time.Now().UTC(),
	})
}
