package rest

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/Venuja2003/Estate-Agent/internal/core/port"
)

const SessionHeader = "X-Session-ID"

type contextKey string

const sessionIDKey = contextKey("sessionID")

func sessionIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(sessionIDKey).(uuid.UUID)
	return id, ok
}

// SessionMiddleware requires a live session named by X-Session-ID.
func SessionMiddleware(sessions port.SessionRepositoryPort) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(SessionHeader)
			if raw == "" {
				WriteJSONError(w, http.StatusUnauthorized, SessionHeader+" header is missing")
				return
			}
			id, err := uuid.Parse(raw)
			if err != nil {
				WriteJSONError(w, http.StatusUnauthorized, "Invalid "+SessionHeader+" header format")
				return
			}
			if _, err := sessions.Get(id); err != nil {
				WriteJSONError(w, http.StatusUnauthorized, "Session not found")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionIDKey, id)))
		})
	}
}

// OptionalSessionMiddleware records a valid session id when one is sent and
// ignores the header otherwise.
func OptionalSessionMiddleware(sessions port.SessionRepositoryPort) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id, err := uuid.Parse(r.Header.Get(SessionHeader)); err == nil {
				if _, err := sessions.Get(id); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), sessionIDKey, id))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
