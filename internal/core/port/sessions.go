package port

import (
	"github.com/google/uuid"

	"github.com/Venuja2003/Estate-Agent/internal/core/session"
)

// SessionRepositoryPort resolves a session id to its live state.
type SessionRepositoryPort interface {
	Get(id uuid.UUID) (*session.Session, error)
}
