// Package session keeps per-browser state: one favourites store and at most
// one drag gesture, with events applied one at a time.
package session

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/Venuja2003/Estate-Agent/internal/core/dragdrop"
	"github.com/Venuja2003/Estate-Agent/internal/core/favourites"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is one user's browsing session.
type Session struct {
	ID         uuid.UUID
	Favourites *favourites.Store
	DropZone   *dragdrop.Target

	mu       sync.Mutex
	gesture  *dragdrop.Gesture
	lastSeen atomic.Int64 // unix nanos
}

func newSession(id uuid.UUID, now time.Time) *Session {
	store := favourites.NewStore()
	s := &Session{
		ID:         id,
		Favourites: store,
		DropZone:   favourites.DropTarget(store),
	}
	s.touch(now)
	return s
}

// Do runs fn as a single event. Events on one session never interleave.
func (s *Session) Do(fn func(s *Session) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s)
}

// Run is Do for events that cannot fail.
func (s *Session) Run(fn func(s *Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s)
}

// Gesture returns the drag in progress, or nil. Call inside Do.
func (s *Session) Gesture() *dragdrop.Gesture {
	if s.gesture != nil && !s.gesture.Active() {
		s.gesture = nil
	}
	return s.gesture
}

// SetGesture replaces the current drag. A previous active drag is cancelled.
// Call inside Do.
func (s *Session) SetGesture(g *dragdrop.Gesture) {
	if s.gesture != nil && s.gesture != g {
		s.gesture.Cancel()
	}
	s.gesture = g
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

func (s *Session) idleSince() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// Registry owns every live session.
type Registry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	idleTTL  time.Duration
	now      func() time.Time
	onCreate []func(*Session)
}

// NewRegistry creates a registry whose sessions expire after idleTTL without
// activity. A zero TTL keeps sessions until the process exits.
func NewRegistry(idleTTL time.Duration) *Registry {
	return &Registry{
		sessions: make(map[uuid.UUID]*Session),
		idleTTL:  idleTTL,
		now:      time.Now,
	}
}

// OnCreate registers a hook run for every new session, e.g. to subscribe a
// notifier to its favourites.
func (r *Registry) OnCreate(fn func(*Session)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onCreate = append(r.onCreate, fn)
}

// Create starts a session with a fresh id.
func (r *Registry) Create() *Session {
	s, _ := r.GetOrCreate(uuid.New())
	return s
}

// Get returns a live session and marks it as used.
func (r *Registry) Get(id uuid.UUID) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.touch(r.now())
	return s, nil
}

// GetOrCreate returns the session with id, creating it when absent. The bool
// reports whether it was created.
func (r *Registry) GetOrCreate(id uuid.UUID) (*Session, bool) {
	if s, err := r.Get(id); err == nil {
		return s, false
	}

	r.mu.Lock()
	if s, ok := r.sessions[id]; ok {
		r.mu.Unlock()
		return s, false
	}
	s := newSession(id, r.now())
	r.sessions[id] = s
	hooks := append([]func(*Session){}, r.onCreate...)
	r.mu.Unlock()

	for _, hook := range hooks {
		hook(s)
	}
	return s, true
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Evict drops sessions idle for longer than the TTL and returns how many
// were removed.
func (r *Registry) Evict() int {
	if r.idleTTL <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.idleTTL)

	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.sessions {
		if s.idleSince().Before(cutoff) {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}
