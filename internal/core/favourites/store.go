// Package favourites holds a session's shortlist of properties.
package favourites

import (
	"sync"

	"github.com/Venuja2003/Estate-Agent/internal/core/domain"
)

// Snapshot is an immutable view of the collection after one mutation.
// Version increases with every change, so two snapshots with the same
// version hold the same entries.
type Snapshot struct {
	Version uint64
	items   []domain.PropertyRecord
}

// Items returns the entries in insertion order. The slice is a copy.
func (s Snapshot) Items() []domain.PropertyRecord {
	out := make([]domain.PropertyRecord, len(s.items))
	copy(out, s.items)
	return out
}

// IDs returns the entry ids in insertion order.
func (s Snapshot) IDs() []string {
	ids := make([]string, len(s.items))
	for i, rec := range s.items {
		ids[i] = rec.ID
	}
	return ids
}

func (s Snapshot) Len() int {
	return len(s.items)
}

// Contains reports whether an entry with id is present.
func (s Snapshot) Contains(id string) bool {
	return indexOf(s.items, id) >= 0
}

// Listener receives the new snapshot after a change.
type Listener func(Snapshot)

type subscription struct {
	id uint64
	fn Listener
}

// Store is the favourites collection: ordered, unique by property id.
type Store struct {
	mu        sync.Mutex
	current   Snapshot
	listeners []subscription
	nextSubID uint64
}

func NewStore() *Store {
	return &Store{}
}

// Add appends rec unless an entry with the same id exists. It reports
// whether the collection changed.
func (s *Store) Add(rec domain.PropertyRecord) bool {
	return s.mutate(func(items []domain.PropertyRecord) ([]domain.PropertyRecord, bool) {
		if indexOf(items, rec.ID) >= 0 {
			return items, false
		}
		next := make([]domain.PropertyRecord, len(items), len(items)+1)
		copy(next, items)
		return append(next, rec), true
	})
}

// Remove drops the entry with id, if any.
func (s *Store) Remove(id string) bool {
	return s.mutate(func(items []domain.PropertyRecord) ([]domain.PropertyRecord, bool) {
		i := indexOf(items, id)
		if i < 0 {
			return items, false
		}
		next := make([]domain.PropertyRecord, 0, len(items)-1)
		next = append(next, items[:i]...)
		return append(next, items[i+1:]...), true
	})
}

// Clear empties the collection.
func (s *Store) Clear() bool {
	return s.mutate(func(items []domain.PropertyRecord) ([]domain.PropertyRecord, bool) {
		if len(items) == 0 {
			return items, false
		}
		return nil, true
	})
}

func (s *Store) Contains(id string) bool {
	return s.Snapshot().Contains(id)
}

func (s *Store) Len() int {
	return s.Snapshot().Len()
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Subscribe registers fn to be called after every change. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSubID++
	id := s.nextSubID
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.listeners {
			if sub.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// mutate applies fn under the lock and, on change, publishes the new
// snapshot to listeners after the lock is released.
func (s *Store) mutate(fn func([]domain.PropertyRecord) ([]domain.PropertyRecord, bool)) bool {
	s.mu.Lock()
	next, changed := fn(s.current.items)
	if !changed {
		s.mu.Unlock()
		return false
	}
	s.current = Snapshot{Version: s.current.Version + 1, items: next}
	snap := s.current
	listeners := make([]subscription, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, sub := range listeners {
		sub.fn(snap)
	}
	return true
}

func indexOf(items []domain.PropertyRecord, id string) int {
	for i, rec := range items {
		if rec.ID == id {
			return i
		}
	}
	return -1
}
