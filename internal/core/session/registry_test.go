package session

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Venuja2003/Estate-Agent/internal/core/domain"
	"github.com/Venuja2003/Estate-Agent/internal/core/dragdrop"
)

func TestRegistry_CreateAndGet(t *testing.T) {
	r := NewRegistry(0)

	var hooked []uuid.UUID
	r.OnCreate(func(s *Session) { hooked = append(hooked, s.ID) })

	s := r.Create()
	got, err := r.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = r.Get(uuid.New())
	assert.True(t, errors.Is(err, ErrSessionNotFound))

	id := uuid.New()
	s2, created := r.GetOrCreate(id)
	assert.True(t, created)
	again, created := r.GetOrCreate(id)
	assert.False(t, created)
	assert.Same(t, s2, again)

	assert.Equal(t, []uuid.UUID{s.ID, id}, hooked)
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_Evict(t *testing.T) {
	now := time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)
	r := NewRegistry(time.Hour)
	r.now = func() time.Time { return now }

	old := r.Create()
	now = now.Add(45 * time.Minute)
	fresh := r.Create()

	now = now.Add(30 * time.Minute)
	assert.Equal(t, 1, r.Evict())

	_, err := r.Get(old.ID)
	assert.Error(t, err)
	_, err = r.Get(fresh.ID)
	assert.NoError(t, err)
}

func TestSession_GestureLifecycle(t *testing.T) {
	s := NewRegistry(0).Create()

	err := s.Do(func(s *Session) error {
		assert.Nil(t, s.Gesture())

		first := dragdrop.Begin(dragdrop.NewPropertySource(domain.PropertyRecord{ID: "a"}))
		s.SetGesture(first)
		assert.Same(t, first, s.Gesture())

		second := dragdrop.Begin(dragdrop.NewPropertySource(domain.PropertyRecord{ID: "b"}))
		s.SetGesture(second)
		assert.False(t, first.Active())

		second.Enter(s.DropZone)
		assert.True(t, second.Drop())
		assert.Nil(t, s.Gesture())
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, s.Favourites.Snapshot().IDs())
}

func TestRegistry_HooksSeeEverySession(t *testing.T) {
	r := NewRegistry(0)

	var first, second []uuid.UUID
	r.OnCreate(func(s *Session) { first = append(first, s.ID) })
	a := r.Create()
	r.OnCreate(func(s *Session) { second = append(second, s.ID) })
	b := r.Create()

	assert.Equal(t, []uuid.UUID{a.ID, b.ID}, first)
	assert.Equal(t, []uuid.UUID{b.ID}, second)
}

func TestSession_Run(t *testing.T) {
	s := NewRegistry(0).Create()

	var ids []string
	s.Run(func(s *Session) {
		s.Favourites.Add(domain.PropertyRecord{ID: "prop1"})
		ids = s.Favourites.Snapshot().IDs()
	})
	assert.Equal(t, []string{"prop1"}, ids)
}
