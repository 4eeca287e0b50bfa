package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Venuja2003/Estate-Agent/internal/core/domain"
	"github.com/Venuja2003/Estate-Agent/internal/core/dragdrop"
	"github.com/Venuja2003/Estate-Agent/internal/core/query"
	"github.com/Venuja2003/Estate-Agent/internal/core/session"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.FavouritesChangedEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e domain.FavouritesChangedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) actions() []domain.FavouritesAction {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.FavouritesAction, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Action)
	}
	return out
}

type fixture struct {
	catalog   *domain.Catalog
	sessions  *session.Registry
	publisher *recordingPublisher
	sid       uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	catalog, err := domain.NewCatalog([]domain.PropertyRecord{
		{ID: "prop1", Type: domain.PropertyTypeHouse, Price: 750000, Bedrooms: 3,
			Location: "Petts Wood Road, Petts Wood, Orpington BR5",
			Added:    domain.AddedDate{Month: "October", Day: 12, Year: 2022}},
		{ID: "prop2", Type: domain.PropertyTypeFlat, Price: 399995, Bedrooms: 2,
			Location: "Crofton Road Orpington BR6",
			Added:    domain.AddedDate{Month: "September", Day: 14, Year: 2022}},
		{ID: "prop3", Type: domain.PropertyTypeHouse, Price: 1200000, Bedrooms: 5,
			Location: "Chislehurst BR7",
			Added:    domain.AddedDate{Month: "January", Day: 3, Year: 2023}},
	})
	require.NoError(t, err)

	reg := session.NewRegistry(0)
	return &fixture{
		catalog:   catalog,
		sessions:  reg,
		publisher: &recordingPublisher{},
		sid:       reg.Create().ID,
	}
}

func ids(recs []domain.PropertyRecord) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.ID)
	}
	return out
}

func TestSearchProperties(t *testing.T) {
	f := newFixture(t)
	uc := NewSearchPropertiesUseCase(f.catalog)
	ctx := context.Background()

	assert.Equal(t, []string{"prop1", "prop2", "prop3"}, ids(uc.Execute(ctx, domain.SearchCriteria{})))

	houses := domain.PropertyTypeHouse
	got := uc.Execute(ctx, domain.SearchCriteria{Type: &houses, DateAfter: query.DateOn(2022, time.December, 1)})
	assert.Equal(t, []string{"prop3"}, ids(got))
}

func TestGetProperty(t *testing.T) {
	f := newFixture(t)
	uc := NewGetPropertyUseCase(f.catalog, "")
	uc.now = func() time.Time { return time.Date(2022, time.October, 22, 8, 0, 0, 0, time.UTC) }

	details, err := uc.Execute(context.Background(), "prop1")
	require.NoError(t, err)
	assert.Equal(t, "£750,000", details.PriceText)
	assert.Equal(t, "October 12, 2022", details.AddedText)
	assert.Equal(t, 11, details.DaysSinceAdded)

	_, err = uc.Execute(context.Background(), "nope")
	assert.True(t, errors.Is(err, domain.ErrPropertyNotFound))
}

func TestFavouritesUseCases(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	add := NewAddToFavouritesUseCase(f.catalog, f.sessions, f.publisher)
	remove := NewRemoveFromFavouritesUseCase(f.sessions, f.publisher)
	clearUC := NewClearFavouritesUseCase(f.sessions, f.publisher)
	get := NewGetFavouritesUseCase(f.sessions)

	snap, err := add.Execute(ctx, f.sid, "prop2")
	require.NoError(t, err)
	assert.Equal(t, []string{"prop2"}, snap.IDs())

	snap, err = add.Execute(ctx, f.sid, "prop2")
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Len())

	_, err = add.Execute(ctx, f.sid, "prop1")
	require.NoError(t, err)

	snap, err = remove.Execute(ctx, f.sid, "prop2")
	require.NoError(t, err)
	assert.Equal(t, []string{"prop1"}, snap.IDs())

	_, err = remove.Execute(ctx, f.sid, "prop2")
	require.NoError(t, err)

	snap, err = clearUC.Execute(ctx, f.sid)
	require.NoError(t, err)
	assert.Zero(t, snap.Len())

	_, err = clearUC.Execute(ctx, f.sid)
	require.NoError(t, err)

	snap, err = get.Execute(ctx, f.sid)
	require.NoError(t, err)
	assert.Zero(t, snap.Len())

	// no-ops publish nothing
	assert.Equal(t, []domain.FavouritesAction{
		domain.FavouritesAdded, domain.FavouritesAdded, domain.FavouritesRemoved, domain.FavouritesCleared,
	}, f.publisher.actions())
	last := f.publisher.events[len(f.publisher.events)-1]
	assert.Equal(t, f.sid.String(), last.SessionID)
	assert.Empty(t, last.FavouriteIDs)
}

func TestFavouritesUseCases_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	add := NewAddToFavouritesUseCase(f.catalog, f.sessions, f.publisher)

	_, err := add.Execute(ctx, f.sid, "missing")
	assert.True(t, errors.Is(err, domain.ErrPropertyNotFound))

	_, err = add.Execute(ctx, uuid.New(), "prop1")
	assert.True(t, errors.Is(err, session.ErrSessionNotFound))

	_, err = NewGetFavouritesUseCase(f.sessions).Execute(ctx, uuid.New())
	assert.True(t, errors.Is(err, session.ErrSessionNotFound))
	assert.Empty(t, f.publisher.events)
}

func TestAddToFavourites_PublishFailureKeepsChange(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = errors.New("broker down")

	snap, err := NewAddToFavouritesUseCase(f.catalog, f.sessions, f.publisher).Execute(context.Background(), f.sid, "prop1")
	require.NoError(t, err)
	assert.True(t, snap.Contains("prop1"))
}

func TestDrag_DropOnFavourites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start := NewStartDragUseCase(f.catalog, f.sessions)
	move := NewMoveDragUseCase(f.sessions)
	drop := NewDropDragUseCase(f.sessions, f.publisher)
	state := NewGetDragStateUseCase(f.sessions)

	st, err := start.Execute(ctx, f.sid, "prop3")
	require.NoError(t, err)
	assert.True(t, st.Active)
	assert.True(t, st.Dragging)
	assert.Equal(t, "PROPERTY", st.Tag)
	assert.False(t, st.OverFavourites)

	st, err = move.Execute(ctx, f.sid, true)
	require.NoError(t, err)
	assert.True(t, st.OverFavourites)

	accepted, snap, err := drop.Execute(ctx, f.sid)
	require.NoError(t, err)
	assert.True(t, accepted)
	assert.Equal(t, []string{"prop3"}, snap.IDs())
	assert.Equal(t, []domain.FavouritesAction{domain.FavouritesDropped}, f.publisher.actions())

	st, err = state.Execute(ctx, f.sid)
	require.NoError(t, err)
	assert.Equal(t, domain.DragState{}, st)

	_, _, err = drop.Execute(ctx, f.sid)
	assert.True(t, errors.Is(err, dragdrop.ErrNoActiveGesture))
}

func TestDrag_DropOfExistingFavouriteIsNoOp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := NewAddToFavouritesUseCase(f.catalog, f.sessions, f.publisher).Execute(ctx, f.sid, "prop1")
	require.NoError(t, err)

	_, err = NewStartDragUseCase(f.catalog, f.sessions).Execute(ctx, f.sid, "prop1")
	require.NoError(t, err)
	_, err = NewMoveDragUseCase(f.sessions).Execute(ctx, f.sid, true)
	require.NoError(t, err)

	accepted, snap, err := NewDropDragUseCase(f.sessions, f.publisher).Execute(ctx, f.sid)
	require.NoError(t, err)
	assert.True(t, accepted)
	assert.Equal(t, 1, snap.Len())
	assert.Equal(t, []domain.FavouritesAction{domain.FavouritesAdded}, f.publisher.actions())
}

func TestDrag_DropAfterLeavingAddsNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	move := NewMoveDragUseCase(f.sessions)

	_, err := NewStartDragUseCase(f.catalog, f.sessions).Execute(ctx, f.sid, "prop1")
	require.NoError(t, err)
	_, err = move.Execute(ctx, f.sid, true)
	require.NoError(t, err)
	st, err := move.Execute(ctx, f.sid, false)
	require.NoError(t, err)
	assert.False(t, st.OverFavourites)

	accepted, snap, err := NewDropDragUseCase(f.sessions, f.publisher).Execute(ctx, f.sid)
	require.NoError(t, err)
	assert.False(t, accepted)
	assert.Zero(t, snap.Len())
	assert.Empty(t, f.publisher.events)
}

func TestDrag_CancelAndErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start := NewStartDragUseCase(f.catalog, f.sessions)
	cancel := NewCancelDragUseCase(f.sessions)

	_, err := NewMoveDragUseCase(f.sessions).Execute(ctx, f.sid, true)
	assert.True(t, errors.Is(err, dragdrop.ErrNoActiveGesture))

	_, err = start.Execute(ctx, f.sid, "missing")
	assert.True(t, errors.Is(err, domain.ErrPropertyNotFound))

	_, err = start.Execute(ctx, f.sid, "prop1")
	require.NoError(t, err)
	st, err := cancel.Execute(ctx, f.sid)
	require.NoError(t, err)
	assert.False(t, st.Active)

	// cancelling twice is harmless
	_, err = cancel.Execute(ctx, f.sid)
	require.NoError(t, err)

	_, err = cancel.Execute(ctx, uuid.New())
	assert.True(t, errors.Is(err, session.ErrSessionNotFound))
}

func TestDrag_StartingAgainReplacesGesture(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start := NewStartDragUseCase(f.catalog, f.sessions)

	_, err := start.Execute(ctx, f.sid, "prop1")
	require.NoError(t, err)
	st, err := start.Execute(ctx, f.sid, "prop2")
	require.NoError(t, err)
	assert.Equal(t, "prop2", st.PropertyID)
}

func TestDropPayload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := NewDropPayloadUseCase(f.catalog, f.sessions, f.publisher)

	accepted, snap, err := uc.Execute(ctx, f.sid, "IMAGE", "prop1")
	require.NoError(t, err)
	assert.False(t, accepted)
	assert.Zero(t, snap.Len())

	accepted, snap, err = uc.Execute(ctx, f.sid, dragdrop.TagProperty, "prop1")
	require.NoError(t, err)
	assert.True(t, accepted)
	assert.Equal(t, []string{"prop1"}, snap.IDs())

	_, _, err = uc.Execute(ctx, f.sid, dragdrop.TagProperty, "missing")
	assert.True(t, errors.Is(err, domain.ErrPropertyNotFound))

	assert.Equal(t, []domain.FavouritesAction{domain.FavouritesDropped}, f.publisher.actions())
}
