package rest

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Venuja2003/Estate-Agent/internal/adapters/notifier"
	"github.com/Venuja2003/Estate-Agent/internal/adapters/rabbitmq"
	"github.com/Venuja2003/Estate-Agent/internal/contextkeys"
	"github.com/Venuja2003/Estate-Agent/internal/core/domain"
	"github.com/Venuja2003/Estate-Agent/internal/core/session"
	"github.com/Venuja2003/Estate-Agent/internal/core/usecase"
)

type testAPI struct {
	server *httptest.Server
	hub    *notifier.SSENotifier
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	catalog, err := domain.NewCatalog([]domain.PropertyRecord{
		{ID: "prop1", Type: domain.PropertyTypeHouse, Price: 750000, Bedrooms: 3,
			Location: "Petts Wood Road, Orpington BR5", Images: []string{"a.jpg"},
			Latitude: 51.3893, Longitude: 0.0741,
			Added: domain.AddedDate{Month: "October", Day: 12, Year: 2024}},
		{ID: "prop2", Type: domain.PropertyTypeFlat, Price: 399995, Bedrooms: 2,
			Location: "Crofton Road, Orpington BR6",
			Added:    domain.AddedDate{Month: "September", Day: 14, Year: 2024}},
		{ID: "prop3", Type: domain.PropertyTypeHouse, Price: 1250000, Bedrooms: 5,
			Location: "Hayes Lane, Bromley BR2",
			Added:    domain.AddedDate{Month: "November", Day: 5, Year: 2024}},
	})
	require.NoError(t, err)

	logger := contextkeys.LoggerFromContext(context.Background())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := notifier.NewSSENotifier(logger)
	go hub.Run(ctx)

	registry := session.NewRegistry(0)
	registry.OnCreate(hub.Watch)
	events := rabbitmq.NoopEventsAdapter{}

	handlers := Handlers{
		Properties: NewPropertyHandler(
			usecase.NewSearchPropertiesUseCase(catalog),
			usecase.NewGetPropertyUseCase(catalog, ""),
			usecase.NewGetFavouritesUseCase(registry)),
		Favourites: NewFavouritesHandler(
			usecase.NewAddToFavouritesUseCase(catalog, registry, events),
			usecase.NewRemoveFromFavouritesUseCase(registry, events),
			usecase.NewClearFavouritesUseCase(registry, events),
			usecase.NewGetFavouritesUseCase(registry),
			hub),
		Drag: NewDragHandler(
			usecase.NewStartDragUseCase(catalog, registry),
			usecase.NewMoveDragUseCase(registry),
			usecase.NewDropDragUseCase(registry, events),
			usecase.NewCancelDragUseCase(registry),
			usecase.NewGetDragStateUseCase(registry),
			usecase.NewDropPayloadUseCase(catalog, registry, events)),
		Sessions: NewSessionHandler(registry, catalog.Len()),
	}
	srv := NewServer(ServerConfig{Port: "0", AllowedOrigins: []string{"http://localhost:5173"}}, handlers, registry, logger)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &testAPI{server: ts, hub: hub}
}

func (a *testAPI) do(t *testing.T, method, path, sessionID, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, a.server.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if sessionID != "" {
		req.Header.Set(SessionHeader, sessionID)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := a.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf strings.Builder
	_, err = bufio.NewReader(resp.Body).WriteTo(&buf)
	require.NoError(t, err)
	return resp, []byte(buf.String())
}

func (a *testAPI) newSession(t *testing.T) string {
	t.Helper()
	resp, body := a.do(t, http.MethodPost, "/api/v1/sessions", "", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var s SessionResponse
	require.NoError(t, json.Unmarshal(body, &s))
	return s.SessionID
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v), string(body))
	return v
}

func cardIDs(cards []PropertyCardResponse) []string {
	ids := make([]string, 0, len(cards))
	for _, c := range cards {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestSearchEndpoint(t *testing.T) {
	api := newTestAPI(t)

	cases := []struct {
		query string
		want  []string
	}{
		{"", []string{"prop1", "prop2", "prop3"}},
		{"?type=House", []string{"prop1", "prop3"}},
		{"?type=house", []string{"prop1", "prop3"}},
		{"?minPrice=400000&maxPrice=800000", []string{"prop1"}},
		{"?minBedrooms=3", []string{"prop1", "prop3"}},
		{"?dateAfter=2024-10-01", []string{"prop1", "prop3"}},
		{"?dateAfter=01/10/2024&dateBefore=31/10/2024", []string{"prop1"}},
		{"?postcode=br6", []string{"prop2"}},
		{"?postcode=BR", []string{"prop1", "prop2", "prop3"}},
		{"?type=Flat&minPrice=300000&maxPrice=500000&minBedrooms=2&maxBedrooms=2&postcode=BR6", []string{"prop2"}},
		{"?type=Flat&postcode=BR5", []string{}},
		{"?minPrice=abc", []string{"prop1", "prop2", "prop3"}},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			resp, body := api.do(t, http.MethodGet, "/api/v1/properties"+tc.query, "", "")
			require.Equal(t, http.StatusOK, resp.StatusCode)
			got := decode[SearchResponse](t, body)
			assert.Equal(t, len(tc.want), got.Total)
			assert.Equal(t, tc.want, cardIDs(got.Properties))
		})
	}
}

func TestPropertyDetailsEndpoint(t *testing.T) {
	api := newTestAPI(t)

	resp, body := api.do(t, http.MethodGet, "/api/v1/properties/prop1", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	d := decode[PropertyDetailsResponse](t, body)
	assert.Equal(t, "£750,000", d.PriceText)
	assert.Equal(t, "October 12, 2024", d.AddedText)
	assert.Equal(t, "BR5", d.PostcodeArea)
	assert.Len(t, d.Geohash, 7)
	assert.Contains(t, d.MapURL, "51.3893,0.0741")
	assert.NotEmpty(t, resp.Header.Get(TraceHeader))

	resp, body = api.do(t, http.MethodGet, "/api/v1/properties/missing", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Property not found", decode[ErrorResponse](t, body).Error)
}

func TestFavouritesEndpoints(t *testing.T) {
	api := newTestAPI(t)
	sid := api.newSession(t)

	resp, body := api.do(t, http.MethodPost, "/api/v1/favourites", sid, `{"property_id":"prop2"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, decode[FavouritesResponse](t, body).Count)

	// adding twice is a no-op
	_, body = api.do(t, http.MethodPost, "/api/v1/favourites", sid, `{"property_id":"prop2"}`)
	assert.Equal(t, 1, decode[FavouritesResponse](t, body).Count)

	_, body = api.do(t, http.MethodPost, "/api/v1/favourites", sid, `{"property_id":"prop1"}`)
	favs := decode[FavouritesResponse](t, body)
	assert.Equal(t, []string{"prop2", "prop1"}, cardIDs(favs.Items))

	// search marks favourites for this session only
	_, body = api.do(t, http.MethodGet, "/api/v1/properties", sid, "")
	for _, c := range decode[SearchResponse](t, body).Properties {
		assert.Equal(t, c.ID != "prop3", c.IsFavourite, c.ID)
	}
	_, body = api.do(t, http.MethodGet, "/api/v1/properties", api.newSession(t), "")
	for _, c := range decode[SearchResponse](t, body).Properties {
		assert.False(t, c.IsFavourite)
	}

	_, body = api.do(t, http.MethodDelete, "/api/v1/favourites/prop2", sid, "")
	assert.Equal(t, []string{"prop1"}, cardIDs(decode[FavouritesResponse](t, body).Items))

	resp, body = api.do(t, http.MethodDelete, "/api/v1/favourites", sid, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Zero(t, decode[FavouritesResponse](t, body).Count)

	resp, _ = api.do(t, http.MethodPost, "/api/v1/favourites", sid, `{"property_id":"nope"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = api.do(t, http.MethodPost, "/api/v1/favourites", sid, `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSessionMiddleware(t *testing.T) {
	api := newTestAPI(t)

	resp, _ := api.do(t, http.MethodGet, "/api/v1/favourites", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = api.do(t, http.MethodGet, "/api/v1/favourites", "not-a-uuid", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = api.do(t, http.MethodGet, "/api/v1/favourites", "6f1c1f3e-4b7a-4c0e-9c39-2a8d1d1b9e11", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// search stays public with a bad header
	resp, _ = api.do(t, http.MethodGet, "/api/v1/properties", "not-a-uuid", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDragEndpoints(t *testing.T) {
	api := newTestAPI(t)
	sid := api.newSession(t)

	resp, _ := api.do(t, http.MethodPost, "/api/v1/drag/enter", sid, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body := api.do(t, http.MethodPost, "/api/v1/drag", sid, `{"property_id":"prop3"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	st := decode[DragStateResponse](t, body)
	assert.True(t, st.Active)
	assert.Equal(t, "prop3", st.PropertyID)

	_, body = api.do(t, http.MethodPost, "/api/v1/drag/enter", sid, "")
	assert.True(t, decode[DragStateResponse](t, body).OverFavourites)

	_, body = api.do(t, http.MethodGet, "/api/v1/drag", sid, "")
	assert.True(t, decode[DragStateResponse](t, body).OverFavourites)

	resp, body = api.do(t, http.MethodPost, "/api/v1/drag/drop", sid, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	drop := decode[DropResponse](t, body)
	assert.True(t, drop.Accepted)
	assert.Equal(t, []string{"prop3"}, cardIDs(drop.Favourites.Items))

	// dropped off target
	api.do(t, http.MethodPost, "/api/v1/drag", sid, `{"property_id":"prop1"}`)
	api.do(t, http.MethodPost, "/api/v1/drag/enter", sid, "")
	api.do(t, http.MethodPost, "/api/v1/drag/leave", sid, "")
	_, body = api.do(t, http.MethodPost, "/api/v1/drag/drop", sid, "")
	drop = decode[DropResponse](t, body)
	assert.False(t, drop.Accepted)
	assert.Equal(t, 1, drop.Favourites.Count)

	// cancelled
	api.do(t, http.MethodPost, "/api/v1/drag", sid, `{"property_id":"prop1"}`)
	resp, body = api.do(t, http.MethodDelete, "/api/v1/drag", sid, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, decode[DragStateResponse](t, body).Active)

	resp, _ = api.do(t, http.MethodPost, "/api/v1/drag", sid, `{"property_id":"missing"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDropPayloadEndpoint(t *testing.T) {
	api := newTestAPI(t)
	sid := api.newSession(t)

	_, body := api.do(t, http.MethodPost, "/api/v1/favourites/drop", sid, `{"tag":"IMAGE","property_id":"prop1"}`)
	drop := decode[DropResponse](t, body)
	assert.False(t, drop.Accepted)
	assert.Zero(t, drop.Favourites.Count)

	_, body = api.do(t, http.MethodPost, "/api/v1/favourites/drop", sid, `{"property_id":"prop1"}`)
	drop = decode[DropResponse](t, body)
	assert.True(t, drop.Accepted)
	assert.Equal(t, 1, drop.Favourites.Count)
}

func TestFavouritesEventStream(t *testing.T) {
	api := newTestAPI(t)
	sid := api.newSession(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, api.server.URL+"/api/v1/favourites/events", nil)
	require.NoError(t, err)
	req.Header.Set(SessionHeader, sid)

	resp, err := api.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := make(chan string, 16)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			if strings.HasPrefix(scanner.Text(), "data: ") {
				lines <- strings.TrimPrefix(scanner.Text(), "data: ")
			}
		}
		close(lines)
	}()

	next := func() string {
		select {
		case l := <-lines:
			return l
		case <-time.After(2 * time.Second):
			t.Fatal("no event received")
			return ""
		}
	}

	assert.JSONEq(t, `{"version":0,"count":0,"favourite_ids":[]}`, next())

	api.do(t, http.MethodPost, "/api/v1/favourites", sid, `{"property_id":"prop1"}`)
	assert.JSONEq(t, `{"version":1,"count":1,"favourite_ids":["prop1"]}`, next())
}

func TestHealthAndCORS(t *testing.T) {
	api := newTestAPI(t)

	resp, body := api.do(t, http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	h := decode[HealthResponse](t, body)
	assert.Equal(t, "ok", h.Status)
	assert.Equal(t, 3, h.Properties)

	req, _ := http.NewRequest(http.MethodOptions, api.server.URL+"/api/v1/favourites", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", SessionHeader)
	pre, err := api.server.Client().Do(req)
	require.NoError(t, err)
	pre.Body.Close()
	assert.Equal(t, "http://localhost:5173", pre.Header.Get("Access-Control-Allow-Origin"))
}
