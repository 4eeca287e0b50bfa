package rest

import (
	"time"

	"github.com/Venuja2003/Estate-Agent/internal/core/domain"
	"github.com/Venuja2003/Estate-Agent/internal/core/favourites"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type AddedDateResponse struct {
	Month string `json:"month"`
	Day   int    `json:"day"`
	Year  int    `json:"year"`
}

// PropertyCardResponse is one search result card.
type PropertyCardResponse struct {
	ID           string            `json:"id"`
	Type         string            `json:"type"`
	Price        int               `json:"price"`
	PriceText    string            `json:"price_text"`
	Bedrooms     int               `json:"bedrooms"`
	Tenure       string            `json:"tenure"`
	Location     string            `json:"location"`
	PostcodeArea string            `json:"postcode_area,omitempty"`
	Description  string            `json:"description"`
	Thumbnail    string            `json:"thumbnail,omitempty"`
	Added        AddedDateResponse `json:"added"`
	AddedText    string            `json:"added_text"`
	IsFavourite  bool              `json:"is_favourite"`
}

type SearchResponse struct {
	Total      int                    `json:"total"`
	Properties []PropertyCardResponse `json:"properties"`
}

type PropertyDetailsResponse struct {
	PropertyCardResponse
	LongDescription string   `json:"long_description"`
	Images          []string `json:"images"`
	FloorPlan       string   `json:"floor_plan,omitempty"`
	Latitude        float64  `json:"latitude"`
	Longitude       float64  `json:"longitude"`
	Geohash         string   `json:"geohash"`
	MapURL          string   `json:"map_url"`
	DaysSinceAdded  int      `json:"days_since_added"`
}

type SessionResponse struct {
	SessionID string `json:"session_id"`
}

type FavouritesResponse struct {
	Version uint64                 `json:"version"`
	Count   int                    `json:"count"`
	Items   []PropertyCardResponse `json:"items"`
}

type AddFavouriteRequest struct {
	PropertyID string `json:"property_id"`
}

type StartDragRequest struct {
	PropertyID string `json:"property_id"`
}

type DropPayloadRequest struct {
	Tag        string `json:"tag"`
	PropertyID string `json:"property_id"`
}

type DragStateResponse struct {
	Active         bool   `json:"active"`
	Tag            string `json:"tag,omitempty"`
	PropertyID     string `json:"property_id,omitempty"`
	Dragging       bool   `json:"dragging"`
	OverFavourites bool   `json:"over_favourites"`
}

type DropResponse struct {
	Accepted   bool               `json:"accepted"`
	Favourites FavouritesResponse `json:"favourites"`
}

type HealthResponse struct {
	Status     string    `json:"status"`
	Properties int       `json:"properties"`
	Sessions   int       `json:"sessions"`
	Time       time.Time `json:"time"`
}

func toCard(rec domain.PropertyRecord, favourite bool) PropertyCardResponse {
	return PropertyCardResponse{
		ID:           rec.ID,
		Type:         string(rec.Type),
		Price:        rec.Price,
		PriceText:    domain.FormatPrice(rec.Price),
		Bedrooms:     rec.Bedrooms,
		Tenure:       rec.Tenure,
		Location:     rec.Location,
		PostcodeArea: domain.ExtractPostcodeArea(rec.Location),
		Description:  rec.Description,
		Thumbnail:    rec.Thumbnail(),
		Added:        AddedDateResponse{Month: rec.Added.Month, Day: rec.Added.Day, Year: rec.Added.Year},
		AddedText:    rec.Added.String(),
		IsFavourite:  favourite,
	}
}

func toDetails(d domain.PropertyDetails, favourite bool) PropertyDetailsResponse {
	images := d.Record.Images
	if images == nil {
		images = []string{}
	}
	return PropertyDetailsResponse{
		PropertyCardResponse: toCard(d.Record, favourite),
		LongDescription:      d.Record.LongDescription,
		Images:               images,
		FloorPlan:            d.Record.FloorPlan,
		Latitude:             d.Record.Latitude,
		Longitude:            d.Record.Longitude,
		Geohash:              d.Geohash,
		MapURL:               d.MapURL,
		DaysSinceAdded:       d.DaysSinceAdded,
	}
}

func toFavourites(snap favourites.Snapshot) FavouritesResponse {
	items := snap.Items()
	cards := make([]PropertyCardResponse, 0, len(items))
	for _, rec := range items {
		cards = append(cards, toCard(rec, true))
	}
	return FavouritesResponse{Version: snap.Version, Count: len(cards), Items: cards}
}

func toDragState(s domain.DragState) DragStateResponse {
	return DragStateResponse(s)
}
