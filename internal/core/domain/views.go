package domain

import "time"

// PropertyDetails is what the detail page shows for one listing.
type PropertyDetails struct {
	Record         PropertyRecord
	PriceText      string
	AddedText      string
	DaysSinceAdded int
	Geohash        string
	MapURL         string
}

// NewPropertyDetails derives the display fields of rec at time now.
func NewPropertyDetails(rec PropertyRecord, now time.Time, mapsKey string) PropertyDetails {
	return PropertyDetails{
		Record:         rec,
		PriceText:      FormatPrice(rec.Price),
		AddedText:      rec.Added.String(),
		DaysSinceAdded: rec.Added.DaysSince(now),
		Geohash:        rec.Geohash(),
		MapURL:         rec.MapURL(mapsKey),
	}
}

// DragState describes a session's drag gesture for the views.
type DragState struct {
	Active         bool
	Tag            string
	PropertyID     string
	Dragging       bool
	OverFavourites bool
}
