package domain

import "time"

// FavouritesAction names what happened to a favourites collection.
type FavouritesAction string

const (
	FavouritesAdded   FavouritesAction = "added"
	FavouritesRemoved FavouritesAction = "removed"
	FavouritesCleared FavouritesAction = "cleared"
	FavouritesDropped FavouritesAction = "dropped"
)

// FavouritesChangedEvent is emitted after a change to a session's favourites.
type FavouritesChangedEvent struct {
	SessionID    string           `json:"session_id"`
	Action       FavouritesAction `json:"action"`
	PropertyID   string           `json:"property_id,omitempty"`
	FavouriteIDs []string         `json:"favourite_ids"`
	Version      uint64           `json:"version"`
	OccurredAt   time.Time        `json:"occurred_at"`
}
