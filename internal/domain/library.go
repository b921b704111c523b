package domain

import "time"

// MediaType classifies a library item.
type MediaType string

const (
	MediaTypeChannel MediaType = "channel"
	MediaTypeMovie   MediaType = "movie"
	MediaTypeSeries  MediaType = "series"
	MediaTypeDorama  MediaType = "dorama"
	MediaTypeEvent   MediaType = "event"
)

// FavoriteItem is a user-favorited piece of content. Favorites form a set
// keyed by ID.
type FavoriteItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Type      MediaType `json:"type"`
	Thumbnail string    `json:"thumbnail,omitempty"`
	AddedAt   time.Time `json:"added_at"`
}

// WatchHistoryItem records a playback. At most one entry exists per ID;
// re-watching moves the entry to the front with a fresh timestamp.
type WatchHistoryItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Timestamp time.Time `json:"timestamp"`
	Duration  float64   `json:"duration,omitempty"`
	Thumbnail string    `json:"thumbnail,omitempty"`
}
