package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event represents a sports event row with its generated stream links.
// ESPNID is the upstream feed's identifier and the idempotency key for upserts.
type Event struct {
	ID         uuid.UUID `json:"id"`
	ESPNID     *string   `json:"espn_id,omitempty"`
	Name       string    `json:"name"`
	EventDate  time.Time `json:"event_date"`
	Sport      string    `json:"sport"`
	League     string    `json:"league"`
	TeamHome   string    `json:"team_home"`
	TeamAway   string    `json:"team_away"`
	Thumbnail  *string   `json:"thumbnail,omitempty"`
	StreamURL  string    `json:"stream_url"`
	StreamURL2 string    `json:"stream_url_2"`
	StreamURL3 string    `json:"stream_url_3"`
	IsLive     bool      `json:"is_live"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// EventRepository defines the interface for event persistence.
type EventRepository interface {
	// BulkUpsert inserts the given events, keyed on espn_id. A row whose
	// espn_id already exists is updated in place, never duplicated.
	BulkUpsert(events []*Event) error
	// KnownExternalIDs returns the set of non-null espn_id values already stored.
	KnownExternalIDs() (map[string]struct{}, error)
	GetAll() ([]*Event, error)
	GetActive() ([]*Event, error)
	// DeactivateStartedBefore marks events whose start time is before cutoff
	// as inactive and not live. Returns the number of rows touched.
	DeactivateStartedBefore(cutoff time.Time) (int64, error)
	// DeleteStartedBefore removes events whose start time is before cutoff.
	DeleteStartedBefore(cutoff time.Time) (int64, error)
}
