package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/arenatv/backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EventRepository implements domain.EventRepository with PostgreSQL
type EventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository creates a new PostgreSQL event repository
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `id, espn_id, name, event_date, sport, league, team_home, team_away,
	thumbnail, stream_url, stream_url_2, stream_url_3, is_live, is_active, created_at, updated_at`

// eventUpsertSQL conflicts on bare (espn_id), so the schema must back it
// with a full unique constraint; arbiter inference cannot match a partial
// index from a plain column list.
const eventUpsertSQL = `
	INSERT INTO events (id, espn_id, name, event_date, sport, league, team_home, team_away,
		thumbnail, stream_url, stream_url_2, stream_url_3, is_live, is_active, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	ON CONFLICT (espn_id) DO UPDATE SET
		name = EXCLUDED.name,
		event_date = EXCLUDED.event_date,
		thumbnail = COALESCE(EXCLUDED.thumbnail, events.thumbnail),
		is_live = EXCLUDED.is_live,
		is_active = EXCLUDED.is_active,
		updated_at = EXCLUDED.updated_at
`

// BulkUpsert inserts events keyed on espn_id. Rows whose espn_id already
// exists are refreshed in place, so a concurrent duplicate fetch never
// produces two rows for the same external event.
func (r *EventRepository) BulkUpsert(events []*domain.Event) error {
	if len(events) == 0 {
		return nil
	}
	ctx := context.Background()

	batch := &pgx.Batch{}
	for _, e := range events {
		batch.Queue(eventUpsertSQL,
			e.ID, e.ESPNID, e.Name, e.EventDate, e.Sport, e.League, e.TeamHome, e.TeamAway,
			e.Thumbnail, e.StreamURL, e.StreamURL2, e.StreamURL3, e.IsLive, e.IsActive,
			e.CreatedAt, e.UpdatedAt,
		)
	}

	br := r.db.SendBatch(ctx, batch)
	defer br.Close()
	for range events {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("event upsert: %w", err)
		}
	}
	return nil
}

// KnownExternalIDs returns the set of non-null espn_id values already stored
func (r *EventRepository) KnownExternalIDs() (map[string]struct{}, error) {
	ctx := context.Background()

	rows, err := r.db.Query(ctx, `SELECT espn_id FROM events WHERE espn_id IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("event ids query: %w", err)
	}
	defer rows.Close()

	known := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		known[id] = struct{}{}
	}
	return known, rows.Err()
}

// GetAll retrieves all events, soonest first
func (r *EventRepository) GetAll() ([]*domain.Event, error) {
	return r.query(`SELECT ` + eventColumns + ` FROM events ORDER BY event_date ASC`)
}

// GetActive retrieves the events still marked active, soonest first
func (r *EventRepository) GetActive() ([]*domain.Event, error) {
	return r.query(`SELECT ` + eventColumns + ` FROM events WHERE is_active = true ORDER BY event_date ASC`)
}

func (r *EventRepository) query(sql string, args ...interface{}) ([]*domain.Event, error) {
	ctx := context.Background()

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("event query: %w", err)
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		var e domain.Event
		err := rows.Scan(
			&e.ID, &e.ESPNID, &e.Name, &e.EventDate, &e.Sport, &e.League, &e.TeamHome, &e.TeamAway,
			&e.Thumbnail, &e.StreamURL, &e.StreamURL2, &e.StreamURL3, &e.IsLive, &e.IsActive,
			&e.CreatedAt, &e.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		events = append(events, &e)
	}
	return events, rows.Err()
}

// DeactivateStartedBefore marks events started before cutoff inactive
func (r *EventRepository) DeactivateStartedBefore(cutoff time.Time) (int64, error) {
	ctx := context.Background()

	tag, err := r.db.Exec(ctx,
		`UPDATE events SET is_active = false, is_live = false, updated_at = $1
		 WHERE event_date < $2 AND is_active = true`,
		time.Now(), cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("event deactivate: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteStartedBefore removes events started before cutoff
func (r *EventRepository) DeleteStartedBefore(cutoff time.Time) (int64, error) {
	ctx := context.Background()

	tag, err := r.db.Exec(ctx, `DELETE FROM events WHERE event_date < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("event purge: %w", err)
	}
	return tag.RowsAffected(), nil
}
