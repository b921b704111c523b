package application

import (
	"context"
	"testing"
	"time"

	"github.com/arenatv/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEventRepo stores events in memory keyed on external id.
type fakeEventRepo struct {
	byExternalID map[string]*domain.Event
	queryErr     error
	upsertErr    error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{byExternalID: make(map[string]*domain.Event)}
}

func (r *fakeEventRepo) BulkUpsert(events []*domain.Event) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	for _, e := range events {
		if e.ESPNID == nil {
			continue
		}
		r.byExternalID[*e.ESPNID] = e
	}
	return nil
}

func (r *fakeEventRepo) KnownExternalIDs() (map[string]struct{}, error) {
	if r.queryErr != nil {
		return nil, r.queryErr
	}
	known := make(map[string]struct{}, len(r.byExternalID))
	for id := range r.byExternalID {
		known[id] = struct{}{}
	}
	return known, nil
}

func (r *fakeEventRepo) GetAll() ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range r.byExternalID {
		out = append(out, e)
	}
	return out, nil
}

func (r *fakeEventRepo) GetActive() ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range r.byExternalID {
		if e.IsActive {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeEventRepo) DeactivateStartedBefore(cutoff time.Time) (int64, error) {
	var n int64
	for _, e := range r.byExternalID {
		if e.EventDate.Before(cutoff) && e.IsActive {
			e.IsActive = false
			e.IsLive = false
			n++
		}
	}
	return n, nil
}

func (r *fakeEventRepo) DeleteStartedBefore(cutoff time.Time) (int64, error) {
	var n int64
	for id, e := range r.byExternalID {
		if e.EventDate.Before(cutoff) {
			delete(r.byExternalID, id)
			n++
		}
	}
	return n, nil
}

func feedEvent(id, home, away, state string) domain.FeedEvent {
	return domain.FeedEvent{
		ID:   id,
		Name: home + " at " + away,
		Date: "2024-06-01T19:00Z",
		Competitions: []domain.FeedCompetition{{
			Status: domain.FeedStatus{Type: domain.FeedStatusType{State: state}},
			Competitors: []domain.FeedCompetitor{
				{HomeAway: "home", Team: domain.FeedTeam{DisplayName: home, Logo: "https://cdn.test/" + home + ".png"}},
				{HomeAway: "away", Team: domain.FeedTeam{DisplayName: away, Logo: "https://cdn.test/" + away + ".png"}},
			},
		}},
	}
}

var laLiga = domain.LeagueInfo{Sport: "soccer", League: "esp.1"}

func TestAutoLinkInsertsNewEvents(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewAutoLinkService(repo, nil)

	events := []domain.FeedEvent{
		feedEvent("1001", "Real Madrid", "Barcelona", "in"),
		feedEvent("1002", "Sevilla", "Valencia", "pre"),
	}

	linked, skipped := svc.AutoLink(context.Background(), events, laLiga)
	assert.Equal(t, 2, linked)
	assert.Equal(t, 0, skipped)

	row := repo.byExternalID["1001"]
	require.NotNil(t, row)
	assert.Equal(t, "Real Madrid", row.TeamHome)
	assert.Equal(t, "Barcelona", row.TeamAway)
	assert.Contains(t, row.StreamURL, "ppv-real-madrid-vs-barcelona")
	assert.Contains(t, row.StreamURL2, "ppv-real-madrid-vs-barcelona")
	assert.Contains(t, row.StreamURL3, "ppv-real-madrid-vs-barcelona")
	assert.True(t, row.IsLive)
	assert.True(t, row.IsActive)
	assert.Equal(t, "soccer", row.Sport)
	require.NotNil(t, row.Thumbnail)

	assert.False(t, repo.byExternalID["1002"].IsLive)
}

func TestAutoLinkIdempotent(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewAutoLinkService(repo, nil)

	events := []domain.FeedEvent{
		feedEvent("1001", "Real Madrid", "Barcelona", "pre"),
		feedEvent("1002", "Sevilla", "Valencia", "pre"),
	}

	linked, skipped := svc.AutoLink(context.Background(), events, laLiga)
	assert.Equal(t, 2, linked)
	assert.Equal(t, 0, skipped)

	linked, skipped = svc.AutoLink(context.Background(), events, laLiga)
	assert.Equal(t, 0, linked)
	assert.Equal(t, 2, skipped)

	assert.Len(t, repo.byExternalID, 2, "exactly one row per external id")
}

func TestAutoLinkMissingCompetitorsFallBack(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewAutoLinkService(repo, nil)

	event := domain.FeedEvent{ID: "2001", Date: "2024-06-01T19:00Z"}
	linked, skipped := svc.AutoLink(context.Background(), []domain.FeedEvent{event}, laLiga)
	assert.Equal(t, 1, linked)
	assert.Equal(t, 0, skipped)

	row := repo.byExternalID["2001"]
	require.NotNil(t, row)
	assert.Equal(t, "TBD", row.TeamHome)
	assert.Equal(t, "TBD", row.TeamAway)
	assert.Nil(t, row.Thumbnail)
	assert.Equal(t, "TBD vs TBD", row.Name)
}

func TestAutoLinkQueryFailureSkipsAll(t *testing.T) {
	repo := newFakeEventRepo()
	repo.queryErr = assert.AnError
	svc := NewAutoLinkService(repo, nil)

	events := []domain.FeedEvent{feedEvent("1001", "A", "B", "pre")}
	linked, skipped := svc.AutoLink(context.Background(), events, laLiga)
	assert.Equal(t, 0, linked)
	assert.Equal(t, 1, skipped)
}

func TestAutoLinkUpsertFailureSkipsAll(t *testing.T) {
	repo := newFakeEventRepo()
	repo.upsertErr = assert.AnError
	svc := NewAutoLinkService(repo, nil)

	events := []domain.FeedEvent{
		feedEvent("1001", "A", "B", "pre"),
		feedEvent("1002", "C", "D", "pre"),
	}
	linked, skipped := svc.AutoLink(context.Background(), events, laLiga)
	assert.Equal(t, 0, linked)
	assert.Equal(t, 2, skipped)
	assert.Empty(t, repo.byExternalID)
}

func TestHousekeepingPurgesAndDeactivates(t *testing.T) {
	repo := newFakeEventRepo()
	now := time.Now()

	seed := func(id string, start time.Time) {
		extID := id
		repo.byExternalID[id] = &domain.Event{ESPNID: &extID, EventDate: start, IsActive: true, IsLive: true}
	}
	seed("fresh", now.Add(-time.Hour))
	seed("ended", now.Add(-210*time.Minute)) // past deactivation, not purge
	seed("ancient", now.Add(-5*time.Hour))

	svc := NewHousekeepingService(repo, 3, 4, time.Hour)
	svc.RunOnce()

	assert.NotContains(t, repo.byExternalID, "ancient")
	require.Contains(t, repo.byExternalID, "ended")
	assert.False(t, repo.byExternalID["ended"].IsActive)
	assert.False(t, repo.byExternalID["ended"].IsLive)
	assert.True(t, repo.byExternalID["fresh"].IsActive)
}
