package application

import (
	"context"
	"fmt"
	"time"

	"github.com/arenatv/backend/internal/domain"
	"github.com/arenatv/backend/internal/pkg/links"
	"github.com/arenatv/backend/internal/pkg/logger"
	"github.com/google/uuid"
)

// placeholderTeam fills in when the feed omits a competitor name.
const placeholderTeam = "TBD"

// feedDateLayout is the upstream feed's event date format.
const feedDateLayout = "2006-01-02T15:04Z"

// FeedFetcher supplies events from the external scoreboard feed.
type FeedFetcher interface {
	FetchEvents(ctx context.Context, sport, league string) ([]domain.FeedEvent, error)
}

// AutoLinkService reconciles externally-fetched events against the stored
// ones and bulk-upserts only the new ones, with generated stream links
// attached.
type AutoLinkService struct {
	events domain.EventRepository
	feed   FeedFetcher
	now    func() time.Time
}

// NewAutoLinkService creates the reconciler.
func NewAutoLinkService(events domain.EventRepository, feed FeedFetcher) *AutoLinkService {
	return &AutoLinkService{events: events, feed: feed, now: time.Now}
}

// AutoLink diffs the given feed events against the stored external ids and
// inserts the unknown ones with generated links. Returns how many were
// linked and how many were skipped. A query or upsert failure links nothing
// and skips everything.
func (s *AutoLinkService) AutoLink(ctx context.Context, feedEvents []domain.FeedEvent, league domain.LeagueInfo) (linked, skipped int) {
	known, err := s.events.KnownExternalIDs()
	if err != nil {
		logger.Error().Err(err).Msg("Auto-link: failed to load known event ids")
		return 0, len(feedEvents)
	}

	var rows []*domain.Event
	for i := range feedEvents {
		fe := &feedEvents[i]
		if _, ok := known[fe.ID]; ok {
			skipped++
			continue
		}
		rows = append(rows, s.buildEvent(fe, league))
	}

	if len(rows) == 0 {
		return 0, skipped
	}

	if err := s.events.BulkUpsert(rows); err != nil {
		logger.Error().Err(err).Int("count", len(rows)).Msg("Auto-link: bulk upsert failed")
		return 0, len(feedEvents)
	}

	logger.Info().
		Int("linked", len(rows)).
		Int("skipped", skipped).
		Str("league", league.League).
		Msg("Auto-link completed")
	return len(rows), skipped
}

// SyncLeague fetches one league's scoreboard and reconciles it.
func (s *AutoLinkService) SyncLeague(ctx context.Context, league domain.LeagueInfo) (linked, skipped int, err error) {
	feedEvents, err := s.feed.FetchEvents(ctx, league.Sport, league.League)
	if err != nil {
		return 0, 0, fmt.Errorf("fetch %s/%s: %w", league.Sport, league.League, err)
	}
	linked, skipped = s.AutoLink(ctx, feedEvents, league)
	return linked, skipped, nil
}

// buildEvent maps one feed event onto a storable row with generated links.
func (s *AutoLinkService) buildEvent(fe *domain.FeedEvent, league domain.LeagueInfo) *domain.Event {
	home, homeLogo := competitorInfo(fe, "home")
	away, awayLogo := competitorInfo(fe, "away")

	var thumbnail *string
	if homeLogo != "" {
		thumbnail = &homeLogo
	} else if awayLogo != "" {
		thumbnail = &awayLogo
	}

	name := fe.Name
	if name == "" {
		name = fmt.Sprintf("%s vs %s", home, away)
	}

	generated := links.Generate(home, away)
	externalID := fe.ID
	now := s.now()

	return &domain.Event{
		ID:         uuid.New(),
		ESPNID:     &externalID,
		Name:       name,
		EventDate:  parseFeedDate(fe.Date, now),
		Sport:      league.Sport,
		League:     league.League,
		TeamHome:   home,
		TeamAway:   away,
		Thumbnail:  thumbnail,
		StreamURL:  generated.URL1,
		StreamURL2: generated.URL2,
		StreamURL3: generated.URL3,
		IsLive:     fe.IsLive(),
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// competitorInfo extracts a competitor's name and logo, falling back to the
// placeholder when the name is missing.
func competitorInfo(fe *domain.FeedEvent, role string) (name, logo string) {
	c := fe.Competitor(role)
	if c == nil || c.Team.DisplayName == "" {
		return placeholderTeam, ""
	}
	return c.Team.DisplayName, c.Team.Logo
}

func parseFeedDate(raw string, fallback time.Time) time.Time {
	if t, err := time.Parse(feedDateLayout, raw); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	return fallback
}
