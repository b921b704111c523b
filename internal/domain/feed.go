package domain

// Feed types mirror the upstream scoreboard JSON. Only the fields the
// reconciler reads are declared.

// FeedEvent is one event as delivered by the external feed.
type FeedEvent struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Date         string            `json:"date"`
	Competitions []FeedCompetition `json:"competitions"`
}

// FeedCompetition holds the status and competitors of an event.
type FeedCompetition struct {
	Status      FeedStatus       `json:"status"`
	Competitors []FeedCompetitor `json:"competitors"`
}

// FeedStatus wraps the nested live-state flag.
type FeedStatus struct {
	Type FeedStatusType `json:"type"`
}

// FeedStatusType carries the state string ("pre", "in", "post").
type FeedStatusType struct {
	State string `json:"state"`
}

// FeedCompetitor is one side of a competition, marked "home" or "away".
type FeedCompetitor struct {
	HomeAway string   `json:"homeAway"`
	Team     FeedTeam `json:"team"`
}

// FeedTeam holds the display name and logo of a competitor.
type FeedTeam struct {
	DisplayName string `json:"displayName"`
	Logo        string `json:"logo"`
}

// LeagueInfo identifies the feed a batch of events came from.
type LeagueInfo struct {
	Sport  string `json:"sport"`
	League string `json:"league"`
}

// IsLive reports whether the event's first competition is in progress.
func (e *FeedEvent) IsLive() bool {
	if len(e.Competitions) == 0 {
		return false
	}
	return e.Competitions[0].Status.Type.State == "in"
}

// Competitor returns the competitor with the given homeAway role, or nil.
func (e *FeedEvent) Competitor(role string) *FeedCompetitor {
	if len(e.Competitions) == 0 {
		return nil
	}
	for i := range e.Competitions[0].Competitors {
		c := &e.Competitions[0].Competitors[i]
		if c.HomeAway == role {
			return c
		}
	}
	return nil
}
