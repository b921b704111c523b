package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/arenatv/backend/internal/domain"
)

// Client fetches scoreboard events from the external feed.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a feed client. baseURL points at the sports API root,
// e.g. "https://site.api.espn.com/apis/site/v2/sports".
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// scoreboardResponse is the feed envelope; only events are consumed.
type scoreboardResponse struct {
	Events []domain.FeedEvent `json:"events"`
}

// FetchEvents retrieves the scoreboard for one sport/league pair.
func (c *Client) FetchEvents(ctx context.Context, sport, league string) ([]domain.FeedEvent, error) {
	url := fmt.Sprintf("%s/%s/%s/scoreboard", c.baseURL, sport, league)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed fetch: HTTP %d", resp.StatusCode)
	}

	var sb scoreboardResponse
	if err := json.NewDecoder(resp.Body).Decode(&sb); err != nil {
		return nil, fmt.Errorf("feed decode: %w", err)
	}
	return sb.Events, nil
}
