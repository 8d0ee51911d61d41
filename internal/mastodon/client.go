// Package mastodon implements a minimal client for the Mastodon tag
// timeline. Calls are context-aware and rate limited; authentication is an
// optional bearer token since public timelines do not require one.
package mastodon

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/time/rate"
)

const (
	// batchSize is the page size for timeline requests; the Mastodon API
	// serves at most 40 statuses per page.
	batchSize = 40

	requestTimeout = 30 * time.Second
)

// Post is one fetched status, reduced to plain text and its timestamp.
type Post struct {
	Text      string
	CreatedAt time.Time
}

// Client fetches hashtag timelines from a Mastodon instance.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	stripper   *bluemonday.Policy
}

// NewClient creates a Client for the given instance base URL. token may be
// empty for public timelines.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: requestTimeout},
		// Mastodon allows 300 requests per 5 minutes; stay well under.
		limiter:  rate.NewLimiter(rate.Limit(1), 3),
		stripper: bluemonday.StrictPolicy(),
	}
}

type status struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Content   string    `json:"content"`
}

// TagTimeline fetches up to maxResults recent posts for the given hashtag
// or keyword (a leading # is stripped), paging backwards through the
// timeline. A failure mid-pagination returns the posts fetched so far.
func (c *Client) TagTimeline(ctx context.Context, keyword string, maxResults int) ([]Post, error) {
	tag := strings.TrimPrefix(strings.TrimSpace(keyword), "#")

	numBatches := (maxResults + batchSize - 1) / batchSize

	var posts []Post
	maxID := ""

	for batch := 0; batch < numBatches; batch++ {
		statuses, err := c.fetchBatch(ctx, tag, maxID)
		if err != nil {
			if len(posts) > 0 {
				slog.Warn("tag timeline fetch failed mid-pagination, keeping partial results",
					slog.String("tag", tag),
					slog.Int("fetched", len(posts)),
					slog.String("error", err.Error()))
				return posts, nil
			}
			return nil, err
		}
		if len(statuses) == 0 {
			break
		}

		for _, s := range statuses {
			posts = append(posts, Post{
				Text:      c.plainText(s.Content),
				CreatedAt: s.CreatedAt,
			})
		}
		maxID = statuses[len(statuses)-1].ID

		if len(posts) >= maxResults {
			posts = posts[:maxResults]
			break
		}
	}

	slog.Info("fetched tag timeline",
		slog.String("tag", tag),
		slog.Int("posts", len(posts)))
	return posts, nil
}

func (c *Client) fetchBatch(ctx context.Context, tag, maxID string) ([]status, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/api/v1/timelines/tag/%s", c.baseURL, url.PathEscape(tag))
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("building timeline URL: %w", err)
	}
	q := u.Query()
	q.Set("limit", strconv.Itoa(batchSize))
	if maxID != "" {
		q.Set("max_id", maxID)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching tag timeline: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mastodon API returned status %d", resp.StatusCode)
	}

	var statuses []status
	if err := json.NewDecoder(resp.Body).Decode(&statuses); err != nil {
		return nil, fmt.Errorf("decoding timeline response: %w", err)
	}
	return statuses, nil
}

var blockBreaks = strings.NewReplacer(
	"</p>", " ",
	"<br>", " ",
	"<br/>", " ",
	"<br />", " ",
)

// plainText strips the HTML a Mastodon status carries down to plain text
// with single spaces between blocks.
func (c *Client) plainText(content string) string {
	withBreaks := blockBreaks.Replace(content)
	stripped := c.stripper.Sanitize(withBreaks)
	return strings.Join(strings.Fields(html.UnescapeString(stripped)), " ")
}
