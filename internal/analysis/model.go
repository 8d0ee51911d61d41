// Package analysis defines the analysis request/response records shared by
// the dashboard proxy and the analyzer service, and the HTTP client the
// proxy uses to reach the analysis service.
package analysis

import (
	"errors"
	"strings"
)

const (
	// DefaultMaxResults is substituted when maxResults is absent or <= 0.
	DefaultMaxResults = 100
	// MaxResultsCap bounds maxResults to keep a single request reasonable.
	MaxResultsCap = 500
)

// ErrBlankText is returned when the request text is empty after trimming.
var ErrBlankText = errors.New("text parameter is required and cannot be blank")

// Request is one analysis request. Text is the hashtag or keyword to
// analyze; MaxResults bounds how many posts the analyzer considers.
type Request struct {
	Text       string `json:"text"`
	MaxResults int    `json:"maxResults"`
}

// Normalize validates the request and applies defaults in place: Text is
// trimmed and must be non-blank, MaxResults falls back to
// DefaultMaxResults when absent or non-positive and is capped at
// MaxResultsCap.
func (r *Request) Normalize() error {
	r.Text = strings.TrimSpace(r.Text)
	if r.Text == "" {
		return ErrBlankText
	}
	if r.MaxResults <= 0 {
		r.MaxResults = DefaultMaxResults
	}
	if r.MaxResults > MaxResultsCap {
		r.MaxResults = MaxResultsCap
	}
	return nil
}

// SentimentBreakdown is a three-way percentage split of aggregate tone.
type SentimentBreakdown struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// TimeBucket is one period's post count and sentiment breakdown within a
// time series. Period is a date, ISO week, or date-time label.
type TimeBucket struct {
	Period    string             `json:"period"`
	Count     int                `json:"count"`
	Sentiment SentimentBreakdown `json:"sentiment"`
}

// Result is the full analysis payload produced by the analyzer service.
type Result struct {
	Summary           string             `json:"summary"`
	Sentiment         SentimentBreakdown `json:"sentiment"`
	SentimentOverTime []TimeBucket       `json:"sentimentOverTime"`
	RelatedKeywords   []string           `json:"relatedKeywords"`
}

// normalize replaces nil slices with empty ones so downstream consumers can
// treat "no data" as an empty container.
func (r *Result) normalize() {
	if r.SentimentOverTime == nil {
		r.SentimentOverTime = []TimeBucket{}
	}
	if r.RelatedKeywords == nil {
		r.RelatedKeywords = []string{}
	}
}
