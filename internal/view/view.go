// Package view reshapes an analysis result into the view model the
// dashboard page feeds to its charts. All reshaping decisions live here:
// period label formatting, the fixed 0–100 stacked scale, volume scaling
// against a secondary axis, and the explicit empty states.
package view

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"

	"mastolens/internal/analysis"
)

const (
	// NoSummaryPlaceholder is shown when the analyzer produced no summary.
	NoSummaryPlaceholder = "No summary available"
	// NotEnoughDataMessage replaces the timeline when fewer than two time
	// buckets are present; a one-point trend chart is meaningless.
	NotEnoughDataMessage = "Not enough time data to display sentiment trends"
	// NoKeywordsMessage replaces the keyword badges when none were found.
	NoKeywordsMessage = "No related keywords found"

	// MinTimelineBuckets is the minimum bucket count for a timeline chart.
	MinTimelineBuckets = 2

	// volumeScale keeps the volume line visually inside the stacked bars'
	// height: count / maxCount × 100 × 0.8.
	volumeScale = 0.8
)

// Fixed segment colors, in positive/neutral/negative order.
var (
	SentimentLabels = []string{"Positive", "Neutral", "Negative"}
	SentimentColors = []string{"#4caf50", "#9e9e9e", "#f44336"}
)

var sanitizer = bluemonday.UGCPolicy()

// Dashboard is the complete render-ready model for one analysis.
type Dashboard struct {
	Summary   Summary  `json:"summary"`
	Sentiment Doughnut `json:"sentiment"`

	// Timeline is nil when there is not enough time data; the page shows
	// TimelineMessage instead.
	Timeline        *Timeline `json:"timeline"`
	TimelineMessage string    `json:"timelineMessage,omitempty"`

	Keywords        []string `json:"keywords"`
	KeywordsMessage string   `json:"keywordsMessage,omitempty"`
}

// Summary carries sanitized HTML, or a placeholder when the summary is
// empty.
type Summary struct {
	HTML        string `json:"html"`
	Placeholder string `json:"placeholder,omitempty"`
}

// Doughnut is the three-segment sentiment proportion chart.
type Doughnut struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
	Colors []string `json:"colors"`
}

// Timeline holds the stacked sentiment series plus the volume line. The
// three sentiment series share a fixed 0–100 axis; Volume is pre-scaled to
// fit under it while Counts keeps the raw values for tooltips.
type Timeline struct {
	Labels   []string  `json:"labels"`
	Positive []int     `json:"positive"`
	Neutral  []int     `json:"neutral"`
	Negative []int     `json:"negative"`
	Volume   []float64 `json:"volume"`
	Counts   []int     `json:"counts"`
}

// Build turns an analysis result into a Dashboard. Bucket and keyword
// order is preserved exactly as received.
func Build(res analysis.Result) Dashboard {
	d := Dashboard{
		Summary: buildSummary(res.Summary),
		Sentiment: Doughnut{
			Labels: SentimentLabels,
			Values: []int{res.Sentiment.Positive, res.Sentiment.Neutral, res.Sentiment.Negative},
			Colors: SentimentColors,
		},
		Keywords: res.RelatedKeywords,
	}
	if d.Keywords == nil {
		d.Keywords = []string{}
	}
	if len(d.Keywords) == 0 {
		d.KeywordsMessage = NoKeywordsMessage
	}

	if len(res.SentimentOverTime) < MinTimelineBuckets {
		d.TimelineMessage = NotEnoughDataMessage
		return d
	}
	d.Timeline = buildTimeline(res.SentimentOverTime)
	return d
}

func buildSummary(text string) Summary {
	if strings.TrimSpace(text) == "" {
		return Summary{Placeholder: NoSummaryPlaceholder}
	}
	// Render as markdown with hard line breaks so every newline in the
	// summary becomes a visual break, then sanitize before the page
	// injects it as markup.
	rendered := blackfriday.Run([]byte(text),
		blackfriday.WithExtensions(blackfriday.CommonExtensions|blackfriday.HardLineBreak))
	return Summary{HTML: strings.TrimSpace(sanitizer.Sanitize(string(rendered)))}
}

func buildTimeline(buckets []analysis.TimeBucket) *Timeline {
	n := len(buckets)
	tl := &Timeline{
		Labels:   make([]string, n),
		Positive: make([]int, n),
		Neutral:  make([]int, n),
		Negative: make([]int, n),
		Volume:   make([]float64, n),
		Counts:   make([]int, n),
	}

	maxCount := 0
	for _, b := range buckets {
		if b.Count > maxCount {
			maxCount = b.Count
		}
	}

	for i, b := range buckets {
		tl.Labels[i] = FormatPeriod(b.Period)
		tl.Positive[i] = b.Sentiment.Positive
		tl.Neutral[i] = b.Sentiment.Neutral
		tl.Negative[i] = b.Sentiment.Negative
		tl.Counts[i] = b.Count
		if maxCount > 0 {
			tl.Volume[i] = float64(b.Count) / float64(maxCount) * 100 * volumeScale
		}
	}
	return tl
}

var weekPattern = regexp.MustCompile(`^(\d{4})-W(\d{2})$`)

// FormatPeriod renders a time bucket period label for the chart axis.
// Three shapes are recognized:
//
//	YYYY-MM-DD HH:MM → MM/DD HH:MM
//	YYYY-Www         → Week ww, YYYY
//	YYYY-MM-DD       → MM/DD
//
// Anything else returns an empty label.
func FormatPeriod(period string) string {
	if t, err := time.Parse("2006-01-02 15:04", period); err == nil {
		return t.Format("01/02 15:04")
	}
	if m := weekPattern.FindStringSubmatch(period); m != nil {
		return fmt.Sprintf("Week %s, %s", m[2], m[1])
	}
	if t, err := time.Parse("2006-01-02", period); err == nil {
		return t.Format("01/02")
	}
	return ""
}
