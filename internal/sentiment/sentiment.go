// Package sentiment scores posts with VADER and aggregates the results
// into the breakdown and time series shapes the analysis API returns.
package sentiment

import (
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/jonreiter/govader"

	"mastolens/internal/analysis"
)

// Sentiment labels.
const (
	Positive = "positive"
	Neutral  = "neutral"
	Negative = "negative"
)

// Compound score thresholds for labeling.
const (
	positiveThreshold = 0.20
	negativeThreshold = -0.20
)

var analyzer = govader.NewSentimentIntensityAnalyzer()

var urlPattern = regexp.MustCompile(`https?://\S+|www\.\S+`)

// Post is one plain-text post to score.
type Post struct {
	Text      string
	CreatedAt time.Time
}

// ScoredPost is a post with its sentiment label attached.
type ScoredPost struct {
	Post
	Score float64
	Label string
}

// Score returns the VADER compound score and label for one post. URLs are
// stripped first; they skew the lexicon toward neutral noise.
func Score(text string) (float64, string) {
	cleaned := strings.Join(strings.Fields(urlPattern.ReplaceAllString(text, "")), " ")

	score := analyzer.PolarityScores(cleaned).Compound

	label := Neutral
	if score >= positiveThreshold {
		label = Positive
	} else if score <= negativeThreshold {
		label = Negative
	}
	return score, label
}

// ScoreAll scores every post, preserving order.
func ScoreAll(posts []Post) []ScoredPost {
	scored := make([]ScoredPost, len(posts))
	for i, p := range posts {
		score, label := Score(p.Text)
		scored[i] = ScoredPost{Post: p, Score: score, Label: label}
	}
	return scored
}

// Overall computes the integer percentage breakdown across all scored
// posts. The three values always sum to 100, or are all zero when there
// are no posts.
func Overall(scored []ScoredPost) analysis.SentimentBreakdown {
	var pos, neu, neg int
	for _, s := range scored {
		switch s.Label {
		case Positive:
			pos++
		case Negative:
			neg++
		default:
			neu++
		}
	}
	return Percentages(pos, neu, neg)
}

// Percentages converts raw counts to integer percentages, assigning the
// rounding remainder to the largest category so the total is exactly 100.
func Percentages(pos, neu, neg int) analysis.SentimentBreakdown {
	total := pos + neu + neg
	if total == 0 {
		return analysis.SentimentBreakdown{}
	}

	b := analysis.SentimentBreakdown{
		Positive: roundPct(pos, total),
		Neutral:  roundPct(neu, total),
		Negative: roundPct(neg, total),
	}

	diff := 100 - (b.Positive + b.Neutral + b.Negative)
	if diff != 0 {
		switch {
		case b.Positive >= b.Neutral && b.Positive >= b.Negative:
			b.Positive += diff
		case b.Neutral >= b.Positive && b.Neutral >= b.Negative:
			b.Neutral += diff
		default:
			b.Negative += diff
		}
	}
	return b
}

func roundPct(count, total int) int {
	return int(math.Round(float64(count) / float64(total) * 100))
}
