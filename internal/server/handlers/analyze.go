package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"mastolens/internal/analysis"
	"mastolens/internal/mastodon"
	"mastolens/internal/sentiment"
)

// PostFetcher retrieves posts for a hashtag or keyword.
type PostFetcher interface {
	TagTimeline(ctx context.Context, keyword string, maxResults int) ([]mastodon.Post, error)
}

// SummaryGenerator produces the summary text and related keywords.
type SummaryGenerator interface {
	Generate(ctx context.Context, posts []string, keyword string) (string, []string)
}

// AnalyzeHandler implements the analyzer service's POST /analyze: fetch
// posts, score sentiment, bucket it over time, and summarize.
type AnalyzeHandler struct {
	posts     PostFetcher
	summaries SummaryGenerator
	interval  sentiment.Interval
}

// NewAnalyzeHandler creates a new analyze handler bucketing by day.
func NewAnalyzeHandler(posts PostFetcher, summaries SummaryGenerator) *AnalyzeHandler {
	return &AnalyzeHandler{
		posts:     posts,
		summaries: summaries,
		interval:  sentiment.ByDay,
	}
}

// Analyze handles one analysis request end to end.
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analysis.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := req.Normalize(); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	runID := uuid.NewString()
	slog.Info("analyzing",
		slog.String("run_id", runID),
		slog.String("keyword", req.Text),
		slog.Int("max_results", req.MaxResults))

	posts, err := h.posts.TagTimeline(r.Context(), req.Text, req.MaxResults)
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "Mastodon fetch error", err.Error())
		return
	}
	if len(posts) == 0 {
		// The original API reports "no posts" as a 200 with an error body;
		// callers treat it as a successfully-parsed error.
		respondWithJSON(w, http.StatusOK, errorResponse{
			Error: fmt.Sprintf("No Mastodon posts found for '%s'.", req.Text),
		})
		return
	}

	scoreInput := make([]sentiment.Post, len(posts))
	texts := make([]string, len(posts))
	for i, p := range posts {
		scoreInput[i] = sentiment.Post{Text: p.Text, CreatedAt: p.CreatedAt}
		texts[i] = p.Text
	}

	scored := sentiment.ScoreAll(scoreInput)
	overall := sentiment.Overall(scored)
	overTime := sentiment.OverTime(scored, h.interval)

	summaryText, keywords := h.summaries.Generate(r.Context(), texts, req.Text)
	if keywords == nil {
		keywords = []string{}
	}

	slog.Info("analysis complete",
		slog.String("run_id", runID),
		slog.Int("posts", len(posts)),
		slog.Int("buckets", len(overTime)),
		slog.Int("keywords", len(keywords)))

	respondWithJSON(w, http.StatusOK, analysis.Result{
		Summary:           summaryText,
		Sentiment:         overall,
		SentimentOverTime: overTime,
		RelatedKeywords:   keywords,
	})
}
