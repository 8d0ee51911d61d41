package mastodon

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// fakeInstance serves a tag timeline of n statuses, paged by max_id.
func fakeInstance(t *testing.T, n int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/timelines/tag/golang" {
			t.Errorf("unexpected path %q", r.URL.Path)
			http.NotFound(w, r)
			return
		}

		start := 0
		if maxID := r.URL.Query().Get("max_id"); maxID != "" {
			fmt.Sscanf(maxID, "%d", &start)
		}

		var page []map[string]any
		for i := start; i < n && len(page) < 40; i++ {
			page = append(page, map[string]any{
				"id":         fmt.Sprintf("%d", i+1),
				"created_at": time.Date(2024, 3, 7, 12, 0, i, 0, time.UTC).Format(time.RFC3339),
				"content":    fmt.Sprintf("<p>post %d about <a href=\"https://example.com\">#golang</a></p>", i),
			})
		}
		json.NewEncoder(w).Encode(page)
	}))
}

func TestTagTimelinePagination(t *testing.T) {
	srv := fakeInstance(t, 90)
	defer srv.Close()

	c := NewClient(srv.URL, "")
	posts, err := c.TagTimeline(context.Background(), "#golang", 85)
	if err != nil {
		t.Fatalf("TagTimeline() error: %v", err)
	}
	if len(posts) != 85 {
		t.Errorf("got %d posts, want exactly 85 (trimmed to maxResults)", len(posts))
	}
}

func TestTagTimelineStopsWhenExhausted(t *testing.T) {
	srv := fakeInstance(t, 12)
	defer srv.Close()

	c := NewClient(srv.URL, "")
	posts, err := c.TagTimeline(context.Background(), "golang", 100)
	if err != nil {
		t.Fatalf("TagTimeline() error: %v", err)
	}
	if len(posts) != 12 {
		t.Errorf("got %d posts, want 12", len(posts))
	}
}

func TestTagTimelineStripsHTML(t *testing.T) {
	srv := fakeInstance(t, 1)
	defer srv.Close()

	c := NewClient(srv.URL, "")
	posts, err := c.TagTimeline(context.Background(), "golang", 10)
	if err != nil {
		t.Fatalf("TagTimeline() error: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("got %d posts, want 1", len(posts))
	}
	if want := "post 0 about #golang"; posts[0].Text != want {
		t.Errorf("Text = %q, want %q", posts[0].Text, want)
	}
	if posts[0].CreatedAt.IsZero() {
		t.Error("CreatedAt not decoded")
	}
}

func TestTagTimelineSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret-token")
	if _, err := c.TagTimeline(context.Background(), "golang", 10); err != nil {
		t.Fatalf("TagTimeline() error: %v", err)
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
}

func TestTagTimelineFirstBatchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	if _, err := c.TagTimeline(context.Background(), "golang", 10); err == nil {
		t.Fatal("expected an error when the first batch fails")
	}
}
