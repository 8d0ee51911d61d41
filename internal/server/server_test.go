package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"mastolens/internal/analysis"
	"mastolens/internal/config"
)

type stubAnalyzer struct{}

func (stubAnalyzer) Analyze(ctx context.Context, req analysis.Request) (analysis.Result, error) {
	return analysis.Result{Summary: "stub"}, nil
}

func testConfig() config.ServerConfig {
	return config.ServerConfig{
		Host:        "127.0.0.1",
		Port:        0,
		ReadTimeout: time.Second,
		CorsOrigins: []string{"*"},
	}
}

func TestDashboardRoutes(t *testing.T) {
	static := fstest.MapFS{
		"index.html": &fstest.MapFile{Data: []byte("<html>dash</html>")},
	}
	srv := NewDashboard(testConfig(), stubAnalyzer{}, static)

	cases := []struct {
		method, path string
		body         string
		wantStatus   int
	}{
		{http.MethodGet, "/api/health", "", http.StatusOK},
		{http.MethodPost, "/api/Analysis/analyze-mastodon", `{"text":"x"}`, http.StatusOK},
		{http.MethodPost, "/api/Analysis/dashboard", `{"text":"x"}`, http.StatusOK},
		{http.MethodGet, "/index.html", "", http.StatusOK},
		{http.MethodGet, "/api/Analysis/analyze-mastodon", "", http.StatusMethodNotAllowed},
	}
	for _, c := range cases {
		req := httptest.NewRequest(c.method, c.path, strings.NewReader(c.body))
		rec := httptest.NewRecorder()
		srv.router.ServeHTTP(rec, req)
		if rec.Code != c.wantStatus {
			t.Errorf("%s %s: status = %d, want %d", c.method, c.path, rec.Code, c.wantStatus)
		}
	}
}

func TestServerTimeoutsApplied(t *testing.T) {
	cfg := testConfig()
	cfg.WriteTimeout = 10 * time.Minute

	srv := NewAnalyzer(cfg, nil)

	if srv.server.ReadTimeout != time.Second {
		t.Errorf("ReadTimeout = %s, want 1s", srv.server.ReadTimeout)
	}
	if srv.server.WriteTimeout != 10*time.Minute {
		t.Errorf("WriteTimeout = %s, want 10m", srv.server.WriteTimeout)
	}
}

func TestAnalyzerRouteMounted(t *testing.T) {
	// The analyzer server only needs routing verified; the handler itself
	// is covered in the handlers package.
	srv := NewAnalyzer(testConfig(), nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("GET /health: status = %d, want 200", rec.Code)
	}
}
