package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNormalizeBaseURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"http://localhost:5002", "http://localhost:5002"},
		{"http://localhost:5002/", "http://localhost:5002"},
		{"http://localhost:5002///", "http://localhost:5002"},
		{"https://svc.example.com/api/", "https://svc.example.com/api"},
	}
	for _, c := range cases {
		if got := NormalizeBaseURL(c.in); got != c.want {
			t.Errorf("NormalizeBaseURL(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestAnalyzeURLAppendsFixedPath(t *testing.T) {
	a := AnalysisConfig{BaseURL: "http://svc:5002/"}
	if got := a.AnalyzeURL(); got != "http://svc:5002/analyze" {
		t.Errorf("AnalyzeURL() = %q, want %q", got, "http://svc:5002/analyze")
	}
}

func TestResolveAnalysisBaseURLEnvWins(t *testing.T) {
	t.Setenv(EnvAnalysisServiceURL, "http://from-env:9000/")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	writeConfig(t, path, `{"analysis_service_url": "http://from-file:9001"}`)

	if got := ResolveAnalysisBaseURL(path); got != "http://from-env:9000" {
		t.Errorf("env override ignored: got %q", got)
	}
}

func TestResolveAnalysisBaseURLFileFallback(t *testing.T) {
	t.Setenv(EnvAnalysisServiceURL, "")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	writeConfig(t, path, `{"analysis_service_url": "http://from-file:9001/"}`)

	if got := ResolveAnalysisBaseURL(path); got != "http://from-file:9001" {
		t.Errorf("config file fallback ignored: got %q", got)
	}
}

func TestResolveAnalysisBaseURLDefault(t *testing.T) {
	t.Setenv(EnvAnalysisServiceURL, "")

	if got := ResolveAnalysisBaseURL(filepath.Join(t.TempDir(), "missing.json")); got != DefaultAnalysisBaseURL {
		t.Errorf("default ignored: got %q", got)
	}
}

func writeConfig(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
}
