// Package config loads configuration for the dashboard and analyzer
// binaries. The analysis service base URL is resolved in a fixed order:
//
//  1. Environment variable ANALYSIS_SERVICE_URL
//  2. config.json key "analysis_service_url"
//  3. Local default http://localhost:5002
//
// The resolved base is normalized by stripping trailing slashes; callers
// append the fixed /analyze path.
package config

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultConfigFile      = "config.json"
	DefaultAnalysisBaseURL = "http://localhost:5002"
	AnalysisPath           = "/analyze"

	EnvAnalysisServiceURL = "ANALYSIS_SERVICE_URL"
)

// Config holds all application configuration.
type Config struct {
	Environment string
	Server      ServerConfig
	Analysis    AnalysisConfig
	Mastodon    MastodonConfig
	LLM         LLMConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CorsOrigins     []string
}

// AnalysisConfig holds the outbound analysis service configuration.
type AnalysisConfig struct {
	BaseURL string
	Timeout time.Duration
}

// MastodonConfig holds Mastodon API configuration for the analyzer.
type MastodonConfig struct {
	BaseURL     string
	AccessToken string
}

// LLMConfig holds the summary model configuration for the analyzer.
type LLMConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// file is the on-disk representation of config.json.
type file struct {
	AnalysisServiceURL string `json:"analysis_service_url"`
}

// Load loads configuration from an optional .env file, the environment, and
// an optional config.json fallback.
func Load() (Config, error) {
	// Missing .env is fine; the OS environment still applies.
	_ = godotenv.Load()

	cfg := Config{
		Environment: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Host:        getEnv("SERVER_HOST", "0.0.0.0"),
			Port:        getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout: getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			// Zero by default: analysis responses can take minutes, so any
			// write bound must exceed ANALYSIS_TIMEOUT.
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 0),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CorsOrigins:     getEnvAsSlice("SERVER_CORS_ORIGINS", []string{"*"}),
		},
		Analysis: AnalysisConfig{
			BaseURL: ResolveAnalysisBaseURL(DefaultConfigFile),
			Timeout: getEnvAsDuration("ANALYSIS_TIMEOUT", 5*time.Minute),
		},
		Mastodon: MastodonConfig{
			BaseURL:     getEnv("MASTODON_API_BASE_URL", "https://mastodon.social"),
			AccessToken: getEnv("MASTODON_ACCESS_TOKEN", ""),
		},
		LLM: LLMConfig{
			APIKey:  getEnv("OPENAI_API_KEY", ""),
			BaseURL: getEnv("LLM_API_BASE_URL", "https://api.intelligence.io.solutions/api/v1"),
			Model:   getEnv("LLM_MODEL", "meta-llama/Llama-3.3-70B-Instruct"),
		},
	}

	return cfg, nil
}

// AnalyzeURL returns the full outbound analysis endpoint URL.
func (c AnalysisConfig) AnalyzeURL() string {
	return NormalizeBaseURL(c.BaseURL) + AnalysisPath
}

// NormalizeBaseURL strips trailing slashes from a base URL.
func NormalizeBaseURL(base string) string {
	return strings.TrimRight(base, "/")
}

// ResolveAnalysisBaseURL applies the env → config file → default order.
func ResolveAnalysisBaseURL(configPath string) string {
	if v := os.Getenv(EnvAnalysisServiceURL); v != "" {
		return NormalizeBaseURL(v)
	}
	if f, err := loadFile(configPath); err == nil && f.AnalysisServiceURL != "" {
		return NormalizeBaseURL(f.AnalysisServiceURL)
	}
	return DefaultAnalysisBaseURL
}

func loadFile(path string) (file, error) {
	var f file
	data, err := os.ReadFile(path)
	if err != nil {
		return f, err
	}
	if err := json.Unmarshal(data, &f); err != nil {
		return f, err
	}
	return f, nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
