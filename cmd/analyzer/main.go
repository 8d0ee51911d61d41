package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"mastolens/internal/config"
	"mastolens/internal/logging"
	"mastolens/internal/mastodon"
	"mastolens/internal/server"
	"mastolens/internal/server/handlers"
	"mastolens/internal/summary"
)

func main() {
	logging.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// The analyzer listens where the dashboard's local default expects it.
	serverCfg := cfg.Server
	if os.Getenv("SERVER_PORT") == "" {
		serverCfg.Port = 5002
	}

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	posts := mastodon.NewClient(cfg.Mastodon.BaseURL, cfg.Mastodon.AccessToken)
	summaries := summary.NewGenerator(cfg.LLM)

	analyzeHandler := handlers.NewAnalyzeHandler(posts, summaries)
	httpServer := server.NewAnalyzer(serverCfg, analyzeHandler)

	go func() {
		slog.Info("starting analyzer service",
			slog.String("host", serverCfg.Host),
			slog.Int("port", serverCfg.Port),
			slog.String("mastodon", cfg.Mastodon.BaseURL))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	<-shutdown
	slog.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverCfg.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", slog.String("error", err.Error()))
	}

	slog.Info("shutdown complete")
}
