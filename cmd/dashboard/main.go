package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"mastolens/internal/analysis"
	"mastolens/internal/config"
	"mastolens/internal/logging"
	"mastolens/internal/server"
	"mastolens/web"
)

func main() {
	logging.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Outbound client for the analysis service
	client := analysis.NewClient(cfg.Analysis.AnalyzeURL(), cfg.Analysis.Timeout)

	httpServer := server.NewDashboard(cfg.Server, client, web.Static())

	go func() {
		slog.Info("starting dashboard server",
			slog.String("host", cfg.Server.Host),
			slog.Int("port", cfg.Server.Port),
			slog.String("analysis_service", cfg.Analysis.AnalyzeURL()))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	<-shutdown
	slog.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", slog.String("error", err.Error()))
	}

	slog.Info("shutdown complete")
}
