package server

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"mastolens/internal/config"
	"mastolens/internal/server/handlers"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *chi.Mux
}

// NewDashboard creates the dashboard server: the static single-page UI
// plus the analysis proxy endpoints.
func NewDashboard(cfg config.ServerConfig, client handlers.Analyzer, static fs.FS) *Server {
	router := newRouter(cfg)

	analysisHandler := handlers.NewAnalysisHandler(client)

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		r.Route("/Analysis", func(r chi.Router) {
			r.Post("/analyze-mastodon", analysisHandler.AnalyzeMastodon)
			r.Post("/dashboard", analysisHandler.Dashboard)
		})
	})

	router.Handle("/*", http.FileServer(http.FS(static)))

	return newServer(cfg, router)
}

// NewAnalyzer creates the analyzer service server exposing POST /analyze.
func NewAnalyzer(cfg config.ServerConfig, analyzeHandler *handlers.AnalyzeHandler) *Server {
	router := newRouter(cfg)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	router.Post("/analyze", analyzeHandler.Analyze)

	return newServer(cfg, router)
}

func newRouter(cfg config.ServerConfig) *chi.Mux {
	router := chi.NewRouter()

	// Middleware. No router-level timeout: the analysis routes own their
	// five-minute bound and must not be cut short by the router.
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CorsOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	return router
}

func newServer(cfg config.ServerConfig, router *chi.Mux) *Server {
	httpServer := &http.Server{
		Addr:        fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:     router,
		ReadTimeout: cfg.ReadTimeout,
		// Zero unless configured: a write bound below the analysis bound
		// would cut long analyses off mid-response.
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		server: httpServer,
		router: router,
	}
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
