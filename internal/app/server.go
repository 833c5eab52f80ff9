package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/oluseyi-dev/docdex/internal/api/handlers"
	"github.com/oluseyi-dev/docdex/internal/api/middlewares"
	"github.com/oluseyi-dev/docdex/internal/config"
	"github.com/oluseyi-dev/docdex/internal/services"
	"go.uber.org/zap"
)

// Server wraps the admin HTTP server and its routes. It only covers the
// ingestion side: triggering runs, inspecting them, and feeding an S3 corpus.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

// NewServer builds and wires all routes. docSvc is nil for filesystem
// sources; the upload endpoint is mounted only when it exists.
func NewServer(cfg *config.Config, ingest *services.IngestService, docSvc *services.DocumentService, logger *zap.Logger) *Server {
	indexHandler := handlers.NewIndexHandler(ingest)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8888"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(api chi.Router) {
		// read-only endpoints
		api.Get("/index/runs/last", indexHandler.LastRun)
		api.Get("/collections", indexHandler.Collections)

		// mutating endpoints
		api.Group(func(protected chi.Router) {
			protected.Use(middlewares.JWT(cfg.JWTSecret))
			protected.Post("/index/load", indexHandler.Load)
			protected.Post("/index/reload", indexHandler.Reload)

			if docSvc != nil {
				docHandler := handlers.NewDocumentHandler(docSvc)
				protected.Post("/documents/upload", docHandler.Upload)
			}
		})
	})

	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	return &Server{httpServer: httpSrv, logger: logger}
}

// Start runs the HTTP server until shutdown.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
