// Package server exposes the exercise catalog over HTTP.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gavinmead/trainer/internal/exercise"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	mgr    *exercise.Manager
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(mgr *exercise.Manager, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		mgr:    mgr,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestID)
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Get("/healthz", s.handleHealthz)

	s.router.Route("/api/v1/exercises", func(r chi.Router) {
		// Reads are open; tsnet handles network-level access.
		r.Get("/", s.handleListExercises)
		r.Get("/{name}", s.handleGetExercise)

		// Mutations require the API key.
		r.Group(func(r chi.Router) {
			r.Use(APIKeyAuth(s.apiKey))
			r.Post("/", s.handleCreateExercise)
			r.Put("/{id}", s.handleUpdateExercise)
			r.Delete("/{name}", s.handleDeleteExercise)
		})
	})
}

// MountMCP mounts the MCP transport handler at /mcp.
func (s *Server) MountMCP(h http.Handler) {
	s.router.Mount("/mcp", h)
}
