package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/docpatch/internal/config"
	"github.com/dgallion1/docpatch/internal/contract"
	"github.com/dgallion1/docpatch/internal/patch"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for docpatch.
type Server struct {
	router    chi.Router
	patcher   *patch.Orchestrator
	generator *contract.Generator
	log       *slog.Logger
	cfg       config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(patcher *patch.Orchestrator, generator *contract.Generator, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		patcher:   patcher,
		generator: generator,
		log:       log,
		cfg:       cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.DocpatchAPIKey, s.log))

		r.Post("/api/contracts/generate", s.handleGenerate)
		r.Get("/api/contracts/template/info", s.handleTemplateInfo)
		r.Get("/api/contracts/template/fields", s.handleTemplateFields)

		r.Get("/api/contracts/{filename}/content", s.handleGetContent)
		r.Put("/api/contracts/{filename}/content", s.handleUpdateContent)
		r.Get("/api/contracts/{filename}/preview", s.handlePreview)
		r.Get("/api/contracts/download/{filename}", s.handleDownload)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
