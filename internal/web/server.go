// Package web exposes the parsing pipeline over HTTP: upload a mesh file,
// get back a normalized summary or a rendered preview.
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"mesh-normalizer/internal/loader"
)

// Options configure the server.
type Options struct {
	Addr           string
	MaxUploadBytes int64
	RenderSize     int
	Supersample    int
}

// Server is the HTTP front end for the mesh pipeline.
type Server struct {
	opts   Options
	loader loader.Loader
	router *chi.Mux
	server *http.Server
}

// NewServer creates a Server with middleware and routes configured.
func NewServer(opts Options) *Server {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = loader.DefaultMaxInputBytes
	}
	if opts.RenderSize <= 0 {
		opts.RenderSize = 256
	}
	if opts.Supersample <= 0 {
		opts.Supersample = 2
	}

	s := &Server{
		opts:   opts,
		loader: loader.Loader{MaxInputBytes: int(opts.MaxUploadBytes)},
		router: chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/normalize", s.handleNormalize)
		r.Post("/preview", s.handlePreview)
	})
}

// Router returns the configured handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start begins serving and blocks until the listener fails or closes.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.opts.Addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
