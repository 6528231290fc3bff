// Package server exposes timestamp rendering over HTTP: a localizing static
// file server plus a small JSON and WebSocket API.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ziadkadry99/stamp/internal/history"
	"github.com/ziadkadry99/stamp/internal/locale"
	"github.com/ziadkadry99/stamp/internal/render"
)

// Config holds server configuration.
type Config struct {
	Port        int
	Dir         string // static root; empty disables file serving
	Marker      string
	AllowAll    bool // allow all CORS origins (dev mode)
	CacheMaxAge int  // seconds; 0 omits Cache-Control
}

// Server serves rendered pages and the formatting API.
type Server struct {
	cfg        Config
	registry   *locale.Registry
	fallback   *locale.Formatter
	history    *history.Store
	renderers  sync.Map // language tag -> *render.Renderer
	router     chi.Router
	httpServer *http.Server
}

// New creates a server. fallback supplies the locale used when a request
// carries no usable Accept-Language header and the zone every response is
// rendered in. store may be nil, in which case runs are not recorded and the
// history routes are not mounted.
func New(cfg Config, fallback *locale.Formatter, store *history.Store) (*Server, error) {
	if fallback == nil {
		return nil, render.ErrNoFormatter
	}
	if cfg.Marker == "" {
		cfg.Marker = render.DefaultMarker
	}
	if _, err := render.New(fallback, cfg.Marker); err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      cfg,
		registry: locale.Default(),
		fallback: fallback,
		history:  store,
	}
	s.router = s.buildRouter()
	return s, nil
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Content-Type"},
		ExposedHeaders:   []string{"Content-Language"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/api/locales", s.handleLocales)
	r.Get("/api/format", s.handleFormat)
	r.Post("/api/render", s.handleRender)
	r.Get("/ws/format", s.handleFormatSocket)

	if s.history != nil {
		history.RegisterRoutes(r, s.history)
	}

	if s.cfg.Dir != "" {
		r.With(s.Localize, s.cacheControl).Handle("/*", http.FileServer(http.Dir(s.cfg.Dir)))
	}

	return r
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("stamp server listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// rendererFor returns the cached renderer for the formatter's locale. All
// renderers share the fallback zone.
func (s *Server) rendererFor(f *locale.Formatter) *render.Renderer {
	key := f.Tag().String()
	if r, ok := s.renderers.Load(key); ok {
		return r.(*render.Renderer)
	}
	// The marker was validated in New, so this cannot fail.
	r, _ := render.New(f, s.cfg.Marker)
	actual, _ := s.renderers.LoadOrStore(key, r)
	return actual.(*render.Renderer)
}

// negotiate picks the formatter for a request's Accept-Language header.
func (s *Server) negotiate(r *http.Request) *locale.Formatter {
	_, t, ok := s.registry.MatchAcceptLanguage(r.Header.Get("Accept-Language"))
	if !ok {
		return s.fallback
	}
	return locale.NewFormatter(t, s.fallback.Location())
}

// record stores a run when history is enabled. Failures are logged only.
func (s *Server) record(ctx context.Context, run history.Run) {
	if s.history == nil {
		return
	}
	if _, err := s.history.Record(ctx, run); err != nil {
		log.Printf("server: recording run: %v", err)
	}
}
