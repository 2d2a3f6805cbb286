// Package server exposes the editor shell, the live preview websocket
// and the small JSON API (share tokens, theme persistence).
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"marklive/internal/preview"
	"marklive/internal/store"
)

// Config holds server configuration.
type Config struct {
	Host     string
	Port     int
	Theme    string // default theme for fresh browsers: light, dark or system
	AllowAll bool   // allow all CORS origins (dev mode)
}

// Server is the marklive preview server.
type Server struct {
	cfg        Config
	settings   *store.Store
	hub        *preview.Hub
	router     chi.Router
	httpServer *http.Server
}

// New wires the router with all routes.
func New(cfg Config, settings *store.Store, hub *preview.Hub) *Server {
	s := &Server{
		cfg:      cfg,
		settings: settings,
		hub:      hub,
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/", s.handleShell)
	r.Get("/ws", s.hub.HandleWebSocket)

	// The websocket route stays long-lived, so the request timeout only
	// covers the JSON API.
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))
		r.Post("/share", s.handleShareEncode)
		r.Post("/share/decode", s.handleShareDecode)
		r.Get("/theme", s.handleThemeGet)
		r.Put("/theme", s.handleThemePut)
	})

	return r
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured host and port.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("marklive listening on http://%s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
