// Package router sets up all HTTP routes and middleware chains for the
// BlockPress server.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"blockpress/internal/handlers"
	"blockpress/internal/middleware"
)

// Config holds what the router needs besides the public handlers.
type Config struct {
	// Metrics serves /metrics. Nil leaves the route unregistered.
	Metrics http.Handler
	// Static is served under /static/. Nil leaves the route unregistered.
	Static fs.FS
	// AssetOrigins are allowed as image sources in the CSP.
	AssetOrigins []string
}

// New creates and returns the configured Chi router with all middleware
// and routes wired up.
func New(public *handlers.Public, cfg Config) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/health", healthHandler)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}
	if cfg.Static != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", staticHandler(cfg.Static)))
	}

	// Public site, rendered from blocks.
	r.Group(func(r chi.Router) {
		r.Use(middleware.SecureHeaders(cfg.AssetOrigins...))
		r.Get("/", public.Homepage)
		r.Get("/{lang}", public.LanguageHome)
		r.Get("/{lang}/blog/{slug}", public.Post)
		r.Get("/{lang}/{slug}", public.Page)
	})

	return r
}

// staticHandler serves embedded assets with a long cache lifetime.
func staticHandler(static fs.FS) http.Handler {
	files := http.FileServerFS(static)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=86400")
		files.ServeHTTP(w, r)
	})
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
