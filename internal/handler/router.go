// Package handler assembles the HTTP surface: shared middleware, health and
// metrics endpoints, and the JSON API mounted at /api.
package handler

import (
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yamala-stream/DashSEO/internal/api"
)

// Deps holds all dependencies required to build the HTTP router.
type Deps struct {
	SessionManager *scs.SessionManager
	Pinger         Pinger
	API            api.Deps
}

// NewRouter assembles the full chi router with all middleware and routes.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Get("/healthz", NewHealthHandler(deps.Pinger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())

	apiDeps := deps.API
	apiDeps.Sessions = deps.SessionManager
	r.Group(func(r chi.Router) {
		r.Use(deps.SessionManager.LoadAndSave)
		r.Mount("/api", api.NewAPIRouter(apiDeps))
	})

	return r
}
