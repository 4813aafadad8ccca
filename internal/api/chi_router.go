// Atlas NYC - Nightlife Venue Discovery and Real-Time Content
// Copyright 2026 Atlas NYC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/atlasnyc/atlas

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/atlasnyc/atlas/internal/config"
	"github.com/atlasnyc/atlas/internal/database"
	"github.com/atlasnyc/atlas/internal/middleware"
)

// Router wires handlers and middleware into the HTTP mux.
type Router struct {
	handler *Handler
	cfg     *config.Config
}

// NewRouter creates the router for the given dependencies.
func NewRouter(cfg *config.Config, db *database.DB) *Router {
	return &Router{
		handler: NewHandler(db, cfg),
		cfg:     cfg,
	}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order. CORS stays
	// global so OPTIONS preflight is handled before route matching.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(corsHandler(&router.cfg.Security))

	// Probes get a permissive limiter so orchestration can poll often.
	r.Group(func(r chi.Router) {
		r.Use(healthRateLimiter(&router.cfg.Security))
		r.Get("/healthz", router.handler.Liveness)
		r.Get("/readyz", router.handler.Readiness)
		r.Get("/api/v1/health", router.handler.Health)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rateLimiter(&router.cfg.Security))
		r.Use(middleware.PrometheusMetrics)
		r.Use(middleware.RequestLogger)
		r.Use(chiPathValue)

		r.Route("/venues", func(r chi.Router) {
			r.Get("/", router.handler.VenueList)
			r.Post("/", router.handler.VenueCreate)
			r.Get("/{id}", router.handler.VenueGet)
			r.Put("/{id}", router.handler.VenueUpdate)
			r.Delete("/{id}", router.handler.VenueDelete)
		})

		r.Route("/content", func(r chi.Router) {
			r.Get("/", router.handler.ContentList)
			r.Post("/", router.handler.ContentCreate)
			r.Get("/stories", router.handler.ContentStories)
			r.Get("/{id}", router.handler.ContentGet)
			r.Delete("/{id}", router.handler.ContentDelete)
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Post("/events", router.handler.AnalyticsTrack)
			r.Post("/search", router.handler.AnalyticsTrackSearch)
			r.Get("/summary", router.handler.AnalyticsGlobal)
			r.Get("/venues/{id}", router.handler.AnalyticsVenue)
		})

		r.Post("/import/venues", router.handler.ImportVenues)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

// chiPathValue injects Chi URL params into the request so handlers can
// read them via r.PathValue(). Bridges chi.URLParam with Go 1.22+'s
// request-pattern params.
func chiPathValue(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rctx := chi.RouteContext(r.Context())
		if rctx != nil {
			for i, key := range rctx.URLParams.Keys {
				if i < len(rctx.URLParams.Values) {
					r.SetPathValue(key, rctx.URLParams.Values[i])
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}
