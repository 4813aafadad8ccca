// Atlas NYC - Nightlife Venue Discovery and Real-Time Content
// Copyright 2026 Atlas NYC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/atlasnyc/atlas

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/atlasnyc/atlas/internal/config"
)

// corsHandler builds the CORS middleware from configuration. Origins
// default to empty so a deployment must opt in explicitly.
func corsHandler(cfg *config.SecurityConfig) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "ETag"},
		MaxAge:         86400,
	})
}

// rateLimiter builds the per-IP rate limiter. Returns a no-op when rate
// limiting is disabled (tests, local development).
func rateLimiter(cfg *config.SecurityConfig) func(http.Handler) http.Handler {
	if cfg.RateLimitDisabled {
		return func(next http.Handler) http.Handler { return next }
	}
	window := cfg.RateLimitWindow
	if window <= 0 {
		window = time.Minute
	}
	return httprate.Limit(
		cfg.RateLimitReqs,
		window,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
	)
}

// healthRateLimiter allows frequent probes while still bounding abuse.
func healthRateLimiter(cfg *config.SecurityConfig) func(http.Handler) http.Handler {
	if cfg.RateLimitDisabled {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.LimitByRealIP(1000, time.Minute)
}
