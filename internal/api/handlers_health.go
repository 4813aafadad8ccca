// Atlas NYC - Nightlife Venue Discovery and Real-Time Content
// Copyright 2026 Atlas NYC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/atlasnyc/atlas

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/atlasnyc/atlas/internal/logging"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// Health handles GET /api/v1/health
// Reports overall status plus the database check; degraded storage turns
// the status to "unhealthy" with 503 so load balancers rotate the
// instance out.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	queryStart := time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "healthy"
	httpStatus := http.StatusOK
	dbStatus := "ok"
	if err := h.db.Ping(ctx); err != nil {
		logging.Error().Err(err).Msg("Health check: database unreachable")
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
		dbStatus = "unreachable"
	}

	respondSuccess(w, httpStatus, map[string]interface{}{
		"status":         status,
		"version":        Version,
		"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
		"checks": map[string]string{
			"database": dbStatus,
		},
	}, queryStart)
}

// Liveness handles GET /healthz. Always 200 while the process serves
// requests.
func (h *Handler) Liveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Readiness handles GET /readyz. Fails when the database is unreachable.
func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := h.db.Ping(ctx); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("database unreachable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
