// Atlas NYC - Nightlife Venue Discovery and Real-Time Content
// Copyright 2026 Atlas NYC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/atlasnyc/atlas

// Package api provides the HTTP handlers and Chi routing for the venue,
// content, analytics, and import endpoints.
package api

import (
	"time"

	"github.com/atlasnyc/atlas/internal/config"
	"github.com/atlasnyc/atlas/internal/database"
	"github.com/atlasnyc/atlas/internal/importer"
)

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_helpers.go: shared response/param helpers
//   - handlers_health.go: health endpoints
//   - handlers_venues.go: venue CRUD endpoints
//   - handlers_content.go: content and story endpoints
//   - handlers_analytics.go: analytics tracking and summaries
//   - handlers_import.go: bulk venue import
type Handler struct {
	db        *database.DB
	cfg       *config.Config
	importer  *importer.Importer
	startTime time.Time
}

// NewHandler creates an API handler with its dependencies.
func NewHandler(db *database.DB, cfg *config.Config) *Handler {
	return &Handler{
		db:        db,
		cfg:       cfg,
		importer:  importer.New(&cfg.Import, db),
		startTime: time.Now(),
	}
}
