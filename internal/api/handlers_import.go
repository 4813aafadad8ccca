// Atlas NYC - Nightlife Venue Discovery and Real-Time Content
// Copyright 2026 Atlas NYC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/atlasnyc/atlas

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/atlasnyc/atlas/internal/importer"
	"github.com/atlasnyc/atlas/internal/logging"
)

// ImportVenues handles POST /api/v1/import/venues
// The body is a JSON array of candidate venues. The run is synchronous
// and single-flight; a concurrent request gets 409.
func (h *Handler) ImportVenues(w http.ResponseWriter, r *http.Request) {
	queryStart := time.Now()
	ctx := r.Context()

	stats, err := h.importer.ImportJSON(ctx, r.Body)
	if err != nil {
		switch {
		case errors.Is(err, importer.ErrImportRunning):
			respondError(w, http.StatusConflict, "IMPORT_RUNNING", "An import is already in progress", nil)
		case errors.Is(err, importer.ErrDecode):
			respondError(w, http.StatusBadRequest, "PARSE_ERROR", "Invalid JSON body", err)
		default:
			logging.Error().Err(err).Msg("Venue import failed")
			respondError(w, http.StatusInternalServerError, "IMPORT_ERROR", "Venue import failed", err)
		}
		return
	}

	logging.Info().
		Int("processed", stats.Processed).
		Int("added", stats.Added).
		Int("duplicates", stats.Duplicates).
		Int("low_quality", stats.LowQuality).
		Int("errors", stats.Errors).
		Msg("Venue import finished")

	respondSuccess(w, http.StatusOK, stats, queryStart)
}
