// Atlas NYC - Nightlife Venue Discovery and Real-Time Content
// Copyright 2026 Atlas NYC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/atlasnyc/atlas

package api

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/atlasnyc/atlas/internal/logging"
	"github.com/atlasnyc/atlas/internal/models"
)

// EventRequest is the payload for recording an analytics event.
type EventRequest struct {
	EventType  string `json:"event_type" validate:"required,oneof=venue_view content_view story_view search map_view profile_click"`
	VenueID    *int64 `json:"venue_id" validate:"omitempty,min=1"`
	ContentID  *int64 `json:"content_id" validate:"omitempty,min=1"`
	Session    string `json:"session" validate:"omitempty,max=128"`
	Referrer   string `json:"referrer" validate:"omitempty,max=500"`
	Properties string `json:"properties" validate:"omitempty,max=2000"`
}

// SearchTrackRequest is the payload for recording a search.
type SearchTrackRequest struct {
	SearchTerm   string `json:"search_term" validate:"required,max=200"`
	SearchType   string `json:"search_type" validate:"omitempty,oneof=venue neighborhood content"`
	ResultsCount int    `json:"results_count" validate:"min=0"`
}

// AnalyticsTrack handles POST /api/v1/analytics/events
// Tracking is best-effort: a failed insert logs and still returns 202 so
// client flows never break on analytics.
func (h *Handler) AnalyticsTrack(w http.ResponseWriter, r *http.Request) {
	queryStart := time.Now()
	ctx := r.Context()

	var req EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "PARSE_ERROR", "Invalid JSON body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	event := models.AnalyticsEvent{
		EventType:  req.EventType,
		VenueID:    req.VenueID,
		ContentID:  req.ContentID,
		Session:    strings.TrimSpace(req.Session),
		IPAddress:  clientIP(r),
		UserAgent:  r.UserAgent(),
		Referrer:   strings.TrimSpace(req.Referrer),
		Properties: req.Properties,
	}

	if err := h.db.TrackEvent(ctx, &event); err != nil {
		logging.Warn().Err(err).Str("event_type", req.EventType).Msg("Failed to track event")
	}

	respondSuccess(w, http.StatusAccepted, map[string]interface{}{"tracked": true}, queryStart)
}

// AnalyticsTrackSearch handles POST /api/v1/analytics/search
func (h *Handler) AnalyticsTrackSearch(w http.ResponseWriter, r *http.Request) {
	queryStart := time.Now()
	ctx := r.Context()

	var req SearchTrackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "PARSE_ERROR", "Invalid JSON body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	searchType := req.SearchType
	if searchType == "" {
		searchType = "venue"
	}

	if err := h.db.TrackSearch(ctx, strings.TrimSpace(req.SearchTerm), searchType, req.ResultsCount); err != nil {
		logging.Warn().Err(err).Msg("Failed to track search")
	}

	respondSuccess(w, http.StatusAccepted, map[string]interface{}{"tracked": true}, queryStart)
}

// AnalyticsVenue handles GET /api/v1/analytics/venues/{id}
//
// Query parameters:
//   - days: trailing window in days (default 30, max 365)
func (h *Handler) AnalyticsVenue(w http.ResponseWriter, r *http.Request) {
	queryStart := time.Now()
	ctx := r.Context()

	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid venue ID", err)
		return
	}

	days := getIntParam(r, "days", 30)
	if days < 1 || days > 365 {
		days = 30
	}

	summary, err := h.db.VenueAnalytics(ctx, id, days)
	if err != nil {
		logging.Error().Err(err).Int64("venue_id", id).Msg("Failed to load venue analytics")
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load analytics", err)
		return
	}

	daily, err := h.db.DailyVenueStats(ctx, id, days)
	if err != nil {
		logging.Error().Err(err).Int64("venue_id", id).Msg("Failed to load daily venue stats")
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load analytics", err)
		return
	}
	summary.Daily = daily

	respondSuccess(w, http.StatusOK, summary, queryStart)
}

// AnalyticsGlobal handles GET /api/v1/analytics/summary
func (h *Handler) AnalyticsGlobal(w http.ResponseWriter, r *http.Request) {
	queryStart := time.Now()
	ctx := r.Context()

	days := getIntParam(r, "days", 30)
	if days < 1 || days > 365 {
		days = 30
	}

	summary, err := h.db.GlobalAnalytics(ctx, days)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to load global analytics")
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load analytics", err)
		return
	}

	respondSuccess(w, http.StatusOK, summary, queryStart)
}

// clientIP extracts the originating address, preferring X-Forwarded-For
// set by the edge proxy.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if idx := strings.IndexByte(fwd, ','); idx > 0 {
			return strings.TrimSpace(fwd[:idx])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
