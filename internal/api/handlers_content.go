// Atlas NYC - Nightlife Venue Discovery and Real-Time Content
// Copyright 2026 Atlas NYC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/atlasnyc/atlas

package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	contentpkg "github.com/atlasnyc/atlas/internal/content"
	"github.com/atlasnyc/atlas/internal/database"
	"github.com/atlasnyc/atlas/internal/logging"
	"github.com/atlasnyc/atlas/internal/models"
)

// ContentRequest is the create payload for a content item.
type ContentRequest struct {
	VenueID     int64   `json:"venue_id" validate:"required,min=1"`
	ContentType string  `json:"content_type" validate:"required,oneof=story instagram_story post event"`
	Caption     string  `json:"caption" validate:"max=2000"`
	MediaURL    string  `json:"media_url" validate:"omitempty,url,max=500"`
	CrowdLevel  string  `json:"crowd_level" validate:"omitempty,oneof=empty quiet moderate busy packed"`
	Urgency     string  `json:"urgency" validate:"omitempty,oneof=low normal high"`
	Latitude    float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude   float64 `json:"longitude" validate:"omitempty,longitude"`
}

// ContentListResponse is the payload for content list requests.
type ContentListResponse struct {
	Content []models.ContentItem `json:"content"`
	Count   int                  `json:"count"`
}

// ContentCreate handles POST /api/v1/content
//
// Stories get expires_at fixed at created_at + 24h; it is computed once
// here and never recomputed. Other content types never expire.
func (h *Handler) ContentCreate(w http.ResponseWriter, r *http.Request) {
	queryStart := time.Now()
	ctx := r.Context()

	var req ContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "PARSE_ERROR", "Invalid JSON body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	item := models.ContentItem{
		VenueID:     req.VenueID,
		ContentType: strings.TrimSpace(req.ContentType),
		Caption:     strings.TrimSpace(req.Caption),
		MediaURL:    strings.TrimSpace(req.MediaURL),
		CrowdLevel:  req.CrowdLevel,
		Urgency:     req.Urgency,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	}

	id, err := h.db.InsertContent(ctx, &item)
	if err != nil {
		if errors.Is(err, database.ErrVenueRequired) {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Venue does not exist", nil)
			return
		}
		logging.Error().Err(err).Int64("venue_id", req.VenueID).Msg("Failed to create content")
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create content", err)
		return
	}

	logging.Info().
		Int64("id", id).
		Int64("venue_id", item.VenueID).
		Str("content_type", item.ContentType).
		Bool("expires", item.ExpiresAt != nil).
		Msg("Content created")

	respondSuccess(w, http.StatusCreated, item, queryStart)
}

// ContentList handles GET /api/v1/content
// Returns only content active right now; expiry is evaluated against the
// database clock, and expired rows are filtered, never deleted.
//
// Query parameters:
//   - venue_id: filter to one venue
//   - content_type: filter by type
//   - limit: maximum results (default/max from config)
func (h *Handler) ContentList(w http.ResponseWriter, r *http.Request) {
	queryStart := time.Now()
	ctx := r.Context()

	limit := getIntParam(r, "limit", h.cfg.API.DefaultPageSize)
	if limit < 1 || limit > h.cfg.API.MaxPageSize {
		limit = h.cfg.API.DefaultPageSize
	}

	filter := database.ContentFilter{
		VenueID:     getInt64Param(r, "venue_id"),
		ContentType: r.URL.Query().Get("content_type"),
		Limit:       limit,
	}

	items, err := h.db.ListActiveContent(ctx, filter)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to list content")
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list content", err)
		return
	}
	if items == nil {
		items = []models.ContentItem{}
	}

	respondSuccess(w, http.StatusOK, ContentListResponse{Content: items, Count: len(items)}, queryStart)
}

// ContentStories handles GET /api/v1/content/stories
// Returns unexpired stories only.
func (h *Handler) ContentStories(w http.ResponseWriter, r *http.Request) {
	queryStart := time.Now()
	ctx := r.Context()

	limit := getIntParam(r, "limit", h.cfg.API.DefaultPageSize)
	if limit < 1 || limit > h.cfg.API.MaxPageSize {
		limit = h.cfg.API.DefaultPageSize
	}

	items, err := h.db.ListActiveStories(ctx, limit)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to list stories")
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list stories", err)
		return
	}
	if items == nil {
		items = []models.ContentItem{}
	}

	respondSuccess(w, http.StatusOK, ContentListResponse{Content: items, Count: len(items)}, queryStart)
}

// ContentGet handles GET /api/v1/content/{id}
// The response includes the computed visibility state; expired items are
// still addressable by ID even though active listings filter them.
func (h *Handler) ContentGet(w http.ResponseWriter, r *http.Request) {
	queryStart := time.Now()
	ctx := r.Context()

	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid content ID", err)
		return
	}

	item, err := h.db.GetContent(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Content not found", nil)
			return
		}
		logging.Error().Err(err).Int64("id", id).Msg("Failed to get content")
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to get content", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"content": item,
		"state":   contentpkg.StateAt(item.ContentType, item.ExpiresAt, time.Now().UTC()),
	}, queryStart)
}

// ContentDelete handles DELETE /api/v1/content/{id}
func (h *Handler) ContentDelete(w http.ResponseWriter, r *http.Request) {
	queryStart := time.Now()
	ctx := r.Context()

	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid content ID", err)
		return
	}

	if err := h.db.DeleteContent(ctx, id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Content not found", nil)
			return
		}
		logging.Error().Err(err).Int64("id", id).Msg("Failed to delete content")
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete content", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{"deleted": true, "id": id}, queryStart)
}
