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

	"github.com/atlasnyc/atlas/internal/classify"
	"github.com/atlasnyc/atlas/internal/database"
	"github.com/atlasnyc/atlas/internal/logging"
	"github.com/atlasnyc/atlas/internal/models"
)

// VenueListResponse is the payload for venue list requests.
type VenueListResponse struct {
	Venues     []models.Venue    `json:"venues"`
	Pagination models.Pagination `json:"pagination"`
}

// VenueRequest is the create/update payload for a venue.
type VenueRequest struct {
	Name            string   `json:"name" validate:"required,min=1,max=200"`
	Neighborhood    string   `json:"neighborhood" validate:"required,min=1,max=100"`
	InstagramHandle string   `json:"instagram_handle" validate:"max=100"`
	VenueType       string   `json:"venue_type" validate:"max=50"`
	Address         string   `json:"address" validate:"max=300"`
	Description     string   `json:"description" validate:"max=2000"`
	BusyNights      string   `json:"busy_nights" validate:"max=100"`
	PriceRange      string   `json:"price_range" validate:"omitempty,oneof=$ $$ $$$ $$$$"`
	Latitude        float64  `json:"latitude" validate:"omitempty,latitude"`
	Longitude       float64  `json:"longitude" validate:"omitempty,longitude"`
	CategoryTags    []string `json:"category_tags" validate:"max=20"`
}

func (req *VenueRequest) toVenue() models.Venue {
	return models.Venue{
		Name:            strings.TrimSpace(req.Name),
		Neighborhood:    strings.TrimSpace(req.Neighborhood),
		InstagramHandle: strings.TrimPrefix(strings.TrimSpace(req.InstagramHandle), "@"),
		VenueType:       strings.TrimSpace(req.VenueType),
		Address:         strings.TrimSpace(req.Address),
		Description:     strings.TrimSpace(req.Description),
		BusyNights:      strings.TrimSpace(req.BusyNights),
		PriceRange:      strings.TrimSpace(req.PriceRange),
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		CategoryTags:    req.CategoryTags,
	}
}

// VenueList handles GET /api/v1/venues
//
// Query parameters:
//   - page: page number (default 1)
//   - per_page: page size (default/max from config)
//   - neighborhood: case-insensitive neighborhood filter
//   - venue_type: exact venue type filter
func (h *Handler) VenueList(w http.ResponseWriter, r *http.Request) {
	queryStart := time.Now()
	ctx := r.Context()

	page := getIntParam(r, "page", 1)
	if page < 1 {
		page = 1
	}
	perPage := getIntParam(r, "per_page", h.cfg.API.DefaultPageSize)
	if perPage < 1 || perPage > h.cfg.API.MaxPageSize {
		perPage = h.cfg.API.DefaultPageSize
	}

	filter := database.VenueFilter{
		Neighborhood: r.URL.Query().Get("neighborhood"),
		VenueType:    r.URL.Query().Get("venue_type"),
		Limit:        perPage,
		Offset:       (page - 1) * perPage,
	}

	venues, total, err := h.db.ListVenues(ctx, filter)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to list venues")
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list venues", err)
		return
	}
	if venues == nil {
		venues = []models.Venue{}
	}

	respondSuccess(w, http.StatusOK, VenueListResponse{
		Venues: venues,
		Pagination: models.Pagination{
			Page:    page,
			PerPage: perPage,
			Total:   total,
			Pages:   (total + perPage - 1) / perPage,
		},
	}, queryStart)
}

// VenueGet handles GET /api/v1/venues/{id}
func (h *Handler) VenueGet(w http.ResponseWriter, r *http.Request) {
	queryStart := time.Now()
	ctx := r.Context()

	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid venue ID", err)
		return
	}

	venue, err := h.db.GetVenue(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Venue not found", nil)
			return
		}
		logging.Error().Err(err).Int64("id", id).Msg("Failed to get venue")
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to get venue", err)
		return
	}

	respondSuccess(w, http.StatusOK, venue, queryStart)
}

// VenueCreate handles POST /api/v1/venues
//
// A venue_type left empty is assigned by the rule-based classifier over
// the name and category tags.
func (h *Handler) VenueCreate(w http.ResponseWriter, r *http.Request) {
	queryStart := time.Now()
	ctx := r.Context()

	var req VenueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "PARSE_ERROR", "Invalid JSON body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	venue := req.toVenue()
	if venue.VenueType == "" {
		venueType, _ := classify.VenueType(venue)
		venue.VenueType = venueType
	}

	id, err := h.db.InsertVenue(ctx, &venue)
	if err != nil {
		if errors.Is(err, database.ErrDuplicateHandle) {
			respondError(w, http.StatusConflict, "CONFLICT", "Venue with this Instagram handle already exists", nil)
			return
		}
		logging.Error().Err(err).Str("venue", sanitizeLogValue(venue.Name)).Msg("Failed to create venue")
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create venue", err)
		return
	}
	venue.ID = id

	logging.Info().Int64("id", id).Str("venue", sanitizeLogValue(venue.Name)).Msg("Venue created")
	respondSuccess(w, http.StatusCreated, venue, queryStart)
}

// VenueUpdate handles PUT /api/v1/venues/{id}
func (h *Handler) VenueUpdate(w http.ResponseWriter, r *http.Request) {
	queryStart := time.Now()
	ctx := r.Context()

	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid venue ID", err)
		return
	}

	var req VenueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "PARSE_ERROR", "Invalid JSON body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	venue := req.toVenue()
	venue.ID = id
	if venue.VenueType == "" {
		venueType, _ := classify.VenueType(venue)
		venue.VenueType = venueType
	}

	if err := h.db.UpdateVenue(ctx, &venue); err != nil {
		switch {
		case errors.Is(err, database.ErrNotFound):
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Venue not found", nil)
		case errors.Is(err, database.ErrDuplicateHandle):
			respondError(w, http.StatusConflict, "CONFLICT", "Venue with this Instagram handle already exists", nil)
		default:
			logging.Error().Err(err).Int64("id", id).Msg("Failed to update venue")
			respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update venue", err)
		}
		return
	}

	updated, err := h.db.GetVenue(ctx, id)
	if err != nil {
		logging.Error().Err(err).Int64("id", id).Msg("Failed to reload updated venue")
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Venue updated but failed to reload", err)
		return
	}

	respondSuccess(w, http.StatusOK, updated, queryStart)
}

// VenueDelete handles DELETE /api/v1/venues/{id}
// Venues are soft-deleted; rows persist for analytics joins.
func (h *Handler) VenueDelete(w http.ResponseWriter, r *http.Request) {
	queryStart := time.Now()
	ctx := r.Context()

	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid venue ID", err)
		return
	}

	if err := h.db.DeleteVenue(ctx, id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Venue not found", nil)
			return
		}
		logging.Error().Err(err).Int64("id", id).Msg("Failed to delete venue")
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete venue", err)
		return
	}

	logging.Info().Int64("id", id).Msg("Venue deleted")
	respondSuccess(w, http.StatusOK, map[string]interface{}{"deleted": true, "id": id}, queryStart)
}
