// Atlas NYC - Nightlife Venue Discovery and Real-Time Content
// Copyright 2026 Atlas NYC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/atlasnyc/atlas

// Package models defines the typed records shared across the application:
// venues, content items, analytics events, and the API response envelope.
// Records carry named fields rather than positional row shapes so matching
// and visibility logic can be written against fields.
package models

import "time"

// NYC-plausible coordinate bounding box. Coordinates outside this box do
// not disqualify a venue from admission; they only gate quality scoring.
const (
	NYCLatMin = 40.4
	NYCLatMax = 41.0
	NYCLonMin = -74.3
	NYCLonMax = -73.7
)

// Venue is a nightlife venue record. Latitude/Longitude of (0,0) is the
// "missing coordinates" sentinel, not a valid position.
type Venue struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Neighborhood    string    `json:"neighborhood"`
	InstagramHandle string    `json:"instagram_handle,omitempty"`
	VenueType       string    `json:"venue_type"`
	Address         string    `json:"address,omitempty"`
	Description     string    `json:"description,omitempty"`
	BusyNights      string    `json:"busy_nights,omitempty"`
	PriceRange      string    `json:"price_range,omitempty"`
	Photo           string    `json:"photo,omitempty"`
	Latitude        float64   `json:"latitude,omitempty"`
	Longitude       float64   `json:"longitude,omitempty"`
	CategoryTags    []string  `json:"category_tags,omitempty"`
	CreatedAt       time.Time `json:"created_at,omitempty"`
	UpdatedAt       time.Time `json:"updated_at,omitempty"`
	IsActive        bool      `json:"is_active"`
}

// HasCoordinates reports whether the venue carries real coordinates,
// i.e. anything other than the (0,0) missing sentinel.
func (v *Venue) HasCoordinates() bool {
	return v.Latitude != 0 || v.Longitude != 0
}

// InNYCBounds reports whether the venue's coordinates fall inside the
// NYC-plausible bounding box.
func (v *Venue) InNYCBounds() bool {
	return v.Latitude > NYCLatMin && v.Latitude < NYCLatMax &&
		v.Longitude > NYCLonMin && v.Longitude < NYCLonMax
}
