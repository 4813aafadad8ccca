// Atlas NYC - Nightlife Venue Discovery and Real-Time Content
// Copyright 2026 Atlas NYC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/atlasnyc/atlas

package models

import "time"

// Content types. Only stories carry automatic expiry.
const (
	ContentTypeStory = "story"
	ContentTypePost  = "post"
	ContentTypeEvent = "event"

	// ContentTypeInstagramStory is the legacy spelling used by older
	// submission tools. Treated identically to ContentTypeStory.
	ContentTypeInstagramStory = "instagram_story"
)

// StoryTTL is the fixed lifetime of expiring content, applied once at
// creation and never recomputed.
const StoryTTL = 24 * time.Hour

// ContentItem is a time-limited piece of venue content (story, post,
// event). ExpiresAt is non-nil only for expiring content types and is
// fixed at CreatedAt + StoryTTL when the row is inserted. Rows are never
// updated after creation except for soft deletion; expired rows persist
// and are filtered out of active listings rather than purged.
type ContentItem struct {
	ID          int64      `json:"id"`
	VenueID     int64      `json:"venue_id"`
	ContentType string     `json:"content_type"`
	Caption     string     `json:"caption,omitempty"`
	MediaURL    string     `json:"media_url,omitempty"`
	CrowdLevel  string     `json:"crowd_level,omitempty"`
	Urgency     string     `json:"urgency,omitempty"`
	Latitude    float64    `json:"latitude,omitempty"`
	Longitude   float64    `json:"longitude,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	IsActive    bool       `json:"is_active"`

	// Denormalized venue fields for list responses.
	VenueName         string `json:"venue_name,omitempty"`
	VenueNeighborhood string `json:"neighborhood,omitempty"`
}
