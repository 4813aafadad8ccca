// Atlas NYC - Nightlife Venue Discovery and Real-Time Content
// Copyright 2026 Atlas NYC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/atlasnyc/atlas

package models

import "time"

// Analytics event types recorded by the public read paths.
const (
	EventVenueView    = "venue_view"
	EventContentView  = "content_view"
	EventStoryView    = "story_view"
	EventSearch       = "search"
	EventMapView      = "map_view"
	EventProfileClick = "profile_click"
)

// AnalyticsEvent is a single logged interaction. Events are append-only;
// aggregation happens at query time.
type AnalyticsEvent struct {
	ID         int64     `json:"id,omitempty"`
	EventType  string    `json:"event_type"`
	VenueID    *int64    `json:"venue_id,omitempty"`
	ContentID  *int64    `json:"content_id,omitempty"`
	Session    string    `json:"session,omitempty"`
	IPAddress  string    `json:"-"`
	UserAgent  string    `json:"-"`
	Referrer   string    `json:"referrer,omitempty"`
	Properties string    `json:"properties,omitempty"`
	Timestamp  time.Time `json:"timestamp,omitempty"`
}

// VenueAnalytics summarizes interactions for a single venue over a window.
type VenueAnalytics struct {
	VenueID        int64            `json:"venue_id"`
	Days           int              `json:"days"`
	Views          int64            `json:"views"`
	ContentViews   int64            `json:"content_views"`
	UniqueSessions int64            `json:"unique_sessions"`
	Daily          []DailyVenueStat `json:"daily,omitempty"`
}

// DailyVenueStat is one row of the per-day rollup maintained alongside
// the raw event log.
type DailyVenueStat struct {
	Date         string `json:"date"`
	Views        int64  `json:"views"`
	ContentViews int64  `json:"content_views"`
}

// GlobalAnalytics summarizes sitewide interactions over a window.
type GlobalAnalytics struct {
	Days           int   `json:"days"`
	TotalEvents    int64 `json:"total_events"`
	VenueViews     int64 `json:"venue_views"`
	ContentViews   int64 `json:"content_views"`
	UniqueSessions int64 `json:"unique_sessions"`
}
