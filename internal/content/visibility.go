// Atlas NYC - Nightlife Venue Discovery and Real-Time Content
// Copyright 2026 Atlas NYC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/atlasnyc/atlas

// Package content implements the content visibility lifecycle.
//
// A content item has exactly two observable states after creation: ACTIVE
// and EXPIRED. State is never stored; it is computed at query time as a
// pure function of (content type, expires_at, now). EXPIRED is terminal.
//
// The same rule exists in two forms: IsActive for in-memory checks, and
// ActiveSQLPredicate for stored queries, where the comparison runs against
// the database's own clock so all API instances stay consistent without
// shared state.
package content

import (
	"time"

	"github.com/atlasnyc/atlas/internal/models"
)

// State is the computed visibility state of a content item.
type State string

const (
	StateActive  State = "active"
	StateExpired State = "expired"
)

// IsExpiring reports whether a content type carries automatic expiry.
// Only stories expire; the legacy "instagram_story" spelling is accepted.
func IsExpiring(contentType string) bool {
	switch contentType {
	case models.ContentTypeStory, models.ContentTypeInstagramStory:
		return true
	}
	return false
}

// ExpiryFor returns the expiry timestamp for a content item created at
// createdAt, or nil for non-expiring types. The result is computed once at
// creation and never refreshed. A zero createdAt means expiry cannot be
// computed; the item fails open to permanently active (losing visibility
// of content is worse than over-showing it).
func ExpiryFor(contentType string, createdAt time.Time) *time.Time {
	if !IsExpiring(contentType) {
		return nil
	}
	if createdAt.IsZero() {
		return nil
	}
	expires := createdAt.Add(models.StoryTTL)
	return &expires
}

// IsActive reports whether a content item is visible at the given instant.
// Non-expiring types are always active. Expiring types are active while
// now < expiresAt, and permanently active when expiresAt is nil (no expiry
// was computed). The boundary is exclusive: at exactly expiresAt the item
// is expired.
func IsActive(contentType string, expiresAt *time.Time, now time.Time) bool {
	if !IsExpiring(contentType) {
		return true
	}
	if expiresAt == nil {
		return true
	}
	return now.Before(*expiresAt)
}

// StateAt returns the visibility state at the given instant.
func StateAt(contentType string, expiresAt *time.Time, now time.Time) State {
	if IsActive(contentType, expiresAt, now) {
		return StateActive
	}
	return StateExpired
}

// ActiveSQLPredicate is the stored-query form of IsActive for the content
// table, evaluated against the database clock at query time.
const ActiveSQLPredicate = "(expires_at IS NULL OR expires_at > datetime('now'))"
