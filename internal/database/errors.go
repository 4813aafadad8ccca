// Atlas NYC - Nightlife Venue Discovery and Real-Time Content
// Copyright 2026 Atlas NYC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/atlasnyc/atlas

package database

import "errors"

// Sentinel errors returned by data access methods.
var (
	// ErrNotFound indicates the requested row does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateHandle indicates a venue insert collided with the
	// unique instagram_handle constraint, the storage-level backstop
	// behind the best-effort dedup pre-filter.
	ErrDuplicateHandle = errors.New("venue with this instagram handle already exists")

	// ErrVenueRequired indicates content references a missing venue.
	ErrVenueRequired = errors.New("content requires an existing venue")
)
