// Atlas NYC - Nightlife Venue Discovery and Real-Time Content
// Copyright 2026 Atlas NYC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/atlasnyc/atlas

package database

import (
	"context"
	"fmt"
)

// Schema statements, executed in order on startup. CREATE IF NOT EXISTS
// keeps startup idempotent against existing databases.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS venues (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		neighborhood TEXT NOT NULL,
		instagram_handle TEXT,
		venue_type TEXT NOT NULL,
		address TEXT,
		description TEXT,
		busy_nights TEXT,
		price_range TEXT,
		photo TEXT,
		latitude REAL DEFAULT 0,
		longitude REAL DEFAULT 0,
		category_tags TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		is_active BOOLEAN DEFAULT TRUE
	)`,

	`CREATE TABLE IF NOT EXISTS content (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		venue_id INTEGER NOT NULL,
		content_type TEXT NOT NULL,
		caption TEXT,
		media_url TEXT,
		crowd_level TEXT,
		urgency TEXT,
		latitude REAL DEFAULT 0,
		longitude REAL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		expires_at TIMESTAMP,
		is_active BOOLEAN DEFAULT TRUE,
		FOREIGN KEY (venue_id) REFERENCES venues (id)
	)`,

	`CREATE TABLE IF NOT EXISTS analytics_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_type TEXT NOT NULL,
		venue_id INTEGER,
		content_id INTEGER,
		user_session TEXT,
		ip_address TEXT,
		user_agent TEXT,
		referrer TEXT,
		properties TEXT,
		timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (venue_id) REFERENCES venues (id),
		FOREIGN KEY (content_id) REFERENCES content (id)
	)`,

	`CREATE TABLE IF NOT EXISTS daily_venue_stats (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		venue_id INTEGER NOT NULL,
		date DATE NOT NULL,
		views INTEGER DEFAULT 0,
		content_views INTEGER DEFAULT 0,
		UNIQUE(venue_id, date),
		FOREIGN KEY (venue_id) REFERENCES venues (id)
	)`,

	`CREATE TABLE IF NOT EXISTS search_analytics (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		search_term TEXT NOT NULL,
		search_type TEXT,
		results_count INTEGER DEFAULT 0,
		timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,

	// Unique handle is the storage-level dedup backstop: the in-process
	// dedup engine is a best-effort pre-filter only (multi-process
	// importers can race past it).
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_venues_instagram_handle
		ON venues(instagram_handle) WHERE instagram_handle IS NOT NULL AND instagram_handle != ''`,

	`CREATE INDEX IF NOT EXISTS idx_venues_neighborhood ON venues(neighborhood)`,
	`CREATE INDEX IF NOT EXISTS idx_venues_type ON venues(venue_type)`,
	`CREATE INDEX IF NOT EXISTS idx_content_venue ON content(venue_id)`,
	`CREATE INDEX IF NOT EXISTS idx_content_expires ON content(expires_at)`,
	`CREATE INDEX IF NOT EXISTS idx_content_type ON content(content_type)`,
	`CREATE INDEX IF NOT EXISTS idx_analytics_events_type ON analytics_events(event_type)`,
	`CREATE INDEX IF NOT EXISTS idx_analytics_events_venue ON analytics_events(venue_id)`,
	`CREATE INDEX IF NOT EXISTS idx_analytics_events_time ON analytics_events(timestamp)`,
	`CREATE INDEX IF NOT EXISTS idx_daily_venue_stats_date ON daily_venue_stats(date)`,
}

// initSchema creates tables and indexes if they do not exist.
func (db *DB) initSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	return nil
}
