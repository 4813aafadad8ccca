// Atlas NYC - Nightlife Venue Discovery and Real-Time Content
// Copyright 2026 Atlas NYC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/atlasnyc/atlas

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/atlasnyc/atlas/internal/content"
	"github.com/atlasnyc/atlas/internal/metrics"
	"github.com/atlasnyc/atlas/internal/models"
)

// ContentFilter narrows active-content queries.
type ContentFilter struct {
	VenueID     int64
	ContentType string
	Limit       int
}

const contentSelect = `
	SELECT c.id, c.venue_id, c.content_type, COALESCE(c.caption, ''),
		COALESCE(c.media_url, ''), COALESCE(c.crowd_level, ''), COALESCE(c.urgency, ''),
		COALESCE(c.latitude, 0), COALESCE(c.longitude, 0),
		COALESCE(c.created_at, ''), c.expires_at, c.is_active,
		v.name, v.neighborhood
	FROM content c
	JOIN venues v ON v.id = c.venue_id`

// InsertContent inserts a content item. CreatedAt is fixed at insertion;
// for expiring content types ExpiresAt is computed once here as
// CreatedAt + StoryTTL and never recomputed. Returns the assigned ID.
func (db *DB) InsertContent(ctx context.Context, item *models.ContentItem) (int64, error) {
	// Venue must exist and be active; SQLite foreign keys alone would
	// accept soft-deleted venues.
	if _, err := db.GetVenue(ctx, item.VenueID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, ErrVenueRequired
		}
		return 0, err
	}

	createdAt := item.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	var expiresAt interface{}
	if exp := content.ExpiryFor(item.ContentType, createdAt); exp != nil {
		expiresAt = formatTime(*exp)
		item.ExpiresAt = exp
	}

	start := time.Now()
	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO content (venue_id, content_type, caption, media_url, crowd_level,
			urgency, latitude, longitude, created_at, expires_at, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, TRUE)`,
		item.VenueID, item.ContentType, item.Caption, item.MediaURL, item.CrowdLevel,
		item.Urgency, item.Latitude, item.Longitude, formatTime(createdAt), expiresAt)
	metrics.RecordDBQuery("insert", "content", time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("insert content: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert content id: %w", err)
	}

	item.ID = id
	item.CreatedAt = createdAt
	metrics.ContentCreated.WithLabelValues(item.ContentType).Inc()
	return id, nil
}

// ListActiveContent returns content visible right now, newest first. The
// expiry check runs against the database's own clock so every API
// instance filters identically.
func (db *DB) ListActiveContent(ctx context.Context, filter ContentFilter) ([]models.ContentItem, error) {
	query := contentSelect + `
	WHERE c.is_active AND v.is_active
	AND ` + content.ActiveSQLPredicate
	args := []interface{}{}

	if filter.VenueID > 0 {
		query += " AND c.venue_id = ?"
		args = append(args, filter.VenueID)
	}
	if filter.ContentType != "" {
		query += " AND c.content_type = ?"
		args = append(args, filter.ContentType)
	}

	query += " ORDER BY c.created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	return db.queryContent(ctx, query, args...)
}

// ListActiveStories returns unexpired stories, newest first. Stories are
// the only expiring content type, so the DB-clock comparison is the whole
// filter.
func (db *DB) ListActiveStories(ctx context.Context, limit int) ([]models.ContentItem, error) {
	query := contentSelect + `
	WHERE c.is_active AND v.is_active
	AND c.content_type IN (?, ?)
	AND c.expires_at > datetime('now')
	ORDER BY c.created_at DESC`
	args := []interface{}{models.ContentTypeStory, models.ContentTypeInstagramStory}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return db.queryContent(ctx, query, args...)
}

// GetContent returns one content item by ID regardless of expiry. Expired
// rows persist and stay addressable; only "active" listings filter them.
func (db *DB) GetContent(ctx context.Context, id int64) (*models.ContentItem, error) {
	start := time.Now()
	row := db.conn.QueryRowContext(ctx, contentSelect+" WHERE c.id = ? AND c.is_active", id)
	item, err := scanContent(row)
	metrics.RecordDBQuery("select", "content", time.Since(start), err)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get content %d: %w", id, err)
	}
	return item, nil
}

// DeleteContent soft-deletes a content item.
func (db *DB) DeleteContent(ctx context.Context, id int64) error {
	start := time.Now()
	res, err := db.conn.ExecContext(ctx,
		`UPDATE content SET is_active = FALSE WHERE id = ? AND is_active`, id)
	metrics.RecordDBQuery("update", "content", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("delete content %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete content %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) queryContent(ctx context.Context, query string, args ...interface{}) ([]models.ContentItem, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery("select", "content", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("query content: %w", err)
	}
	defer rows.Close()

	var items []models.ContentItem
	for rows.Next() {
		item, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan content: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate content: %w", err)
	}
	return items, nil
}

func scanContent(s scanner) (*models.ContentItem, error) {
	var item models.ContentItem
	var createdAt string
	var expiresAt sql.NullString
	err := s.Scan(&item.ID, &item.VenueID, &item.ContentType, &item.Caption,
		&item.MediaURL, &item.CrowdLevel, &item.Urgency,
		&item.Latitude, &item.Longitude, &createdAt, &expiresAt, &item.IsActive,
		&item.VenueName, &item.VenueNeighborhood)
	if err != nil {
		return nil, err
	}
	item.CreatedAt = parseTime(createdAt)
	if expiresAt.Valid {
		if t := parseTime(expiresAt.String); !t.IsZero() {
			item.ExpiresAt = &t
		}
	}
	return &item, nil
}
