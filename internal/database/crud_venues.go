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
	"strings"
	"time"

	"github.com/atlasnyc/atlas/internal/metrics"
	"github.com/atlasnyc/atlas/internal/models"
)

// VenueFilter narrows venue list queries. Zero values mean "no filter".
type VenueFilter struct {
	Neighborhood string
	VenueType    string
	Limit        int
	Offset       int
}

const venueColumns = `id, name, neighborhood, COALESCE(instagram_handle, ''), venue_type,
	COALESCE(address, ''), COALESCE(description, ''), COALESCE(busy_nights, ''),
	COALESCE(price_range, ''), COALESCE(photo, ''), COALESCE(latitude, 0),
	COALESCE(longitude, 0), COALESCE(category_tags, ''), COALESCE(created_at, ''),
	COALESCE(updated_at, ''), is_active`

// InsertVenue inserts a venue and returns its assigned ID. A collision on
// the unique instagram_handle index returns ErrDuplicateHandle.
func (db *DB) InsertVenue(ctx context.Context, v *models.Venue) (int64, error) {
	start := time.Now()

	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO venues (name, neighborhood, instagram_handle, venue_type, address,
			description, busy_nights, price_range, photo, latitude, longitude,
			category_tags, created_at, updated_at, is_active)
		VALUES (?, ?, NULLIF(?, ''), ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, TRUE)`,
		v.Name, v.Neighborhood, v.InstagramHandle, v.VenueType, v.Address,
		v.Description, v.BusyNights, v.PriceRange, v.Photo, v.Latitude, v.Longitude,
		strings.Join(v.CategoryTags, ","), formatTime(time.Now()), formatTime(time.Now()))
	metrics.RecordDBQuery("insert", "venues", time.Since(start), err)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return 0, ErrDuplicateHandle
		}
		return 0, fmt.Errorf("insert venue: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert venue id: %w", err)
	}
	return id, nil
}

// GetVenue returns one active venue by ID.
func (db *DB) GetVenue(ctx context.Context, id int64) (*models.Venue, error) {
	start := time.Now()
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+venueColumns+` FROM venues WHERE id = ? AND is_active`, id)
	v, err := scanVenue(row)
	metrics.RecordDBQuery("select", "venues", time.Since(start), err)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get venue %d: %w", id, err)
	}
	return v, nil
}

// ListVenues returns active venues matching the filter, newest first, plus
// the total count before pagination.
func (db *DB) ListVenues(ctx context.Context, filter VenueFilter) ([]models.Venue, int, error) {
	where := "WHERE is_active"
	args := []interface{}{}
	if filter.Neighborhood != "" {
		where += " AND LOWER(neighborhood) = LOWER(?)"
		args = append(args, filter.Neighborhood)
	}
	if filter.VenueType != "" {
		where += " AND venue_type = ?"
		args = append(args, filter.VenueType)
	}

	var total int
	start := time.Now()
	err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM venues "+where, args...).Scan(&total)
	metrics.RecordDBQuery("count", "venues", time.Since(start), err)
	if err != nil {
		return nil, 0, fmt.Errorf("count venues: %w", err)
	}

	query := `SELECT ` + venueColumns + ` FROM venues ` + where + ` ORDER BY name`
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	start = time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery("select", "venues", time.Since(start), err)
	if err != nil {
		return nil, 0, fmt.Errorf("list venues: %w", err)
	}
	defer rows.Close()

	var venues []models.Venue
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan venue: %w", err)
		}
		venues = append(venues, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate venues: %w", err)
	}
	return venues, total, nil
}

// AllVenues returns every active venue without pagination. Used by the
// import pipeline to build the dedup engine's existing set.
func (db *DB) AllVenues(ctx context.Context) ([]models.Venue, error) {
	venues, _, err := db.ListVenues(ctx, VenueFilter{})
	return venues, err
}

// UpdateVenue updates mutable venue fields and bumps updated_at.
func (db *DB) UpdateVenue(ctx context.Context, v *models.Venue) error {
	start := time.Now()
	res, err := db.conn.ExecContext(ctx, `
		UPDATE venues SET name = ?, neighborhood = ?, instagram_handle = NULLIF(?, ''),
			venue_type = ?, address = ?, description = ?, busy_nights = ?,
			price_range = ?, photo = ?, latitude = ?, longitude = ?,
			category_tags = ?, updated_at = ?
		WHERE id = ? AND is_active`,
		v.Name, v.Neighborhood, v.InstagramHandle, v.VenueType, v.Address,
		v.Description, v.BusyNights, v.PriceRange, v.Photo, v.Latitude, v.Longitude,
		strings.Join(v.CategoryTags, ","), formatTime(time.Now()), v.ID)
	metrics.RecordDBQuery("update", "venues", time.Since(start), err)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrDuplicateHandle
		}
		return fmt.Errorf("update venue %d: %w", v.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update venue %d: %w", v.ID, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteVenue soft-deletes a venue. The row persists for audit and
// analytics joins.
func (db *DB) DeleteVenue(ctx context.Context, id int64) error {
	start := time.Now()
	res, err := db.conn.ExecContext(ctx,
		`UPDATE venues SET is_active = FALSE, updated_at = ? WHERE id = ? AND is_active`,
		formatTime(time.Now()), id)
	metrics.RecordDBQuery("update", "venues", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("delete venue %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete venue %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for shared scanning.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanVenue(s scanner) (*models.Venue, error) {
	var v models.Venue
	var tags, createdAt, updatedAt string
	err := s.Scan(&v.ID, &v.Name, &v.Neighborhood, &v.InstagramHandle, &v.VenueType,
		&v.Address, &v.Description, &v.BusyNights, &v.PriceRange, &v.Photo,
		&v.Latitude, &v.Longitude, &tags, &createdAt, &updatedAt, &v.IsActive)
	if err != nil {
		return nil, err
	}
	if tags != "" {
		v.CategoryTags = strings.Split(tags, ",")
	}
	v.CreatedAt = parseTime(createdAt)
	v.UpdatedAt = parseTime(updatedAt)
	return &v, nil
}
