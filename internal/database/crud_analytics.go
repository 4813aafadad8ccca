// Atlas NYC - Nightlife Venue Discovery and Real-Time Content
// Copyright 2026 Atlas NYC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/atlasnyc/atlas

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/atlasnyc/atlas/internal/logging"
	"github.com/atlasnyc/atlas/internal/metrics"
	"github.com/atlasnyc/atlas/internal/models"
)

// TrackEvent appends one analytics event. Events are append-only;
// aggregation happens at query time.
func (db *DB) TrackEvent(ctx context.Context, event *models.AnalyticsEvent) error {
	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO analytics_events (event_type, venue_id, content_id, user_session,
			ip_address, user_agent, referrer, properties, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.EventType, event.VenueID, event.ContentID, event.Session,
		event.IPAddress, event.UserAgent, event.Referrer, event.Properties,
		formatTime(ts))
	metrics.RecordDBQuery("insert", "analytics_events", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("track event: %w", err)
	}

	if event.VenueID != nil {
		db.rollupDailyStats(ctx, *event.VenueID, event.EventType, ts)
	}
	return nil
}

// rollupDailyStats maintains the daily_venue_stats aggregate for view
// events. Rollup failures are logged but never fail the tracked event;
// the raw event log stays authoritative.
func (db *DB) rollupDailyStats(ctx context.Context, venueID int64, eventType string, ts time.Time) {
	var views, contentViews int
	switch eventType {
	case models.EventVenueView:
		views = 1
	case models.EventContentView, models.EventStoryView:
		contentViews = 1
	default:
		return
	}

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO daily_venue_stats (venue_id, date, views, content_views)
		VALUES (?, date(?), ?, ?)
		ON CONFLICT(venue_id, date) DO UPDATE SET
			views = views + excluded.views,
			content_views = content_views + excluded.content_views`,
		venueID, formatTime(ts), views, contentViews)
	metrics.RecordDBQuery("upsert", "daily_venue_stats", time.Since(start), err)
	if err != nil {
		logging.Warn().Err(err).Int64("venue_id", venueID).Msg("Failed to roll up daily stats")
	}
}

// DailyVenueStats returns the per-day breakdown for one venue over the
// trailing window of days, oldest first.
func (db *DB) DailyVenueStats(ctx context.Context, venueID int64, days int) ([]models.DailyVenueStat, error) {
	if days <= 0 {
		days = 30
	}

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT date, views, content_views
		FROM daily_venue_stats
		WHERE venue_id = ? AND date >= date('now', ?)
		ORDER BY date`,
		venueID, fmt.Sprintf("-%d days", days))
	metrics.RecordDBQuery("select", "daily_venue_stats", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("daily venue stats %d: %w", venueID, err)
	}
	defer rows.Close()

	var stats []models.DailyVenueStat
	for rows.Next() {
		var s models.DailyVenueStat
		if err := rows.Scan(&s.Date, &s.Views, &s.ContentViews); err != nil {
			return nil, fmt.Errorf("scan daily venue stats: %w", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("daily venue stats rows: %w", err)
	}
	return stats, nil
}

// TrackSearch records one search query with its result count.
func (db *DB) TrackSearch(ctx context.Context, term, searchType string, resultsCount int) error {
	start := time.Now()
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO search_analytics (search_term, search_type, results_count, timestamp)
		VALUES (?, ?, ?, ?)`,
		term, searchType, resultsCount, formatTime(time.Now()))
	metrics.RecordDBQuery("insert", "search_analytics", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("track search: %w", err)
	}
	return nil
}

// VenueAnalytics aggregates interactions for one venue over the trailing
// window of days.
func (db *DB) VenueAnalytics(ctx context.Context, venueID int64, days int) (*models.VenueAnalytics, error) {
	if days <= 0 {
		days = 30
	}

	start := time.Now()
	row := db.conn.QueryRowContext(ctx, `
		SELECT
			COUNT(CASE WHEN event_type = ? THEN 1 END),
			COUNT(CASE WHEN event_type IN (?, ?) THEN 1 END),
			COUNT(DISTINCT user_session)
		FROM analytics_events
		WHERE venue_id = ? AND timestamp >= datetime('now', ?)`,
		models.EventVenueView, models.EventContentView, models.EventStoryView,
		venueID, fmt.Sprintf("-%d days", days))

	result := &models.VenueAnalytics{VenueID: venueID, Days: days}
	err := row.Scan(&result.Views, &result.ContentViews, &result.UniqueSessions)
	metrics.RecordDBQuery("select", "analytics_events", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("venue analytics %d: %w", venueID, err)
	}
	return result, nil
}

// GlobalAnalytics aggregates sitewide interactions over the trailing
// window of days.
func (db *DB) GlobalAnalytics(ctx context.Context, days int) (*models.GlobalAnalytics, error) {
	if days <= 0 {
		days = 30
	}

	start := time.Now()
	row := db.conn.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(CASE WHEN event_type = ? THEN 1 END),
			COUNT(CASE WHEN event_type IN (?, ?) THEN 1 END),
			COUNT(DISTINCT user_session)
		FROM analytics_events
		WHERE timestamp >= datetime('now', ?)`,
		models.EventVenueView, models.EventContentView, models.EventStoryView,
		fmt.Sprintf("-%d days", days))

	result := &models.GlobalAnalytics{Days: days}
	err := row.Scan(&result.TotalEvents, &result.VenueViews, &result.ContentViews, &result.UniqueSessions)
	metrics.RecordDBQuery("select", "analytics_events", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("global analytics: %w", err)
	}
	return result, nil
}
