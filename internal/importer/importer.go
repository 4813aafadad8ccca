// Atlas NYC - Nightlife Venue Discovery and Real-Time Content
// Copyright 2026 Atlas NYC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/atlasnyc/atlas

// Package importer implements the bulk venue import pipeline used by
// admin imports and discovery feeds. Candidates run sequentially through
// classification, quality scoring, and the dedup engine before insertion;
// one candidate at a time, so no check-then-insert race exists within a
// single process. The unique instagram_handle index remains the backstop
// against concurrent importers.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/atlasnyc/atlas/internal/classify"
	"github.com/atlasnyc/atlas/internal/config"
	"github.com/atlasnyc/atlas/internal/database"
	"github.com/atlasnyc/atlas/internal/dedup"
	"github.com/atlasnyc/atlas/internal/logging"
	"github.com/atlasnyc/atlas/internal/metrics"
	"github.com/atlasnyc/atlas/internal/models"
)

// ErrImportRunning is returned when an import is started while another
// run on the same importer has not finished.
var ErrImportRunning = errors.New("import already in progress")

// ErrDecode is returned when the candidate payload is not valid JSON.
var ErrDecode = errors.New("decode candidates")

// Store is the storage surface the importer needs.
type Store interface {
	AllVenues(ctx context.Context) ([]models.Venue, error)
	InsertVenue(ctx context.Context, v *models.Venue) (int64, error)
}

// Stats summarizes one import run.
type Stats struct {
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	Processed  int       `json:"processed"`
	Added      int       `json:"added"`
	Duplicates int       `json:"duplicates"`
	LowQuality int       `json:"low_quality"`
	Errors     int       `json:"errors"`
	DryRun     bool      `json:"dry_run"`
}

// Importer runs bulk venue imports against a storage handle.
type Importer struct {
	cfg   *config.ImportConfig
	store Store

	mu      sync.Mutex
	running bool
}

// New creates an importer.
func New(cfg *config.ImportConfig, store Store) *Importer {
	return &Importer{cfg: cfg, store: store}
}

// ImportJSON decodes a JSON array of venue candidates from r and imports
// them. Only one import may run at a time per importer.
func (imp *Importer) ImportJSON(ctx context.Context, r io.Reader) (*Stats, error) {
	var candidates []models.Venue
	if err := json.NewDecoder(r).Decode(&candidates); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return imp.Import(ctx, candidates)
}

// Import evaluates candidates in order and inserts non-duplicates that
// clear the quality threshold. The existing-venue set is fetched once up
// front; accepted candidates join it so later candidates in the same
// batch dedup against them too.
func (imp *Importer) Import(ctx context.Context, candidates []models.Venue) (*Stats, error) {
	imp.mu.Lock()
	if imp.running {
		imp.mu.Unlock()
		return nil, ErrImportRunning
	}
	imp.running = true
	imp.mu.Unlock()

	defer func() {
		imp.mu.Lock()
		imp.running = false
		imp.mu.Unlock()
	}()

	stats := &Stats{StartTime: time.Now(), DryRun: imp.cfg.DryRun}

	existing, err := imp.store.AllVenues(ctx)
	if err != nil {
		return stats, fmt.Errorf("load existing venues: %w", err)
	}
	engine := dedup.NewEngine(existing)

	logging.Info().
		Int("candidates", len(candidates)).
		Int("existing", len(existing)).
		Bool("dry_run", imp.cfg.DryRun).
		Msg("Starting venue import")

	for i := range candidates {
		if err := ctx.Err(); err != nil {
			stats.EndTime = time.Now()
			return stats, err
		}

		candidate := candidates[i]
		stats.Processed++
		metrics.ImportCandidatesProcessed.Inc()

		if isDup, match := engine.IsDuplicate(candidate); isDup {
			stats.Duplicates++
			tier := "proximity"
			if dedup.NormalizeName(candidate.Name) == dedup.NormalizeName(match.Name) {
				tier = "name"
			}
			metrics.ImportDuplicatesSkipped.WithLabelValues(tier).Inc()
			logging.Debug().
				Str("candidate", candidate.Name).
				Str("matched", match.Name).
				Str("tier", tier).
				Msg("Skipping duplicate venue")
			continue
		}

		if candidate.VenueType == "" {
			venueType, confidence := classify.VenueType(candidate)
			candidate.VenueType = venueType
			logging.Debug().
				Str("venue", candidate.Name).
				Str("venue_type", venueType).
				Float64("confidence", confidence).
				Msg("Classified venue")
		}

		if score := classify.QualityScore(candidate); score < imp.cfg.QualityThreshold {
			stats.LowQuality++
			logging.Debug().
				Str("venue", candidate.Name).
				Float64("score", score).
				Msg("Skipping low-quality candidate")
			continue
		}

		if !imp.cfg.DryRun {
			if _, err := imp.store.InsertVenue(ctx, &candidate); err != nil {
				if errors.Is(err, database.ErrDuplicateHandle) {
					// Lost a race against another importer; the unique
					// index did its job.
					stats.Duplicates++
					continue
				}
				stats.Errors++
				logging.Warn().Err(err).Str("venue", candidate.Name).Msg("Failed to insert venue")
				continue
			}
			metrics.ImportVenuesAdded.Inc()
		}
		stats.Added++

		// Later candidates in this batch must dedup against this one.
		existing = append(existing, candidate)
		engine = dedup.NewEngine(existing)
	}

	stats.EndTime = time.Now()
	logging.Info().
		Int("processed", stats.Processed).
		Int("added", stats.Added).
		Int("duplicates", stats.Duplicates).
		Int("low_quality", stats.LowQuality).
		Int("errors", stats.Errors).
		Dur("duration", stats.EndTime.Sub(stats.StartTime)).
		Msg("Venue import complete")

	return stats, nil
}
