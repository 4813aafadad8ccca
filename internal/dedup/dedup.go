// Atlas NYC - Nightlife Venue Discovery and Real-Time Content
// Copyright 2026 Atlas NYC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/atlasnyc/atlas

// Package dedup implements duplicate detection for venue records arriving
// from multiple import sources (CSV-style scripts, geocoding imports, and
// external discovery feeds).
//
// Matching runs in two tiers, evaluated in strict precedence order with no
// score blending:
//
//  1. Normalized-name exact match: articles removed, punctuation stripped,
//     whitespace collapsed, lowercased. Catches re-imports of the same venue
//     under different capitalization or punctuation.
//  2. Geographic + fuzzy-name match: haversine distance under 100 meters AND
//     Jaccard token similarity of the normalized names at or above 0.8.
//     Catches rebrands and abbreviations verifiably at the same location.
//
// Both tiers are pure functions over in-memory data. The engine never
// queries or writes storage; callers supply the full existing-venue set.
// The storage-level unique constraint on instagram_handle remains the
// actual correctness backstop against concurrent importers.
package dedup

import (
	"math"
	"regexp"
	"strings"

	"github.com/atlasnyc/atlas/internal/models"
)

const (
	// earthRadiusKm is the Earth radius used for haversine distances.
	earthRadiusKm = 6371.0

	// proximityThresholdKm is the tier-2 distance cutoff (100 meters).
	// Deliberately tight to avoid merging distinct venues that share a
	// building or plaza.
	proximityThresholdKm = 0.1

	// similarityThreshold is the tier-2 minimum Jaccard token similarity.
	similarityThreshold = 0.8
)

var (
	articleRe    = regexp.MustCompile(`(?i)\b(the|a|an)\b`)
	nonWordRe    = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// NormalizeName returns the canonical comparison form of a venue name:
// English articles removed as whole words, characters outside
// letters/digits/whitespace stripped, whitespace runs collapsed, trimmed,
// lowercased. The result is idempotent under repeated normalization.
func NormalizeName(name string) string {
	name = articleRe.ReplaceAllString(name, "")
	name = nonWordRe.ReplaceAllString(name, "")
	name = whitespaceRe.ReplaceAllString(name, " ")
	return strings.ToLower(strings.TrimSpace(name))
}

// HaversineKm returns the great-circle distance in kilometers between two
// latitude/longitude points.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// NameSimilarity returns the Jaccard similarity of the whitespace-split
// token sets of the two normalized names. Both sets empty yields 1.0;
// exactly one empty yields 0.0.
func NameSimilarity(name1, name2 string) float64 {
	set1 := tokenSet(NormalizeName(name1))
	set2 := tokenSet(NormalizeName(name2))

	if len(set1) == 0 && len(set2) == 0 {
		return 1.0
	}
	if len(set1) == 0 || len(set2) == 0 {
		return 0.0
	}

	intersection := 0
	for tok := range set1 {
		if _, ok := set2[tok]; ok {
			intersection++
		}
	}
	union := len(set1) + len(set2) - intersection

	return float64(intersection) / float64(union)
}

func tokenSet(normalized string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(normalized) {
		set[tok] = struct{}{}
	}
	return set
}

// Engine checks venue candidates against a fixed set of existing venues.
// Normalized names of the existing set are indexed once at construction so
// tier-1 lookups are O(1) per candidate.
type Engine struct {
	existing []models.Venue
	byName   map[string]*models.Venue
}

// NewEngine builds an engine over the caller-supplied existing venue set.
// The engine keeps references into the slice; callers must not mutate it
// while the engine is in use.
func NewEngine(existing []models.Venue) *Engine {
	byName := make(map[string]*models.Venue, len(existing))
	for i := range existing {
		// First occurrence wins on normalized-name collisions within the
		// existing set itself.
		key := NormalizeName(existing[i].Name)
		if _, ok := byName[key]; !ok {
			byName[key] = &existing[i]
		}
	}
	return &Engine{existing: existing, byName: byName}
}

// IsDuplicate reports whether the candidate duplicates an existing venue,
// returning the matched record when it does. Tier 1 (normalized-name
// equality) is checked first; tier 2 (proximity + similarity) only runs if
// tier 1 misses. Candidates and existing records carrying the (0,0)
// missing-coordinate sentinel effectively cannot match at tier 2, which is
// accepted: ungeocode records rely on tier 1 alone.
func (e *Engine) IsDuplicate(candidate models.Venue) (bool, *models.Venue) {
	if match, ok := e.byName[NormalizeName(candidate.Name)]; ok {
		return true, match
	}

	for i := range e.existing {
		existing := &e.existing[i]
		dist := HaversineKm(candidate.Latitude, candidate.Longitude, existing.Latitude, existing.Longitude)
		// NaN distances (malformed coordinates) must not fire tier 2.
		if math.IsNaN(dist) || dist >= proximityThresholdKm {
			continue
		}
		if NameSimilarity(candidate.Name, existing.Name) >= similarityThreshold {
			return true, existing
		}
	}

	return false, nil
}
