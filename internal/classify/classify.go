// Atlas NYC - Nightlife Venue Discovery and Real-Time Content
// Copyright 2026 Atlas NYC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/atlasnyc/atlas

// Package classify assigns venue types and quality scores to candidate
// venue records using rule-based keyword matching over the venue name and
// category tags.
package classify

import (
	"strings"

	"github.com/atlasnyc/atlas/internal/models"
)

// DefaultVenueType is assigned when no keyword rule scores above the
// confidence floor.
const DefaultVenueType = "venue"

// minConfidence is the floor below which classification falls back to
// DefaultVenueType.
const minConfidence = 0.3

// typeKeywords maps each venue type to the keywords that vote for it.
// A keyword hit in the name scores 0.3; a hit in any category tag 0.4.
var typeKeywords = map[string][]string{
	"dive_bar":              {"bar", "pub", "tavern", "saloon"},
	"dance_club":            {"club", "nightclub", "disco", "dance"},
	"cocktail_lounge":       {"lounge", "cocktail", "speakeasy"},
	"rooftop":               {"rooftop", "roof", "sky"},
	"cultural_organization": {"museum", "gallery", "theater", "theatre", "cultural"},
	"music_venue":           {"music", "concert", "venue", "hall", "stage"},
}

// VenueType classifies a venue by scoring keyword hits in its name and
// category tags, returning the best type and a confidence capped at 1.0.
// Ties resolve deterministically by lexicographic type name so repeated
// imports classify identically.
func VenueType(v models.Venue) (string, float64) {
	nameLower := strings.ToLower(v.Name)
	categories := make([]string, 0, len(v.CategoryTags))
	for _, tag := range v.CategoryTags {
		categories = append(categories, strings.ToLower(tag))
	}

	bestType := ""
	bestScore := 0.0
	for venueType, keywords := range typeKeywords {
		score := 0.0
		for _, keyword := range keywords {
			if strings.Contains(nameLower, keyword) {
				score += 0.3
			}
			for _, cat := range categories {
				if strings.Contains(cat, keyword) {
					score += 0.4
					break
				}
			}
		}
		if score > bestScore || (score == bestScore && score > 0 && venueType < bestType) {
			bestType = venueType
			bestScore = score
		}
	}

	confidence := bestScore
	if confidence > 1.0 {
		confidence = 1.0
	}
	if confidence > minConfidence {
		return bestType, confidence
	}

	return DefaultVenueType, 0.5
}

// QualityScore rates how complete and plausible a candidate venue record
// is, in [0,1]. Coordinates only score when they fall inside the
// NYC-plausible bounding box; the box gates scoring, not admission.
func QualityScore(v models.Venue) float64 {
	score := 0.0

	if len(strings.TrimSpace(v.Name)) > 2 {
		score += 0.2
	}
	if strings.Contains(strings.ToLower(v.Address), "new york") {
		score += 0.2
	}
	if v.HasCoordinates() && v.InNYCBounds() {
		score += 0.3
	}
	if v.InstagramHandle != "" {
		score += 0.15
	}
	if v.Description != "" {
		score += 0.1
	}
	if len(v.CategoryTags) > 0 {
		score += 0.05
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}
