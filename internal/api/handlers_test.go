// Atlas NYC - Nightlife Venue Discovery and Real-Time Content
// Copyright 2026 Atlas NYC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/atlasnyc/atlas

package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/atlasnyc/atlas/internal/config"
	"github.com/atlasnyc/atlas/internal/database"
	"github.com/atlasnyc/atlas/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:        "127.0.0.1",
			Port:        8000,
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Database: config.DatabaseConfig{Path: ":memory:", BusyTimeout: 5000},
		API:      config.APIConfig{DefaultPageSize: 20, MaxPageSize: 100},
		Import:   config.ImportConfig{QualityThreshold: 0.4},
		Security: config.SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: true,
		},
		Logging: config.LoggingConfig{Level: "disabled", Format: "json"},
	}
}

func testServer(t *testing.T) (http.Handler, *database.DB) {
	t.Helper()
	cfg := testConfig()
	db, err := database.New(&cfg.Database)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewRouter(cfg, db).Setup(), db
}

// doJSON issues a request with an optional JSON body and decodes the
// envelope.
func doJSON(t *testing.T, handler http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, *models.APIResponse) {
	t.Helper()

	var reqBody bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&reqBody).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &reqBody)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var envelope models.APIResponse
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("decode envelope from %s %s: %v (body %q)", method, path, err, rec.Body.String())
		}
	}
	return rec, &envelope
}

// dataAs re-marshals the loosely decoded envelope data into a concrete
// type.
func dataAs(t *testing.T, envelope *models.APIResponse, out interface{}) {
	t.Helper()
	raw, err := json.Marshal(envelope.Data)
	if err != nil {
		t.Fatalf("re-marshal data: %v", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

func venuePayload(name, handle string) map[string]interface{} {
	return map[string]interface{}{
		"name":             name,
		"neighborhood":     "Bushwick",
		"instagram_handle": handle,
		"address":          "Brooklyn, New York",
		"latitude":         40.7068,
		"longitude":        -73.9233,
		"category_tags":    []string{"nightclub"},
	}
}

func createVenue(t *testing.T, handler http.Handler, name, handle string) models.Venue {
	t.Helper()
	rec, envelope := doJSON(t, handler, http.MethodPost, "/api/v1/venues", venuePayload(name, handle))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create venue %s: status %d, body %s", name, rec.Code, rec.Body.String())
	}
	var v models.Venue
	dataAs(t, envelope, &v)
	return v
}

func TestVenueCreateAndGet(t *testing.T) {
	handler, _ := testServer(t)

	created := createVenue(t, handler, "House of Yes", "@houseofyes")
	if created.ID == 0 {
		t.Fatal("expected assigned venue ID")
	}
	if created.InstagramHandle != "houseofyes" {
		t.Errorf("handle = %q, want @ stripped", created.InstagramHandle)
	}
	// Empty venue_type gets classified.
	if created.VenueType == "" {
		t.Error("expected classified venue_type")
	}

	rec, envelope := doJSON(t, handler, http.MethodGet, fmt.Sprintf("/api/v1/venues/%d", created.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get venue: status %d", rec.Code)
	}
	if envelope.Status != "success" {
		t.Errorf("status = %q, want success", envelope.Status)
	}
	var got models.Venue
	dataAs(t, envelope, &got)
	if got.Name != "House of Yes" {
		t.Errorf("name = %q", got.Name)
	}
}

func TestVenueCreate_Validation(t *testing.T) {
	handler, _ := testServer(t)

	tests := []struct {
		name    string
		payload map[string]interface{}
	}{
		{"missing name", map[string]interface{}{"neighborhood": "Bushwick"}},
		{"missing neighborhood", map[string]interface{}{"name": "House of Yes"}},
		{"bad price range", map[string]interface{}{
			"name": "House of Yes", "neighborhood": "Bushwick", "price_range": "cheap",
		}},
		{"bad latitude", map[string]interface{}{
			"name": "House of Yes", "neighborhood": "Bushwick", "latitude": 91.0,
		}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			rec, envelope := doJSON(t, handler, http.MethodPost, "/api/v1/venues", tt.payload)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if envelope.Error == nil || envelope.Error.Code != "VALIDATION_ERROR" {
				t.Errorf("error = %+v, want VALIDATION_ERROR", envelope.Error)
			}
		})
	}
}

func TestVenueCreate_MalformedJSON(t *testing.T) {
	handler, _ := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/venues", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestVenueCreate_DuplicateHandle(t *testing.T) {
	handler, _ := testServer(t)

	createVenue(t, handler, "House of Yes", "houseofyes")
	rec, envelope := doJSON(t, handler, http.MethodPost, "/api/v1/venues", venuePayload("House of Yes II", "houseofyes"))
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
	if envelope.Error == nil || envelope.Error.Code != "CONFLICT" {
		t.Errorf("error = %+v, want CONFLICT", envelope.Error)
	}
}

func TestVenueList_Pagination(t *testing.T) {
	handler, _ := testServer(t)

	for i := 0; i < 5; i++ {
		createVenue(t, handler, fmt.Sprintf("Venue %02d", i), "")
	}

	rec, envelope := doJSON(t, handler, http.MethodGet, "/api/v1/venues?page=2&per_page=2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status %d", rec.Code)
	}
	var list VenueListResponse
	dataAs(t, envelope, &list)
	if list.Pagination.Total != 5 || list.Pagination.Pages != 3 {
		t.Errorf("pagination = %+v, want total 5 / pages 3", list.Pagination)
	}
	if len(list.Venues) != 2 {
		t.Errorf("page 2 has %d venues, want 2", len(list.Venues))
	}
}

func TestVenueGet_NotFound(t *testing.T) {
	handler, _ := testServer(t)

	rec, envelope := doJSON(t, handler, http.MethodGet, "/api/v1/venues/9999", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if envelope.Error == nil || envelope.Error.Code != "NOT_FOUND" {
		t.Errorf("error = %+v, want NOT_FOUND", envelope.Error)
	}

	rec, _ = doJSON(t, handler, http.MethodGet, "/api/v1/venues/abc", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("non-numeric id status = %d, want 400", rec.Code)
	}
}

func TestVenueUpdateAndDelete(t *testing.T) {
	handler, _ := testServer(t)

	created := createVenue(t, handler, "Good Room", "goodroom")

	payload := venuePayload("Good Room", "goodroom")
	payload["description"] = "Greenpoint dance spot"
	rec, envelope := doJSON(t, handler, http.MethodPut, fmt.Sprintf("/api/v1/venues/%d", created.ID), payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: status %d, body %s", rec.Code, rec.Body.String())
	}
	var updated models.Venue
	dataAs(t, envelope, &updated)
	if updated.Description != "Greenpoint dance spot" {
		t.Errorf("description = %q after update", updated.Description)
	}

	rec, _ = doJSON(t, handler, http.MethodDelete, fmt.Sprintf("/api/v1/venues/%d", created.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: status %d", rec.Code)
	}
	rec, _ = doJSON(t, handler, http.MethodGet, fmt.Sprintf("/api/v1/venues/%d", created.ID), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete: status %d, want 404", rec.Code)
	}
}

func TestContentLifecycle(t *testing.T) {
	handler, db := testServer(t)

	v := createVenue(t, handler, "Nowadays", "nowadays")

	rec, envelope := doJSON(t, handler, http.MethodPost, "/api/v1/content", map[string]interface{}{
		"venue_id":     v.ID,
		"content_type": "story",
		"caption":      "packed right now",
		"crowd_level":  "packed",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create story: status %d, body %s", rec.Code, rec.Body.String())
	}
	var story models.ContentItem
	dataAs(t, envelope, &story)
	if story.ExpiresAt == nil {
		t.Fatal("expected story expiry")
	}
	if got := story.ExpiresAt.Sub(story.CreatedAt); got != models.StoryTTL {
		t.Errorf("story TTL = %v, want %v", got, models.StoryTTL)
	}

	rec, envelope = doJSON(t, handler, http.MethodPost, "/api/v1/content", map[string]interface{}{
		"venue_id":     v.ID,
		"content_type": "post",
		"caption":      "new menu",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create post: status %d", rec.Code)
	}
	var post models.ContentItem
	dataAs(t, envelope, &post)
	if post.ExpiresAt != nil {
		t.Errorf("post expiry = %v, want none", post.ExpiresAt)
	}

	// Backdated story is already expired; write it through the storage
	// layer since created_at is not part of the API payload.
	stale := &models.ContentItem{
		VenueID:     v.ID,
		ContentType: models.ContentTypeStory,
		Caption:     "stale",
		CreatedAt:   time.Now().UTC().Add(-25 * time.Hour),
	}
	if _, err := db.InsertContent(context.Background(), stale); err != nil {
		t.Fatalf("insert stale story: %v", err)
	}

	rec, envelope = doJSON(t, handler, http.MethodGet, "/api/v1/content", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list content: status %d", rec.Code)
	}
	var listed ContentListResponse
	dataAs(t, envelope, &listed)
	if listed.Count != 2 {
		t.Errorf("active content count = %d, want 2 (stale filtered)", listed.Count)
	}

	rec, envelope = doJSON(t, handler, http.MethodGet, "/api/v1/content/stories", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list stories: status %d", rec.Code)
	}
	var stories ContentListResponse
	dataAs(t, envelope, &stories)
	if stories.Count != 1 || stories.Content[0].Caption != "packed right now" {
		t.Errorf("stories = %+v, want only the fresh story", stories)
	}

	// Expired content stays addressable by ID and reports its state.
	rec, envelope = doJSON(t, handler, http.MethodGet, fmt.Sprintf("/api/v1/content/%d", stale.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get expired content: status %d", rec.Code)
	}
	var withState struct {
		State string `json:"state"`
	}
	dataAs(t, envelope, &withState)
	if withState.State != "expired" {
		t.Errorf("state = %q, want expired", withState.State)
	}

	rec, _ = doJSON(t, handler, http.MethodDelete, fmt.Sprintf("/api/v1/content/%d", story.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete content: status %d", rec.Code)
	}
	rec, _ = doJSON(t, handler, http.MethodGet, fmt.Sprintf("/api/v1/content/%d", story.ID), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get deleted content: status %d, want 404", rec.Code)
	}
}

func TestContentCreate_MissingVenue(t *testing.T) {
	handler, _ := testServer(t)

	rec, envelope := doJSON(t, handler, http.MethodPost, "/api/v1/content", map[string]interface{}{
		"venue_id":     9999,
		"content_type": "story",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if envelope.Error == nil || envelope.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("error = %+v, want VALIDATION_ERROR", envelope.Error)
	}
}

func TestContentCreate_BadType(t *testing.T) {
	handler, _ := testServer(t)
	v := createVenue(t, handler, "Elsewhere", "elsewherespace")

	rec, _ := doJSON(t, handler, http.MethodPost, "/api/v1/content", map[string]interface{}{
		"venue_id":     v.ID,
		"content_type": "billboard",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestAnalyticsEndpoints(t *testing.T) {
	handler, _ := testServer(t)
	v := createVenue(t, handler, "House of Yes", "houseofyes")

	rec, _ := doJSON(t, handler, http.MethodPost, "/api/v1/analytics/events", map[string]interface{}{
		"event_type": "venue_view",
		"venue_id":   v.ID,
		"session":    "sess-a",
	})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("track event: status %d", rec.Code)
	}

	rec, _ = doJSON(t, handler, http.MethodPost, "/api/v1/analytics/search", map[string]interface{}{
		"search_term":   "rooftop",
		"results_count": 3,
	})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("track search: status %d", rec.Code)
	}

	rec, envelope := doJSON(t, handler, http.MethodGet, fmt.Sprintf("/api/v1/analytics/venues/%d", v.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("venue analytics: status %d", rec.Code)
	}
	var venueStats models.VenueAnalytics
	dataAs(t, envelope, &venueStats)
	if venueStats.Views != 1 {
		t.Errorf("venue views = %d, want 1", venueStats.Views)
	}

	rec, envelope = doJSON(t, handler, http.MethodGet, "/api/v1/analytics/summary", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("global analytics: status %d", rec.Code)
	}
	var global models.GlobalAnalytics
	dataAs(t, envelope, &global)
	if global.TotalEvents != 1 {
		t.Errorf("total events = %d, want 1", global.TotalEvents)
	}
}

func TestAnalyticsTrack_BadEventType(t *testing.T) {
	handler, _ := testServer(t)

	rec, _ := doJSON(t, handler, http.MethodPost, "/api/v1/analytics/events", map[string]interface{}{
		"event_type": "page_bounce",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestImportVenuesEndpoint(t *testing.T) {
	handler, _ := testServer(t)

	createVenue(t, handler, "House of Yes", "houseofyes")

	// One name-tier duplicate, one new venue, one below the quality
	// threshold.
	candidates := []map[string]interface{}{
		venuePayload("HOUSE OF YES", ""),
		venuePayload("Nowadays", "nowadays"),
		{"name": "Mystery Spot"},
	}
	rec, envelope := doJSON(t, handler, http.MethodPost, "/api/v1/import/venues", candidates)
	if rec.Code != http.StatusOK {
		t.Fatalf("import: status %d, body %s", rec.Code, rec.Body.String())
	}

	var stats struct {
		Processed  int `json:"processed"`
		Added      int `json:"added"`
		Duplicates int `json:"duplicates"`
		LowQuality int `json:"low_quality"`
	}
	dataAs(t, envelope, &stats)
	if stats.Processed != 3 || stats.Added != 1 || stats.Duplicates != 1 || stats.LowQuality != 1 {
		t.Errorf("stats = %+v, want 3 processed / 1 added / 1 duplicate / 1 low-quality", stats)
	}

	// The imported venue is visible through the normal listing.
	rec, envelope = doJSON(t, handler, http.MethodGet, "/api/v1/venues", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list after import: status %d", rec.Code)
	}
	var list VenueListResponse
	dataAs(t, envelope, &list)
	if list.Pagination.Total != 2 {
		t.Errorf("total after import = %d, want 2", list.Pagination.Total)
	}
}

func TestImportVenues_MalformedBody(t *testing.T) {
	handler, _ := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/import/venues", bytes.NewBufferString("{not an array"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	handler, _ := testServer(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("liveness: status %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("readiness: status %d", rec.Code)
	}

	rec2, envelope := doJSON(t, handler, http.MethodGet, "/api/v1/health", nil)
	if rec2.Code != http.StatusOK {
		t.Fatalf("health: status %d", rec2.Code)
	}
	var health struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	dataAs(t, envelope, &health)
	if health.Status != "healthy" || health.Checks["database"] != "ok" {
		t.Errorf("health = %+v", health)
	}
}

func TestRequestIDHeader(t *testing.T) {
	handler, _ := testServer(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/venues", nil))
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header on API responses")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	handler, _ := testServer(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("metrics: status %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("go_")) {
		t.Error("expected Prometheus exposition output")
	}
}
