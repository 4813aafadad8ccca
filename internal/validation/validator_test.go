// Atlas NYC - Nightlife Venue Discovery and Real-Time Content
// Copyright 2026 Atlas NYC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/atlasnyc/atlas

package validation

import (
	"strings"
	"testing"
)

type sampleRequest struct {
	Name      string  `validate:"required,min=2,max=10"`
	Kind      string  `validate:"omitempty,oneof=bar club lounge"`
	Latitude  float64 `validate:"omitempty,latitude"`
	Longitude float64 `validate:"omitempty,longitude"`
}

func TestValidateStruct_Pass(t *testing.T) {
	t.Parallel()

	req := sampleRequest{Name: "House", Kind: "bar", Latitude: 40.7, Longitude: -73.9}
	if err := ValidateStruct(&req); err != nil {
		t.Errorf("ValidateStruct() = %v, want nil", err)
	}
}

func TestValidateStruct_FieldErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		req       sampleRequest
		wantField string
		wantTag   string
		wantMsg   string
	}{
		{
			name:      "missing required",
			req:       sampleRequest{},
			wantField: "Name",
			wantTag:   "required",
			wantMsg:   "Name is required",
		},
		{
			name:      "below min length",
			req:       sampleRequest{Name: "x"},
			wantField: "Name",
			wantTag:   "min",
			wantMsg:   "Name must be at least 2",
		},
		{
			name:      "above max length",
			req:       sampleRequest{Name: "a very long venue name"},
			wantField: "Name",
			wantTag:   "max",
			wantMsg:   "Name must be at most 10",
		},
		{
			name:      "not in oneof set",
			req:       sampleRequest{Name: "House", Kind: "diner"},
			wantField: "Kind",
			wantTag:   "oneof",
			wantMsg:   "Kind must be one of: bar club lounge",
		},
		{
			name:      "latitude out of range",
			req:       sampleRequest{Name: "House", Latitude: 91},
			wantField: "Latitude",
			wantTag:   "latitude",
			wantMsg:   "Latitude must be a valid latitude",
		},
		{
			name:      "longitude out of range",
			req:       sampleRequest{Name: "House", Longitude: 181},
			wantField: "Longitude",
			wantTag:   "longitude",
			wantMsg:   "Longitude must be a valid longitude",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			verr := ValidateStruct(&tt.req)
			if verr == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			fes := verr.Errors()
			if len(fes) != 1 {
				t.Fatalf("Errors() returned %d failures, want 1: %v", len(fes), verr)
			}
			fe := fes[0]
			if fe.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", fe.Field, tt.wantField)
			}
			if fe.Tag != tt.wantTag {
				t.Errorf("Tag = %q, want %q", fe.Tag, tt.wantTag)
			}
			if fe.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", fe.Message, tt.wantMsg)
			}
		})
	}
}

func TestToAPIError_SingleField(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct(&sampleRequest{})
	if verr == nil {
		t.Fatal("ValidateStruct() = nil, want error")
	}

	apiErr := verr.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if apiErr.Message != "Name is required" {
		t.Errorf("Message = %q, want %q", apiErr.Message, "Name is required")
	}
	if apiErr.Details["field"] != "Name" {
		t.Errorf("Details[field] = %v, want Name", apiErr.Details["field"])
	}
	if apiErr.Details["tag"] != "required" {
		t.Errorf("Details[tag] = %v, want required", apiErr.Details["tag"])
	}
}

func TestToAPIError_MultipleFields(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct(&sampleRequest{Kind: "diner", Latitude: 91})
	if verr == nil {
		t.Fatal("ValidateStruct() = nil, want error")
	}
	if len(verr.Errors()) < 2 {
		t.Fatalf("Errors() = %v, want at least 2 failures", verr.Errors())
	}

	apiErr := verr.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if !strings.HasPrefix(apiErr.Message, "Validation failed for fields:") {
		t.Errorf("Message = %q, want aggregated field list", apiErr.Message)
	}
	fields, ok := apiErr.Details["fields"].([]string)
	if !ok {
		t.Fatalf("Details[fields] = %T, want []string", apiErr.Details["fields"])
	}
	if len(fields) != len(verr.Errors()) {
		t.Errorf("Details[fields] has %d entries, want %d", len(fields), len(verr.Errors()))
	}
}

func TestValidationError_Message(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct(&sampleRequest{Name: "x", Kind: "diner"})
	if verr == nil {
		t.Fatal("ValidateStruct() = nil, want error")
	}
	msg := verr.Error()
	if !strings.Contains(msg, "Name must be at least 2") || !strings.Contains(msg, "Kind must be one of") {
		t.Errorf("Error() = %q, missing joined field messages", msg)
	}
}
