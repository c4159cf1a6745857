package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hyperengineering/mindful/internal/archive"
	"github.com/hyperengineering/mindful/internal/journal"
	"github.com/hyperengineering/mindful/internal/persist"
	"github.com/hyperengineering/mindful/internal/validation"
)

func TestWriteProblem_BodyFormat(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/entries/2024-01-01", nil)

	WriteProblem(w, r, http.StatusNotFound, "No entry for 2024-01-01")

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("Content-Type = %v, want application/problem+json", ct)
	}

	var p Problem
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if p.Type != "https://mindful.dev/errors/not-found" {
		t.Errorf("type = %v", p.Type)
	}
	if p.Title != "Not Found" || p.Status != 404 {
		t.Errorf("title/status = %v/%v", p.Title, p.Status)
	}
	if p.Instance != "/api/v1/entries/2024-01-01" {
		t.Errorf("instance = %v", p.Instance)
	}
}

func TestWriteProblem_UnknownStatus(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	WriteProblem(w, r, http.StatusTeapot, "short and stout")

	var p Problem
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatal(err)
	}
	if p.Type != "https://mindful.dev/errors/unknown" || p.Title != "I'm a teapot" {
		t.Errorf("problem = %+v", p)
	}
}

func TestWriteProblemWithErrors_422(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPut, "/api/v1/goals", nil)

	errs := []validation.ValidationError{
		{Field: "sleep_goal", Message: "must be valid UTF-8"},
	}
	WriteProblemWithErrors(w, r, "Goals contain invalid fields", errs)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", w.Code)
	}

	var decoded map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["type"] != "https://mindful.dev/errors/validation-error" {
		t.Errorf("type = %v", decoded["type"])
	}
	list, ok := decoded["errors"].([]any)
	if !ok || len(list) != 1 {
		t.Fatalf("errors = %v", decoded["errors"])
	}
	if field := list[0].(map[string]any)["field"]; field != "sleep_goal" {
		t.Errorf("field = %v", field)
	}
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid date", fmt.Errorf("%w: %q", journal.ErrInvalidDate, "x"), http.StatusBadRequest},
		{"unknown section", journal.ErrUnknownSection, http.StatusNotFound},
		{"snapshot not found", archive.ErrNotFound, http.StatusNotFound},
		{"corrupt journal", &persist.CorruptDataError{Path: "j.json", Err: fmt.Errorf("bad")}, http.StatusServiceUnavailable},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			MapError(w, r, tt.err)
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
		})
	}
}
