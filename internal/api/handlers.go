package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hyperengineering/mindful/internal/journal"
	"github.com/hyperengineering/mindful/internal/report"
	"github.com/hyperengineering/mindful/internal/rollup"
	"github.com/hyperengineering/mindful/internal/validation"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Saver persists the journal document.
type Saver interface {
	Save(doc *journal.Document) error
}

// Handler implements the API handlers. One mutex serializes all access to
// the store; every mutation is saved before the response is written and
// rolled back in memory when the save fails.
type Handler struct {
	mu      sync.Mutex
	store   *journal.Store
	saver   Saver
	metrics *Metrics
	now     func() time.Time
	version string
}

// NewHandler creates a Handler over s. m may be nil.
func NewHandler(s *journal.Store, saver Saver, m *Metrics, version string) *Handler {
	h := &Handler{
		store:   s,
		saver:   saver,
		metrics: m,
		now:     time.Now,
		version: version,
	}
	if m != nil {
		m.SetEntries(s.Len())
	}
	return h
}

// Persist saves the journal. The server calls it once more on shutdown.
func (h *Handler) Persist() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.persistLocked()
}

// Snapshot returns a copy of the journal that is safe to read while
// requests keep mutating the store.
func (h *Handler) Snapshot() *journal.Document {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.store.Document().Clone()
}

func (h *Handler) persistLocked() error {
	err := h.saver.Save(h.store.Document())
	if h.metrics != nil {
		h.metrics.ObserveSave(err)
		h.metrics.SetEntries(h.store.Len())
	}
	if err != nil {
		slog.Error("journal save failed", "component", "api", "error", err)
		return fmt.Errorf("save journal: %w", err)
	}
	return nil
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status     string `json:"status"`
	Version    string `json:"version"`
	EntryCount int    `json:"entry_count"`
	GoalsSet   bool   `json:"goals_set"`
}

// EntryResponse is one dated entry.
type EntryResponse struct {
	Date  string           `json:"date"`
	Entry journal.DayEntry `json:"entry"`
}

// EntriesResponse is returned by GET /entries.
type EntriesResponse struct {
	Entries []EntryResponse `json:"entries"`
	Count   int             `json:"count"`
}

// GoalsResponse is returned by the goals endpoints.
type GoalsResponse struct {
	Goals journal.GoalSet `json:"goals"`
}

// Health handles GET /api/v1/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	_, hasGoals := h.store.Goals()
	resp := HealthResponse{
		Status:     "healthy",
		Version:    h.version,
		EntryCount: h.store.Len(),
		GoalsSet:   hasGoals,
	}
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

// ListEntries handles GET /api/v1/entries?from&to&order
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	order := journal.Ascending
	switch q.Get("order") {
	case "", "asc":
	case "desc":
		order = journal.Descending
	default:
		WriteProblem(w, r, http.StatusBadRequest, "order must be asc or desc")
		return
	}

	from, to := q.Get("from"), q.Get("to")
	var start, end time.Time
	if from != "" || to != "" {
		var err error
		if start, err = parseOptionalDate(from, time.Time{}); err != nil {
			MapError(w, r, err)
			return
		}
		if end, err = parseOptionalDate(to, maxDate); err != nil {
			MapError(w, r, err)
			return
		}
	}

	h.mu.Lock()
	var dated []journal.DatedEntry
	if from == "" && to == "" {
		dated = h.store.Entries(order)
	} else {
		dated = h.store.EntriesInRange(start, end, order)
	}
	h.mu.Unlock()

	resp := EntriesResponse{Entries: make([]EntryResponse, 0, len(dated)), Count: len(dated)}
	for _, de := range dated {
		resp.Entries = append(resp.Entries, EntryResponse{Date: journal.Key(de.Date), Entry: de.Entry})
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetEntry handles GET /api/v1/entries/{date}
func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	date, err := journal.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		MapError(w, r, err)
		return
	}

	h.mu.Lock()
	e, ok := h.store.GetEntry(date)
	h.mu.Unlock()

	if !ok {
		WriteProblem(w, r, http.StatusNotFound, fmt.Sprintf("No entry for %s", journal.Key(date)))
		return
	}
	writeJSON(w, http.StatusOK, EntryResponse{Date: journal.Key(date), Entry: e})
}

// PatchEntry handles PATCH /api/v1/entries/{date}. Only the fields present
// in the body change.
func (h *Handler) PatchEntry(w http.ResponseWriter, r *http.Request) {
	date, err := journal.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		MapError(w, r, err)
		return
	}

	var u journal.EntryUpdate
	if err := decodeBody(r, &u); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err))
		return
	}
	if u.IsEmpty() {
		WriteProblem(w, r, http.StatusBadRequest, "No fields to update")
		return
	}
	if errs := validation.ValidateEntryUpdate(u); len(errs) > 0 {
		WriteProblemWithErrors(w, r, "Entry contains invalid fields", errs)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	prev, existed := h.store.GetEntry(date)
	e := h.store.UpsertEntry(date, u)
	if err := h.persistLocked(); err != nil {
		h.store.RestoreEntry(date, prev, existed)
		MapError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, EntryResponse{Date: journal.Key(date), Entry: e})
}

// PutSection handles PUT /api/v1/entries/{date}/{section}. The section is
// replaced as a whole.
func (h *Handler) PutSection(w http.ResponseWriter, r *http.Request) {
	date, err := journal.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		MapError(w, r, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		WriteProblem(w, r, http.StatusBadRequest, "Unable to read request body")
		return
	}
	sec, err := journal.DecodeSection(journal.SectionName(chi.URLParam(r, "section")), body)
	if err != nil {
		if errors.Is(err, journal.ErrUnknownSection) {
			MapError(w, r, err)
			return
		}
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err))
		return
	}
	if errs := validation.ValidateSection(sec); len(errs) > 0 {
		WriteProblemWithErrors(w, r, "Section contains invalid fields", errs)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	prev, existed := h.store.GetEntry(date)
	e := h.store.UpsertSection(date, sec)
	if err := h.persistLocked(); err != nil {
		h.store.RestoreEntry(date, prev, existed)
		MapError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, EntryResponse{Date: journal.Key(date), Entry: e})
}

// GetGoals handles GET /api/v1/goals
func (h *Handler) GetGoals(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	g, ok := h.store.Goals()
	h.mu.Unlock()

	if !ok {
		WriteProblem(w, r, http.StatusNotFound, "No goals set")
		return
	}
	writeJSON(w, http.StatusOK, GoalsResponse{Goals: g})
}

// PutGoals handles PUT /api/v1/goals. The goal set is replaced as a whole.
func (h *Handler) PutGoals(w http.ResponseWriter, r *http.Request) {
	var g journal.GoalSet
	if err := decodeBody(r, &g); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err))
		return
	}
	if errs := validation.ValidateGoalSet(g); len(errs) > 0 {
		WriteProblemWithErrors(w, r, "Goals contain invalid fields", errs)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	prev, existed := h.store.Goals()
	h.store.SetGoals(g)
	if err := h.persistLocked(); err != nil {
		h.store.RestoreGoals(prev, existed)
		MapError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, GoalsResponse{Goals: g})
}

// DayReport handles GET /api/v1/reports/day/{date}
func (h *Handler) DayReport(w http.ResponseWriter, r *http.Request) {
	date, err := journal.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		MapError(w, r, err)
		return
	}
	h.writeReport(w, func(s *journal.Store) rollup.Window { return rollup.Day(s, date) })
}

// WeekReport handles GET /api/v1/reports/week?today=
func (h *Handler) WeekReport(w http.ResponseWriter, r *http.Request) {
	today, err := parseOptionalDate(r.URL.Query().Get("today"), h.now())
	if err != nil {
		MapError(w, r, err)
		return
	}
	h.writeReport(w, func(s *journal.Store) rollup.Window { return rollup.Week(s, today) })
}

// MonthReport handles GET /api/v1/reports/month?today=
func (h *Handler) MonthReport(w http.ResponseWriter, r *http.Request) {
	today, err := parseOptionalDate(r.URL.Query().Get("today"), h.now())
	if err != nil {
		MapError(w, r, err)
		return
	}
	h.writeReport(w, func(s *journal.Store) rollup.Window { return rollup.Month(s, today) })
}

// RangeReport handles GET /api/v1/reports/range?from&to
func (h *Handler) RangeReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if errs := validation.ValidateDateRange(q.Get("from"), q.Get("to")); len(errs) > 0 {
		WriteProblemWithErrors(w, r, "invalid range", errs)
		return
	}
	from, _ := journal.ParseDate(q.Get("from"))
	to, _ := journal.ParseDate(q.Get("to"))
	h.writeReport(w, func(s *journal.Store) rollup.Window { return rollup.Range(s, from, to) })
}

func (h *Handler) writeReport(w http.ResponseWriter, window func(*journal.Store) rollup.Window) {
	h.mu.Lock()
	win := window(h.store)
	var goals *journal.GoalSet
	if g, ok := h.store.Goals(); ok {
		goals = &g
	}
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, report.Build(win, goals))
}

// maxDate stands in for an open upper bound.
var maxDate = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

func parseOptionalDate(s string, fallback time.Time) (time.Time, error) {
	if s == "" {
		return fallback, nil
	}
	return journal.ParseDate(s)
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
