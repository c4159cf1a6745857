// Package journal holds the in-memory wellness journal: day entries keyed by
// calendar date plus the user's goals, with the merge rules for writes.
package journal

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Store owns a Document for the lifetime of a session. It is not safe for
// concurrent use; callers serialize mutations.
type Store struct {
	doc *Document
}

// NewStore wraps doc. A nil doc starts an empty journal.
func NewStore(doc *Document) *Store {
	if doc == nil {
		doc = NewDocument()
	}
	if doc.Entries == nil {
		doc.Entries = make(map[string]DayEntry)
	}
	return &Store{doc: doc}
}

// Document returns the underlying document for persistence.
func (s *Store) Document() *Document {
	return s.doc
}

// Len returns the number of stored entries, including entries whose keys
// are not valid dates.
func (s *Store) Len() int {
	return len(s.doc.Entries)
}

// EntryUpdate carries the top-level fields of a write. Nil fields are left
// untouched; non-nil sections replace the existing section.
type EntryUpdate struct {
	Exercise    *Quantity    `json:"exercise,omitempty"`
	Sleep       *Quantity    `json:"sleep,omitempty"`
	Water       *Quantity    `json:"water,omitempty"`
	Calories    *Quantity    `json:"calories,omitempty"`
	Mood        *Mood        `json:"mood,omitempty"`
	Nutrition   *Nutrition   `json:"nutrition,omitempty"`
	SleepDetail *SleepDetail `json:"sleepDetail,omitempty"`
}

// IsEmpty reports whether the update carries no fields.
func (u EntryUpdate) IsEmpty() bool {
	return u.Exercise == nil && u.Sleep == nil && u.Water == nil && u.Calories == nil &&
		u.Mood == nil && u.Nutrition == nil && u.SleepDetail == nil
}

// UpsertEntry merges u into the entry for date, creating it if needed.
// Scalars are overwritten key by key; sections change only when included.
func (s *Store) UpsertEntry(date time.Time, u EntryUpdate) DayEntry {
	key := Key(date)
	e := s.doc.Entries[key]
	if u.Exercise != nil {
		e.Exercise = *u.Exercise
	}
	if u.Sleep != nil {
		e.Sleep = *u.Sleep
	}
	if u.Water != nil {
		e.Water = *u.Water
	}
	if u.Calories != nil {
		e.Calories = *u.Calories
	}
	if u.Mood != nil {
		e.Mood = *u.Mood
	}
	if u.Nutrition != nil {
		u.Nutrition.applyTo(&e)
	}
	if u.SleepDetail != nil {
		u.SleepDetail.applyTo(&e)
	}
	s.doc.Entries[key] = e
	return e.clone()
}

// SectionName names a nested section of an entry.
type SectionName string

const (
	SectionNutrition   SectionName = "nutrition"
	SectionSleepDetail SectionName = "sleepDetail"
)

// Section is a nested sub-record written as a whole. It is implemented by
// Nutrition and SleepDetail only.
type Section interface {
	SectionName() SectionName
	applyTo(e *DayEntry)
}

func (n Nutrition) SectionName() SectionName { return SectionNutrition }

func (n Nutrition) applyTo(e *DayEntry) {
	e.Nutrition = &n
}

func (sd SleepDetail) SectionName() SectionName { return SectionSleepDetail }

func (sd SleepDetail) applyTo(e *DayEntry) {
	e.SleepDetail = &sd
}

// DecodeSection decodes a JSON object into the section called name.
func DecodeSection(name SectionName, data []byte) (Section, error) {
	switch name {
	case SectionNutrition:
		var n Nutrition
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		return n, nil
	case SectionSleepDetail, "sleep_tracker":
		var sd SleepDetail
		if err := json.Unmarshal(data, &sd); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		return sd, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSection, name)
	}
}

// UpsertSection replaces one section of the entry for date wholesale.
// Fields of the old section that sec leaves empty are gone afterwards; the
// scalars and the other section are kept.
func (s *Store) UpsertSection(date time.Time, sec Section) DayEntry {
	key := Key(date)
	e := s.doc.Entries[key]
	sec.applyTo(&e)
	s.doc.Entries[key] = e
	return e.clone()
}

// GetEntry looks up the entry for date without creating it.
func (s *Store) GetEntry(date time.Time) (DayEntry, bool) {
	e, ok := s.doc.Entries[Key(date)]
	if !ok {
		return DayEntry{}, false
	}
	return e.clone(), true
}

// RestoreEntry puts back an entry captured with GetEntry before a write.
// When existed is false the entry for date is removed.
func (s *Store) RestoreEntry(date time.Time, prev DayEntry, existed bool) {
	key := Key(date)
	if !existed {
		delete(s.doc.Entries, key)
		return
	}
	s.doc.Entries[key] = prev.clone()
}

// RestoreGoals puts back a goal set captured with Goals before a write.
func (s *Store) RestoreGoals(prev GoalSet, existed bool) {
	if !existed {
		s.doc.Goals = nil
		return
	}
	s.doc.Goals = &prev
}

// SetGoals replaces the goal set as a unit.
func (s *Store) SetGoals(g GoalSet) {
	s.doc.Goals = &g
}

// Goals returns the goal set, if one was ever saved.
func (s *Store) Goals() (GoalSet, bool) {
	if s.doc.Goals == nil {
		return GoalSet{}, false
	}
	return *s.doc.Goals, true
}

// Order selects the iteration order of range queries.
type Order int

const (
	Ascending Order = iota
	Descending
)

// DatedEntry pairs an entry with its calendar date. Key is the document key
// the entry is stored under; loose keys such as "2024-1-5" can share a Date
// with their zero-padded form.
type DatedEntry struct {
	Key   string
	Date  time.Time
	Entry DayEntry
}

// EntriesInRange returns entries dated within [start, end], both inclusive.
// Keys that are not calendar dates, the goals key among them, are skipped.
func (s *Store) EntriesInRange(start, end time.Time, order Order) []DatedEntry {
	from, to := Day(start), Day(end)
	var out []DatedEntry
	for key, e := range s.doc.Entries {
		d, ok := parseKey(key)
		if !ok {
			continue
		}
		if d.Before(from) || d.After(to) {
			continue
		}
		out = append(out, DatedEntry{Key: key, Date: d, Entry: e.clone()})
	}
	sortDated(out, order)
	return out
}

// Entries returns every entry with a valid date key.
func (s *Store) Entries(order Order) []DatedEntry {
	out := make([]DatedEntry, 0, len(s.doc.Entries))
	for key, e := range s.doc.Entries {
		d, ok := parseKey(key)
		if !ok {
			continue
		}
		out = append(out, DatedEntry{Key: key, Date: d, Entry: e.clone()})
	}
	sortDated(out, order)
	return out
}

// sortDated orders by date, then by key so that map iteration order never
// leaks into results.
func sortDated(entries []DatedEntry, order Order) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Key < entries[j].Key
		}
		if order == Descending {
			return entries[i].Date.After(entries[j].Date)
		}
		return entries[i].Date.Before(entries[j].Date)
	})
}
