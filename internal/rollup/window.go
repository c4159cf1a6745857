package rollup

import (
	"time"

	"github.com/hyperengineering/mindful/internal/journal"
)

// TrailingDays is how far back the weekly window reaches. The window is
// [today-7d, today] inclusive, so it spans eight calendar days.
const TrailingDays = 7

// Kind names a standard window.
type Kind string

const (
	KindDay   Kind = "day"
	KindWeek  Kind = "week"
	KindMonth Kind = "month"
	KindRange Kind = "range"
)

// EntryReader is the read side of the journal store used by windows.
type EntryReader interface {
	EntriesInRange(start, end time.Time, order journal.Order) []journal.DatedEntry
}

// Window is a selected date range together with its rollup.
type Window struct {
	Kind    Kind
	Start   time.Time
	End     time.Time
	Entries []journal.DatedEntry
	Summary Summary
}

// IsEmpty reports whether no entries fell inside the window.
func (w Window) IsEmpty() bool {
	return len(w.Entries) == 0
}

// Day selects the single entry for date, if any.
func Day(r EntryReader, date time.Time) Window {
	d := journal.Day(date)
	return build(r, KindDay, d, d, journal.Ascending)
}

// Week selects [today-7d, today], newest first.
func Week(r EntryReader, today time.Time) Window {
	end := journal.Day(today)
	start := end.AddDate(0, 0, -TrailingDays)
	return build(r, KindWeek, start, end, journal.Descending)
}

// Month selects the month to date: [first of today's month, today].
func Month(r EntryReader, today time.Time) Window {
	end := journal.Day(today)
	start := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
	return build(r, KindMonth, start, end, journal.Ascending)
}

// Range selects an arbitrary inclusive range, oldest first. Swapped bounds
// are reordered.
func Range(r EntryReader, start, end time.Time) Window {
	s, e := journal.Day(start), journal.Day(end)
	if e.Before(s) {
		s, e = e, s
	}
	return build(r, KindRange, s, e, journal.Ascending)
}

func build(r EntryReader, kind Kind, start, end time.Time, order journal.Order) Window {
	dated := r.EntriesInRange(start, end, order)
	entries := make([]journal.DayEntry, len(dated))
	for i, de := range dated {
		entries[i] = de.Entry
	}
	return Window{
		Kind:    kind,
		Start:   start,
		End:     end,
		Entries: dated,
		Summary: Summarize(entries),
	}
}
