// Package rollup aggregates day entries over date windows: per-metric
// averages, day count and dominant mood.
package rollup

import (
	"github.com/shopspring/decimal"

	"github.com/hyperengineering/mindful/internal/journal"
)

// NoData is shown in place of a dominant mood when the window has none.
const NoData = "N/A"

// Summary is the rollup of one window.
type Summary struct {
	DayCount   int
	Totals     map[journal.Metric]decimal.Decimal
	Averages   map[journal.Metric]decimal.Decimal
	MoodCounts map[journal.Mood]int
	// DominantMood is empty when no entry in the window recorded a mood.
	DominantMood journal.Mood
}

// Average returns the average of m over the window, zero for an empty window.
func (s Summary) Average(m journal.Metric) decimal.Decimal {
	if avg, ok := s.Averages[m]; ok {
		return avg
	}
	return decimal.Zero
}

// HasMood reports whether a dominant mood exists.
func (s Summary) HasMood() bool {
	return s.DominantMood != ""
}

// MoodLabel returns the dominant mood's display label or NoData.
func (s Summary) MoodLabel() string {
	if !s.HasMood() {
		return NoData
	}
	return s.DominantMood.Label()
}

// Summarize rolls up entries in the order given.
//
// Every metric is parsed tolerantly: missing, empty and non-numeric values
// add zero. Averages divide by the number of entries, not by the number of
// entries that recorded the metric. The dominant mood is the most frequent
// non-empty mood; a tie goes to the mood encountered first.
func Summarize(entries []journal.DayEntry) Summary {
	s := Summary{
		DayCount:   len(entries),
		Totals:     make(map[journal.Metric]decimal.Decimal, len(journal.Metrics)),
		Averages:   make(map[journal.Metric]decimal.Decimal, len(journal.Metrics)),
		MoodCounts: make(map[journal.Mood]int),
	}
	for _, m := range journal.Metrics {
		s.Totals[m] = decimal.Zero
	}

	var firstSeen []journal.Mood
	for _, e := range entries {
		for _, m := range journal.Metrics {
			s.Totals[m] = s.Totals[m].Add(e.Value(m).Decimal())
		}
		if e.Mood == "" {
			continue
		}
		if s.MoodCounts[e.Mood] == 0 {
			firstSeen = append(firstSeen, e.Mood)
		}
		s.MoodCounts[e.Mood]++
	}

	n := decimal.NewFromInt(int64(s.DayCount))
	for _, m := range journal.Metrics {
		if s.DayCount == 0 {
			s.Averages[m] = decimal.Zero
			continue
		}
		s.Averages[m] = s.Totals[m].Div(n)
	}

	best := 0
	for _, mood := range firstSeen {
		if c := s.MoodCounts[mood]; c > best {
			best = c
			s.DominantMood = mood
		}
	}
	return s
}
