// Package report shapes windows and goal checks for display. The same
// Report value is encoded as JSON by the HTTP API and the CLI's --json mode,
// and rendered as text by the CLI.
package report

import (
	"github.com/shopspring/decimal"

	"github.com/hyperengineering/mindful/internal/goals"
	"github.com/hyperengineering/mindful/internal/journal"
	"github.com/hyperengineering/mindful/internal/rollup"
)

// NoDataMessage is shown for a window without entries.
const NoDataMessage = "No data recorded"

// averagePlaces is the precision of averages in JSON output.
const averagePlaces = 2

// Entry is one dated entry of a report.
type Entry struct {
	Date  string           `json:"date"`
	Entry journal.DayEntry `json:"entry"`
}

// Check is one goal comparison.
type Check struct {
	Metric journal.Metric   `json:"metric"`
	Value  journal.Quantity `json:"value"`
	Goal   journal.Quantity `json:"goal,omitempty"`
	Status goals.Status     `json:"status"`
	Label  string           `json:"label"`
}

// Report is the display form of a window.
type Report struct {
	Kind           rollup.Kind               `json:"kind"`
	Start          string                    `json:"start"`
	End            string                    `json:"end"`
	DayCount       int                       `json:"day_count"`
	Message        string                    `json:"message,omitempty"`
	Averages       map[journal.Metric]string `json:"averages,omitempty"`
	DominantMood   journal.Mood              `json:"dominant_mood,omitempty"`
	MoodLabel      string                    `json:"mood_label"`
	NutritionTotal string                    `json:"nutrition_total,omitempty"`
	Entries        []Entry                   `json:"entries"`
	Checks         []Check                   `json:"goal_checks,omitempty"`

	// exact holds the unrounded averages so text output rounds only once.
	exact map[journal.Metric]decimal.Decimal
}

// average returns the unrounded average of m when r came from Build, and
// the rounded JSON value otherwise.
func (r Report) average(m journal.Metric) decimal.Decimal {
	if d, ok := r.exact[m]; ok {
		return d
	}
	return journal.Quantity(r.Averages[m]).Decimal()
}

// Empty reports whether the window had no entries.
func (r Report) Empty() bool {
	return r.DayCount == 0
}

// Build shapes w for display. Goal checks are included only when g is
// non-nil. A day report checks the entry itself; other windows check
// averages.
func Build(w rollup.Window, g *journal.GoalSet) Report {
	r := Report{
		Kind:      w.Kind,
		Start:     journal.Key(w.Start),
		End:       journal.Key(w.End),
		DayCount:  w.Summary.DayCount,
		MoodLabel: w.Summary.MoodLabel(),
		Entries:   make([]Entry, 0, len(w.Entries)),
	}
	for _, de := range w.Entries {
		r.Entries = append(r.Entries, Entry{Date: journal.Key(de.Date), Entry: de.Entry})
	}

	if w.IsEmpty() {
		r.Message = NoDataMessage
		if w.Kind == rollup.KindDay {
			return r
		}
	}

	r.DominantMood = w.Summary.DominantMood
	if w.Kind == rollup.KindDay {
		e := w.Entries[0].Entry
		if e.Nutrition != nil {
			r.NutritionTotal = e.Nutrition.Total().String()
		}
		if g != nil {
			r.Checks = toChecks(goals.EvaluateEntry(e, *g))
		}
		return r
	}

	r.Averages = make(map[journal.Metric]string, len(journal.Metrics))
	r.exact = make(map[journal.Metric]decimal.Decimal, len(journal.Metrics))
	for _, m := range journal.Metrics {
		avg := w.Summary.Average(m)
		r.exact[m] = avg
		r.Averages[m] = avg.Round(averagePlaces).String()
	}
	if g != nil {
		r.Checks = toChecks(goals.EvaluateSummary(w.Summary, *g))
	}
	return r
}

func toChecks(in []goals.Check) []Check {
	out := make([]Check, len(in))
	for i, c := range in {
		out[i] = Check{
			Metric: c.Metric,
			Value:  c.Value,
			Goal:   c.Goal,
			Status: c.Status,
			Label:  c.Status.Label(),
		}
	}
	return out
}
