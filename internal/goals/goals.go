// Package goals classifies metric values against the user's thresholds.
//
// Every metric is compared "higher is better": a value meets its goal when
// value >= goal. There is no ceiling variant, so a calorie goal is treated
// as a minimum like the others.
package goals

import (
	"github.com/shopspring/decimal"

	"github.com/hyperengineering/mindful/internal/journal"
	"github.com/hyperengineering/mindful/internal/rollup"
)

// Status is the outcome of one comparison.
type Status string

const (
	Met           Status = "met"
	Missed        Status = "missed"
	NoGoal        Status = "no_goal"
	NotApplicable Status = "not_applicable"
)

// Label returns the text shown next to a metric in reports.
func (s Status) Label() string {
	switch s {
	case Met:
		return "Goal met ✔"
	case Missed:
		return "Goal missed ✘"
	case NoGoal:
		return "No goal set"
	default:
		return "N/A"
	}
}

// Compare classifies value against goal. An empty goal is NoGoal; an operand
// that is not a number is NotApplicable.
func Compare(value, goal journal.Quantity) Status {
	if goal == "" {
		return NoGoal
	}
	g, ok := goal.Parse()
	if !ok {
		return NotApplicable
	}
	v, ok := value.Parse()
	if !ok {
		return NotApplicable
	}
	return compareDecimal(v, g)
}

func compareDecimal(v, g decimal.Decimal) Status {
	if v.GreaterThanOrEqual(g) {
		return Met
	}
	return Missed
}

// Check is the comparison of one metric.
type Check struct {
	Metric journal.Metric
	Value  journal.Quantity
	Goal   journal.Quantity
	Status Status
}

// EvaluateEntry checks each scalar of a single day against goals. A metric
// the day did not record counts as 0; text that is not a number is
// NotApplicable.
func EvaluateEntry(e journal.DayEntry, g journal.GoalSet) []Check {
	checks := make([]Check, 0, len(journal.Metrics))
	for _, m := range journal.Metrics {
		v := e.Value(m)
		if v == "" {
			v = "0"
		}
		checks = append(checks, Check{
			Metric: m,
			Value:  v,
			Goal:   g.Goal(m),
			Status: Compare(v, g.Goal(m)),
		})
	}
	return checks
}

// EvaluateSummary checks each window average against goals. An empty
// window is NotApplicable wherever a goal exists.
func EvaluateSummary(s rollup.Summary, g journal.GoalSet) []Check {
	checks := make([]Check, 0, len(journal.Metrics))
	for _, m := range journal.Metrics {
		avg := s.Average(m)
		c := Check{
			Metric: m,
			Value:  journal.Quantity(avg.String()),
			Goal:   g.Goal(m),
		}
		switch {
		case c.Goal == "":
			c.Status = NoGoal
		case s.DayCount == 0:
			c.Status = NotApplicable
		default:
			c.Status = Compare(c.Value, c.Goal)
		}
		checks = append(checks, c)
	}
	return checks
}
