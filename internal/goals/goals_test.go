package goals

import (
	"testing"

	"github.com/hyperengineering/mindful/internal/journal"
	"github.com/hyperengineering/mindful/internal/rollup"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		value journal.Quantity
		goal  journal.Quantity
		want  Status
	}{
		{"5", "10", Missed},
		{"10", "10", Met},
		{"10.5", "10", Met},
		{"5", "", NoGoal},
		{"", "", NoGoal},
		{"abc", "10", NotApplicable},
		{"5", "lots", NotApplicable},
		{"", "10", NotApplicable},
		{"5", " ", NotApplicable},
		{"2500", "2000", Met},
		{"1e100000000", "30", NotApplicable},
		{"30", "1e100000000", NotApplicable},
	}
	for _, tt := range tests {
		t.Run(string(tt.value)+"_vs_"+string(tt.goal), func(t *testing.T) {
			if got := Compare(tt.value, tt.goal); got != tt.want {
				t.Errorf("Compare(%q, %q) = %q, want %q", tt.value, tt.goal, got, tt.want)
			}
		})
	}
}

func TestStatus_Label(t *testing.T) {
	labels := map[Status]string{
		Met:           "Goal met ✔",
		Missed:        "Goal missed ✘",
		NoGoal:        "No goal set",
		NotApplicable: "N/A",
	}
	for s, want := range labels {
		if got := s.Label(); got != want {
			t.Errorf("%s.Label() = %q, want %q", s, got, want)
		}
	}
}

func TestEvaluateEntry(t *testing.T) {
	e := journal.DayEntry{Exercise: "45", Sleep: "6", Water: "lots"}
	g := journal.GoalSet{Exercise: "30", Sleep: "8", Water: "8", Calories: ""}

	checks := EvaluateEntry(e, g)
	if len(checks) != len(journal.Metrics) {
		t.Fatalf("len = %d", len(checks))
	}

	want := map[journal.Metric]Status{
		journal.MetricExercise: Met,
		journal.MetricSleep:    Missed,
		journal.MetricWater:    NotApplicable,
		journal.MetricCalories: NoGoal,
	}
	for _, c := range checks {
		if c.Status != want[c.Metric] {
			t.Errorf("%s: status = %q, want %q", c.Metric, c.Status, want[c.Metric])
		}
	}
}

func TestEvaluateEntry_MissingValueCountsAsZero(t *testing.T) {
	checks := EvaluateEntry(journal.DayEntry{}, journal.GoalSet{Exercise: "30"})
	if checks[0].Metric != journal.MetricExercise || checks[0].Status != Missed {
		t.Errorf("check = %+v, want exercise missed", checks[0])
	}
	if checks[0].Value != "0" {
		t.Errorf("Value = %q, want 0", checks[0].Value)
	}
}

func TestEvaluateSummary(t *testing.T) {
	s := rollup.Summarize([]journal.DayEntry{
		{Exercise: "20", Sleep: "8"},
		{Exercise: "40", Sleep: "7"},
	})
	g := journal.GoalSet{Exercise: "30", Sleep: "8"}

	checks := EvaluateSummary(s, g)
	got := map[journal.Metric]Status{}
	for _, c := range checks {
		got[c.Metric] = c.Status
	}
	if got[journal.MetricExercise] != Met {
		t.Errorf("exercise = %q, want met (avg 30)", got[journal.MetricExercise])
	}
	if got[journal.MetricSleep] != Missed {
		t.Errorf("sleep = %q, want missed (avg 7.5)", got[journal.MetricSleep])
	}
	if got[journal.MetricWater] != NoGoal {
		t.Errorf("water = %q, want no goal", got[journal.MetricWater])
	}
}

func TestEvaluateSummary_EmptyWindow(t *testing.T) {
	checks := EvaluateSummary(rollup.Summarize(nil), journal.GoalSet{Exercise: "30"})
	if checks[0].Status != NotApplicable {
		t.Errorf("status = %q, want not applicable", checks[0].Status)
	}
}
