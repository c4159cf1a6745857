package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/hyperengineering/mindful/internal/journal"
	"github.com/hyperengineering/mindful/internal/rollup"
)

const missing = "-"

var titles = map[rollup.Kind]string{
	rollup.KindDay:   "Report for",
	rollup.KindWeek:  "Weekly Summary",
	rollup.KindMonth: "Monthly Report",
	rollup.KindRange: "Report",
}

// WriteText renders r for a terminal.
func WriteText(w io.Writer, r Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if r.Kind == rollup.KindDay {
		fmt.Fprintf(tw, "%s %s\n", titles[r.Kind], r.Start)
	} else {
		fmt.Fprintf(tw, "%s %s .. %s\n", titles[r.Kind], r.Start, r.End)
	}

	if r.Empty() {
		fmt.Fprintln(tw, NoDataMessage)
		return tw.Flush()
	}

	if r.Kind == rollup.KindDay {
		writeDay(tw, r)
	} else {
		writeWindow(tw, r)
	}

	if len(r.Checks) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "Goal Check:")
		for _, c := range r.Checks {
			fmt.Fprintf(tw, "  %s:\t%s\n", metricTitle(c.Metric), c.Label)
		}
	}
	return tw.Flush()
}

func writeDay(tw io.Writer, r Report) {
	e := r.Entries[0].Entry
	for _, m := range journal.Metrics {
		fmt.Fprintf(tw, "%s:\t%s\n", metricTitle(m), withUnit(orMissing(string(e.Value(m))), m))
	}
	fmt.Fprintf(tw, "Mood:\t%s\n", r.MoodLabel)

	n := journal.Nutrition{}
	if e.Nutrition != nil {
		n = *e.Nutrition
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "Nutrition (cal):")
	fmt.Fprintf(tw, "  Breakfast:\t%s\n", orMissing(string(n.Breakfast)))
	fmt.Fprintf(tw, "  Lunch:\t%s\n", orMissing(string(n.Lunch)))
	fmt.Fprintf(tw, "  Dinner:\t%s\n", orMissing(string(n.Dinner)))
	fmt.Fprintf(tw, "  Snacks:\t%s\n", orMissing(string(n.Snacks)))
	if r.NutritionTotal != "" {
		fmt.Fprintf(tw, "  Total:\t%s\n", r.NutritionTotal)
	}

	sd := journal.SleepDetail{}
	if e.SleepDetail != nil {
		sd = *e.SleepDetail
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "Sleep Tracker:")
	fmt.Fprintf(tw, "  Hours:\t%s\n", orMissing(string(sd.Hours)))
	fmt.Fprintf(tw, "  Quality:\t%s\n", orMissing(string(sd.Quality)))
	fmt.Fprintf(tw, "  Bedtime:\t%s\n", orMissing(sd.Bedtime))
}

func writeWindow(tw io.Writer, r Report) {
	fmt.Fprintf(tw, "Days included:\t%d\n", r.DayCount)
	for _, m := range journal.Metrics {
		avg := r.average(m).StringFixed(1)
		fmt.Fprintf(tw, "Avg %s:\t%s\n", metricTitle(m), withUnit(avg, m))
	}
	fmt.Fprintf(tw, "Most Common Mood:\t%s\n", r.MoodLabel)
}

func metricTitle(m journal.Metric) string {
	s := string(m)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func withUnit(v string, m journal.Metric) string {
	if v == missing || m.Unit() == "" {
		return v
	}
	return v + " " + m.Unit()
}

func orMissing(s string) string {
	if s == "" {
		return missing
	}
	return s
}
