package journal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// GoalsKey is the reserved document key holding the goal set.
// It never parses as a date, so date-range queries skip it.
const GoalsKey = "goals"

// Metric identifies one of the four trackable scalar fields of an entry.
type Metric string

const (
	MetricExercise Metric = "exercise"
	MetricSleep    Metric = "sleep"
	MetricWater    Metric = "water"
	MetricCalories Metric = "calories"
)

// Metrics lists the scalar metrics in display order.
var Metrics = []Metric{MetricExercise, MetricSleep, MetricWater, MetricCalories}

// Unit returns the display unit for the metric.
func (m Metric) Unit() string {
	switch m {
	case MetricExercise:
		return "min"
	case MetricSleep:
		return "hrs"
	case MetricWater:
		return "glasses"
	default:
		return ""
	}
}

// Quantity is a numeric field kept as the text the user entered.
// Values are parsed on read; see Decimal and Parse.
type Quantity string

// QuantityOf formats a number as a Quantity.
func QuantityOf(v float64) Quantity {
	return Quantity(strconv.FormatFloat(v, 'f', -1, 64))
}

// Decimal parses the quantity tolerantly: a missing, empty or non-numeric
// value yields zero and never an error.
func (q Quantity) Decimal() decimal.Decimal {
	d, ok := q.Parse()
	if !ok {
		return decimal.Zero
	}
	return d
}

// maxMagnitude bounds both the exponent and the digit count of a parsed
// quantity. Arithmetic on decimals rescales to a common exponent, so a value
// like "1e100000000" would expand to a hundred-million-digit integer.
const maxMagnitude = 64

// Parse parses the quantity strictly. It reports false for empty or
// non-numeric text, and for numbers too large or too precise to be a
// plausible measurement.
func (q Quantity) Parse() (decimal.Decimal, bool) {
	s := strings.TrimSpace(string(q))
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if exp := d.Exponent(); exp > maxMagnitude || exp < -maxMagnitude {
		return decimal.Zero, false
	}
	if d.NumDigits() > maxMagnitude {
		return decimal.Zero, false
	}
	return d, true
}

// IsSet reports whether any text was recorded.
func (q Quantity) IsSet() bool {
	return q != ""
}

// UnmarshalJSON accepts strings, numbers and null. Numbers keep their
// literal text so that re-encoding does not alter precision.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*q = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*q = Quantity(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("quantity must be a string or number, got %s", data)
	}
	*q = Quantity(n.String())
	return nil
}

// Nutrition is the meal-level calorie section of an entry.
type Nutrition struct {
	Breakfast Quantity `json:"breakfast,omitempty"`
	Lunch     Quantity `json:"lunch,omitempty"`
	Dinner    Quantity `json:"dinner,omitempty"`
	Snacks    Quantity `json:"snacks,omitempty"`
}

// Total sums the four meals, treating unparseable values as zero.
func (n Nutrition) Total() decimal.Decimal {
	return decimal.Sum(n.Breakfast.Decimal(), n.Lunch.Decimal(), n.Dinner.Decimal(), n.Snacks.Decimal())
}

// SleepDetail is the sleep-quality section of an entry.
type SleepDetail struct {
	Hours   Quantity `json:"hours,omitempty"`
	Quality Quantity `json:"quality,omitempty"`
	Bedtime string   `json:"bedtime,omitempty"`
}

// DayEntry is one calendar day's record. Every field is optional.
type DayEntry struct {
	Exercise    Quantity     `json:"exercise,omitempty"`
	Sleep       Quantity     `json:"sleep,omitempty"`
	Water       Quantity     `json:"water,omitempty"`
	Calories    Quantity     `json:"calories,omitempty"`
	Mood        Mood         `json:"mood,omitempty"`
	Nutrition   *Nutrition   `json:"nutrition,omitempty"`
	SleepDetail *SleepDetail `json:"sleepDetail,omitempty"`
}

// Value returns the raw text recorded for a scalar metric.
func (e DayEntry) Value(m Metric) Quantity {
	switch m {
	case MetricExercise:
		return e.Exercise
	case MetricSleep:
		return e.Sleep
	case MetricWater:
		return e.Water
	case MetricCalories:
		return e.Calories
	default:
		return ""
	}
}

// HasScalars reports whether any top-level field was recorded.
func (e DayEntry) HasScalars() bool {
	return e.Exercise.IsSet() || e.Sleep.IsSet() || e.Water.IsSet() || e.Calories.IsSet() || e.Mood != ""
}

func (e DayEntry) clone() DayEntry {
	c := e
	if e.Nutrition != nil {
		n := *e.Nutrition
		c.Nutrition = &n
	}
	if e.SleepDetail != nil {
		sd := *e.SleepDetail
		c.SleepDetail = &sd
	}
	return c
}

// UnmarshalJSON also accepts the legacy "sleep_tracker" key for the
// sleep section.
func (e *DayEntry) UnmarshalJSON(data []byte) error {
	type plain DayEntry
	var aux struct {
		plain
		SleepTracker *SleepDetail `json:"sleep_tracker"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*e = DayEntry(aux.plain)
	if e.SleepDetail == nil && aux.SleepTracker != nil {
		e.SleepDetail = aux.SleepTracker
	}
	return nil
}

// GoalSet holds one optional threshold per scalar metric.
type GoalSet struct {
	Exercise Quantity `json:"exercise_goal,omitempty"`
	Sleep    Quantity `json:"sleep_goal,omitempty"`
	Water    Quantity `json:"water_goal,omitempty"`
	Calories Quantity `json:"calories_goal,omitempty"`
}

// Goal returns the threshold text for a metric.
func (g GoalSet) Goal(m Metric) Quantity {
	switch m {
	case MetricExercise:
		return g.Exercise
	case MetricSleep:
		return g.Sleep
	case MetricWater:
		return g.Water
	case MetricCalories:
		return g.Calories
	default:
		return ""
	}
}
