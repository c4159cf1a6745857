package validation

import (
	"github.com/hyperengineering/mindful/internal/journal"
)

// MaxTextLength bounds any single free-text field.
const MaxTextLength = 64

func validateText(c *Collector, field, value string) {
	c.Add(ValidateUTF8(field, value))
	c.Add(ValidateNoNullBytes(field, value))
	c.Add(ValidateMaxLength(field, value, MaxTextLength))
}

func validateQuantity(c *Collector, field string, q *journal.Quantity) {
	if q == nil {
		return
	}
	validateText(c, field, string(*q))
}

// ValidateEntryUpdate checks a partial entry write.
func ValidateEntryUpdate(u journal.EntryUpdate) []ValidationError {
	c := &Collector{}
	validateQuantity(c, "exercise", u.Exercise)
	validateQuantity(c, "sleep", u.Sleep)
	validateQuantity(c, "water", u.Water)
	validateQuantity(c, "calories", u.Calories)
	if u.Mood != nil {
		c.Add(ValidateMood("mood", string(*u.Mood)))
	}
	if u.Nutrition != nil {
		validateNutrition(c, "nutrition.", *u.Nutrition)
	}
	if u.SleepDetail != nil {
		validateSleepDetail(c, "sleepDetail.", *u.SleepDetail)
	}
	return c.Errors()
}

// ValidateSection checks a whole-section write.
func ValidateSection(sec journal.Section) []ValidationError {
	c := &Collector{}
	switch s := sec.(type) {
	case journal.Nutrition:
		validateNutrition(c, "", s)
	case journal.SleepDetail:
		validateSleepDetail(c, "", s)
	}
	return c.Errors()
}

// ValidateGoalSet checks goal thresholds.
func ValidateGoalSet(g journal.GoalSet) []ValidationError {
	c := &Collector{}
	validateText(c, "exercise_goal", string(g.Exercise))
	validateText(c, "sleep_goal", string(g.Sleep))
	validateText(c, "water_goal", string(g.Water))
	validateText(c, "calories_goal", string(g.Calories))
	return c.Errors()
}

func validateNutrition(c *Collector, prefix string, n journal.Nutrition) {
	validateText(c, prefix+"breakfast", string(n.Breakfast))
	validateText(c, prefix+"lunch", string(n.Lunch))
	validateText(c, prefix+"dinner", string(n.Dinner))
	validateText(c, prefix+"snacks", string(n.Snacks))
}

func validateSleepDetail(c *Collector, prefix string, sd journal.SleepDetail) {
	validateText(c, prefix+"hours", string(sd.Hours))
	validateText(c, prefix+"quality", string(sd.Quality))
	c.Add(ValidateQuality(prefix+"quality", sd.Quality))
	validateText(c, prefix+"bedtime", sd.Bedtime)
}

// ValidateDateRange checks the bounds of a range query. Reversed bounds are
// allowed; the window swaps them.
func ValidateDateRange(from, to string) []ValidationError {
	c := &Collector{}
	for _, b := range []struct{ field, value string }{{"from", from}, {"to", to}} {
		if err := ValidateRequired(b.field, b.value); err != nil {
			c.Add(err)
			continue
		}
		c.Add(ValidateDate(b.field, b.value))
	}
	return c.Errors()
}
