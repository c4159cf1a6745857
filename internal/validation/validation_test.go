package validation

import (
	"strings"
	"testing"

	"github.com/hyperengineering/mindful/internal/journal"
)

func hasFieldError(errs []ValidationError, field string) bool {
	for _, e := range errs {
		if e.Field == field {
			return true
		}
	}
	return false
}

// --- Field validator Tests ---

func TestValidateUTF8(t *testing.T) {
	if err := ValidateUTF8("bedtime", "22:30 😴"); err != nil {
		t.Errorf("ValidateUTF8(valid) = %v, want nil", err)
	}
	if err := ValidateUTF8("bedtime", string([]byte{0xff, 0xfe})); err == nil {
		t.Error("ValidateUTF8(invalid) = nil, want error")
	}
}

func TestValidateNoNullBytes(t *testing.T) {
	if err := ValidateNoNullBytes("bedtime", "late"); err != nil {
		t.Errorf("ValidateNoNullBytes(clean) = %v, want nil", err)
	}
	if err := ValidateNoNullBytes("bedtime", "la\x00te"); err == nil {
		t.Error("ValidateNoNullBytes(null) = nil, want error")
	}
}

func TestValidateMaxLength_MultibyteRunes(t *testing.T) {
	if err := ValidateMaxLength("f", strings.Repeat("😀", 5), 5); err != nil {
		t.Errorf("5 runes at limit 5 = %v, want nil", err)
	}
	err := ValidateMaxLength("f", strings.Repeat("😀", 6), 5)
	if err == nil || !strings.Contains(err.Message, "5") {
		t.Errorf("6 runes at limit 5 = %v, want length error", err)
	}
}

func TestValidateRequired(t *testing.T) {
	for _, v := range []string{"", "   "} {
		if err := ValidateRequired("date", v); err == nil {
			t.Errorf("ValidateRequired(%q) = nil, want error", v)
		}
	}
	if err := ValidateRequired("date", "2024-01-01"); err != nil {
		t.Errorf("ValidateRequired(value) = %v", err)
	}
}

func TestValidateDate(t *testing.T) {
	tests := []struct {
		value string
		valid bool
	}{
		{"2024-01-01", true},
		{"2024-02-29", true},
		{"2023-02-29", false},
		{"goals", false},
		{"", false},
		{"2024/01/01", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			err := ValidateDate("date", tt.value)
			if (err == nil) != tt.valid {
				t.Errorf("ValidateDate(%q) = %v, valid %v", tt.value, err, tt.valid)
			}
		})
	}
}

func TestValidateMood(t *testing.T) {
	for _, v := range []string{"", "happy", "Tired", "😞 Sad"} {
		if err := ValidateMood("mood", v); err != nil {
			t.Errorf("ValidateMood(%q) = %v, want nil", v, err)
		}
	}
	err := ValidateMood("mood", "ecstatic")
	if err == nil {
		t.Fatal("ValidateMood(unknown) = nil, want error")
	}
	if !strings.Contains(err.Message, "happy, okay, sad, angry, tired") {
		t.Errorf("Message = %q, want allowed moods listed", err.Message)
	}
}

func TestValidateQuality(t *testing.T) {
	tests := []struct {
		value journal.Quantity
		valid bool
	}{
		{"1", true},
		{"10", true},
		{"7.5", true},
		{"", true},
		{"good", true},
		{"0", false},
		{"11", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.value), func(t *testing.T) {
			err := ValidateQuality("quality", tt.value)
			if (err == nil) != tt.valid {
				t.Errorf("ValidateQuality(%q) = %v, valid %v", tt.value, err, tt.valid)
			}
		})
	}
}

// --- Collector Tests ---

func TestCollector_IgnoresNil(t *testing.T) {
	c := &Collector{}
	c.Add(nil)
	c.Add(&ValidationError{Field: "field", Message: "error"})
	c.Add(nil)

	if len(c.Errors()) != 1 {
		t.Errorf("len(Errors()) = %d, want 1 (nil should be ignored)", len(c.Errors()))
	}
}

func TestValidateDateRange(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		want     []string
	}{
		{"valid", "2024-01-01", "2024-01-31", nil},
		{"swapped is fine", "2024-01-31", "2024-01-01", nil},
		{"missing both", "", " ", []string{"from is required", "to is required"}},
		{"malformed to", "2024-01-01", "2024-02-30", []string{"to must be a calendar date in YYYY-MM-DD format"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateDateRange(tt.from, tt.to)
			if len(errs) != len(tt.want) {
				t.Fatalf("errors = %+v, want %v", errs, tt.want)
			}
			for i, e := range errs {
				if got := e.Field + " " + e.Message; got != tt.want[i] {
					t.Errorf("errs[%d] = %q, want %q", i, got, tt.want[i])
				}
			}
		})
	}
}

// --- Entry validator Tests ---

func TestValidateEntryUpdate_Valid(t *testing.T) {
	ex := journal.Quantity("30")
	mood := journal.Mood("happy")
	u := journal.EntryUpdate{
		Exercise:    &ex,
		Mood:        &mood,
		SleepDetail: &journal.SleepDetail{Hours: "7", Quality: "8", Bedtime: "22:30"},
	}

	if errs := ValidateEntryUpdate(u); len(errs) != 0 {
		t.Errorf("ValidateEntryUpdate(valid) = %v, want none", errs)
	}
}

func TestValidateEntryUpdate_Invalid(t *testing.T) {
	long := journal.Quantity(strings.Repeat("9", MaxTextLength+1))
	mood := journal.Mood("ecstatic")
	u := journal.EntryUpdate{
		Water:       &long,
		Mood:        &mood,
		SleepDetail: &journal.SleepDetail{Quality: "12", Bedtime: "\x00"},
	}

	errs := ValidateEntryUpdate(u)
	for _, field := range []string{"water", "mood", "sleepDetail.quality", "sleepDetail.bedtime"} {
		if !hasFieldError(errs, field) {
			t.Errorf("missing error for %s in %v", field, errs)
		}
	}
}

func TestValidateSection(t *testing.T) {
	errs := ValidateSection(journal.SleepDetail{Quality: "0"})
	if !hasFieldError(errs, "quality") {
		t.Errorf("ValidateSection(quality 0) = %v, want quality error", errs)
	}

	if errs := ValidateSection(journal.Nutrition{Breakfast: "300"}); len(errs) != 0 {
		t.Errorf("ValidateSection(nutrition) = %v, want none", errs)
	}
}

func TestValidateGoalSet(t *testing.T) {
	errs := ValidateGoalSet(journal.GoalSet{Exercise: "30", Calories: journal.Quantity(strings.Repeat("1", 100))})
	if len(errs) != 1 || errs[0].Field != "calories_goal" {
		t.Errorf("ValidateGoalSet() = %v, want one calories_goal error", errs)
	}
}
