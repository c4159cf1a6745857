// Package validation checks user input before it reaches the journal.
// Numeric fields are not checked apart from sleep quality.
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/hyperengineering/mindful/internal/journal"
)

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Collector accumulates validation errors without failing on first.
type Collector struct {
	errors []ValidationError
}

// Add appends a validation error to the collector if non-nil.
func (c *Collector) Add(err *ValidationError) {
	if err != nil {
		c.errors = append(c.errors, *err)
	}
}

// Errors returns all accumulated validation errors.
func (c *Collector) Errors() []ValidationError {
	return c.errors
}

// ValidateUTF8 returns an error if the value is not valid UTF-8.
func ValidateUTF8(field, value string) *ValidationError {
	if !utf8.ValidString(value) {
		return &ValidationError{
			Field:   field,
			Message: "must be valid UTF-8",
		}
	}
	return nil
}

// ValidateNoNullBytes returns an error if the value contains null bytes.
func ValidateNoNullBytes(field, value string) *ValidationError {
	if strings.Contains(value, "\x00") {
		return &ValidationError{
			Field:   field,
			Message: "must not contain null bytes",
		}
	}
	return nil
}

// ValidateMaxLength returns an error if the value exceeds max runes.
func ValidateMaxLength(field, value string, max int) *ValidationError {
	if utf8.RuneCountInString(value) > max {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("exceeds maximum length of %d characters", max),
		}
	}
	return nil
}

// ValidateRequired returns an error if the value is empty or whitespace-only.
func ValidateRequired(field, value string) *ValidationError {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{
			Field:   field,
			Message: "is required",
		}
	}
	return nil
}

// ValidateEnum returns an error if the value is not in the allowed list.
func ValidateEnum(field, value string, allowed []string) *ValidationError {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")),
	}
}

// ValidateRange returns an error if the value is outside [min, max].
func ValidateRange(field string, value, min, max float64) *ValidationError {
	if value < min || value > max {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be between %.1f and %.1f", min, max),
		}
	}
	return nil
}

// ValidateDate returns an error unless value is a YYYY-MM-DD calendar date.
func ValidateDate(field, value string) *ValidationError {
	if _, err := journal.ParseDate(value); err != nil {
		return &ValidationError{
			Field:   field,
			Message: "must be a calendar date in YYYY-MM-DD format",
		}
	}
	return nil
}

// ValidateMood returns an error unless value names a known mood. Empty
// clears the mood and is allowed.
func ValidateMood(field, value string) *ValidationError {
	if value == "" {
		return nil
	}
	if _, ok := journal.ParseMood(value); ok {
		return nil
	}
	allowed := make([]string, len(journal.Moods))
	for i, m := range journal.Moods {
		allowed[i] = string(m)
	}
	return ValidateEnum(field, value, allowed)
}

// ValidateQuality returns an error if a numeric sleep quality falls outside
// 1–10. Non-numeric text is tolerated like any other quantity.
func ValidateQuality(field string, value journal.Quantity) *ValidationError {
	d, ok := value.Parse()
	if !ok {
		return nil
	}
	f, _ := d.Float64()
	return ValidateRange(field, f, 1, 10)
}
