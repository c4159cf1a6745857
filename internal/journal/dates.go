package journal

import (
	"fmt"
	"time"
)

// DateLayout is the ISO calendar date format used for document keys.
const DateLayout = "2006-01-02"

// looseDateLayout accepts keys written without zero padding (2024-1-5).
const looseDateLayout = "2006-1-2"

// ParseDate parses a YYYY-MM-DD string into a civil date at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// parseKey parses a document key. It is more lenient than ParseDate so
// hand-edited files still aggregate.
func parseKey(key string) (time.Time, bool) {
	if t, err := time.Parse(DateLayout, key); err == nil {
		return t, true
	}
	if t, err := time.Parse(looseDateLayout, key); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// Day truncates t to its calendar date in t's own location, returned at
// UTC midnight so dates compare by value.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Key formats the calendar date of t as a document key.
func Key(t time.Time) string {
	return Day(t).Format(DateLayout)
}
