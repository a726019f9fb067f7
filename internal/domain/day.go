package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidInput marks malformed caller input, such as a date string that
// is not a calendar day.
var ErrInvalidInput = errors.New("invalid input")

const dayLayout = "2006-01-02"

// DayOf strips the time-of-day component, leaving a canonical calendar day
// at UTC midnight. Timezone selection is the caller's job: the value passed
// in must already be in the user's local day.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD string into a canonical calendar day.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a calendar day", ErrInvalidInput, s)
	}
	return DayOf(t), nil
}

// FormatDay renders a day as YYYY-MM-DD.
func FormatDay(t time.Time) string {
	return t.Format(dayLayout)
}
