package interval

import (
	"time"

	"rental-engine/internal/pkg/errs"
)

// Normalize keeps the calendar date of t as written and drops the clock part.
func Normalize(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, errs.Validation(ErrInvalidDate, errs.FieldError{Field: "date", Message: "expected YYYY-MM-DD"})
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return Normalize(t).Format(dateLayout)
}

// DaysBetween counts whole calendar days from start to end; negative when end precedes start.
func DaysBetween(end, start time.Time) int {
	return int(Normalize(end).Sub(Normalize(start)).Hours() / 24)
}

func AddDays(t time.Time, n int) time.Time {
	return Normalize(t).AddDate(0, 0, n)
}
