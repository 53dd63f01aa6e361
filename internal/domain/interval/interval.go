package interval

import (
	"errors"
	"fmt"
	"time"

	"rental-engine/internal/pkg/errs"
)

const dateLayout = "2006-01-02"

var (
	ErrInvalidInterval = errors.New("end date must be after start date")
	ErrInvalidDate     = errors.New("invalid calendar date")
)

// DateInterval is a half-open range of calendar days: start is the first
// rented day, end is the checkout day and is not occupied.
type DateInterval struct {
	start time.Time
	end   time.Time
}

func New(start, end time.Time) (DateInterval, error) {
	if start.IsZero() || end.IsZero() {
		return DateInterval{}, errs.Validation(ErrInvalidDate, errs.FieldError{Field: "period", Message: "start and end dates are required"})
	}
	s, e := Normalize(start), Normalize(end)
	if !e.After(s) {
		return DateInterval{}, errs.Validation(ErrInvalidInterval, errs.FieldError{Field: "end_date", Message: "must be after start date"})
	}
	return DateInterval{start: s, end: e}, nil
}

// MustNew is for literals in tests and fixtures.
func MustNew(start, end time.Time) DateInterval {
	d, err := New(start, end)
	if err != nil {
		panic(err)
	}
	return d
}

func Parse(start, end string) (DateInterval, error) {
	s, err := ParseDate(start)
	if err != nil {
		return DateInterval{}, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return DateInterval{}, err
	}
	return New(s, e)
}

func (d DateInterval) Start() time.Time { return d.start }
func (d DateInterval) End() time.Time   { return d.end }
func (d DateInterval) IsZero() bool     { return d.start.IsZero() && d.end.IsZero() }

// Overlaps is symmetric; intervals that only touch do not overlap.
func Overlaps(a, b DateInterval) bool {
	return a.start.Before(b.end) && b.start.Before(a.end)
}

func (d DateInterval) Overlaps(other DateInterval) bool {
	return Overlaps(d, other)
}

func (d DateInterval) Contains(date time.Time) bool {
	day := Normalize(date)
	return !day.Before(d.start) && day.Before(d.end)
}

func (d DateInterval) Days() int {
	return DaysBetween(d.end, d.start)
}

// Daterange renders the interval as a Postgres daterange literal.
func (d DateInterval) Daterange() string {
	return fmt.Sprintf("[%s,%s)", FormatDate(d.start), FormatDate(d.end))
}

func (d DateInterval) String() string {
	return d.Daterange()
}
