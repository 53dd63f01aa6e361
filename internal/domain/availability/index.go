package availability

import (
	"sort"
	"time"

	"rental-engine/internal/domain/booking"
	"rental-engine/internal/domain/interval"

	"github.com/google/uuid"
)

// DefaultHorizonDays bounds the forward scan of NextAvailableDate.
const DefaultHorizonDays = 365

type ReservedPeriod struct {
	BookingID uuid.UUID
	Interval  interval.DateInterval
	Status    booking.Status
}

// Index is a read-only snapshot of the periods that block a vehicle.
// It is rebuilt from a fresh query rather than mutated.
type Index struct {
	periods []ReservedPeriod
}

func NewIndex(periods []ReservedPeriod) *Index {
	active := make([]ReservedPeriod, 0, len(periods))
	for _, p := range periods {
		if !p.Status.OccupiesVehicle() || p.Interval.IsZero() {
			continue
		}
		active = append(active, p)
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].Interval.Start().Before(active[j].Interval.Start())
	})
	return &Index{periods: active}
}

func (x *Index) Periods() []ReservedPeriod {
	out := make([]ReservedPeriod, len(x.periods))
	copy(out, x.periods)
	return out
}

func (x *Index) IsDateBooked(date time.Time) bool {
	for _, p := range x.periods {
		if p.Interval.Contains(date) {
			return true
		}
	}
	return false
}

func (x *Index) IsRangeOverlapping(candidate interval.DateInterval) bool {
	return len(x.Conflicts(candidate)) > 0
}

// Conflicts lists every reserved period that shares at least one night with candidate.
func (x *Index) Conflicts(candidate interval.DateInterval) []ReservedPeriod {
	var out []ReservedPeriod
	for _, p := range x.periods {
		if interval.Overlaps(p.Interval, candidate) {
			out = append(out, p)
		}
	}
	return out
}

// NextAvailableDate scans forward from `from` one day at a time and returns
// the first free day. The second result is false when every day within
// horizonDays is booked.
func (x *Index) NextAvailableDate(from time.Time, horizonDays int) (time.Time, bool) {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	day := interval.Normalize(from)
	for i := 0; i < horizonDays; i++ {
		if !x.IsDateBooked(day) {
			return day, true
		}
		day = day.AddDate(0, 0, 1)
	}
	return time.Time{}, false
}

// DisabledDatePredicate returns a pure function over this snapshot, for date pickers.
func (x *Index) DisabledDatePredicate() func(time.Time) bool {
	return x.IsDateBooked
}

// BookedDates expands every reserved period into its occupied days, in order and without duplicates.
func (x *Index) BookedDates() []time.Time {
	seen := make(map[time.Time]struct{})
	var out []time.Time
	for _, p := range x.periods {
		for d := p.Interval.Start(); d.Before(p.Interval.End()); d = d.AddDate(0, 0, 1) {
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

type CalendarDay struct {
	Date   time.Time
	Booked bool
}

func (x *Index) Calendar(from time.Time, days int) []CalendarDay {
	if days <= 0 {
		return nil
	}
	out := make([]CalendarDay, 0, days)
	day := interval.Normalize(from)
	for i := 0; i < days; i++ {
		out = append(out, CalendarDay{Date: day, Booked: x.IsDateBooked(day)})
		day = day.AddDate(0, 0, 1)
	}
	return out
}
