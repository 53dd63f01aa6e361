package pricing

import (
	"errors"
	"time"

	"rental-engine/internal/domain/interval"
	"rental-engine/internal/pkg/errs"
)

var ErrInvalidUnitCount = errors.New("unit count must be at least 1")

type RateQuote struct {
	Tier              Tier
	UnitPrice         Money
	UnitLabel         string
	BillableUnitCount int
	RentalTotal       Money
}

// Resolve turns a tier selection into a billable quote. For the daily tier
// with a known period the day count comes from the dates (minimum one);
// otherwise chosenCount is authoritative.
func Resolve(schedule RateSchedule, tier Tier, period *interval.DateInterval, chosenCount int) (RateQuote, error) {
	count := chosenCount
	if tier == TierDaily && period != nil && !period.IsZero() {
		count = max(1, period.Days())
	}
	if count < 1 {
		return RateQuote{}, errs.Validation(ErrInvalidUnitCount, errs.FieldError{Field: "unit_count", Message: "must be at least 1"})
	}

	unit := schedule.UnitPrice(tier)
	return RateQuote{
		Tier:              tier,
		UnitPrice:         unit,
		UnitLabel:         tier.UnitLabel(),
		BillableUnitCount: count,
		RentalTotal:       unit.Mul(int64(count)),
	}, nil
}

// EndDateFor derives the checkout date for a tier selection starting on start.
func EndDateFor(tier Tier, start time.Time, count int) time.Time {
	s := interval.Normalize(start)
	switch tier {
	case TierWeekly:
		return s.AddDate(0, 0, 7*count)
	case TierMonthly:
		return s.AddDate(0, count, 0)
	default:
		return s.AddDate(0, 0, count)
	}
}
