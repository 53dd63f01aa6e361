package pricing

import (
	"errors"

	"rental-engine/internal/pkg/errs"
)

var ErrNegativeRate = errors.New("rate cannot be negative")

// RateSchedule holds a vehicle's unit prices. Weekly and monthly are optional
// and fall back to seven and thirty daily units.
type RateSchedule struct {
	Daily   Money
	Weekly  *Money
	Monthly *Money
}

func NewRateSchedule(daily Money, weekly, monthly *Money) (RateSchedule, error) {
	var fields errs.FieldErrors
	if daily.IsNegative() {
		fields.Add("daily_price", "must not be negative")
	}
	if weekly != nil && weekly.IsNegative() {
		fields.Add("weekly_price", "must not be negative")
	}
	if monthly != nil && monthly.IsNegative() {
		fields.Add("monthly_price", "must not be negative")
	}
	if err := fields.Err(ErrNegativeRate); err != nil {
		return RateSchedule{}, err
	}
	return RateSchedule{Daily: daily, Weekly: weekly, Monthly: monthly}, nil
}

func (s RateSchedule) UnitPrice(tier Tier) Money {
	switch tier {
	case TierWeekly:
		if s.Weekly != nil {
			return *s.Weekly
		}
		return s.Daily.Mul(7)
	case TierMonthly:
		if s.Monthly != nil {
			return *s.Monthly
		}
		return s.Daily.Mul(30)
	default:
		return s.Daily
	}
}
