package pricing

import "errors"

var ErrInvalidTier = errors.New("invalid pricing tier")

type Tier string

const (
	TierDaily   Tier = "daily"
	TierWeekly  Tier = "weekly"
	TierMonthly Tier = "monthly"
)

func ParseTier(s string) (Tier, error) {
	switch t := Tier(s); t {
	case TierDaily, TierWeekly, TierMonthly:
		return t, nil
	case "":
		return TierDaily, nil
	default:
		return "", ErrInvalidTier
	}
}

func (t Tier) UnitLabel() string {
	switch t {
	case TierWeekly:
		return "per week"
	case TierMonthly:
		return "per month"
	default:
		return "per day"
	}
}

// DaysPerUnit is the nominal day count used by coverage products such as insurance.
func (t Tier) DaysPerUnit() int {
	switch t {
	case TierWeekly:
		return 7
	case TierMonthly:
		return 30
	default:
		return 1
	}
}

func (t Tier) String() string { return string(t) }
