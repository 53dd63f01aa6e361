package pricing

import "rental-engine/internal/domain/interval"

type InsuranceQuote struct {
	DaysCovered        int
	DailyRate          Money
	Price              Money
	OriginalDeductible Money
}

// InsuranceQuoter prices the deductible-insurance add-on for a selection.
type InsuranceQuoter interface {
	Quote(tier Tier, unitCount int) InsuranceQuote
	// Clamp bounds a quoted price by the per-day rate over the actual period.
	Clamp(price Money, period interval.DateInterval) Money
}

type DeductibleInsurance struct {
	policy Policy
}

func NewDeductibleInsurance(policy Policy) *DeductibleInsurance {
	return &DeductibleInsurance{policy: policy}
}

// Quote charges the daily rate over the nominal coverage days, capped per
// started thirty-day month.
func (d *DeductibleInsurance) Quote(tier Tier, unitCount int) InsuranceQuote {
	days := max(0, unitCount) * tier.DaysPerUnit()
	if days == 0 {
		return InsuranceQuote{DailyRate: d.policy.InsuranceDailyRate, OriginalDeductible: d.policy.OriginalDeductible}
	}
	months := (days + 29) / 30
	raw := d.policy.InsuranceDailyRate.Mul(int64(days))
	capped := d.policy.InsuranceMonthlyCap.Mul(int64(months))
	return InsuranceQuote{
		DaysCovered:        days,
		DailyRate:          d.policy.InsuranceDailyRate,
		Price:              MinMoney(raw, capped),
		OriginalDeductible: d.policy.OriginalDeductible,
	}
}

func (d *DeductibleInsurance) Clamp(price Money, period interval.DateInterval) Money {
	limit := d.policy.InsuranceDailyRate.Mul(int64(max(1, period.Days())))
	return MaxMoney(Money{}, MinMoney(price, limit))
}

var _ InsuranceQuoter = (*DeductibleInsurance)(nil)
