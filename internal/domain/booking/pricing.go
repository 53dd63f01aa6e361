package booking

import (
	"rental-engine/internal/domain/interval"
	"rental-engine/internal/domain/pricing"
	"rental-engine/internal/domain/vehicle"
)

// Selection is what the renter picked on the period step.
type Selection struct {
	Tier      pricing.Tier
	Period    *interval.DateInterval
	UnitCount int
	// WithInsurance opts into the deductible insurance add-on. QuotedInsurance
	// is the price shown to the renter; it is clamped, never trusted.
	WithInsurance   bool
	QuotedInsurance *pricing.Money
}

type InsuranceCoverage struct {
	DaysCovered        int
	DailyRate          pricing.Money
	Amount             pricing.Money
	OriginalDeductible pricing.Money
	NewDeductible      pricing.Money
}

type Priced struct {
	Quote     pricing.RateQuote
	Charges   pricing.ChargeBreakdown
	Insurance *InsuranceCoverage
}

type Pricer struct {
	insurance pricing.InsuranceQuoter
	policy    pricing.Policy
}

func NewPricer(insurance pricing.InsuranceQuoter, policy pricing.Policy) *Pricer {
	return &Pricer{insurance: insurance, policy: policy}
}

// Price recomputes the full charge breakdown from the vehicle record. availableCredit
// is the renter's referral balance before the per-booking cap.
func (p *Pricer) Price(v *vehicle.Vehicle, sel Selection, availableCredit pricing.Money) (Priced, error) {
	quote, err := pricing.Resolve(v.Rates(), sel.Tier, sel.Period, sel.UnitCount)
	if err != nil {
		return Priced{}, err
	}

	var coverage *InsuranceCoverage
	if sel.WithInsurance {
		q := p.insurance.Quote(quote.Tier, quote.BillableUnitCount)
		amount := q.Price
		if sel.QuotedInsurance != nil {
			amount = *sel.QuotedInsurance
		}
		if sel.Period != nil && !sel.Period.IsZero() {
			amount = p.insurance.Clamp(amount, *sel.Period)
		}
		coverage = &InsuranceCoverage{
			DaysCovered:        q.DaysCovered,
			DailyRate:          q.DailyRate,
			Amount:             amount,
			OriginalDeductible: q.OriginalDeductible,
		}
	}

	prepaid := v.PrepaidRent()
	if prepaid.Enabled && prepaid.Months < 1 {
		prepaid.Months = p.policy.DefaultPrepaidMonths
	}

	in := pricing.ChargeInput{
		Quote:          quote,
		Deposit:        v.Deposit(),
		PrepaidRent:    prepaid,
		ReferralCredit: pricing.ApplicableReferralCredit(availableCredit, p.policy),
	}
	if coverage != nil {
		in.InsuranceFee = coverage.Amount
	}

	return Priced{Quote: quote, Charges: pricing.Calculate(in), Insurance: coverage}, nil
}
