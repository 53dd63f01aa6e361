package pricing

// Policy carries the business constants of the add-on products. Defaults can
// be overridden from the policy file at startup.
type Policy struct {
	InsuranceDailyRate   Money
	InsuranceMonthlyCap  Money
	OriginalDeductible   Money
	MaxReferralCredit    Money
	DefaultPrepaidMonths int
}

func DefaultPolicy() Policy {
	return Policy{
		InsuranceDailyRate:   Major(49),
		InsuranceMonthlyCap:  Major(400),
		OriginalDeductible:   Major(5000),
		MaxReferralCredit:    Major(500),
		DefaultPrepaidMonths: 1,
	}
}
