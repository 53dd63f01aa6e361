package pricing

type DepositTerms struct {
	Required bool
	Amount   Money
}

type PrepaidRentTerms struct {
	Enabled bool
	Months  int
}

type ChargeInput struct {
	Quote          RateQuote
	Deposit        DepositTerms
	PrepaidRent    PrepaidRentTerms
	InsuranceFee   Money
	ReferralCredit Money
}

type ChargeBreakdown struct {
	UnitPrice              Money
	UnitLabel              string
	BillableUnitCount      int
	RentalTotal            Money
	Deposit                Money
	PrepaidRent            Money
	DeductibleInsuranceFee Money
	ReferralDiscount       Money
	GrandTotal             Money
}

// Calculate composes the renter-facing total. The referral discount is
// reduced so the grand total never goes below zero.
func Calculate(in ChargeInput) ChargeBreakdown {
	b := ChargeBreakdown{
		UnitPrice:              in.Quote.UnitPrice,
		UnitLabel:              in.Quote.UnitLabel,
		BillableUnitCount:      in.Quote.BillableUnitCount,
		RentalTotal:            in.Quote.RentalTotal,
		DeductibleInsuranceFee: MaxMoney(Money{}, in.InsuranceFee),
	}

	if in.Deposit.Required {
		b.Deposit = MaxMoney(Money{}, in.Deposit.Amount)
	}

	if in.Quote.Tier == TierMonthly && in.PrepaidRent.Enabled {
		months := in.PrepaidRent.Months
		if months < 1 {
			months = 1
		}
		b.PrepaidRent = in.Quote.UnitPrice.Mul(int64(months))
	}

	subtotal := b.RentalTotal.Add(b.Deposit).Add(b.PrepaidRent).Add(b.DeductibleInsuranceFee)
	b.ReferralDiscount = MinMoney(MaxMoney(Money{}, in.ReferralCredit), MaxMoney(Money{}, subtotal))
	b.GrandTotal = MaxMoney(Money{}, subtotal.Sub(b.ReferralDiscount))
	return b
}

// ApplicableReferralCredit caps the renter's available credit at the per-booking maximum.
func ApplicableReferralCredit(available Money, policy Policy) Money {
	if available.IsNegative() {
		return Money{}
	}
	return MinMoney(available, policy.MaxReferralCredit)
}
