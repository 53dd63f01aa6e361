package workflow

import (
	"slices"
	"time"

	"rental-engine/internal/domain/booking"
	"rental-engine/internal/domain/payment"
	"rental-engine/internal/domain/pricing"
)

type Document struct {
	FileName    string
	ContentType string
	Data        []byte
}

func (d *Document) attached() bool {
	return d != nil && len(d.Data) > 0
}

type Consents struct {
	Terms              bool
	FullValueLiability bool
}

// Draft is everything the renter has entered so far.
type Draft struct {
	StartDate *time.Time
	// EndDate is only read for the daily tier. Weekly and monthly rentals
	// derive the checkout date from the unit count.
	EndDate       *time.Time
	Tier          pricing.Tier
	UnitCount     int
	WithInsurance bool
	Details       booking.RenterDetails

	LicenseCountry string
	FrontImage     *Document
	BackImage      *Document

	Consents      Consents
	PaymentMethod *payment.Method
}

func NewDraft() Draft {
	return Draft{Tier: pricing.TierDaily, UnitCount: 1}
}

// clone copies the draft so edits through its pointers do not reach d.
func (d Draft) clone() Draft {
	c := d
	c.StartDate = clonePtr(d.StartDate)
	c.EndDate = clonePtr(d.EndDate)
	c.PaymentMethod = clonePtr(d.PaymentMethod)
	c.Details.ExtraDriver = clonePtr(d.Details.ExtraDriver)
	c.FrontImage = d.FrontImage.clone()
	c.BackImage = d.BackImage.clone()
	return c
}

func (d *Document) clone() *Document {
	if d == nil {
		return nil
	}
	c := *d
	c.Data = slices.Clone(d.Data)
	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// CheckoutDate is the end of the rental implied by the draft, nil while unknown.
func (d Draft) CheckoutDate() *time.Time {
	if d.StartDate == nil {
		return nil
	}
	if d.Tier == pricing.TierWeekly || d.Tier == pricing.TierMonthly {
		if d.UnitCount < 1 {
			return nil
		}
		end := pricing.EndDateFor(d.Tier, *d.StartDate, d.UnitCount)
		return &end
	}
	return d.EndDate
}
