package session

import (
	"time"

	"rental-engine/internal/domain/booking"
	"rental-engine/internal/domain/payment"
	"rental-engine/internal/domain/pricing"
	"rental-engine/internal/domain/workflow"

	"github.com/jinzhu/copier"
)

// DraftPatch carries the fields a client changed. Nil fields keep their value.
type DraftPatch struct {
	StartDate     *time.Time
	EndDate       *time.Time
	Tier          *pricing.Tier
	UnitCount     *int
	WithInsurance *bool
	Details       *DetailsPatch

	LicenseCountry *string
	FrontImage     *workflow.Document
	BackImage      *workflow.Document

	Consents      *ConsentsPatch
	PaymentMethod *payment.Method
}

type DetailsPatch struct {
	FirstName     *string
	LastName      *string
	Email         *string
	Phone         *string
	Address       *string
	City          *string
	PostalCode    *string
	LicenseNumber *string
	Notes         *string
	ExtraDriver   *booking.ExtraDriver
}

type ConsentsPatch struct {
	Terms              *bool
	FullValueLiability *bool
}

func (p DraftPatch) applyTo(d *workflow.Draft) error {
	return copier.CopyWithOption(d, &p, copier.Option{IgnoreEmpty: true})
}
