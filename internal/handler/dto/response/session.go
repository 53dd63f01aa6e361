package response

import (
	"time"

	"rental-engine/internal/domain/interval"
	"rental-engine/internal/domain/workflow"
	"rental-engine/internal/usecase/session"

	"github.com/google/uuid"
)

type DraftResponse struct {
	StartDate      *string `json:"startDate,omitempty"`
	EndDate        *string `json:"endDate,omitempty"`
	CheckoutDate   *string `json:"checkoutDate,omitempty"`
	Tier           string  `json:"tier"`
	UnitCount      int     `json:"unitCount"`
	WithInsurance  bool    `json:"withInsurance"`
	LicenseCountry string  `json:"licenseCountry,omitempty"`
	FrontImage     bool    `json:"frontImageAttached"`
	BackImage      bool    `json:"backImageAttached"`
	TermsAccepted  bool    `json:"termsAccepted"`
	FullLiability  bool    `json:"fullValueLiabilityAccepted"`
	PaymentMethod  *string `json:"paymentMethod,omitempty"`
}

type SessionResponse struct {
	ID                  uuid.UUID      `json:"id"`
	VehicleID           uuid.UUID      `json:"vehicleId"`
	Step                string         `json:"step"`
	LicenseRequirement  string         `json:"licenseRequirement"`
	Busy                bool           `json:"busy"`
	StaleAvailability   bool           `json:"staleAvailability"`
	Draft               DraftResponse  `json:"draft"`
	Quote               *QuoteResponse `json:"quote,omitempty"`
	BookingID           *uuid.UUID     `json:"bookingId,omitempty"`
	TotalPrice          *float64       `json:"totalPrice,omitempty"`
	PaymentRedirectURL  string         `json:"paymentRedirectUrl,omitempty"`
	PaymentMethodChosen *string        `json:"paymentMethodChosen,omitempty"`
	ExpiresAt           time.Time      `json:"expiresAt"`
}

func FromSessionView(v *session.View) *SessionResponse {
	s := v.Snapshot
	resp := &SessionResponse{
		ID:                 v.ID,
		VehicleID:          v.VehicleID,
		Step:               string(s.State.Step()),
		LicenseRequirement: s.Requirement.String(),
		Busy:               s.Busy,
		StaleAvailability:  s.StaleAvailability,
		Draft:              fromDraft(s.Draft),
		ExpiresAt:          v.ExpiresAt,
	}
	if v.Quote != nil {
		resp.Quote = FromPriced(*v.Quote)
	}
	if c := s.Created; c != nil {
		id, total := c.BookingID, c.TotalPrice.Float()
		resp.BookingID = &id
		resp.TotalPrice = &total
	}
	if p := s.Payment; p != nil {
		resp.PaymentRedirectURL = p.RedirectURL
		if p.Method != nil {
			m := string(*p.Method)
			resp.PaymentMethodChosen = &m
		}
	}
	return resp
}

func fromDraft(d workflow.Draft) DraftResponse {
	resp := DraftResponse{
		StartDate:      formatOptionalDate(d.StartDate),
		EndDate:        formatOptionalDate(d.EndDate),
		CheckoutDate:   formatOptionalDate(d.CheckoutDate()),
		Tier:           d.Tier.String(),
		UnitCount:      d.UnitCount,
		WithInsurance:  d.WithInsurance,
		LicenseCountry: d.LicenseCountry,
		FrontImage:     d.FrontImage != nil && len(d.FrontImage.Data) > 0,
		BackImage:      d.BackImage != nil && len(d.BackImage.Data) > 0,
		TermsAccepted:  d.Consents.Terms,
		FullLiability:  d.Consents.FullValueLiability,
	}
	if d.PaymentMethod != nil {
		m := string(*d.PaymentMethod)
		resp.PaymentMethod = &m
	}
	return resp
}

func formatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := interval.FormatDate(*t)
	return &s
}
