package request

import (
	"rental-engine/internal/domain/booking"
	"rental-engine/internal/domain/workflow"
	"rental-engine/internal/pkg/errs"
	"rental-engine/internal/usecase/session"

	"github.com/google/uuid"
)

type StartSessionRequest struct {
	VehicleID uuid.UUID `json:"vehicle_id" binding:"required"`
}

// DocumentRequest carries an image inline; Data is base64 in JSON.
type DocumentRequest struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

func (r *DocumentRequest) toDomain() *workflow.Document {
	if r == nil {
		return nil
	}
	return &workflow.Document{FileName: r.FileName, ContentType: r.ContentType, Data: r.Data}
}

type DetailsPatchRequest struct {
	FirstName     *string             `json:"first_name,omitempty"`
	LastName      *string             `json:"last_name,omitempty"`
	Email         *string             `json:"email,omitempty"`
	Phone         *string             `json:"phone,omitempty"`
	Address       *string             `json:"address,omitempty"`
	City          *string             `json:"city,omitempty"`
	PostalCode    *string             `json:"postal_code,omitempty"`
	LicenseNumber *string             `json:"license_number,omitempty"`
	Notes         *string             `json:"notes,omitempty"`
	ExtraDriver   *ExtraDriverRequest `json:"extra_driver,omitempty"`
}

type ConsentsPatchRequest struct {
	Terms              *bool `json:"terms,omitempty"`
	FullValueLiability *bool `json:"full_value_liability,omitempty"`
}

// UpdateSessionRequest changes only the fields that are present.
type UpdateSessionRequest struct {
	StartDate      *string               `json:"start_date,omitempty"`
	EndDate        *string               `json:"end_date,omitempty"`
	Tier           *string               `json:"tier,omitempty"`
	UnitCount      *int                  `json:"unit_count,omitempty"`
	WithInsurance  *bool                 `json:"with_insurance,omitempty"`
	Details        *DetailsPatchRequest  `json:"details,omitempty"`
	LicenseCountry *string               `json:"license_country,omitempty"`
	FrontImage     *DocumentRequest      `json:"front_image,omitempty"`
	BackImage      *DocumentRequest      `json:"back_image,omitempty"`
	Consents       *ConsentsPatchRequest `json:"consents,omitempty"`
	PaymentMethod  *string               `json:"payment_method,omitempty"`
}

func (r UpdateSessionRequest) ToPatch() (session.DraftPatch, error) {
	var fields errs.FieldErrors

	p := session.DraftPatch{
		UnitCount:      r.UnitCount,
		WithInsurance:  r.WithInsurance,
		LicenseCountry: r.LicenseCountry,
		FrontImage:     r.FrontImage.toDomain(),
		BackImage:      r.BackImage.toDomain(),
		PaymentMethod:  parseMethod(&fields, r.PaymentMethod),
	}
	if r.StartDate != nil {
		p.StartDate = parseDate(&fields, "start_date", *r.StartDate)
	}
	if r.EndDate != nil {
		p.EndDate = parseDate(&fields, "end_date", *r.EndDate)
	}
	if r.Tier != nil {
		tier := parseTier(&fields, r.Tier)
		p.Tier = &tier
	}
	if r.UnitCount != nil && *r.UnitCount < 1 {
		fields.Add("unit_count", "must be at least 1")
	}
	if !fields.Empty() {
		return session.DraftPatch{}, fields.Err(errs.ErrBookingInvalid)
	}

	if d := r.Details; d != nil {
		p.Details = &session.DetailsPatch{
			FirstName:     d.FirstName,
			LastName:      d.LastName,
			Email:         d.Email,
			Phone:         d.Phone,
			Address:       d.Address,
			City:          d.City,
			PostalCode:    d.PostalCode,
			LicenseNumber: d.LicenseNumber,
			Notes:         d.Notes,
		}
		if d.ExtraDriver != nil {
			p.Details.ExtraDriver = &booking.ExtraDriver{
				FirstName:     d.ExtraDriver.FirstName,
				LastName:      d.ExtraDriver.LastName,
				LicenseNumber: d.ExtraDriver.LicenseNumber,
			}
		}
	}
	if c := r.Consents; c != nil {
		p.Consents = &session.ConsentsPatch{Terms: c.Terms, FullValueLiability: c.FullValueLiability}
	}
	return p, nil
}
