package request

import (
	"strings"
	"time"

	"rental-engine/internal/domain/booking"
	"rental-engine/internal/domain/inspection"
	"rental-engine/internal/domain/interval"
	"rental-engine/internal/domain/payment"
	"rental-engine/internal/domain/pricing"
	"rental-engine/internal/domain/workflow"
	"rental-engine/internal/pkg/errs"
	"rental-engine/internal/pkg/patch"
	"rental-engine/internal/usecase/commands"
	"rental-engine/internal/usecase/queries"

	"github.com/google/uuid"
)

type ExtraDriverRequest struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	LicenseNumber string `json:"license_number"`
}

type RenterDetailsRequest struct {
	FirstName     string              `json:"first_name"`
	LastName      string              `json:"last_name"`
	Email         string              `json:"email"`
	Phone         string              `json:"phone"`
	Address       string              `json:"address"`
	City          string              `json:"city"`
	PostalCode    string              `json:"postal_code"`
	LicenseNumber string              `json:"license_number"`
	Notes         string              `json:"notes"`
	ExtraDriver   *ExtraDriverRequest `json:"extra_driver,omitempty"`
}

func (r RenterDetailsRequest) ToDomain() booking.RenterDetails {
	d := booking.RenterDetails{
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		Email:         r.Email,
		Phone:         r.Phone,
		Address:       r.Address,
		City:          r.City,
		PostalCode:    r.PostalCode,
		LicenseNumber: r.LicenseNumber,
		Notes:         r.Notes,
	}
	if r.ExtraDriver != nil {
		d.ExtraDriver = &booking.ExtraDriver{
			FirstName:     r.ExtraDriver.FirstName,
			LastName:      r.ExtraDriver.LastName,
			LicenseNumber: r.ExtraDriver.LicenseNumber,
		}
	}
	return d
}

type CreateBookingRequest struct {
	VehicleID uuid.UUID `json:"vehicle_id" binding:"required"`
	StartDate string    `json:"start_date" binding:"required"`
	// EndDate may be omitted for weekly and monthly rentals; it is derived from the unit count.
	EndDate        string               `json:"end_date"`
	Tier           *string              `json:"tier,omitempty"`
	UnitCount      *int                 `json:"unit_count,omitempty"`
	WithInsurance  bool                 `json:"with_insurance"`
	InsurancePrice *float64             `json:"insurance_price,omitempty"`
	PaymentMethod  *string              `json:"payment_method,omitempty"`
	Details        RenterDetailsRequest `json:"details"`
}

func (r CreateBookingRequest) ToSubmission(renterID uuid.UUID) (workflow.BookingSubmission, error) {
	var fields errs.FieldErrors

	tier := parseTier(&fields, r.Tier)
	unitCount := patch.Coalesce(r.UnitCount, 1)
	start := parseDate(&fields, "start_date", r.StartDate)

	var end *time.Time
	if strings.TrimSpace(r.EndDate) != "" {
		end = parseDate(&fields, "end_date", r.EndDate)
	} else if start != nil && tier != pricing.TierDaily && unitCount >= 1 {
		derived := pricing.EndDateFor(tier, *start, unitCount)
		end = &derived
	} else {
		fields.Add("end_date", "is required")
	}

	method := parseMethod(&fields, r.PaymentMethod)
	if !fields.Empty() {
		return workflow.BookingSubmission{}, fields.Err(errs.ErrBookingInvalid)
	}

	sub := workflow.BookingSubmission{
		VehicleID:     r.VehicleID,
		RenterID:      renterID,
		StartDate:     *start,
		EndDate:       *end,
		Tier:          tier,
		UnitCount:     unitCount,
		WithInsurance: r.WithInsurance,
		PaymentMethod: method,
		Details:       r.Details.ToDomain(),
	}
	if r.InsurancePrice != nil {
		price := pricing.FromFloat(*r.InsurancePrice)
		sub.InsurancePrice = &price
	}
	return sub, nil
}

type QuoteRequest struct {
	Tier          *string `json:"tier,omitempty"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	UnitCount     *int    `json:"unit_count,omitempty"`
	WithInsurance bool    `json:"with_insurance"`
}

func (r QuoteRequest) ToInput() (queries.QuoteInput, error) {
	var fields errs.FieldErrors
	in := queries.QuoteInput{
		Tier:          parseTier(&fields, r.Tier),
		UnitCount:     patch.Coalesce(r.UnitCount, 1),
		WithInsurance: r.WithInsurance,
	}
	if strings.TrimSpace(r.StartDate) != "" {
		in.StartDate = parseDate(&fields, "start_date", r.StartDate)
	}
	if strings.TrimSpace(r.EndDate) != "" {
		in.EndDate = parseDate(&fields, "end_date", r.EndDate)
	}
	if !fields.Empty() {
		return queries.QuoteInput{}, fields.Err(errs.ErrBookingInvalid)
	}
	return in, nil
}

type RecordInspectionRequest struct {
	Kind      string  `json:"kind" binding:"required"`
	FuelLevel *string `json:"fuel_level,omitempty"`
	Mileage   *int    `json:"mileage,omitempty"`
	Notes     string  `json:"notes"`
}

func (r RecordInspectionRequest) ToInput(bookingID uuid.UUID, inspector queries.Actor) (commands.RecordInspectionInput, error) {
	var fields errs.FieldErrors

	kind, err := inspection.ParseKind(r.Kind)
	if err != nil {
		fields.Add("kind", "must be pickup or return")
	}
	var level *inspection.FuelLevel
	if r.FuelLevel != nil {
		l, err := inspection.ParseFuelLevel(*r.FuelLevel)
		if err != nil {
			fields.Add("fuel_level", "must be one of empty, quarter, half, three_quarters, full")
		} else {
			level = &l
		}
	}
	if !fields.Empty() {
		return commands.RecordInspectionInput{}, fields.Err(errs.ErrBookingInvalid)
	}

	return commands.RecordInspectionInput{
		BookingID: bookingID,
		Inspector: inspector,
		Kind:      kind,
		FuelLevel: level,
		Mileage:   r.Mileage,
		Notes:     r.Notes,
	}, nil
}

func parseDate(fields *errs.FieldErrors, field, s string) *time.Time {
	t, err := interval.ParseDate(strings.TrimSpace(s))
	if err != nil {
		fields.Add(field, "expected YYYY-MM-DD")
		return nil
	}
	return &t
}

func parseTier(fields *errs.FieldErrors, s *string) pricing.Tier {
	if s == nil {
		return pricing.TierDaily
	}
	tier, err := pricing.ParseTier(*s)
	if err != nil {
		fields.Add("tier", "must be daily, weekly or monthly")
		return pricing.TierDaily
	}
	return tier
}

func parseMethod(fields *errs.FieldErrors, s *string) *payment.Method {
	if s == nil {
		return nil
	}
	m, err := payment.ParseMethod(*s)
	if err != nil {
		fields.Add("payment_method", "is not supported")
		return nil
	}
	return &m
}
