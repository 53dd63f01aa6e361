//go:build unit || e2e

package builder

import (
	"time"

	"rental-engine/internal/domain/booking"
	"rental-engine/internal/domain/inspection"
	"rental-engine/internal/domain/interval"
	"rental-engine/internal/domain/payment"
	"rental-engine/internal/domain/pricing"
	"rental-engine/internal/domain/user"
	"rental-engine/internal/domain/vehicle"
	"rental-engine/internal/domain/workflow"
	reqdto "rental-engine/internal/handler/dto/request"

	"github.com/google/uuid"
)

// Today is the fixed clock reading used by booking fixtures.
var Today = time.Date(2024, 1, 20, 9, 30, 0, 0, time.UTC)

type BookingBuilder struct {
	RenterID       uuid.UUID
	RenterEmail    string
	Banned         bool
	ReferralCredit pricing.Money

	VehicleID        uuid.UUID
	OwnerID          uuid.UUID
	VehicleName      string
	DailyRate        pricing.Money
	WeeklyRate       *pricing.Money
	MonthlyRate      *pricing.Money
	Deposit          pricing.DepositTerms
	PrepaidRent      pricing.PrepaidRentTerms
	AcceptedPayments payment.Methods
	FuelPolicy       inspection.FuelPolicy
	Available        bool

	StartDate       time.Time
	EndDate         time.Time
	Tier            pricing.Tier
	UnitCount       int
	WithInsurance   bool
	QuotedInsurance *pricing.Money
	PaymentMethod   *payment.Method
	Details         booking.RenterDetails
}

func NewBookingBuilder() *BookingBuilder {
	return &BookingBuilder{
		RenterID:    uuid.New(),
		RenterEmail: "renter@example.com",
		VehicleID:   uuid.New(),
		OwnerID:     uuid.New(),
		VehicleName: "Toyota Aygo",
		DailyRate:   pricing.Major(500),
		Available:   true,
		StartDate:   time.Date(2024, 1, 22, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2024, 1, 24, 0, 0, 0, 0, time.UTC),
		Tier:        pricing.TierDaily,
		UnitCount:   1,
		Details: booking.RenterDetails{
			FirstName:     "Mette",
			LastName:      "Jensen",
			Email:         "renter@example.com",
			Phone:         "+45 12 34 56 78",
			Address:       "Nørregade 1",
			City:          "København",
			PostalCode:    "1165",
			LicenseNumber: "DK12345678",
		},
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *BookingBuilder) BuildRenter() *user.Profile {
	return user.NewProfile(b.RenterID, b.RenterEmail, user.RoleRenter, b.Banned, b.ReferralCredit)
}

func (b *BookingBuilder) BuildVehicle() *vehicle.Vehicle {
	v, err := vehicle.NewVehicle(vehicle.Params{
		ID:                     b.VehicleID,
		OwnerID:                b.OwnerID,
		Name:                   b.VehicleName,
		Rates:                  pricing.RateSchedule{Daily: b.DailyRate, Weekly: b.WeeklyRate, Monthly: b.MonthlyRate},
		Deposit:                b.Deposit,
		PrepaidRent:            b.PrepaidRent,
		FuelPolicy:             b.FuelPolicy,
		AcceptedPaymentMethods: b.AcceptedPayments,
		Available:              b.Available,
	})
	if err != nil {
		panic(err)
	}
	return v
}

func (b *BookingBuilder) BuildRequest() booking.Request {
	return booking.Request{
		Renter:    b.BuildRenter(),
		Vehicle:   b.BuildVehicle(),
		StartDate: b.StartDate,
		EndDate:   b.EndDate,
		Selection: booking.Selection{
			Tier:            b.Tier,
			UnitCount:       b.UnitCount,
			WithInsurance:   b.WithInsurance,
			QuotedInsurance: b.QuotedInsurance,
		},
		PaymentMethod: b.PaymentMethod,
		Details:       b.Details,
	}
}

func (b *BookingBuilder) BuildPeriod() interval.DateInterval {
	return interval.MustNew(b.StartDate, b.EndDate)
}

func (b *BookingBuilder) BuildSubmission() workflow.BookingSubmission {
	return workflow.BookingSubmission{
		VehicleID:      b.VehicleID,
		RenterID:       b.RenterID,
		StartDate:      b.StartDate,
		EndDate:        b.EndDate,
		Tier:           b.Tier,
		UnitCount:      b.UnitCount,
		WithInsurance:  b.WithInsurance,
		InsurancePrice: b.QuotedInsurance,
		PaymentMethod:  b.PaymentMethod,
		Details:        b.Details,
	}
}

// BuildPersisted returns a pending booking as it would be read back from storage.
func (b *BookingBuilder) BuildPersisted(id uuid.UUID, total pricing.Money) *booking.Booking {
	return booking.Reconstruct(booking.Snapshot{
		ID:        id,
		VehicleID: b.VehicleID,
		RenterID:  b.RenterID,
		LessorID:  b.OwnerID,
		Period:    b.BuildPeriod(),
		Tier:      b.Tier,
		Charges: pricing.ChargeBreakdown{
			RentalTotal: total,
			GrandTotal:  total,
		},
		Details:       b.Details,
		PaymentMethod: b.PaymentMethod,
		Status:        booking.StatusPending,
		CreatedAt:     Today,
		UpdatedAt:     Today,
	})
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	d := b.Details
	req := reqdto.CreateBookingRequest{
		VehicleID:     b.VehicleID,
		StartDate:     interval.FormatDate(b.StartDate),
		EndDate:       interval.FormatDate(b.EndDate),
		UnitCount:     &b.UnitCount,
		WithInsurance: b.WithInsurance,
		Details: reqdto.RenterDetailsRequest{
			FirstName:     d.FirstName,
			LastName:      d.LastName,
			Email:         d.Email,
			Phone:         d.Phone,
			Address:       d.Address,
			City:          d.City,
			PostalCode:    d.PostalCode,
			LicenseNumber: d.LicenseNumber,
			Notes:         d.Notes,
		},
	}
	tier := b.Tier.String()
	req.Tier = &tier
	if b.PaymentMethod != nil {
		m := string(*b.PaymentMethod)
		req.PaymentMethod = &m
	}
	if b.QuotedInsurance != nil {
		price := b.QuotedInsurance.Float()
		req.InsurancePrice = &price
	}
	return req
}

func (b *BookingBuilder) WithFuelPolicy(policy inspection.FuelPolicy) *BookingBuilder {
	b.FuelPolicy = policy
	return b
}

// Fluent builder methods
func (b *BookingBuilder) WithDates(start, end string) *BookingBuilder {
	b.StartDate = mustDate(start)
	b.EndDate = mustDate(end)
	return b
}

func (b *BookingBuilder) WithTier(tier pricing.Tier, count int) *BookingBuilder {
	b.Tier = tier
	b.UnitCount = count
	return b
}

func (b *BookingBuilder) WithPaymentMethod(m payment.Method) *BookingBuilder {
	b.PaymentMethod = &m
	return b
}

func (b *BookingBuilder) WithInsuranceQuote(price pricing.Money) *BookingBuilder {
	b.WithInsurance = true
	b.QuotedInsurance = &price
	return b
}

func (b *BookingBuilder) AsBanned() *BookingBuilder {
	b.Banned = true
	return b
}

func mustDate(s string) time.Time {
	t, err := interval.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}
