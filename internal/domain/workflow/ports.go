package workflow

import (
	"context"
	"time"

	"rental-engine/internal/domain/booking"
	"rental-engine/internal/domain/license"
	"rental-engine/internal/domain/payment"
	"rental-engine/internal/domain/pricing"

	"github.com/google/uuid"
)

// BookingSubmission is the payload of the single creation call made when the
// Confirmation step is left.
type BookingSubmission struct {
	VehicleID      uuid.UUID
	RenterID       uuid.UUID
	StartDate      time.Time
	EndDate        time.Time
	Tier           pricing.Tier
	UnitCount      int
	WithInsurance  bool
	InsurancePrice *pricing.Money
	PaymentMethod  *payment.Method
	Details        booking.RenterDetails
}

type CreatedBooking struct {
	BookingID  uuid.UUID
	TotalPrice pricing.Money
}

// BookingCreator is never retried by the machine. A renter resubmitting the
// same submission must get the booking an earlier attempt already committed.
type BookingCreator interface {
	CreateBooking(ctx context.Context, s BookingSubmission) (CreatedBooking, error)
}

type LicenseUpload struct {
	RenterID uuid.UUID
	Number   string
	Country  string
	Front    Document
	Back     Document
}

type LicenseVerifier interface {
	SubmitLicense(ctx context.Context, upload LicenseUpload) (license.License, error)
	LicenseHistory(ctx context.Context, renterID uuid.UUID) ([]license.License, error)
}

type PaymentHandoff interface {
	RedirectToPayment(ctx context.Context, bookingID uuid.UUID) (string, error)
}
