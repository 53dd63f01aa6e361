package booking

import (
	"errors"
	"time"

	"rental-engine/internal/domain/interval"
	"rental-engine/internal/domain/payment"
	"rental-engine/internal/domain/pricing"

	"github.com/google/uuid"
)

var (
	ErrInvalidBooking     = errors.New("invalid booking")
	ErrVehicleUnavailable = errors.New("vehicle is not available for booking")
	ErrRenterBanned       = errors.New("account is not allowed to book")
	ErrNegativeFuelFee    = errors.New("fuel fee cannot be negative")
)

type Booking struct {
	id            uuid.UUID
	vehicleID     uuid.UUID
	renterID      uuid.UUID
	lessorID      uuid.UUID
	period        interval.DateInterval
	tier          pricing.Tier
	charges       pricing.ChargeBreakdown
	insurance     *InsuranceCoverage
	details       RenterDetails
	paymentMethod *payment.Method
	status        Status
	fuelFee       *pricing.Money
	createdAt     time.Time
	updatedAt     time.Time
}

// Snapshot carries every persisted column of a booking.
type Snapshot struct {
	ID            uuid.UUID
	VehicleID     uuid.UUID
	RenterID      uuid.UUID
	LessorID      uuid.UUID
	Period        interval.DateInterval
	Tier          pricing.Tier
	Charges       pricing.ChargeBreakdown
	Insurance     *InsuranceCoverage
	Details       RenterDetails
	PaymentMethod *payment.Method
	Status        Status
	FuelFee       *pricing.Money
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func Reconstruct(s Snapshot) *Booking {
	return &Booking{
		id:            s.ID,
		vehicleID:     s.VehicleID,
		renterID:      s.RenterID,
		lessorID:      s.LessorID,
		period:        s.Period,
		tier:          s.Tier,
		charges:       s.Charges,
		insurance:     s.Insurance,
		details:       s.Details,
		paymentMethod: s.PaymentMethod,
		status:        s.Status,
		fuelFee:       s.FuelFee,
		createdAt:     s.CreatedAt,
		updatedAt:     s.UpdatedAt,
	}
}

// ApplyFuelFee replaces the standalone fuel charge. Applying the same fee twice
// leaves the booking unchanged and a zero fee removes the charge.
func (b *Booking) ApplyFuelFee(fee pricing.Money) error {
	if fee.IsNegative() {
		return ErrNegativeFuelFee
	}
	if fee.IsZero() {
		b.fuelFee = nil
		return nil
	}
	f := fee
	b.fuelFee = &f
	return nil
}

func (b *Booking) IsCancelled() bool {
	return b.status == StatusCancelled
}

func (b *Booking) ReservedPeriod() (uuid.UUID, interval.DateInterval, Status) {
	return b.id, b.period, b.status
}

func (b *Booking) ID() uuid.UUID                    { return b.id }
func (b *Booking) VehicleID() uuid.UUID             { return b.vehicleID }
func (b *Booking) RenterID() uuid.UUID              { return b.renterID }
func (b *Booking) LessorID() uuid.UUID              { return b.lessorID }
func (b *Booking) Period() interval.DateInterval    { return b.period }
func (b *Booking) Tier() pricing.Tier               { return b.tier }
func (b *Booking) Charges() pricing.ChargeBreakdown { return b.charges }
func (b *Booking) Insurance() *InsuranceCoverage    { return b.insurance }
func (b *Booking) Details() RenterDetails           { return b.details }
func (b *Booking) PaymentMethod() *payment.Method   { return b.paymentMethod }
func (b *Booking) Status() Status                   { return b.status }
func (b *Booking) FuelFee() *pricing.Money          { return b.fuelFee }
func (b *Booking) CreatedAt() time.Time             { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time             { return b.updatedAt }
