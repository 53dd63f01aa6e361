package booking

import (
	"time"

	"rental-engine/internal/domain/interval"
	"rental-engine/internal/domain/payment"
	"rental-engine/internal/domain/pricing"
	"rental-engine/internal/domain/user"
	"rental-engine/internal/domain/vehicle"
	"rental-engine/internal/pkg/clock"
	"rental-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

type Request struct {
	Renter        *user.Profile
	Vehicle       *vehicle.Vehicle
	StartDate     time.Time
	EndDate       time.Time
	Selection     Selection
	PaymentMethod *payment.Method
	Details       RenterDetails
}

type Factory struct {
	Clock  clock.Clock
	Pricer *Pricer
}

func NewFactory(clock clock.Clock, pricer *Pricer) *Factory {
	return &Factory{
		Clock:  clock,
		Pricer: pricer,
	}
}

// CreateBooking validates a request and prices it from the vehicle record.
// The returned booking is pending; the overlap check against stored
// bookings is the caller's responsibility.
func (f *Factory) CreateBooking(req Request) (*Booking, error) {
	if req.Renter.IsBanned() {
		return nil, errs.Validation(ErrRenterBanned, errs.FieldError{Field: "account", Message: "is not allowed to book"})
	}
	if !req.Vehicle.IsAvailable() {
		return nil, errs.Validation(ErrVehicleUnavailable, errs.FieldError{Field: "vehicle_id", Message: "is not available"})
	}

	details := req.Details.Sanitize()
	var fields errs.FieldErrors
	details.Validate(&fields)

	period := f.validatePeriod(req, &fields)

	if req.PaymentMethod != nil && !req.Vehicle.AcceptedPaymentMethods().Accepts(*req.PaymentMethod) {
		fields.Add("payment_method", "is not accepted for this vehicle")
	}
	if req.Selection.WithInsurance && req.Selection.QuotedInsurance != nil && req.Selection.QuotedInsurance.IsNegative() {
		fields.Add("insurance_price", "must not be negative")
	}

	if err := fields.Err(ErrInvalidBooking); err != nil {
		return nil, err
	}

	sel := req.Selection
	sel.Period = &period
	priced, err := f.Pricer.Price(req.Vehicle, sel, req.Renter.ReferralCredit())
	if err != nil {
		return nil, err
	}

	now := f.Clock.Now()
	return &Booking{
		id:            uuid.New(),
		vehicleID:     req.Vehicle.ID(),
		renterID:      req.Renter.ID(),
		lessorID:      req.Vehicle.OwnerID(),
		period:        period,
		tier:          priced.Quote.Tier,
		charges:       priced.Charges,
		insurance:     priced.Insurance,
		details:       details,
		paymentMethod: req.PaymentMethod,
		status:        StatusPending,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

func (f *Factory) validatePeriod(req Request, fields *errs.FieldErrors) interval.DateInterval {
	if req.StartDate.IsZero() {
		fields.Add("start_date", "is required")
		return interval.DateInterval{}
	}
	today := interval.Normalize(f.Clock.Now())
	if interval.Normalize(req.StartDate).Before(today) {
		fields.Add("start_date", "cannot be in the past")
		return interval.DateInterval{}
	}

	period, err := interval.New(req.StartDate, req.EndDate)
	if err != nil {
		for _, fe := range errs.FieldsOf(err) {
			fields.Add(fe.Field, fe.Message)
		}
		return interval.DateInterval{}
	}

	// Weekly and monthly counts are authoritative, so the checkout date must be the one they imply.
	tier := req.Selection.Tier
	if tier == pricing.TierWeekly || tier == pricing.TierMonthly {
		if req.Selection.UnitCount < 1 {
			fields.Add("unit_count", "must be at least 1")
			return interval.DateInterval{}
		}
		want := pricing.EndDateFor(tier, period.Start(), req.Selection.UnitCount)
		if !period.End().Equal(want) {
			fields.Add("end_date", "must be "+interval.FormatDate(want)+" for a "+tier.String()+" rental of this length")
			return interval.DateInterval{}
		}
	}
	return period
}
