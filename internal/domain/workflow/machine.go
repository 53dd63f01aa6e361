package workflow

import (
	"context"
	"errors"
	"reflect"
	"sync"

	"rental-engine/internal/domain/availability"
	"rental-engine/internal/domain/booking"
	"rental-engine/internal/domain/interval"
	"rental-engine/internal/domain/license"
	"rental-engine/internal/domain/payment"
	"rental-engine/internal/domain/pricing"
	"rental-engine/internal/domain/user"
	"rental-engine/internal/domain/vehicle"
	"rental-engine/internal/pkg/clock"
	"rental-engine/internal/pkg/errs"
)

var (
	ErrBusy              = errors.New("another step is still in progress")
	ErrStepInvalid       = errors.New("step is incomplete")
	ErrStaleAvailability = errors.New("period no longer available, refresh availability before resubmitting")
	ErrLicenseRejected   = errors.New("license was rejected")
	ErrNotAtPayment      = errors.New("booking has not been created yet")
	ErrFinished          = errors.New("booking workflow is already finished")
	ErrBookingFixed      = errors.New("booking is already created, only the payment method can change")
)

// Context is the read-only input of one booking attempt.
type Context struct {
	Vehicle      *vehicle.Vehicle
	Renter       *user.Profile
	Availability *availability.Index
	Licenses     []license.License
}

type Deps struct {
	Clock    clock.Clock
	Pricer   *booking.Pricer
	Bookings BookingCreator
	Licenses LicenseVerifier
	Payments PaymentHandoff
}

type PaymentOutcome struct {
	Method      *payment.Method
	RedirectURL string
}

// Machine drives one booking attempt. All methods are safe for concurrent
// use; operations that call a collaborator hold the busy flag and every other
// mutation is refused with ErrBusy until they return.
type Machine struct {
	mu    sync.Mutex
	deps  Deps
	state State
	draft Draft
	ctx   Context
	busy  bool
	// stale is set when the creation call reports a conflict and cleared by RefreshAvailability.
	stale   bool
	created *CreatedBooking
	paid    *PaymentOutcome
}

func NewMachine(deps Deps, c Context) *Machine {
	if c.Availability == nil {
		c.Availability = availability.NewIndex(nil)
	}
	return &Machine{
		deps:  deps,
		state: PeriodAndIdentity{},
		draft: NewDraft(),
		ctx:   c,
	}
}

// Snapshot is a consistent copy of the machine for rendering.
type Snapshot struct {
	State             State
	Draft             Draft
	Requirement       license.Requirement
	Busy              bool
	StaleAvailability bool
	Created           *CreatedBooking
	Payment           *PaymentOutcome
}

func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		State:             m.state,
		Draft:             m.draft,
		Requirement:       license.RequirementFor(m.ctx.Licenses),
		Busy:              m.busy,
		StaleAvailability: m.stale,
		Created:           m.created,
		Payment:           m.paid,
	}
}

func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Machine) Context() Context {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ctx
}

// Edit applies changes to the draft without validating them. Once the booking
// exists only the payment method stays editable; any other change is refused
// and leaves the draft untouched.
func (m *Machine) Edit(fn func(*Draft)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.busy {
		return errs.Conflict(ErrBusy)
	}
	if m.created == nil {
		fn(&m.draft)
		return nil
	}

	next := m.draft.clone()
	fn(&next)
	before, after := m.draft, next
	before.PaymentMethod, after.PaymentMethod = nil, nil
	if !reflect.DeepEqual(before, after) {
		return errs.Conflict(ErrBookingFixed)
	}
	m.draft = next
	return nil
}

// Quote prices the current draft the same way the booking will be charged.
func (m *Machine) Quote() (booking.Priced, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sel, err := m.selection()
	if err != nil {
		return booking.Priced{}, err
	}
	return m.deps.Pricer.Price(m.ctx.Vehicle, sel, m.ctx.Renter.ReferralCredit())
}

// Prev re-enters the previous step without validating the current one.
func (m *Machine) Prev() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.busy {
		return errs.Conflict(ErrBusy)
	}
	if m.paid != nil {
		return errs.Conflict(ErrFinished)
	}
	m.state = previous(m.state)
	return nil
}

// Next validates the current step and advances on success. On failure the
// state is unchanged.
func (m *Machine) Next(ctx context.Context) error {
	m.mu.Lock()
	if m.busy {
		m.mu.Unlock()
		return errs.Conflict(ErrBusy)
	}

	switch m.state.(type) {
	case PeriodAndIdentity:
		defer m.mu.Unlock()
		if err := m.validatePeriodAndIdentity(); err != nil {
			return err
		}
		m.state = Documents{}
		return nil
	case Documents:
		return m.leaveDocuments(ctx)
	case Confirmation:
		return m.leaveConfirmation(ctx)
	default:
		m.mu.Unlock()
		return errs.Conflict(ErrFinished)
	}
}

// Pay completes the Payment step. Card payments are handed off to the
// payment provider and the redirect URL is returned.
func (m *Machine) Pay(ctx context.Context) (PaymentOutcome, error) {
	m.mu.Lock()
	if m.busy {
		m.mu.Unlock()
		return PaymentOutcome{}, errs.Conflict(ErrBusy)
	}
	st, ok := m.state.(Payment)
	if !ok {
		m.mu.Unlock()
		return PaymentOutcome{}, errs.Validation(ErrNotAtPayment, errs.FieldError{Field: "step", Message: "booking must be confirmed first"})
	}
	if m.paid != nil {
		out := *m.paid
		m.mu.Unlock()
		return out, nil
	}

	method := m.draft.PaymentMethod
	accepted := m.ctx.Vehicle.AcceptedPaymentMethods()
	var fields errs.FieldErrors
	if method == nil && accepted.Restricted() {
		fields.Add("payment_method", "is required")
	}
	if method != nil && !accepted.Accepts(*method) {
		fields.Add("payment_method", "is not accepted for this vehicle")
	}
	if err := fields.Err(ErrStepInvalid); err != nil {
		m.mu.Unlock()
		return PaymentOutcome{}, err
	}

	out := PaymentOutcome{Method: method}
	if method == nil || !method.RequiresRedirect() {
		m.paid = &out
		m.mu.Unlock()
		return out, nil
	}

	m.busy = true
	m.mu.Unlock()

	url, err := m.deps.Payments.RedirectToPayment(ctx, st.BookingID())

	m.mu.Lock()
	defer m.mu.Unlock()
	m.busy = false
	if err != nil {
		return PaymentOutcome{}, err
	}
	out.RedirectURL = url
	m.paid = &out
	return out, nil
}

// RefreshAvailability replaces the availability snapshot and lifts the
// resubmission block set by a server-side conflict.
func (m *Machine) RefreshAvailability(index *availability.Index) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.busy {
		return errs.Conflict(ErrBusy)
	}
	if index == nil {
		index = availability.NewIndex(nil)
	}
	m.ctx.Availability = index
	m.stale = false
	return nil
}

// RefreshLicenses reloads the renter's verification history.
func (m *Machine) RefreshLicenses(ctx context.Context) error {
	m.mu.Lock()
	if m.busy {
		m.mu.Unlock()
		return errs.Conflict(ErrBusy)
	}
	m.busy = true
	renterID := m.ctx.Renter.ID()
	m.mu.Unlock()

	history, err := m.deps.Licenses.LicenseHistory(ctx, renterID)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.busy = false
	if err != nil {
		return err
	}
	m.ctx.Licenses = history
	return nil
}

// The helpers below expect m.mu to be held.

func (m *Machine) period() (interval.DateInterval, error) {
	var fields errs.FieldErrors
	if m.draft.StartDate == nil {
		fields.Add("start_date", "is required")
		return interval.DateInterval{}, fields.Err(ErrStepInvalid)
	}
	end := m.draft.CheckoutDate()
	if end == nil {
		switch m.draft.Tier {
		case pricing.TierWeekly, pricing.TierMonthly:
			fields.Add("unit_count", "must be at least 1")
		default:
			fields.Add("end_date", "is required")
		}
		return interval.DateInterval{}, fields.Err(ErrStepInvalid)
	}
	return interval.New(*m.draft.StartDate, *end)
}

func (m *Machine) selection() (booking.Selection, error) {
	sel := booking.Selection{
		Tier:          m.draft.Tier,
		UnitCount:     m.draft.UnitCount,
		WithInsurance: m.draft.WithInsurance,
	}
	if m.draft.StartDate != nil && m.draft.CheckoutDate() != nil {
		p, err := m.period()
		if err != nil {
			return booking.Selection{}, err
		}
		sel.Period = &p
	}
	return sel, nil
}

func (m *Machine) validatePeriodAndIdentity() error {
	var fields errs.FieldErrors

	p, err := m.period()
	if err != nil {
		for _, f := range errs.FieldsOf(err) {
			fields.Add(f.Field, f.Message)
		}
	} else {
		today := interval.Normalize(m.deps.Clock.Now())
		if p.Start().Before(today) {
			fields.Add("start_date", "cannot be in the past")
		} else if m.ctx.Availability.IsRangeOverlapping(p) {
			fields.Add("period", "overlaps an existing booking")
		}
	}

	m.draft.Details.Sanitize().Validate(&fields)

	if m.ctx.Renter.IsBanned() {
		fields.Add("account", "is not allowed to book")
	}
	if !m.ctx.Vehicle.IsAvailable() {
		fields.Add("vehicle_id", "is not available")
	}
	return fields.Err(ErrStepInvalid)
}

func (m *Machine) leaveDocuments(ctx context.Context) error {
	switch license.RequirementFor(m.ctx.Licenses) {
	case license.Waived, license.AwaitingVerification:
		m.state = Confirmation{}
		m.mu.Unlock()
		return nil
	}

	var fields errs.FieldErrors
	if !m.draft.FrontImage.attached() {
		fields.Add("front_image", "is required")
	}
	if !m.draft.BackImage.attached() {
		fields.Add("back_image", "is required")
	}
	if m.draft.Details.LicenseNumber == "" {
		fields.Add("license_number", "is required")
	}
	if m.draft.LicenseCountry == "" {
		fields.Add("license_country", "is required")
	}
	if err := fields.Err(ErrStepInvalid); err != nil {
		m.mu.Unlock()
		return err
	}

	upload := LicenseUpload{
		RenterID: m.ctx.Renter.ID(),
		Number:   m.draft.Details.LicenseNumber,
		Country:  m.draft.LicenseCountry,
		Front:    *m.draft.FrontImage,
		Back:     *m.draft.BackImage,
	}
	m.busy = true
	m.mu.Unlock()

	submitted, err := m.deps.Licenses.SubmitLicense(ctx, upload)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.busy = false
	if err != nil {
		return err
	}

	m.ctx.Licenses = append(m.ctx.Licenses, submitted)
	if submitted.Status == license.StatusRejected {
		// Force a new capture on the next attempt.
		m.draft.FrontImage = nil
		m.draft.BackImage = nil
		return errs.Validation(ErrLicenseRejected, errs.FieldError{Field: "license", Message: "was rejected, upload new images"})
	}
	m.state = Confirmation{}
	return nil
}

func (m *Machine) leaveConfirmation(ctx context.Context) error {
	// A booking already exists when the renter navigated back from Payment.
	if m.created != nil {
		m.state = Payment{bookingID: m.created.BookingID, totalPrice: m.created.TotalPrice}
		m.mu.Unlock()
		return nil
	}

	var fields errs.FieldErrors
	if !m.draft.Consents.Terms {
		fields.Add("terms", "must be accepted")
	}
	if !m.draft.Consents.FullValueLiability {
		fields.Add("full_value_liability", "must be accepted")
	}
	if err := fields.Err(ErrStepInvalid); err != nil {
		m.mu.Unlock()
		return err
	}
	if m.stale {
		m.mu.Unlock()
		return errs.Conflict(ErrStaleAvailability)
	}

	p, err := m.period()
	if err != nil {
		m.mu.Unlock()
		return err
	}
	if m.ctx.Availability.IsRangeOverlapping(p) {
		m.mu.Unlock()
		return errs.Validation(ErrStepInvalid, errs.FieldError{Field: "period", Message: "overlaps an existing booking"})
	}

	submission := BookingSubmission{
		VehicleID:     m.ctx.Vehicle.ID(),
		RenterID:      m.ctx.Renter.ID(),
		StartDate:     p.Start(),
		EndDate:       p.End(),
		Tier:          m.draft.Tier,
		UnitCount:     m.draft.UnitCount,
		WithInsurance: m.draft.WithInsurance,
		PaymentMethod: clonePtr(m.draft.PaymentMethod),
		Details:       m.draft.Details,
	}
	submission.Details.ExtraDriver = clonePtr(m.draft.Details.ExtraDriver)
	if m.draft.WithInsurance {
		sel, err := m.selection()
		if err == nil {
			if priced, err := m.deps.Pricer.Price(m.ctx.Vehicle, sel, m.ctx.Renter.ReferralCredit()); err == nil && priced.Insurance != nil {
				amount := priced.Insurance.Amount
				submission.InsurancePrice = &amount
			}
		}
	}
	m.busy = true
	m.mu.Unlock()

	created, err := m.deps.Bookings.CreateBooking(ctx, submission)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.busy = false
	if err != nil {
		if errs.IsConflict(err) {
			m.stale = true
		}
		return err
	}
	m.created = &created
	m.state = Payment{bookingID: created.BookingID, totalPrice: created.TotalPrice}
	return nil
}
