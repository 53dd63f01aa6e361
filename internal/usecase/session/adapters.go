package session

import (
	"context"
	"reflect"
	"time"

	"rental-engine/internal/domain/license"
	"rental-engine/internal/domain/user"
	"rental-engine/internal/domain/workflow"
	"rental-engine/internal/pkg/errs"
	"rental-engine/internal/usecase/commands"
	"rental-engine/internal/usecase/queries"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// bookingCreator submits the workflow's single creation call. The call is
// detached from the request so a disconnecting client cannot abort it halfway.
//
// One idempotency key covers every resubmission of the same submission, so a
// retry after a timeout replays a booking that committed late instead of
// colliding with it. The machine serializes calls through its busy flag.
type bookingCreator struct {
	commands commands.BookingCommands
	timeout  time.Duration

	key  uuid.UUID
	last *workflow.BookingSubmission
}

func (a *bookingCreator) CreateBooking(ctx context.Context, s workflow.BookingSubmission) (workflow.CreatedBooking, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
	defer cancel()

	result, err := a.commands.CreateBooking(ctx, s, a.keyFor(s))
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			return workflow.CreatedBooking{}, errs.Dependency(errs.Wrap(err, "booking creation timed out, try again"))
		case errs.Is(err, errs.ErrIdempotencyInProgress):
			// the previous attempt is still running; it either commits and
			// replays on the next try or releases the key.
			return workflow.CreatedBooking{}, errs.Dependency(errs.Wrap(err, "booking creation still in progress, try again"))
		}
		return workflow.CreatedBooking{}, err
	}

	b := result.Booking.Booking
	return workflow.CreatedBooking{BookingID: b.ID(), TotalPrice: b.Charges().GrandTotal}, nil
}

// keyFor keeps the key while the submission is unchanged and mints a new one
// once any field that reaches the booking differs.
func (a *bookingCreator) keyFor(s workflow.BookingSubmission) uuid.UUID {
	if a.last == nil || !reflect.DeepEqual(*a.last, s) {
		a.key = uuid.New()
		a.last = &s
	}
	return a.key
}

type licenseVerifier struct {
	commands commands.LicenseCommands
	queries  queries.LicenseQueries
}

func (a *licenseVerifier) SubmitLicense(ctx context.Context, upload workflow.LicenseUpload) (license.License, error) {
	return a.commands.Submit(ctx, upload)
}

func (a *licenseVerifier) LicenseHistory(ctx context.Context, renterID uuid.UUID) ([]license.License, error) {
	return a.queries.History(ctx, renterID)
}

// paymentHandoff opens the checkout as the renter who owns the session.
type paymentHandoff struct {
	commands commands.PaymentCommands
	renterID uuid.UUID
}

func (a *paymentHandoff) RedirectToPayment(ctx context.Context, bookingID uuid.UUID) (string, error) {
	result, err := a.commands.StartCheckout(ctx, queries.Actor{ID: a.renterID, Role: user.RoleRenter}, bookingID)
	if err != nil {
		return "", err
	}
	return result.RedirectURL, nil
}
