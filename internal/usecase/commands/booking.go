package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"rental-engine/internal/domain/booking"
	"rental-engine/internal/domain/interval"
	"rental-engine/internal/domain/user"
	"rental-engine/internal/domain/vehicle"
	"rental-engine/internal/domain/workflow"
	"rental-engine/internal/infra"
	"rental-engine/internal/pkg/clock"
	"rental-engine/internal/pkg/errs"
	"rental-engine/internal/usecase/queries"
	"rental-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	createBookingEndpoint = "POST /api/bookings"
	releaseTimeout        = 5 * time.Second
)

type CreateBookingResult struct {
	Booking    *queries.BookingView
	IsReplayed bool
}

type BookingCommands interface {
	// CreateBooking is idempotent per (idempotencyKey, renter): a replay returns
	// the stored booking, a different payload under the same key is a conflict.
	CreateBooking(ctx context.Context, sub workflow.BookingSubmission, idempotencyKey uuid.UUID) (*CreateBookingResult, error)
}

type bookingCommandsImpl struct {
	uow            shared.UnitOfWork
	factory        *booking.Factory
	bookingQueries queries.BookingQueries
	clock          clock.Clock
	idempotencyTTL time.Duration
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	factory *booking.Factory,
	bookingQueries queries.BookingQueries,
	clock clock.Clock,
	idempotencyTTL time.Duration,
) BookingCommands {
	return &bookingCommandsImpl{
		uow:            uow,
		factory:        factory,
		bookingQueries: bookingQueries,
		clock:          clock,
		idempotencyTTL: idempotencyTTL,
	}
}

func (c *bookingCommandsImpl) CreateBooking(
	ctx context.Context,
	sub workflow.BookingSubmission,
	idempotencyKey uuid.UUID,
) (*CreateBookingResult, error) {
	if idempotencyKey == uuid.Nil {
		return nil, errs.Validation(errs.ErrIdempotencyKeyRequired, errs.FieldError{Field: "Idempotency-Key", Message: "is required"})
	}

	requestHash := calculateRequestHash(sub)
	expiresAt := c.clock.Now().Add(c.idempotencyTTL)

	replayed, err := c.handleIdempotency(ctx, idempotencyKey, sub.RenterID, requestHash, expiresAt)
	if err != nil {
		return nil, err
	}
	if replayed != nil {
		return &CreateBookingResult{Booking: replayed, IsReplayed: true}, nil
	}

	view, err := c.createNewBooking(ctx, sub, idempotencyKey)
	if err != nil {
		c.releaseKey(ctx, idempotencyKey, sub.RenterID)
		return nil, err
	}
	return &CreateBookingResult{Booking: view, IsReplayed: false}, nil
}

// handleIdempotency claims the key. It returns the stored booking when the key
// already completed with the same payload.
func (c *bookingCommandsImpl) handleIdempotency(
	ctx context.Context,
	idempotencyKey, userID uuid.UUID,
	requestHash string,
	expiresAt time.Time,
) (*queries.BookingView, error) {
	var (
		inserted bool
		existing *shared.IdempotencyRecord
	)
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		inserted, err = tx.Idempotency().TryInsert(ctx, tx.DB(), idempotencyKey, userID, createBookingEndpoint, requestHash, expiresAt)
		if err != nil || inserted {
			return err
		}
		existing, err = tx.Reads().IdempotencyByKey(ctx, idempotencyKey, userID)
		return err
	})
	if err != nil {
		return nil, errs.Mark(err, errs.ErrIdempotencyCheckFailed)
	}
	if inserted {
		return nil, nil
	}

	if existing.RequestHash != requestHash {
		return nil, errs.Conflict(errs.ErrDuplicateBooking)
	}

	switch existing.Status {
	case shared.IdempotencyStatusCompleted:
		if existing.ResultBookingID == nil {
			return nil, errs.New("completed request missing result booking ID")
		}
		return c.bookingQueries.GetByIDSystem(ctx, *existing.ResultBookingID)
	case shared.IdempotencyStatusProcessing:
		return nil, errs.Conflict(errs.ErrIdempotencyInProgress)
	default:
		return nil, errs.Newf("invalid idempotency key status %q", existing.Status)
	}
}

func (c *bookingCommandsImpl) createNewBooking(
	ctx context.Context,
	sub workflow.BookingSubmission,
	idempotencyKey uuid.UUID,
) (*queries.BookingView, error) {
	reads := c.uow.CommandReads()

	v, err := c.loadVehicle(ctx, reads, sub.VehicleID)
	if err != nil {
		return nil, err
	}
	renter, err := c.loadRenter(ctx, reads, sub.RenterID)
	if err != nil {
		return nil, err
	}

	entity, err := c.factory.CreateBooking(booking.Request{
		Renter:    renter,
		Vehicle:   v,
		StartDate: sub.StartDate,
		EndDate:   sub.EndDate,
		Selection: booking.Selection{
			Tier:            sub.Tier,
			UnitCount:       sub.UnitCount,
			WithInsurance:   sub.WithInsurance,
			QuotedInsurance: sub.InsurancePrice,
		},
		PaymentMethod: sub.PaymentMethod,
		Details:       sub.Details,
	})
	if err != nil {
		return nil, err
	}

	if err := c.executeBookingTransaction(ctx, entity, v, idempotencyKey); err != nil {
		return nil, err
	}

	// Read-after-write: Get the complete booking view from read store
	view, err := c.bookingQueries.GetByIDSystem(ctx, entity.ID())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return view, nil
}

// executeBookingTransaction re-checks availability under the vehicle row lock.
// The exclusion constraint on bookings catches anything that slips past it.
func (c *bookingCommandsImpl) executeBookingTransaction(
	ctx context.Context,
	entity *booking.Booking,
	v *vehicle.Vehicle,
	idempotencyKey uuid.UUID,
) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		repo := tx.Bookings()

		if err := repo.LockVehicle(ctx, tx.DB(), entity.VehicleID()); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		n, err := repo.CountOverlapping(ctx, tx.DB(), entity.VehicleID(), entity.Period())
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if n > 0 {
			return errs.Conflict(errs.ErrPeriodUnavailable)
		}

		if err := repo.Create(ctx, tx.DB(), entity); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return errs.Conflict(errs.ErrPeriodUnavailable)
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		if err := c.enqueueBookingCreated(ctx, tx, entity, v); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		err = tx.Idempotency().UpdateStatusCompleted(ctx, tx.DB(), idempotencyKey, entity.RenterID(), calculateIDHash(entity.ID()), entity.ID())
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func (c *bookingCommandsImpl) loadVehicle(ctx context.Context, reads shared.CommandReads, id uuid.UUID) (*vehicle.Vehicle, error) {
	v, err := reads.VehicleByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrVehicleNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return v, nil
}

func (c *bookingCommandsImpl) loadRenter(ctx context.Context, reads shared.CommandReads, id uuid.UUID) (*user.Profile, error) {
	p, err := reads.RenterByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Validation(errs.ErrBookingInvalid, errs.FieldError{Field: "account", Message: "is not registered"})
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return p, nil
}

func (c *bookingCommandsImpl) enqueueBookingCreated(ctx context.Context, tx shared.Tx, b *booking.Booking, v *vehicle.Vehicle) error {
	now := c.clock.Now()
	details := b.Details()
	period := b.Period()
	total := b.Charges().GrandTotal

	email, err := json.Marshal(shared.EmailMessage{
		To:      details.Email,
		ToName:  details.FirstName + " " + details.LastName,
		Subject: "Your booking of " + v.Name() + " is received",
		Body: fmt.Sprintf("Hi %s,\n\nWe have received your booking of %s from %s to %s.\nTotal: %s DKK.\nBooking reference: %s\n",
			details.FirstName, v.Name(), interval.FormatDate(period.Start()), interval.FormatDate(period.End()), total, b.ID()),
	})
	if err != nil {
		return err
	}
	if err := tx.Notifications().CreateJob(ctx, tx.DB(), shared.JobKindEmail, shared.TopicBookingCreated, email, now); err != nil {
		return err
	}

	event, err := json.Marshal(shared.Event{
		Type:        shared.TopicBookingCreated,
		AggregateID: b.ID(),
		OccurredAt:  now,
		Data: map[string]any{
			"vehicle_id":  b.VehicleID(),
			"renter_id":   b.RenterID(),
			"lessor_id":   b.LessorID(),
			"start_date":  interval.FormatDate(period.Start()),
			"end_date":    interval.FormatDate(period.End()),
			"tier":        b.Tier().String(),
			"total_minor": total.Minor(),
		},
	})
	if err != nil {
		return err
	}
	return tx.Notifications().CreateJob(ctx, tx.DB(), shared.JobKindEvent, shared.TopicBookingCreated, event, now)
}

// releaseKey frees a key whose request failed so the client can retry with it.
// It runs detached so a request that failed on its deadline still frees the key.
func (c *bookingCommandsImpl) releaseKey(ctx context.Context, key, userID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Idempotency().Release(ctx, tx.DB(), key, userID)
	})
	if err != nil {
		slog.Warn("failed to release idempotency key", "key", key, "error", err.Error())
	}
}

// requestFingerprint covers every field that changes the outcome of the request.
type requestFingerprint struct {
	VehicleID      uuid.UUID             `json:"vehicle_id"`
	StartDate      string                `json:"start_date"`
	EndDate        string                `json:"end_date"`
	Tier           string                `json:"tier"`
	UnitCount      int                   `json:"unit_count"`
	WithInsurance  bool                  `json:"with_insurance"`
	InsuranceMinor *int64                `json:"insurance_minor,omitempty"`
	PaymentMethod  string                `json:"payment_method,omitempty"`
	Details        booking.RenterDetails `json:"details"`
}

func calculateRequestHash(sub workflow.BookingSubmission) string {
	h := requestFingerprint{
		VehicleID:     sub.VehicleID,
		StartDate:     interval.FormatDate(sub.StartDate),
		EndDate:       interval.FormatDate(sub.EndDate),
		Tier:          sub.Tier.String(),
		UnitCount:     sub.UnitCount,
		WithInsurance: sub.WithInsurance,
		Details:       sub.Details,
	}
	if sub.InsurancePrice != nil {
		minor := sub.InsurancePrice.Minor()
		h.InsuranceMinor = &minor
	}
	if sub.PaymentMethod != nil {
		h.PaymentMethod = string(*sub.PaymentMethod)
	}
	data, _ := json.Marshal(h)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

func calculateIDHash(id uuid.UUID) string {
	hash := sha256.Sum256([]byte(id.String()))
	return hex.EncodeToString(hash[:])
}
