package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"rental-engine/internal/domain/booking"
	"rental-engine/internal/domain/inspection"
	"rental-engine/internal/domain/user"
	"rental-engine/internal/infra"
	"rental-engine/internal/pkg/clock"
	"rental-engine/internal/pkg/errs"
	"rental-engine/internal/usecase/queries"
	"rental-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

const maxInspectionNotesLength = 1000

type RecordInspectionInput struct {
	BookingID uuid.UUID
	Inspector queries.Actor
	Kind      inspection.Kind
	FuelLevel *inspection.FuelLevel
	Mileage   *int
	Notes     string
}

type InspectionResult struct {
	InspectionID uuid.UUID
	// FuelFee is nil when no fuel charge applies to this inspection.
	FuelFee *inspection.FuelFee
}

type InspectionCommands interface {
	// RecordInspection stores the inspection and writes the return fuel fee
	// back to the booking. The renter is notified only when the fee changes to
	// a non-zero amount; a corrected full-tank return clears it.
	RecordInspection(ctx context.Context, in RecordInspectionInput) (*InspectionResult, error)
}

type inspectionCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewInspectionCommands(uow shared.UnitOfWork, clock clock.Clock) InspectionCommands {
	return &inspectionCommandsImpl{uow: uow, clock: clock}
}

func (c *inspectionCommandsImpl) RecordInspection(ctx context.Context, in RecordInspectionInput) (*InspectionResult, error) {
	reads := c.uow.CommandReads()

	b, err := reads.BookingByID(ctx, in.BookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrBookingNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if in.Inspector.Role != user.RoleAdmin && in.Inspector.ID != b.LessorID() {
		return nil, errs.ErrBookingNotFound
	}
	if b.IsCancelled() {
		return nil, errs.Validation(errs.ErrBookingInvalid, errs.FieldError{Field: "booking_id", Message: "booking is cancelled"})
	}
	if in.Mileage != nil && *in.Mileage < 0 {
		return nil, errs.Validation(errs.ErrBookingInvalid, errs.FieldError{Field: "mileage", Message: "must not be negative"})
	}

	v, err := reads.VehicleByID(ctx, b.VehicleID())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	record := shared.InspectionRecord{
		BookingID:   b.ID(),
		Kind:        in.Kind,
		FuelLevel:   in.FuelLevel,
		Mileage:     in.Mileage,
		Notes:       cleanNotes(in.Notes),
		InspectorID: in.Inspector.ID,
	}

	result := &InspectionResult{}
	fee, applies := inspection.CalculateFuelFee(inspection.Reading{Kind: in.Kind, FuelLevel: in.FuelLevel}, v.FuelPolicy())
	if applies {
		result.FuelFee = &fee
		liters := fee.MissingLiters
		record.MissingLiters = &liters
		total := fee.Total
		record.FuelFee = &total
		if err := b.ApplyFuelFee(fee.Total); err != nil {
			return nil, errs.Validation(err)
		}
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		id, err := tx.Inspections().Upsert(ctx, tx.DB(), record)
		if err != nil {
			return err
		}
		result.InspectionID = id

		if !applies {
			return nil
		}
		// a corrected full-tank reading clears an earlier fee without notifying
		changed, err := tx.Bookings().UpdateFuelFee(ctx, tx.DB(), b.ID(), fee.Total)
		if err != nil || !changed || fee.Total.IsZero() {
			return err
		}
		return c.enqueueFuelFee(ctx, tx, b, fee)
	})
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	return result, nil
}

func (c *inspectionCommandsImpl) enqueueFuelFee(ctx context.Context, tx shared.Tx, b *booking.Booking, fee inspection.FuelFee) error {
	now := c.clock.Now()
	details := b.Details()

	email, err := json.Marshal(shared.EmailMessage{
		To:      details.Email,
		ToName:  details.FirstName + " " + details.LastName,
		Subject: "Fuel charge for your rental",
		Body: fmt.Sprintf("Hi %s,\n\nThe vehicle was returned with %d liters missing.\nFuel charge: %s DKK (base fee %s DKK + %s DKK for fuel).\nBooking reference: %s\n",
			details.FirstName, fee.MissingLiters, fee.Total, fee.BaseFee, fee.LiterFee, b.ID()),
	})
	if err != nil {
		return err
	}
	if err := tx.Notifications().CreateJob(ctx, tx.DB(), shared.JobKindEmail, shared.TopicFuelFeeApplied, email, now); err != nil {
		return err
	}

	event, err := json.Marshal(shared.Event{
		Type:        shared.TopicFuelFeeApplied,
		AggregateID: b.ID(),
		OccurredAt:  now,
		Data: map[string]any{
			"missing_liters": fee.MissingLiters,
			"total_minor":    fee.Total.Minor(),
		},
	})
	if err != nil {
		return err
	}
	return tx.Notifications().CreateJob(ctx, tx.DB(), shared.JobKindEvent, shared.TopicFuelFeeApplied, event, now)
}

func cleanNotes(s string) string {
	s = strings.TrimSpace(booking.StripMarkup(s))
	if utf8.RuneCountInString(s) > maxInspectionNotesLength {
		s = string([]rune(s)[:maxInspectionNotesLength])
	}
	return s
}
