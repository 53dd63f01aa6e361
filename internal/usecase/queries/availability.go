package queries

import (
	"context"
	"time"

	"rental-engine/internal/domain/availability"
	"rental-engine/internal/domain/interval"
	"rental-engine/internal/infra"
	"rental-engine/internal/pkg/clock"
	"rental-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

const DefaultCalendarDays = 90

type AvailabilityQueries interface {
	// Index snapshots the periods blocking the vehicle from today on.
	Index(ctx context.Context, vehicleID uuid.UUID) (*availability.Index, error)
	Calendar(ctx context.Context, vehicleID uuid.UUID, from *time.Time, days int) (*AvailabilityView, error)
}

type availabilityQueriesImpl struct {
	bookings BookingReadStore
	vehicles VehicleReadStore
	clock    clock.Clock
	maxDays  int
}

func NewAvailabilityQueries(bookings BookingReadStore, vehicles VehicleReadStore, clock clock.Clock, maxDays int) AvailabilityQueries {
	return &availabilityQueriesImpl{
		bookings: bookings,
		vehicles: vehicles,
		clock:    clock,
		maxDays:  maxDays,
	}
}

func (q *availabilityQueriesImpl) Index(ctx context.Context, vehicleID uuid.UUID) (*availability.Index, error) {
	periods, err := q.bookings.ReservedPeriods(ctx, vehicleID, interval.Normalize(q.clock.Now()))
	if err != nil {
		return nil, err
	}
	return availability.NewIndex(periods), nil
}

func (q *availabilityQueriesImpl) Calendar(ctx context.Context, vehicleID uuid.UUID, from *time.Time, days int) (*AvailabilityView, error) {
	if _, err := q.vehicles.FindByID(ctx, vehicleID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrVehicleNotFound)
		}
		return nil, err
	}

	today := interval.Normalize(q.clock.Now())
	start := today
	if from != nil {
		start = interval.Normalize(*from)
	}
	if days <= 0 {
		days = DefaultCalendarDays
	}
	if q.maxDays > 0 && days > q.maxDays {
		days = q.maxDays
	}

	lookFrom := start
	if today.Before(lookFrom) {
		lookFrom = today
	}
	periods, err := q.bookings.ReservedPeriods(ctx, vehicleID, lookFrom)
	if err != nil {
		return nil, err
	}
	index := availability.NewIndex(periods)

	view := &AvailabilityView{
		VehicleID:   vehicleID,
		From:        start,
		Days:        index.Calendar(start, days),
		BookedDates: index.BookedDates(),
	}
	if next, ok := index.NextAvailableDate(today, availability.DefaultHorizonDays); ok {
		view.NextAvailable = &next
	}
	return view, nil
}
