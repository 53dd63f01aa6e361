package queries

import (
	"context"
	"time"

	"rental-engine/internal/domain/availability"
	"rental-engine/internal/domain/booking"
	"rental-engine/internal/domain/license"
	"rental-engine/internal/domain/pricing"
	"rental-engine/internal/domain/user"
	"rental-engine/internal/domain/vehicle"

	"github.com/google/uuid"
)

// BookingView is a stored booking with the fields the booking page shows next to it.
type BookingView struct {
	Booking     *booking.Booking
	VehicleName string
}

type AvailabilityView struct {
	VehicleID     uuid.UUID
	From          time.Time
	Days          []availability.CalendarDay
	BookedDates   []time.Time
	NextAvailable *time.Time
}

type QuoteInput struct {
	Tier          pricing.Tier
	StartDate     *time.Time
	EndDate       *time.Time
	UnitCount     int
	WithInsurance bool
}

// Actor is the authenticated caller of a read.
type Actor struct {
	ID   uuid.UUID
	Role user.Role
}

type BookingReadStore interface {
	FindView(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ReservedPeriods(ctx context.Context, vehicleID uuid.UUID, from time.Time) ([]availability.ReservedPeriod, error)
}

type VehicleReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*vehicle.Vehicle, error)
}

type UserReadStore interface {
	FindProfile(ctx context.Context, id uuid.UUID) (*user.Profile, error)
}

type LicenseReadStore interface {
	HistoryByRenter(ctx context.Context, renterID uuid.UUID) ([]license.License, error)
	FindByID(ctx context.Context, id uuid.UUID) (*license.License, error)
}
