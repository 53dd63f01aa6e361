package shared

import (
	"context"
	"time"

	"rental-engine/internal/domain/booking"
	"rental-engine/internal/domain/interval"
	"rental-engine/internal/domain/license"
	"rental-engine/internal/domain/pricing"
	"rental-engine/internal/domain/user"
	"rental-engine/internal/domain/vehicle"
	"rental-engine/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: Single statements outside an explicit transaction
	WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Bookings() BookingRepository
	Inspections() InspectionRepository
	Licenses() LicenseRepository
	Idempotency() IdempotencyRepository
	Notifications() NotificationRepository
	Reads() CommandReads
	DB() db.DBTX
}

type CommandReads interface {
	VehicleByID(ctx context.Context, id uuid.UUID) (*vehicle.Vehicle, error)
	RenterByID(ctx context.Context, id uuid.UUID) (*user.Profile, error)
	BookingByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	IdempotencyByKey(ctx context.Context, key, userID uuid.UUID) (*IdempotencyRecord, error)
}

type BookingRepository interface {
	// LockVehicle serializes booking creation per vehicle for the rest of the transaction.
	LockVehicle(ctx context.Context, tx db.DBTX, vehicleID uuid.UUID) error
	CountOverlapping(ctx context.Context, tx db.DBTX, vehicleID uuid.UUID, period interval.DateInterval) (int, error)
	Create(ctx context.Context, tx db.DBTX, b *booking.Booking) error
	// UpdateFuelFee reports whether the stored fee changed. A zero fee clears it.
	UpdateFuelFee(ctx context.Context, tx db.DBTX, bookingID uuid.UUID, fee pricing.Money) (bool, error)
}

type InspectionRepository interface {
	Upsert(ctx context.Context, tx db.DBTX, rec InspectionRecord) (uuid.UUID, error)
}

type LicenseRepository interface {
	Create(ctx context.Context, tx db.DBTX, sub license.Submission, submittedAt time.Time) (license.License, error)
	UpdateStatus(ctx context.Context, tx db.DBTX, id uuid.UUID, res LicenseResolution) error
}

type IdempotencyRepository interface {
	// TryInsert reports whether this call created the key.
	TryInsert(ctx context.Context, tx db.DBTX, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error)
	UpdateStatusCompleted(ctx context.Context, tx db.DBTX, key, userID uuid.UUID, resultHash string, bookingID uuid.UUID) error
	Release(ctx context.Context, tx db.DBTX, key, userID uuid.UUID) error
	DeleteExpired(ctx context.Context, tx db.DBTX, now time.Time) (int64, error)
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, tx db.DBTX, kind, topic string, payload []byte, runAt time.Time) error
	ClaimDue(ctx context.Context, tx db.DBTX, now time.Time, limit, maxAttempts int) ([]NotificationJob, error)
	MarkSent(ctx context.Context, tx db.DBTX, jobID uuid.UUID) error
	MarkFailed(ctx context.Context, tx db.DBTX, jobID uuid.UUID, lastError string, retryAt time.Time, maxAttempts int) error
}
