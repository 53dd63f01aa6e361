package repository

import (
	"context"

	"rental-engine/internal/domain/booking"
	"rental-engine/internal/domain/interval"
	"rental-engine/internal/domain/pricing"
	"rental-engine/internal/infra"
	"rental-engine/internal/infra/converter"
	"rental-engine/internal/infra/db"
	"rental-engine/internal/pkg/pgconv"

	"github.com/google/uuid"
)

const (
	lockVehicleSQL = `SELECT id FROM vehicles WHERE id = $1 FOR UPDATE`

	countOverlappingSQL = `SELECT COUNT(*) FROM bookings
WHERE vehicle_id = $1
  AND status <> 'cancelled'
  AND period && daterange($2::date, $3::date, '[)')`

	createBookingSQL = `INSERT INTO bookings (` + converter.BookingColumnsForInsert + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
        $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31)`

	createInsuranceSQL = `INSERT INTO booking_insurance
(booking_id, days_covered, daily_rate_minor, amount_minor, original_deductible_minor, new_deductible_minor)
VALUES ($1, $2, $3, $4, $5, $6)`

	// A zero fee is stored as NULL. The update only touches the row when the
	// stored fee differs, so the second column reports whether it changed.
	updateFuelFeeSQL = `WITH target AS (
    SELECT id FROM bookings WHERE id = $1
), updated AS (
    UPDATE bookings SET fuel_fee_minor = NULLIF($2::bigint, 0), updated_at = now()
    WHERE id = $1 AND fuel_fee_minor IS DISTINCT FROM NULLIF($2::bigint, 0)
    RETURNING id
)
SELECT EXISTS (SELECT 1 FROM target), EXISTS (SELECT 1 FROM updated)`
)

type BookingRepository struct{}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{}
}

func (r *BookingRepository) LockVehicle(ctx context.Context, tx db.DBTX, vehicleID uuid.UUID) error {
	var id uuid.UUID
	if err := tx.QueryRowContext(ctx, lockVehicleSQL, vehicleID).Scan(&id); err != nil {
		return infra.WrapRepoErr("failed to lock vehicle", err)
	}
	return nil
}

func (r *BookingRepository) CountOverlapping(ctx context.Context, tx db.DBTX, vehicleID uuid.UUID, period interval.DateInterval) (int, error) {
	var n int
	err := tx.QueryRowContext(ctx, countOverlappingSQL,
		vehicleID, pgconv.DateOnly(period.Start()), pgconv.DateOnly(period.End()),
	).Scan(&n)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count overlapping bookings", err)
	}
	return n, nil
}

// Create inserts the booking and its insurance record. An exclusion violation
// surfaces as infra.KindConflict.
func (r *BookingRepository) Create(ctx context.Context, tx db.DBTX, b *booking.Booking) error {
	row := converter.BookingToInfra(b)
	if _, err := tx.ExecContext(ctx, createBookingSQL, row.InsertArgs()...); err != nil {
		return infra.WrapRepoErr("failed to create booking", err)
	}

	if ins := b.Insurance(); ins != nil {
		ir := converter.InsuranceToInfra(b.ID(), ins)
		_, err := tx.ExecContext(ctx, createInsuranceSQL,
			ir.BookingID, ir.DaysCovered, ir.DailyRateMinor, ir.AmountMinor,
			ir.OriginalDeductibleMinor, ir.NewDeductibleMinor,
		)
		if err != nil {
			return infra.WrapRepoErr("failed to create booking insurance", err)
		}
	}

	return nil
}

// UpdateFuelFee replaces the stored fee and reports whether the value changed.
// A zero fee clears the charge.
func (r *BookingRepository) UpdateFuelFee(ctx context.Context, tx db.DBTX, bookingID uuid.UUID, fee pricing.Money) (bool, error) {
	var found, changed bool
	if err := tx.QueryRowContext(ctx, updateFuelFeeSQL, bookingID, fee.Minor()).Scan(&found, &changed); err != nil {
		return false, infra.WrapRepoErr("failed to update fuel fee", err)
	}
	if !found {
		return false, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return changed, nil
}
