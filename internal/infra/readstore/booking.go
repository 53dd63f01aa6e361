package readstore

import (
	"context"
	"time"

	"rental-engine/internal/domain/availability"
	"rental-engine/internal/domain/booking"
	"rental-engine/internal/domain/interval"
	"rental-engine/internal/infra"
	"rental-engine/internal/infra/converter"
	"rental-engine/internal/infra/db"
	"rental-engine/internal/pkg/pgconv"
	"rental-engine/internal/usecase/queries"

	"github.com/google/uuid"
)

const (
	findBookingByIDSQL = `SELECT ` + converter.BookingColumns + ` FROM bookings WHERE id = $1`

	findBookingInsuranceSQL = `SELECT booking_id, days_covered, daily_rate_minor, amount_minor,
	original_deductible_minor, new_deductible_minor
FROM booking_insurance WHERE booking_id = $1`

	findVehicleNameSQL = `SELECT name FROM vehicles WHERE id = $1`

	// Periods that end on or before from cannot block any date the caller asks about.
	listReservedPeriodsSQL = `SELECT id, start_date, end_date, status
FROM bookings
WHERE vehicle_id = $1 AND status <> 'cancelled' AND end_date > $2::date
ORDER BY start_date`
)

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(db db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: db}
}

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	var row converter.BookingRow
	if err := r.db.QueryRowContext(ctx, findBookingByIDSQL, id).Scan(row.ScanTargets()...); err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}

	insurance, err := r.findInsurance(ctx, id)
	if err != nil {
		return nil, err
	}

	b, err := converter.BookingFromInfra(row, insurance)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid booking record", err, infra.KindDBFailure)
	}
	return b, nil
}

func (r *BookingReadStore) FindView(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	b, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var name string
	if err := r.db.QueryRowContext(ctx, findVehicleNameSQL, b.VehicleID()).Scan(&name); err != nil {
		return nil, infra.WrapRepoErr("failed to find vehicle name", err)
	}

	return &queries.BookingView{Booking: b, VehicleName: name}, nil
}

// ReservedPeriods lists the non-cancelled bookings of a vehicle that end after from.
func (r *BookingReadStore) ReservedPeriods(ctx context.Context, vehicleID uuid.UUID, from time.Time) ([]availability.ReservedPeriod, error) {
	rows, err := r.db.QueryContext(ctx, listReservedPeriodsSQL, vehicleID, pgconv.DateOnly(from))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reserved periods", err)
	}
	defer rows.Close()

	var periods []availability.ReservedPeriod
	for rows.Next() {
		var (
			bookingID  uuid.UUID
			start, end time.Time
			status     string
		)
		if err := rows.Scan(&bookingID, &start, &end, &status); err != nil {
			return nil, infra.WrapRepoErr("failed to scan reserved period", err)
		}

		iv, err := interval.New(start, end)
		if err != nil {
			return nil, infra.WrapRepoErr("invalid reserved period", err, infra.KindDBFailure)
		}
		st, err := booking.ParseStatus(status)
		if err != nil {
			return nil, infra.WrapRepoErr("invalid booking status", err, infra.KindDBFailure)
		}
		periods = append(periods, availability.ReservedPeriod{BookingID: bookingID, Interval: iv, Status: st})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate reserved periods", err)
	}

	return periods, nil
}

func (r *BookingReadStore) findInsurance(ctx context.Context, bookingID uuid.UUID) (*booking.InsuranceCoverage, error) {
	var row converter.InsuranceRow
	err := r.db.QueryRowContext(ctx, findBookingInsuranceSQL, bookingID).Scan(
		&row.BookingID, &row.DaysCovered, &row.DailyRateMinor, &row.AmountMinor,
		&row.OriginalDeductibleMinor, &row.NewDeductibleMinor,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to find booking insurance", err)
	}
	return converter.InsuranceFromInfra(row), nil
}
