//go:build unit

package readstore

import (
	"context"
	"regexp"
	"testing"
	"time"

	"rental-engine/internal/domain/booking"
	"rental-engine/internal/domain/interval"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	d, err := interval.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestBookingReadStore_ReservedPeriods(t *testing.T) {
	db, mock := newMockDB(t)
	vehicleID := uuid.New()
	first, second := uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings\nWHERE vehicle_id = $1 AND status <> 'cancelled'")).
		WithArgs(vehicleID, "2024-01-20").
		WillReturnRows(sqlmock.NewRows([]string{"id", "start_date", "end_date", "status"}).
			AddRow(first.String(), date("2024-01-22"), date("2024-01-24"), "confirmed").
			AddRow(second.String(), date("2024-02-01"), date("2024-02-08"), "pending"))

	periods, err := NewBookingReadStore(db).ReservedPeriods(context.Background(), vehicleID, date("2024-01-20"))

	require.NoError(t, err)
	require.Len(t, periods, 2)
	assert.Equal(t, first, periods[0].BookingID)
	assert.Equal(t, booking.StatusConfirmed, periods[0].Status)
	assert.Equal(t, 2, periods[0].Interval.Days())
	assert.Equal(t, 7, periods[1].Interval.Days())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingReadStore_FindByID(t *testing.T) {
	db, mock := newMockDB(t)
	id, vehicleID, renterID, lessorID := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	created := time.Date(2024, 1, 20, 9, 30, 0, 0, time.UTC)

	cols := []string{
		"id", "vehicle_id", "renter_id", "lessor_id", "start_date", "end_date", "tier",
		"unit_price_minor", "unit_label", "billable_units", "rental_total_minor", "deposit_minor",
		"prepaid_rent_minor", "insurance_fee_minor", "referral_discount_minor", "total_price_minor",
		"fuel_fee_minor", "status", "payment_method", "first_name", "last_name", "email", "phone", "address",
		"city", "postal_code", "license_number", "notes", "extra_driver_first_name", "extra_driver_last_name",
		"extra_driver_license", "created_at", "updated_at",
	}
	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE id = $1")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			id.String(), vehicleID.String(), renterID.String(), lessorID.String(),
			date("2024-01-22"), date("2024-01-24"), "daily",
			int64(50000), "day", 2, int64(100000), int64(0),
			int64(0), int64(9800), int64(0), int64(109800),
			int64(67000), "pending", "card", "Mette", "Hansen", "mette@example.dk", "+45 12 34 56 78", "",
			"", "", "DK12345678", "", nil, nil,
			nil, created, created,
		))
	mock.ExpectQuery(regexp.QuoteMeta("FROM booking_insurance WHERE booking_id = $1")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{
			"booking_id", "days_covered", "daily_rate_minor", "amount_minor",
			"original_deductible_minor", "new_deductible_minor",
		}).AddRow(id.String(), 2, int64(4900), int64(9800), int64(500000), int64(0)))

	b, err := NewBookingReadStore(db).FindByID(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, "2024-01-22", interval.FormatDate(b.Period().Start()))
	assert.Equal(t, int64(109800), b.Charges().GrandTotal.Minor())
	require.NotNil(t, b.FuelFee())
	assert.Equal(t, int64(67000), b.FuelFee().Minor())
	require.NotNil(t, b.Insurance())
	assert.Equal(t, 2, b.Insurance().DaysCovered)
	require.NotNil(t, b.PaymentMethod())
	assert.Nil(t, b.Details().ExtraDriver)
	assert.NoError(t, mock.ExpectationsWereMet())
}
