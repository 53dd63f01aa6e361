package converter

import (
	"database/sql"
	"fmt"
	"time"

	"rental-engine/internal/domain/booking"
	"rental-engine/internal/domain/interval"
	"rental-engine/internal/domain/payment"
	"rental-engine/internal/domain/pricing"
	"rental-engine/internal/pkg/pgconv"

	"github.com/google/uuid"
)

// BookingRow mirrors the bookings table column for column.
type BookingRow struct {
	ID                    uuid.UUID
	VehicleID             uuid.UUID
	RenterID              uuid.UUID
	LessorID              uuid.UUID
	StartDate             time.Time
	EndDate               time.Time
	Tier                  string
	UnitPriceMinor        int64
	UnitLabel             string
	BillableUnits         int
	RentalTotalMinor      int64
	DepositMinor          int64
	PrepaidRentMinor      int64
	InsuranceFeeMinor     int64
	ReferralDiscountMinor int64
	TotalPriceMinor       int64
	FuelFeeMinor          sql.NullInt64
	Status                string
	PaymentMethod         sql.NullString
	FirstName             string
	LastName              string
	Email                 string
	Phone                 string
	Address               string
	City                  string
	PostalCode            string
	LicenseNumber         string
	Notes                 string
	ExtraFirstName        sql.NullString
	ExtraLastName         sql.NullString
	ExtraLicense          sql.NullString
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// BookingColumns is the select list matching BookingRow.ScanTargets.
const BookingColumns = `id, vehicle_id, renter_id, lessor_id, start_date, end_date, tier,
	unit_price_minor, unit_label, billable_units, rental_total_minor, deposit_minor,
	prepaid_rent_minor, insurance_fee_minor, referral_discount_minor, total_price_minor,
	fuel_fee_minor, status, payment_method, first_name, last_name, email, phone, address,
	city, postal_code, license_number, notes, extra_driver_first_name, extra_driver_last_name,
	extra_driver_license, created_at, updated_at`

func (r *BookingRow) ScanTargets() []any {
	return []any{
		&r.ID, &r.VehicleID, &r.RenterID, &r.LessorID, &r.StartDate, &r.EndDate, &r.Tier,
		&r.UnitPriceMinor, &r.UnitLabel, &r.BillableUnits, &r.RentalTotalMinor, &r.DepositMinor,
		&r.PrepaidRentMinor, &r.InsuranceFeeMinor, &r.ReferralDiscountMinor, &r.TotalPriceMinor,
		&r.FuelFeeMinor, &r.Status, &r.PaymentMethod, &r.FirstName, &r.LastName, &r.Email, &r.Phone, &r.Address,
		&r.City, &r.PostalCode, &r.LicenseNumber, &r.Notes, &r.ExtraFirstName, &r.ExtraLastName,
		&r.ExtraLicense, &r.CreatedAt, &r.UpdatedAt,
	}
}

// BookingColumnsForInsert omits the timestamps, which default in the database.
const BookingColumnsForInsert = `id, vehicle_id, renter_id, lessor_id, start_date, end_date, tier,
	unit_price_minor, unit_label, billable_units, rental_total_minor, deposit_minor,
	prepaid_rent_minor, insurance_fee_minor, referral_discount_minor, total_price_minor,
	fuel_fee_minor, status, payment_method, first_name, last_name, email, phone, address,
	city, postal_code, license_number, notes, extra_driver_first_name, extra_driver_last_name,
	extra_driver_license`

// InsertArgs returns the values in BookingColumnsForInsert order.
func (r BookingRow) InsertArgs() []any {
	return []any{
		r.ID, r.VehicleID, r.RenterID, r.LessorID, pgconv.DateOnly(r.StartDate), pgconv.DateOnly(r.EndDate), r.Tier,
		r.UnitPriceMinor, r.UnitLabel, r.BillableUnits, r.RentalTotalMinor, r.DepositMinor,
		r.PrepaidRentMinor, r.InsuranceFeeMinor, r.ReferralDiscountMinor, r.TotalPriceMinor,
		r.FuelFeeMinor, r.Status, r.PaymentMethod, r.FirstName, r.LastName, r.Email, r.Phone, r.Address,
		r.City, r.PostalCode, r.LicenseNumber, r.Notes, r.ExtraFirstName, r.ExtraLastName,
		r.ExtraLicense,
	}
}

func BookingToInfra(b *booking.Booking) BookingRow {
	charges := b.Charges()
	details := b.Details()
	period := b.Period()

	row := BookingRow{
		ID:                    b.ID(),
		VehicleID:             b.VehicleID(),
		RenterID:              b.RenterID(),
		LessorID:              b.LessorID(),
		StartDate:             period.Start(),
		EndDate:               period.End(),
		Tier:                  b.Tier().String(),
		UnitPriceMinor:        charges.UnitPrice.Minor(),
		UnitLabel:             charges.UnitLabel,
		BillableUnits:         charges.BillableUnitCount,
		RentalTotalMinor:      charges.RentalTotal.Minor(),
		DepositMinor:          charges.Deposit.Minor(),
		PrepaidRentMinor:      charges.PrepaidRent.Minor(),
		InsuranceFeeMinor:     charges.DeductibleInsuranceFee.Minor(),
		ReferralDiscountMinor: charges.ReferralDiscount.Minor(),
		TotalPriceMinor:       charges.GrandTotal.Minor(),
		Status:                b.Status().String(),
		FirstName:             details.FirstName,
		LastName:              details.LastName,
		Email:                 details.Email,
		Phone:                 details.Phone,
		Address:               details.Address,
		City:                  details.City,
		PostalCode:            details.PostalCode,
		LicenseNumber:         details.LicenseNumber,
		Notes:                 details.Notes,
		CreatedAt:             b.CreatedAt(),
		UpdatedAt:             b.UpdatedAt(),
	}

	if fee := b.FuelFee(); fee != nil {
		row.FuelFeeMinor = sql.NullInt64{Int64: fee.Minor(), Valid: true}
	}
	if m := b.PaymentMethod(); m != nil {
		row.PaymentMethod = sql.NullString{String: string(*m), Valid: true}
	}
	if d := details.ExtraDriver; d != nil {
		row.ExtraFirstName = sql.NullString{String: d.FirstName, Valid: true}
		row.ExtraLastName = sql.NullString{String: d.LastName, Valid: true}
		row.ExtraLicense = sql.NullString{String: d.LicenseNumber, Valid: d.LicenseNumber != ""}
	}

	return row
}

func BookingFromInfra(row BookingRow, insurance *booking.InsuranceCoverage) (*booking.Booking, error) {
	period, err := interval.New(row.StartDate, row.EndDate)
	if err != nil {
		return nil, fmt.Errorf("booking %s has invalid period: %w", row.ID, err)
	}
	tier, err := pricing.ParseTier(row.Tier)
	if err != nil {
		return nil, fmt.Errorf("booking %s: %w", row.ID, err)
	}
	status, err := booking.ParseStatus(row.Status)
	if err != nil {
		return nil, fmt.Errorf("booking %s: %w", row.ID, err)
	}

	var method *payment.Method
	if row.PaymentMethod.Valid {
		m, err := payment.ParseMethod(row.PaymentMethod.String)
		if err != nil {
			return nil, fmt.Errorf("booking %s: %w", row.ID, err)
		}
		method = &m
	}

	var fuelFee *pricing.Money
	if row.FuelFeeMinor.Valid {
		fee := pricing.Minor(row.FuelFeeMinor.Int64)
		fuelFee = &fee
	}

	details := booking.RenterDetails{
		FirstName:     row.FirstName,
		LastName:      row.LastName,
		Email:         row.Email,
		Phone:         row.Phone,
		Address:       row.Address,
		City:          row.City,
		PostalCode:    row.PostalCode,
		LicenseNumber: row.LicenseNumber,
		Notes:         row.Notes,
	}
	if row.ExtraFirstName.Valid || row.ExtraLastName.Valid {
		details.ExtraDriver = &booking.ExtraDriver{
			FirstName:     row.ExtraFirstName.String,
			LastName:      row.ExtraLastName.String,
			LicenseNumber: row.ExtraLicense.String,
		}
	}

	return booking.Reconstruct(booking.Snapshot{
		ID:        row.ID,
		VehicleID: row.VehicleID,
		RenterID:  row.RenterID,
		LessorID:  row.LessorID,
		Period:    period,
		Tier:      tier,
		Charges: pricing.ChargeBreakdown{
			UnitPrice:              pricing.Minor(row.UnitPriceMinor),
			UnitLabel:              row.UnitLabel,
			BillableUnitCount:      row.BillableUnits,
			RentalTotal:            pricing.Minor(row.RentalTotalMinor),
			Deposit:                pricing.Minor(row.DepositMinor),
			PrepaidRent:            pricing.Minor(row.PrepaidRentMinor),
			DeductibleInsuranceFee: pricing.Minor(row.InsuranceFeeMinor),
			ReferralDiscount:       pricing.Minor(row.ReferralDiscountMinor),
			GrandTotal:             pricing.Minor(row.TotalPriceMinor),
		},
		Insurance:     insurance,
		Details:       details,
		PaymentMethod: method,
		Status:        status,
		FuelFee:       fuelFee,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}), nil
}
