package converter

import (
	"database/sql"
	"fmt"
	"strings"

	"rental-engine/internal/domain/booking"
	"rental-engine/internal/domain/inspection"
	"rental-engine/internal/domain/payment"
	"rental-engine/internal/domain/pricing"
	"rental-engine/internal/domain/vehicle"

	"github.com/google/uuid"
)

type VehicleRow struct {
	ID                     uuid.UUID
	OwnerID                uuid.UUID
	Name                   string
	DailyRateMinor         int64
	WeeklyRateMinor        sql.NullInt64
	MonthlyRateMinor       sql.NullInt64
	DepositRequired        bool
	DepositMinor           int64
	PrepaidRentEnabled     bool
	PrepaidRentMonths      int
	FuelPolicyEnabled      bool
	FuelBaseFeeMinor       int64
	FuelPricePerLiterMinor int64
	TankCapacityLiters     sql.NullInt32
	AcceptedPaymentMethods string
	IsAvailable            bool
}

// VehicleColumns flattens the payment method array so it scans into a plain string.
const VehicleColumns = `id, owner_id, name, daily_rate_minor, weekly_rate_minor, monthly_rate_minor,
	deposit_required, deposit_minor, prepaid_rent_enabled, prepaid_rent_months,
	fuel_policy_enabled, fuel_base_fee_minor, fuel_price_per_liter_minor, tank_capacity_liters,
	array_to_string(accepted_payment_methods, ','), is_available`

func (r *VehicleRow) ScanTargets() []any {
	return []any{
		&r.ID, &r.OwnerID, &r.Name, &r.DailyRateMinor, &r.WeeklyRateMinor, &r.MonthlyRateMinor,
		&r.DepositRequired, &r.DepositMinor, &r.PrepaidRentEnabled, &r.PrepaidRentMonths,
		&r.FuelPolicyEnabled, &r.FuelBaseFeeMinor, &r.FuelPricePerLiterMinor, &r.TankCapacityLiters,
		&r.AcceptedPaymentMethods, &r.IsAvailable,
	}
}

func VehicleFromInfra(row VehicleRow) (*vehicle.Vehicle, error) {
	methods, err := payment.ParseMethods(splitList(row.AcceptedPaymentMethods))
	if err != nil {
		return nil, fmt.Errorf("vehicle %s: %w", row.ID, err)
	}

	tank := 0
	if row.TankCapacityLiters.Valid {
		tank = int(row.TankCapacityLiters.Int32)
	}

	return vehicle.NewVehicle(vehicle.Params{
		ID:      row.ID,
		OwnerID: row.OwnerID,
		Name:    row.Name,
		Rates: pricing.RateSchedule{
			Daily:   pricing.Minor(row.DailyRateMinor),
			Weekly:  moneyPtr(row.WeeklyRateMinor),
			Monthly: moneyPtr(row.MonthlyRateMinor),
		},
		Deposit: pricing.DepositTerms{
			Required: row.DepositRequired,
			Amount:   pricing.Minor(row.DepositMinor),
		},
		PrepaidRent: pricing.PrepaidRentTerms{
			Enabled: row.PrepaidRentEnabled,
			Months:  row.PrepaidRentMonths,
		},
		FuelPolicy: inspection.FuelPolicy{
			Enabled:            row.FuelPolicyEnabled,
			BaseFee:            pricing.Minor(row.FuelBaseFeeMinor),
			PricePerLiter:      pricing.Minor(row.FuelPricePerLiterMinor),
			TankCapacityLiters: tank,
		},
		AcceptedPaymentMethods: methods,
		Available:              row.IsAvailable,
	})
}

type InsuranceRow struct {
	BookingID               uuid.UUID
	DaysCovered             int
	DailyRateMinor          int64
	AmountMinor             int64
	OriginalDeductibleMinor int64
	NewDeductibleMinor      int64
}

func InsuranceToInfra(bookingID uuid.UUID, c *booking.InsuranceCoverage) InsuranceRow {
	return InsuranceRow{
		BookingID:               bookingID,
		DaysCovered:             c.DaysCovered,
		DailyRateMinor:          c.DailyRate.Minor(),
		AmountMinor:             c.Amount.Minor(),
		OriginalDeductibleMinor: c.OriginalDeductible.Minor(),
		NewDeductibleMinor:      c.NewDeductible.Minor(),
	}
}

func InsuranceFromInfra(row InsuranceRow) *booking.InsuranceCoverage {
	return &booking.InsuranceCoverage{
		DaysCovered:        row.DaysCovered,
		DailyRate:          pricing.Minor(row.DailyRateMinor),
		Amount:             pricing.Minor(row.AmountMinor),
		OriginalDeductible: pricing.Minor(row.OriginalDeductibleMinor),
		NewDeductible:      pricing.Minor(row.NewDeductibleMinor),
	}
}

func moneyPtr(n sql.NullInt64) *pricing.Money {
	if !n.Valid {
		return nil
	}
	m := pricing.Minor(n.Int64)
	return &m
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
