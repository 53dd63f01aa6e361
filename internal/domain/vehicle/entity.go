package vehicle

import (
	"errors"
	"strings"

	"rental-engine/internal/domain/inspection"
	"rental-engine/internal/domain/payment"
	"rental-engine/internal/domain/pricing"

	"github.com/google/uuid"
)

var (
	ErrEmptyVehicleName   = errors.New("vehicle name cannot be empty")
	ErrVehicleNameTooLong = errors.New("vehicle name is too long (max 255 characters)")
	ErrNegativeDeposit    = errors.New("deposit cannot be negative")
)

const (
	MaxVehicleNameLength = 255
)

// Params mirrors the vehicle record columns the booking flow reads.
type Params struct {
	ID                     uuid.UUID
	OwnerID                uuid.UUID
	Name                   string
	Rates                  pricing.RateSchedule
	Deposit                pricing.DepositTerms
	PrepaidRent            pricing.PrepaidRentTerms
	FuelPolicy             inspection.FuelPolicy
	AcceptedPaymentMethods payment.Methods
	Available              bool
}

type Vehicle struct {
	id               uuid.UUID
	ownerID          uuid.UUID
	name             string
	rates            pricing.RateSchedule
	deposit          pricing.DepositTerms
	prepaidRent      pricing.PrepaidRentTerms
	fuelPolicy       inspection.FuelPolicy
	acceptedPayments payment.Methods
	available        bool
}

func NewVehicle(p Params) (*Vehicle, error) {
	if err := validateVehicleName(p.Name); err != nil {
		return nil, err
	}
	if p.Deposit.Amount.IsNegative() {
		return nil, ErrNegativeDeposit
	}
	rates, err := pricing.NewRateSchedule(p.Rates.Daily, p.Rates.Weekly, p.Rates.Monthly)
	if err != nil {
		return nil, err
	}

	return &Vehicle{
		id:               p.ID,
		ownerID:          p.OwnerID,
		name:             strings.TrimSpace(p.Name),
		rates:            rates,
		deposit:          p.Deposit,
		prepaidRent:      p.PrepaidRent,
		fuelPolicy:       p.FuelPolicy,
		acceptedPayments: p.AcceptedPaymentMethods,
		available:        p.Available,
	}, nil
}

func validateVehicleName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyVehicleName
	}
	if len(name) > MaxVehicleNameLength {
		return ErrVehicleNameTooLong
	}
	return nil
}

func (v *Vehicle) ID() uuid.UUID                           { return v.id }
func (v *Vehicle) OwnerID() uuid.UUID                      { return v.ownerID }
func (v *Vehicle) Name() string                            { return v.name }
func (v *Vehicle) Rates() pricing.RateSchedule             { return v.rates }
func (v *Vehicle) Deposit() pricing.DepositTerms           { return v.deposit }
func (v *Vehicle) PrepaidRent() pricing.PrepaidRentTerms   { return v.prepaidRent }
func (v *Vehicle) FuelPolicy() inspection.FuelPolicy       { return v.fuelPolicy }
func (v *Vehicle) AcceptedPaymentMethods() payment.Methods { return v.acceptedPayments }
func (v *Vehicle) IsAvailable() bool                       { return v.available }
