package inspection

import (
	"errors"
	"math"

	"rental-engine/internal/domain/pricing"
)

// DefaultTankCapacityLiters is used when the vehicle record has no tank size.
const DefaultTankCapacityLiters = 50

var (
	ErrInvalidFuelLevel = errors.New("invalid fuel level")
	ErrInvalidKind      = errors.New("invalid inspection kind")
)

type Kind string

const (
	KindPickup Kind = "pickup"
	KindReturn Kind = "return"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindPickup, KindReturn:
		return k, nil
	default:
		return "", ErrInvalidKind
	}
}

type FuelLevel string

const (
	FuelEmpty         FuelLevel = "empty"
	FuelQuarter       FuelLevel = "quarter"
	FuelHalf          FuelLevel = "half"
	FuelThreeQuarters FuelLevel = "three_quarters"
	FuelFull          FuelLevel = "full"
)

var fuelPercent = map[FuelLevel]int{
	FuelEmpty:         0,
	FuelQuarter:       25,
	FuelHalf:          50,
	FuelThreeQuarters: 75,
	FuelFull:          100,
}

func ParseFuelLevel(s string) (FuelLevel, error) {
	l := FuelLevel(s)
	if _, ok := fuelPercent[l]; !ok {
		return "", ErrInvalidFuelLevel
	}
	return l, nil
}

func (l FuelLevel) Percent() int {
	return fuelPercent[l]
}

// FuelPolicy comes from the rental contract of the booking.
type FuelPolicy struct {
	Enabled            bool
	BaseFee            pricing.Money
	PricePerLiter      pricing.Money
	TankCapacityLiters int
}

type Reading struct {
	Kind      Kind
	FuelLevel *FuelLevel
}

type FuelFee struct {
	MissingLiters int
	BaseFee       pricing.Money
	LiterFee      pricing.Money
	Total         pricing.Money
}

// CalculateFuelFee prices the shortfall against a full tank. The second result
// is false when no fee applies to this reading at all: pickup inspections,
// a disabled policy, or a missing level.
func CalculateFuelFee(r Reading, policy FuelPolicy) (FuelFee, bool) {
	if r.Kind != KindReturn || !policy.Enabled || r.FuelLevel == nil {
		return FuelFee{}, false
	}
	level := *r.FuelLevel
	if level == FuelFull {
		return FuelFee{}, true
	}

	tank := policy.TankCapacityLiters
	if tank <= 0 {
		tank = DefaultTankCapacityLiters
	}
	missingPercent := 100 - level.Percent()
	liters := int(math.Round(float64(missingPercent) / 100 * float64(tank)))

	literFee := policy.PricePerLiter.Mul(int64(liters))
	return FuelFee{
		MissingLiters: liters,
		BaseFee:       policy.BaseFee,
		LiterFee:      literFee,
		Total:         policy.BaseFee.Add(literFee),
	}, true
}
