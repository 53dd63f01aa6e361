package queries

import (
	"context"

	"rental-engine/internal/domain/booking"
	"rental-engine/internal/domain/interval"
	"rental-engine/internal/domain/pricing"
	"rental-engine/internal/infra"
	"rental-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

type QuoteQueries interface {
	// Quote prices a prospective booking for renterID. uuid.Nil quotes without referral credit.
	Quote(ctx context.Context, vehicleID, renterID uuid.UUID, in QuoteInput) (booking.Priced, error)
}

type quoteQueriesImpl struct {
	vehicles VehicleReadStore
	users    UserReadStore
	pricer   *booking.Pricer
}

func NewQuoteQueries(vehicles VehicleReadStore, users UserReadStore, pricer *booking.Pricer) QuoteQueries {
	return &quoteQueriesImpl{
		vehicles: vehicles,
		users:    users,
		pricer:   pricer,
	}
}

func (q *quoteQueriesImpl) Quote(ctx context.Context, vehicleID, renterID uuid.UUID, in QuoteInput) (booking.Priced, error) {
	v, err := q.vehicles.FindByID(ctx, vehicleID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return booking.Priced{}, errs.Mark(err, errs.ErrVehicleNotFound)
		}
		return booking.Priced{}, err
	}

	credit := pricing.Money{}
	if renterID != uuid.Nil {
		profile, err := q.users.FindProfile(ctx, renterID)
		if err != nil && !infra.IsKind(err, infra.KindNotFound) {
			return booking.Priced{}, err
		}
		if profile != nil {
			credit = profile.ReferralCredit()
		}
	}

	sel := booking.Selection{
		Tier:          in.Tier,
		UnitCount:     in.UnitCount,
		WithInsurance: in.WithInsurance,
	}
	if in.StartDate != nil {
		end := in.EndDate
		if in.Tier != pricing.TierDaily && in.UnitCount >= 1 {
			derived := pricing.EndDateFor(in.Tier, *in.StartDate, in.UnitCount)
			end = &derived
		}
		if end != nil {
			period, err := interval.New(*in.StartDate, *end)
			if err != nil {
				return booking.Priced{}, err
			}
			sel.Period = &period
		}
	}

	return q.pricer.Price(v, sel, credit)
}
