//go:build unit

package commands_test

import (
	"context"
	"encoding/json"
	"testing"

	"rental-engine/internal/domain/inspection"
	"rental-engine/internal/domain/pricing"
	"rental-engine/internal/domain/user"
	"rental-engine/internal/pkg/clock"
	"rental-engine/internal/pkg/errs"
	"rental-engine/internal/pkg/ptr"
	"rental-engine/internal/usecase/commands"
	"rental-engine/internal/usecase/queries"
	"rental-engine/internal/usecase/shared"
	"rental-engine/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupInspection(t *testing.T, policy inspection.FuelPolicy) (*fakeStore, *builder.BookingBuilder, uuid.UUID, commands.InspectionCommands) {
	t.Helper()
	store := newFakeStore()
	b := builder.NewBookingBuilder().WithFuelPolicy(policy)
	store.vehicles[b.VehicleID] = b.BuildVehicle()
	bookingID := uuid.New()
	store.bookings[bookingID] = b.BuildPersisted(bookingID, pricing.Major(1000))
	return store, b, bookingID, commands.NewInspectionCommands(store, clock.NewMockClock(builder.Today))
}

var fuelPolicy = inspection.FuelPolicy{
	Enabled:            true,
	BaseFee:            pricing.Major(100),
	PricePerLiter:      pricing.Major(20),
	TankCapacityLiters: 40,
}

func TestInspectionCommands_RecordInspection(t *testing.T) {
	ctx := context.Background()

	t.Run("return with missing fuel writes the fee to the booking", func(t *testing.T) {
		store, b, bookingID, cmd := setupInspection(t, fuelPolicy)

		result, err := cmd.RecordInspection(ctx, commands.RecordInspectionInput{
			BookingID: bookingID,
			Inspector: queries.Actor{ID: b.OwnerID, Role: user.RoleLessor},
			Kind:      inspection.KindReturn,
			FuelLevel: ptr.Of(inspection.FuelHalf),
			Mileage:   ptr.Of(12000),
			Notes:     "  <b>scratch</b> on bumper ",
		})
		require.NoError(t, err)
		require.NotNil(t, result.FuelFee)
		assert.Equal(t, 20, result.FuelFee.MissingLiters)
		assert.Equal(t, pricing.Major(500), result.FuelFee.Total)

		fee := store.bookings[bookingID].FuelFee()
		require.NotNil(t, fee)
		assert.Equal(t, pricing.Major(500), *fee)

		rec := store.inspections[bookingID.String()+"/return"]
		assert.Equal(t, "scratch on bumper", rec.Notes)
		require.NotNil(t, rec.MissingLiters)
		assert.Equal(t, 20, *rec.MissingLiters)

		jobs := store.jobsByTopic(shared.TopicFuelFeeApplied)
		require.Len(t, jobs, 2)
		var email shared.EmailMessage
		require.NoError(t, json.Unmarshal(jobs[0].Payload, &email))
		assert.Contains(t, email.Body, "20 liters missing")
	})

	t.Run("recording the same return twice keeps one fee and one job per kind", func(t *testing.T) {
		store, b, bookingID, cmd := setupInspection(t, fuelPolicy)
		in := commands.RecordInspectionInput{
			BookingID: bookingID,
			Inspector: queries.Actor{ID: b.OwnerID, Role: user.RoleLessor},
			Kind:      inspection.KindReturn,
			FuelLevel: ptr.Of(inspection.FuelQuarter),
		}

		first, err := cmd.RecordInspection(ctx, in)
		require.NoError(t, err)
		second, err := cmd.RecordInspection(ctx, in)
		require.NoError(t, err)

		assert.Equal(t, first.InspectionID, second.InspectionID)
		assert.Len(t, store.inspections, 1)
		assert.Equal(t, first.FuelFee.Total, *store.bookings[bookingID].FuelFee())
		assert.Equal(t, map[string]int{shared.JobKindEmail: 1, shared.JobKindEvent: 1}, countKinds(store.jobsByTopic(shared.TopicFuelFeeApplied)))
	})

	t.Run("correcting to a full tank clears the fee without notifying", func(t *testing.T) {
		store, b, bookingID, cmd := setupInspection(t, fuelPolicy)
		in := commands.RecordInspectionInput{
			BookingID: bookingID,
			Inspector: queries.Actor{ID: b.OwnerID, Role: user.RoleLessor},
			Kind:      inspection.KindReturn,
			FuelLevel: ptr.Of(inspection.FuelQuarter),
		}
		_, err := cmd.RecordInspection(ctx, in)
		require.NoError(t, err)
		require.NotNil(t, store.bookings[bookingID].FuelFee())

		in.FuelLevel = ptr.Of(inspection.FuelFull)
		corrected, err := cmd.RecordInspection(ctx, in)
		require.NoError(t, err)

		assert.True(t, corrected.FuelFee.Total.IsZero())
		assert.Nil(t, store.bookings[bookingID].FuelFee())
		assert.Len(t, store.inspections, 1)
		assert.Len(t, store.jobsByTopic(shared.TopicFuelFeeApplied), 2)
	})

	t.Run("correcting to a different fee overwrites and notifies again", func(t *testing.T) {
		store, b, bookingID, cmd := setupInspection(t, fuelPolicy)
		in := commands.RecordInspectionInput{
			BookingID: bookingID,
			Inspector: queries.Actor{ID: b.OwnerID, Role: user.RoleLessor},
			Kind:      inspection.KindReturn,
			FuelLevel: ptr.Of(inspection.FuelQuarter),
		}
		_, err := cmd.RecordInspection(ctx, in)
		require.NoError(t, err)

		in.FuelLevel = ptr.Of(inspection.FuelHalf)
		corrected, err := cmd.RecordInspection(ctx, in)
		require.NoError(t, err)

		assert.Equal(t, pricing.Major(500), corrected.FuelFee.Total)
		assert.Equal(t, pricing.Major(500), *store.bookings[bookingID].FuelFee())
		assert.Equal(t, map[string]int{shared.JobKindEmail: 2, shared.JobKindEvent: 2}, countKinds(store.jobsByTopic(shared.TopicFuelFeeApplied)))
	})

	t.Run("full tank applies no fee", func(t *testing.T) {
		store, b, bookingID, cmd := setupInspection(t, fuelPolicy)

		result, err := cmd.RecordInspection(ctx, commands.RecordInspectionInput{
			BookingID: bookingID,
			Inspector: queries.Actor{ID: b.OwnerID, Role: user.RoleLessor},
			Kind:      inspection.KindReturn,
			FuelLevel: ptr.Of(inspection.FuelFull),
		})
		require.NoError(t, err)
		require.NotNil(t, result.FuelFee)
		assert.True(t, result.FuelFee.Total.IsZero())
		assert.Nil(t, store.bookings[bookingID].FuelFee())
		assert.Empty(t, store.jobs)
	})

	t.Run("pickup never charges fuel", func(t *testing.T) {
		store, b, bookingID, cmd := setupInspection(t, fuelPolicy)

		result, err := cmd.RecordInspection(ctx, commands.RecordInspectionInput{
			BookingID: bookingID,
			Inspector: queries.Actor{ID: b.OwnerID, Role: user.RoleLessor},
			Kind:      inspection.KindPickup,
			FuelLevel: ptr.Of(inspection.FuelQuarter),
		})
		require.NoError(t, err)
		assert.Nil(t, result.FuelFee)
		assert.Nil(t, store.bookings[bookingID].FuelFee())
		assert.Len(t, store.inspections, 1)
	})

	t.Run("only the lessor or an admin may inspect", func(t *testing.T) {
		_, b, bookingID, cmd := setupInspection(t, fuelPolicy)

		_, err := cmd.RecordInspection(ctx, commands.RecordInspectionInput{
			BookingID: bookingID,
			Inspector: queries.Actor{ID: b.RenterID, Role: user.RoleRenter},
			Kind:      inspection.KindPickup,
		})
		assert.True(t, errs.Is(err, errs.ErrBookingNotFound))

		_, err = cmd.RecordInspection(ctx, commands.RecordInspectionInput{
			BookingID: bookingID,
			Inspector: queries.Actor{ID: uuid.New(), Role: user.RoleAdmin},
			Kind:      inspection.KindPickup,
		})
		assert.NoError(t, err)
	})

	t.Run("negative mileage is rejected", func(t *testing.T) {
		_, b, bookingID, cmd := setupInspection(t, fuelPolicy)

		_, err := cmd.RecordInspection(ctx, commands.RecordInspectionInput{
			BookingID: bookingID,
			Inspector: queries.Actor{ID: b.OwnerID, Role: user.RoleLessor},
			Kind:      inspection.KindPickup,
			Mileage:   ptr.Of(-1),
		})
		assert.True(t, errs.IsValidation(err))
	})

	t.Run("unknown booking is not found", func(t *testing.T) {
		_, b, _, cmd := setupInspection(t, fuelPolicy)

		_, err := cmd.RecordInspection(ctx, commands.RecordInspectionInput{
			BookingID: uuid.New(),
			Inspector: queries.Actor{ID: b.OwnerID, Role: user.RoleLessor},
			Kind:      inspection.KindPickup,
		})
		assert.True(t, errs.Is(err, errs.ErrBookingNotFound))
	})
}

func countKinds(jobs []storedJob) map[string]int {
	out := map[string]int{}
	for _, j := range jobs {
		out[j.Kind]++
	}
	return out
}
