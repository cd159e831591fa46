package commands_test

import (
	"testing"

	"parcelhub/internal/core/application/usecases/commands"
	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/order"
	"parcelhub/internal/core/domain/model/rider"
	"parcelhub/internal/core/domain/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func trackerWithZone(t *testing.T, center kernel.GeoPoint, radiusKM float64) *services.SurgeZoneTracker {
	t.Helper()
	zone, err := services.NewSurgeZone(kernel.NewUUID(), "downtown", center, radiusKM)
	require.NoError(t, err)
	return services.NewSurgeZoneTracker([]services.SurgeZone{zone})
}

func TestRecomputeSurgeCommandHandler_Handle_ZeroSupplyHitsCap(t *testing.T) {
	uow := newFakeUoW()
	center := point(t, 12.9716, 77.5946)
	tracker := trackerWithZone(t, center, 5)

	// Three active orders picking up in the zone, no available riders.
	for i := 0; i < 3; i++ {
		require.NoError(t, uow.orders.Add(t.Context(), seedOrder(t, order.StatusOrderPlaced, orderSeed{})))
	}

	h := commands.NewRecomputeSurgeCommandHandler(fleetScanUoWFactory{uow}, tracker)
	cmd := commands.NewRecomputeSurgeCommand()

	require.NoError(t, h.Handle(t.Context(), cmd))
	require.True(t, tracker.MultiplierFor(center).Equal(decimal.RequireFromString("1.6")),
		"got %s", tracker.MultiplierFor(center))
	require.False(t, tracker.LastRecomputedAt().IsZero())
}

func TestRecomputeSurgeCommandHandler_Handle_BalancedZoneStaysFlat(t *testing.T) {
	uow := newFakeUoW()
	center := point(t, 12.9716, 77.5946)
	tracker := trackerWithZone(t, center, 5)

	require.NoError(t, uow.orders.Add(t.Context(), seedOrder(t, order.StatusOrderPlaced, orderSeed{})))

	// Riders with recent positions inside the zone keep the ratio low.
	for i := 0; i < 2; i++ {
		r := seedRider(t, kernel.NewUUID(), kernel.VehicleBike, rider.StatusAvailable, 0, 3)
		require.NoError(t, r.UpdateLocation(center, tracker.LastRecomputedAt()))
		require.NoError(t, uow.riders.Add(t.Context(), r))
	}

	h := commands.NewRecomputeSurgeCommandHandler(fleetScanUoWFactory{uow}, tracker)
	cmd := commands.NewRecomputeSurgeCommand()

	require.NoError(t, h.Handle(t.Context(), cmd))
	require.True(t, tracker.MultiplierFor(center).Equal(decimal.NewFromInt(1)))
}

func TestRecomputeSurgeCommandHandler_Handle_ExistingOrdersKeepFrozenMultiplier(t *testing.T) {
	uow := newFakeUoW()
	center := point(t, 12.9716, 77.5946)
	tracker := trackerWithZone(t, center, 5)

	frozen := tracker.MultiplierFor(center)

	for i := 0; i < 4; i++ {
		require.NoError(t, uow.orders.Add(t.Context(), seedOrder(t, order.StatusOrderPlaced, orderSeed{})))
	}

	h := commands.NewRecomputeSurgeCommandHandler(fleetScanUoWFactory{uow}, tracker)
	require.NoError(t, h.Handle(t.Context(), commands.NewRecomputeSurgeCommand()))

	// The tracker moved, but the value read before the recompute is what
	// an already-priced order carries forever.
	require.True(t, frozen.Equal(decimal.NewFromInt(1)))
	require.False(t, tracker.MultiplierFor(center).Equal(frozen))
}
