package commands_test

import (
	"testing"
	"time"

	"parcelhub/internal/core/application/usecases/commands"
	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/order"
	"parcelhub/internal/core/domain/model/rider"
	"parcelhub/internal/core/domain/model/route"
	"parcelhub/internal/core/domain/services"

	"github.com/stretchr/testify/require"
)

func testBatcher() services.RouteBatcher {
	return services.NewRouteBatcher(services.BatchConfig{
		MaxParcelsPerRoute: 5,
		MaxDetourKM:        2.0,
		MaxReturnPickups:   1,
		ImprovementPasses:  2,
	})
}

// heldOrder restores an AT_WAREHOUSE order dropping at the given point.
func heldOrder(t *testing.T, warehouseID kernel.UUID, drop kernel.GeoPoint, createdAt time.Time) *order.Order {
	t.Helper()
	wID := warehouseID
	received := createdAt.Add(30 * time.Minute)
	return order.RestoreOrder(
		kernel.NewUUID(), "DLV-250823-0009", "held-"+kernel.NewUUID().String(), kernel.NewUUID(),
		"12 Hill Road", "3 Lake View",
		point(t, 12.9716, 77.5946), drop,
		7.5, kernel.PackageSizeSmall,
		nil, nil, &wID, nil,
		order.StatusAtWarehouse, order.PaymentPaid, order.PaymentPrepaid,
		flatPrice(t), true, false, 2,
		createdAt, nil, &received, nil, nil,
	)
}

// scheduledPickup restores a PICKUP_SCHEDULED order picking up at the
// given point.
func scheduledPickup(t *testing.T, pickup kernel.GeoPoint) *order.Order {
	t.Helper()
	return order.RestoreOrder(
		kernel.NewUUID(), "DLV-250823-0010", "pending-"+kernel.NewUUID().String(), kernel.NewUUID(),
		"12 Hill Road", "3 Lake View",
		pickup, point(t, 12.9352, 77.6245),
		7.5, kernel.PackageSizeSmall,
		nil, nil, nil, nil,
		order.StatusPickupScheduled, order.PaymentPaid, order.PaymentPrepaid,
		flatPrice(t), false, false, 1,
		time.Now().Add(-time.Hour), nil, nil, nil, nil,
	)
}

func TestRunRouteBatchCommandHandler_Handle_BatchesHeldOrders(t *testing.T) {
	uow := newFakeUoW()

	w := seedWarehouse(t, 3, 10)
	require.NoError(t, uow.warehouses.Add(t.Context(), w))

	r := seedRider(t, w.ID(), kernel.VehicleBike, rider.StatusAvailable, 0, 5)
	require.NoError(t, uow.riders.Add(t.Context(), r))

	base := time.Now().Add(-2 * time.Hour)
	held := []*order.Order{
		heldOrder(t, w.ID(), point(t, 12.9650, 77.6050), base),
		heldOrder(t, w.ID(), point(t, 12.9700, 77.6100), base.Add(time.Minute)),
		heldOrder(t, w.ID(), point(t, 12.9750, 77.6150), base.Add(2*time.Minute)),
	}
	for _, o := range held {
		require.NoError(t, uow.orders.Add(t.Context(), o))
	}

	h := commands.NewRunRouteBatchCommandHandler(batchUoWFactory{uow}, testBatcher())
	cmd, err := commands.NewRunRouteBatchCommand(w.ID())
	require.NoError(t, err)

	result, err := h.Handle(t.Context(), cmd)
	require.NoError(t, err)

	require.Len(t, result.Routes, 1)
	require.Empty(t, result.Unassigned)
	require.Len(t, uow.routes.routes, 1)

	var planned *route.Route
	for _, rt := range uow.routes.routes {
		planned = rt
	}
	require.Equal(t, route.StatusPlanned, planned.Status())
	require.Equal(t, 3, planned.ParcelCount())
	require.True(t, planned.Rider().IsEqual(r.ID()))
	require.Greater(t, planned.TotalDistanceKM(), 0.0)

	for _, o := range held {
		require.Equal(t, order.StatusRouteOptimized, o.Status())
		require.NotNil(t, o.Route())
		require.True(t, o.Route().IsEqual(planned.ID()))
		require.NotNil(t, o.DeliveryRider())
		require.True(t, o.DeliveryRider().IsEqual(r.ID()))
	}

	require.Equal(t, 3, r.CurrentLoad(), "each batched parcel reserves a rider slot")
	require.Equal(t, 1, uow.commits)
}

func TestRunRouteBatchCommandHandler_Handle_FoldsNearbyPickupIntoReturnTrip(t *testing.T) {
	uow := newFakeUoW()

	w := seedWarehouse(t, 1, 10)
	require.NoError(t, uow.warehouses.Add(t.Context(), w))

	r := seedRider(t, w.ID(), kernel.VehicleBike, rider.StatusAvailable, 0, 5)
	require.NoError(t, uow.riders.Add(t.Context(), r))

	held := heldOrder(t, w.ID(), point(t, 12.9700, 77.6100), time.Now().Add(-time.Hour))
	require.NoError(t, uow.orders.Add(t.Context(), held))

	// Sits between the drop and the hub, well inside the detour cap.
	pending := scheduledPickup(t, point(t, 12.9650, 77.6050))
	require.NoError(t, uow.orders.Add(t.Context(), pending))

	h := commands.NewRunRouteBatchCommandHandler(batchUoWFactory{uow}, testBatcher())
	cmd, err := commands.NewRunRouteBatchCommand(w.ID())
	require.NoError(t, err)

	result, err := h.Handle(t.Context(), cmd)
	require.NoError(t, err)
	require.Len(t, result.Routes, 1)
	require.Len(t, result.Routes[0].Stops, 2)
	require.Equal(t, route.StopReturnPickup, result.Routes[0].Stops[1].Kind)

	require.Equal(t, order.StatusPickupRiderAssigned, pending.Status())
	require.NotNil(t, pending.PickupRider())
	require.True(t, pending.PickupRider().IsEqual(r.ID()))
	require.Equal(t, 2, r.CurrentLoad())
}

func TestRunRouteBatchCommandHandler_Handle_NoRidersLeavesOrdersHeld(t *testing.T) {
	uow := newFakeUoW()

	w := seedWarehouse(t, 2, 10)
	require.NoError(t, uow.warehouses.Add(t.Context(), w))

	held := []*order.Order{
		heldOrder(t, w.ID(), point(t, 12.9650, 77.6050), time.Now().Add(-time.Hour)),
		heldOrder(t, w.ID(), point(t, 12.9700, 77.6100), time.Now().Add(-time.Hour)),
	}
	for _, o := range held {
		require.NoError(t, uow.orders.Add(t.Context(), o))
	}

	h := commands.NewRunRouteBatchCommandHandler(batchUoWFactory{uow}, testBatcher())
	cmd, err := commands.NewRunRouteBatchCommand(w.ID())
	require.NoError(t, err)

	result, err := h.Handle(t.Context(), cmd)
	require.NoError(t, err)

	require.Empty(t, result.Routes)
	require.Len(t, result.Unassigned, 2)
	require.Empty(t, uow.routes.routes)
	for _, o := range held {
		require.Equal(t, order.StatusAtWarehouse, o.Status())
	}
}

func TestRunRouteBatchCommandHandler_Handle_EmptyHubIsANoOp(t *testing.T) {
	uow := newFakeUoW()

	w := seedWarehouse(t, 0, 10)
	require.NoError(t, uow.warehouses.Add(t.Context(), w))

	h := commands.NewRunRouteBatchCommandHandler(batchUoWFactory{uow}, testBatcher())
	cmd, err := commands.NewRunRouteBatchCommand(w.ID())
	require.NoError(t, err)

	result, err := h.Handle(t.Context(), cmd)
	require.NoError(t, err)
	require.Empty(t, result.Routes)
	require.Empty(t, result.Unassigned)
	require.Equal(t, 0, uow.commits)
}
