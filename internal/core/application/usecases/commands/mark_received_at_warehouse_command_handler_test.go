package commands_test

import (
	"testing"

	"parcelhub/internal/core/application/usecases/commands"
	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/order"
	"parcelhub/internal/core/domain/model/rider"
	"parcelhub/internal/pkg/errs"

	"github.com/stretchr/testify/require"
)

func TestMarkReceivedAtWarehouseCommandHandler_Handle_ScansParcelIn(t *testing.T) {
	uow := newFakeUoW()

	w := seedWarehouse(t, 0, 5)
	require.NoError(t, uow.warehouses.Add(t.Context(), w))

	r := seedRider(t, w.ID(), kernel.VehicleBike, rider.StatusOnPickup, 1, 2)
	require.NoError(t, uow.riders.Add(t.Context(), r))

	rID := r.ID()
	o := seedOrder(t, order.StatusInTransitToWarehouse, orderSeed{pickupRider: &rID})
	require.NoError(t, uow.orders.Add(t.Context(), o))

	h := commands.NewMarkReceivedAtWarehouseCommandHandler(transitionUoWFactory{uow})
	cmd, err := commands.NewMarkReceivedAtWarehouseCommand(o.ID(), w.ID())
	require.NoError(t, err)

	require.NoError(t, h.Handle(t.Context(), cmd))

	require.Equal(t, order.StatusAtWarehouse, o.Status())
	require.NotNil(t, o.ReceivedAt())
	require.NotNil(t, o.Warehouse())
	require.True(t, o.Warehouse().IsEqual(w.ID()))

	require.Equal(t, 1, w.CurrentLoad())
	require.Equal(t, 0, r.CurrentLoad(), "pickup rider slot is freed on intake")
	require.Equal(t, rider.StatusAvailable, r.Status())
	require.Equal(t, 1, uow.commits)
}

func TestMarkReceivedAtWarehouseCommandHandler_Handle_FullHubRejectsScan(t *testing.T) {
	uow := newFakeUoW()

	w := seedWarehouse(t, 5, 5)
	require.NoError(t, uow.warehouses.Add(t.Context(), w))

	o := seedOrder(t, order.StatusInTransitToWarehouse, orderSeed{})
	require.NoError(t, uow.orders.Add(t.Context(), o))

	h := commands.NewMarkReceivedAtWarehouseCommandHandler(transitionUoWFactory{uow})
	cmd, err := commands.NewMarkReceivedAtWarehouseCommand(o.ID(), w.ID())
	require.NoError(t, err)

	err = h.Handle(t.Context(), cmd)
	require.ErrorIs(t, err, errs.ErrCapacityExceeded)
	require.Equal(t, order.StatusInTransitToWarehouse, o.Status(), "order stays in transit")
	require.Equal(t, 0, uow.commits)
}

func TestMarkReceivedAtWarehouseCommandHandler_Handle_WrongStatusRejected(t *testing.T) {
	uow := newFakeUoW()

	w := seedWarehouse(t, 0, 5)
	require.NoError(t, uow.warehouses.Add(t.Context(), w))

	o := seedOrder(t, order.StatusOrderPlaced, orderSeed{})
	require.NoError(t, uow.orders.Add(t.Context(), o))

	h := commands.NewMarkReceivedAtWarehouseCommandHandler(transitionUoWFactory{uow})
	cmd, err := commands.NewMarkReceivedAtWarehouseCommand(o.ID(), w.ID())
	require.NoError(t, err)

	err = h.Handle(t.Context(), cmd)
	require.ErrorIs(t, err, errs.ErrInvalidTransition)
}
