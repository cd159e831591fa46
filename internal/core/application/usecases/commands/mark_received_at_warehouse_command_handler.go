package commands

import (
	"context"
	"time"
)

// MarkReceivedAtWarehouseCommandHandler processes hub intake scans. In
// one transaction: the warehouse counter goes up (rejecting the scan at
// capacity), the order moves to AT_WAREHOUSE with its receivedAt stamp,
// and the pickup rider's slot is freed. A rejected intake leaves the
// order in transit; the parcel is re-scanned once space frees up.
type MarkReceivedAtWarehouseCommandHandler struct {
	uowFactory TransitionUoWFactory
}

// NewMarkReceivedAtWarehouseCommandHandler creates a handler for hub
// intake scans.
func NewMarkReceivedAtWarehouseCommandHandler(
	uowFactory TransitionUoWFactory,
) MarkReceivedAtWarehouseCommandHandler {
	return MarkReceivedAtWarehouseCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the intake command.
func (h *MarkReceivedAtWarehouseCommandHandler) Handle(
	ctx context.Context, cmd MarkReceivedAtWarehouseCommand,
) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := time.Now()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = intakeAtWarehouse(ctx, uow, o, cmd.WarehouseID(), now); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
