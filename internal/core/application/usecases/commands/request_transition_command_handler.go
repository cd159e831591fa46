package commands

import (
	"context"
	"time"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/order"
	"parcelhub/internal/core/domain/model/rider"
	"parcelhub/internal/core/domain/model/route"
	"parcelhub/internal/pkg/errs"
)

// RequestTransitionCommandHandler moves an order along its lifecycle on
// behalf of an actor. The aggregate enforces the transition table, the
// actor gates and the OTP gates; this handler adds the physical-world
// bookkeeping each edge implies, all inside one transaction:
//
//   - PICKUP_RIDER_ASSIGNED reserves a slot on the pickup rider
//   - AT_WAREHOUSE scans the parcel into the hub and frees the pickup
//     rider's slot
//   - OUT_FOR_DELIVERY releases the hub slot, marks the delivery rider
//     on-delivery and starts the order's route
//   - DELIVERED frees the delivery rider's slot and completes the route
//     once its last parcel has settled
//   - CANCELLED returns whatever slot the parcel was occupying and
//     settles the route when no parcel on it remains active
type RequestTransitionCommandHandler struct {
	uowFactory TransitionUoWFactory
}

// NewRequestTransitionCommandHandler creates a handler for status
// transitions.
func NewRequestTransitionCommandHandler(uowFactory TransitionUoWFactory) RequestTransitionCommandHandler {
	return RequestTransitionCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the transition command.
func (h *RequestTransitionCommandHandler) Handle(ctx context.Context, cmd RequestTransitionCommand) error {
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

	prior := o.Status()

	switch cmd.Target() {
	case order.StatusPickupRiderAssigned:
		err = h.assignPickupRider(ctx, uow, o, cmd, now)
	case order.StatusAtWarehouse:
		err = h.receiveAtWarehouse(ctx, uow, o, cmd, now)
	default:
		if err = o.RequestTransition(
			cmd.Target(), cmd.Actor(), cmd.ActorID(), cmd.Metadata(), now,
		); err != nil {
			return err
		}
		err = h.applyCounterEffects(ctx, uow, o, prior, cmd.Target())
	}
	if err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// assignPickupRider handles the PICKUP_RIDER_ASSIGNED edge: the rider
// named in the metadata gets a slot reserved before the order records
// the assignment.
func (h *RequestTransitionCommandHandler) assignPickupRider(
	ctx context.Context,
	uow TransitionUoW,
	o *order.Order,
	cmd RequestTransitionCommand,
	now time.Time,
) error {
	// The aggregate's assignment method acts as SYSTEM, so the
	// requesting actor is gated here first.
	if err := o.Status().CanTransition(order.StatusPickupRiderAssigned, cmd.Actor()); err != nil {
		return err
	}

	riderID, err := riderIDFromMetadata(cmd.Metadata())
	if err != nil {
		return err
	}

	riderRepo := uow.RiderRepository()
	r, err := riderRepo.Get(ctx, riderID)
	if err != nil {
		return err
	}

	if !r.CanCarry(o.PackageSize()) {
		return errs.NewValueIsInvalidError("rider vehicle cannot carry package")
	}
	if err = r.AssignParcel(); err != nil {
		return err
	}
	if err = r.SetStatus(rider.StatusOnPickup); err != nil {
		return err
	}
	if err = riderRepo.Update(ctx, r); err != nil {
		return err
	}

	return o.AssignPickupRider(riderID, now)
}

// receiveAtWarehouse handles the AT_WAREHOUSE edge.
func (h *RequestTransitionCommandHandler) receiveAtWarehouse(
	ctx context.Context,
	uow TransitionUoW,
	o *order.Order,
	cmd RequestTransitionCommand,
	now time.Time,
) error {
	if err := o.Status().CanTransition(order.StatusAtWarehouse, cmd.Actor()); err != nil {
		return err
	}

	raw, ok := cmd.Metadata()[MetadataWarehouseID]
	if !ok {
		return errs.NewValueIsRequiredError(MetadataWarehouseID)
	}
	warehouseID, err := kernel.UUIDFromString(raw)
	if err != nil {
		return err
	}

	return intakeAtWarehouse(ctx, uow, o, warehouseID, now)
}

// applyCounterEffects performs the rider and warehouse bookkeeping for
// edges that have no dedicated branch.
func (h *RequestTransitionCommandHandler) applyCounterEffects(
	ctx context.Context,
	uow TransitionUoW,
	o *order.Order,
	prior order.Status,
	target order.Status,
) error {
	switch target {
	case order.StatusOutForDelivery:
		if o.Warehouse() != nil {
			if err := releaseWarehouseSlot(ctx, uow, *o.Warehouse()); err != nil {
				return err
			}
		}
		if o.DeliveryRider() != nil {
			if err := setRiderStatus(ctx, uow, *o.DeliveryRider(), rider.StatusOnDelivery); err != nil {
				return err
			}
		}
		if o.Route() != nil {
			return startRoute(ctx, uow, *o.Route())
		}
		return nil

	case order.StatusDelivered:
		if o.DeliveryRider() != nil {
			if err := releaseRiderSlot(ctx, uow, *o.DeliveryRider()); err != nil {
				return err
			}
		}
		if o.Route() != nil {
			return settleRoute(ctx, uow, o, *o.Route())
		}
		return nil

	case order.StatusCancelled:
		if err := h.releaseOnCancel(ctx, uow, o, prior); err != nil {
			return err
		}
		if o.Route() != nil {
			return settleRoute(ctx, uow, o, *o.Route())
		}
		return nil

	default:
		return nil
	}
}

// startRoute moves the order's route to IN_PROGRESS when the first parcel
// on it leaves the hub. Later parcels on the same trip find it already
// running.
func startRoute(ctx context.Context, uow TransitionUoW, routeID kernel.UUID) error {
	routeRepo := uow.RouteRepository()
	rt, err := routeRepo.Get(ctx, routeID)
	if err != nil {
		return err
	}
	if rt.Status() != route.StatusPlanned {
		return nil
	}

	if err = rt.Start(); err != nil {
		return err
	}
	return routeRepo.Update(ctx, rt)
}

// settleRoute closes the route once none of its delivery parcels remain
// active. A route that delivered anything completes; one whose every
// parcel was cancelled is cancelled with it. o carries the in-memory
// status of the parcel that triggered the settlement, ahead of its own
// persistence.
func settleRoute(ctx context.Context, uow TransitionUoW, o *order.Order, routeID kernel.UUID) error {
	routeRepo := uow.RouteRepository()
	rt, err := routeRepo.Get(ctx, routeID)
	if err != nil {
		return err
	}
	if rt.Status() == route.StatusCompleted || rt.Status() == route.StatusCancelled {
		return nil
	}

	orderRepo := uow.OrderRepository()
	anyDelivered := false
	for _, stop := range rt.Stops() {
		if stop.Kind() != route.StopDelivery {
			continue
		}

		status := o.Status()
		if !stop.OrderID().IsEqual(o.ID()) {
			sibling, getErr := orderRepo.Get(ctx, stop.OrderID())
			if getErr != nil {
				return getErr
			}
			status = sibling.Status()
		}

		if status != order.StatusDelivered && !status.IsTerminal() {
			return nil
		}
		if status == order.StatusDelivered || status == order.StatusCompleted {
			anyDelivered = true
		}
	}

	if anyDelivered && rt.Status() == route.StatusInProgress {
		err = rt.Complete()
	} else {
		err = rt.Cancel()
	}
	if err != nil {
		return err
	}
	return routeRepo.Update(ctx, rt)
}

// releaseOnCancel returns the slot the parcel occupied at the moment of
// cancellation, based on where it was in the lifecycle.
func (h *RequestTransitionCommandHandler) releaseOnCancel(
	ctx context.Context,
	uow TransitionUoW,
	o *order.Order,
	prior order.Status,
) error {
	switch prior {
	case order.StatusPickupRiderAssigned,
		order.StatusPickupEnRoute,
		order.StatusPickedUp,
		order.StatusInTransitToWarehouse:
		if o.PickupRider() != nil {
			return releaseRiderSlot(ctx, uow, *o.PickupRider())
		}
		return nil

	case order.StatusAtWarehouse:
		if o.Warehouse() != nil {
			return releaseWarehouseSlot(ctx, uow, *o.Warehouse())
		}
		return nil

	case order.StatusRouteOptimized, order.StatusDeliveryRiderAssigned:
		// Still physically in the hub, with a slot reserved on the
		// delivery rider.
		if o.Warehouse() != nil {
			if err := releaseWarehouseSlot(ctx, uow, *o.Warehouse()); err != nil {
				return err
			}
		}
		if o.DeliveryRider() != nil {
			return releaseRiderSlot(ctx, uow, *o.DeliveryRider())
		}
		return nil

	case order.StatusOutForDelivery:
		if o.DeliveryRider() != nil {
			return releaseRiderSlot(ctx, uow, *o.DeliveryRider())
		}
		return nil

	default:
		return nil
	}
}

// intakeAtWarehouse scans the parcel into the hub: increments the hub
// counter, records the intake on the order and frees the pickup rider's
// slot. Shared with the dedicated warehouse intake command.
func intakeAtWarehouse(
	ctx context.Context,
	uow TransitionUoW,
	o *order.Order,
	warehouseID kernel.UUID,
	now time.Time,
) error {
	// Gate on the order's state before touching the hub counter, so a
	// rejected scan leaves the counter alone.
	if err := o.Status().CanTransition(order.StatusAtWarehouse, order.ActorSystem); err != nil {
		return err
	}

	warehouseRepo := uow.WarehouseRepository()
	w, err := warehouseRepo.Get(ctx, warehouseID)
	if err != nil {
		return err
	}

	if err = w.Intake(); err != nil {
		return err
	}
	if err = warehouseRepo.Update(ctx, w); err != nil {
		return err
	}

	if err = o.MarkReceivedAtWarehouse(warehouseID, now); err != nil {
		return err
	}

	if o.PickupRider() != nil {
		return releaseRiderSlot(ctx, uow, *o.PickupRider())
	}
	return nil
}

// releaseRiderSlot decrements the rider's load and returns an idle rider
// to AVAILABLE.
func releaseRiderSlot(ctx context.Context, uow TransitionUoW, riderID kernel.UUID) error {
	riderRepo := uow.RiderRepository()
	r, err := riderRepo.Get(ctx, riderID)
	if err != nil {
		return err
	}

	r.ReleaseParcel()
	if r.CurrentLoad() == 0 && r.Status() != rider.StatusOffline {
		if err = r.SetStatus(rider.StatusAvailable); err != nil {
			return err
		}
	}

	return riderRepo.Update(ctx, r)
}

// releaseWarehouseSlot decrements the hub's load counter.
func releaseWarehouseSlot(ctx context.Context, uow TransitionUoW, warehouseID kernel.UUID) error {
	warehouseRepo := uow.WarehouseRepository()
	w, err := warehouseRepo.Get(ctx, warehouseID)
	if err != nil {
		return err
	}

	w.Release()
	return warehouseRepo.Update(ctx, w)
}

func setRiderStatus(ctx context.Context, uow TransitionUoW, riderID kernel.UUID, status rider.Status) error {
	riderRepo := uow.RiderRepository()
	r, err := riderRepo.Get(ctx, riderID)
	if err != nil {
		return err
	}

	if err = r.SetStatus(status); err != nil {
		return err
	}
	return riderRepo.Update(ctx, r)
}

// riderIDFromMetadata extracts and parses the rider_id metadata entry.
func riderIDFromMetadata(metadata map[string]string) (kernel.UUID, error) {
	raw, ok := metadata[MetadataRiderID]
	if !ok {
		return kernel.UUID{}, errs.NewValueIsRequiredError(MetadataRiderID)
	}
	return kernel.UUIDFromString(raw)
}
