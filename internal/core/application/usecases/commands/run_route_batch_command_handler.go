package commands

import (
	"context"
	"time"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/order"
	"parcelhub/internal/core/domain/model/rider"
	"parcelhub/internal/core/domain/model/route"
	"parcelhub/internal/core/domain/services"
)

// RunRouteBatchCommandHandler executes one batching pass for a hub. It
// snapshots the warehouse-held orders, the available riders homed there
// and the pending pickups, asks the batcher for a plan, then persists the
// plan in one transaction: routes are created, each batched order moves
// to ROUTE_OPTIMIZED with its route and delivery rider, folded-in pickups
// get their pickup rider assigned, and rider load counters are reserved.
//
// Orders the plan could not place stay AT_WAREHOUSE untouched; the next
// pass retries them.
type RunRouteBatchCommandHandler struct {
	uowFactory BatchUoWFactory
	batcher    services.RouteBatcher
}

// NewRunRouteBatchCommandHandler creates a handler for batch runs.
func NewRunRouteBatchCommandHandler(
	uowFactory BatchUoWFactory,
	batcher services.RouteBatcher,
) RunRouteBatchCommandHandler {
	return RunRouteBatchCommandHandler{
		uowFactory: uowFactory,
		batcher:    batcher,
	}
}

// Handle processes the batch run and returns the plan that was persisted.
func (h *RunRouteBatchCommandHandler) Handle(
	ctx context.Context, cmd RunRouteBatchCommand,
) (services.BatchResult, error) {
	if err := cmd.Validate(); err != nil {
		return services.BatchResult{}, err
	}

	now := time.Now()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return services.BatchResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	w, err := uow.WarehouseRepository().Get(ctx, cmd.WarehouseID())
	if err != nil {
		return services.BatchResult{}, err
	}

	held, err := uow.OrderRepository().GetAllAtWarehouse(ctx, cmd.WarehouseID())
	if err != nil {
		return services.BatchResult{}, err
	}
	if len(held) == 0 {
		return services.BatchResult{}, nil
	}

	riders, err := uow.RiderRepository().GetAllAvailableAtWarehouse(ctx, cmd.WarehouseID())
	if err != nil {
		return services.BatchResult{}, err
	}

	pending, err := h.pendingPickups(ctx, uow)
	if err != nil {
		return services.BatchResult{}, err
	}

	heldByID := make(map[string]*order.Order, len(held))
	batchOrders := make([]services.BatchOrder, 0, len(held))
	for _, o := range held {
		heldByID[o.ID().String()] = o
		batchOrders = append(batchOrders, services.BatchOrder{
			ID:          o.ID(),
			DropPoint:   o.DropPoint(),
			PackageSize: o.PackageSize(),
			CreatedAt:   o.CreatedAt(),
		})
	}

	ridersByID := make(map[string]*rider.Rider, len(riders))
	batchRiders := make([]services.BatchRider, 0, len(riders))
	for _, r := range riders {
		ridersByID[r.ID().String()] = r
		batchRiders = append(batchRiders, services.BatchRider{
			ID:                r.ID(),
			VehicleClass:      r.VehicleClass(),
			RemainingCapacity: r.RemainingCapacity(),
		})
	}

	pendingByID := make(map[string]*order.Order, len(pending))
	candidates := make([]services.PickupCandidate, 0, len(pending))
	for _, o := range pending {
		pendingByID[o.ID().String()] = o
		candidates = append(candidates, services.PickupCandidate{
			OrderID:     o.ID(),
			PickupPoint: o.PickupPoint(),
			PackageSize: o.PackageSize(),
			CreatedAt:   o.CreatedAt(),
		})
	}

	result, err := h.batcher.Plan(w.Location(), batchOrders, batchRiders, candidates)
	if err != nil {
		return services.BatchResult{}, err
	}

	for _, proposed := range result.Routes {
		if err = h.persistRoute(
			ctx, uow, cmd.WarehouseID(), proposed, heldByID, pendingByID, ridersByID, now,
		); err != nil {
			return services.BatchResult{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return services.BatchResult{}, err
	}

	return result, nil
}

// pendingPickups returns PICKUP_SCHEDULED orders, the pool the batcher
// may fold into return trips.
func (h *RunRouteBatchCommandHandler) pendingPickups(
	ctx context.Context, uow BatchUoW,
) ([]*order.Order, error) {
	active, err := uow.OrderRepository().GetAllActive(ctx)
	if err != nil {
		return nil, err
	}

	var pending []*order.Order
	for _, o := range active {
		if o.Status() == order.StatusPickupScheduled {
			pending = append(pending, o)
		}
	}
	return pending, nil
}

// persistRoute writes one proposed route and all the assignments it
// implies.
func (h *RunRouteBatchCommandHandler) persistRoute(
	ctx context.Context,
	uow BatchUoW,
	warehouseID kernel.UUID,
	proposed services.ProposedRoute,
	heldByID map[string]*order.Order,
	pendingByID map[string]*order.Order,
	ridersByID map[string]*rider.Rider,
	now time.Time,
) error {
	routeID := kernel.NewUUID()

	stops := make([]route.Stop, 0, len(proposed.Stops))
	for _, s := range proposed.Stops {
		stop, err := route.NewStop(s.OrderID, s.Point, s.Kind)
		if err != nil {
			return err
		}
		stops = append(stops, stop)
	}

	planned, err := route.NewRoute(
		routeID,
		proposed.RiderID,
		warehouseID,
		stops,
		proposed.TotalDistanceKM,
		proposed.EstimatedDurationMin,
		h.batcher.MaxParcelsPerRoute(),
	)
	if err != nil {
		return err
	}
	if err = uow.RouteRepository().Add(ctx, planned); err != nil {
		return err
	}

	r := ridersByID[proposed.RiderID.String()]
	orderRepo := uow.OrderRepository()

	for _, s := range proposed.Stops {
		var o *order.Order
		switch s.Kind {
		case route.StopDelivery:
			o = heldByID[s.OrderID.String()]
			err = o.AssignToRoute(routeID, proposed.RiderID, now)
		case route.StopReturnPickup:
			o = pendingByID[s.OrderID.String()]
			err = o.AssignPickupRider(proposed.RiderID, now)
		default:
			continue
		}
		if err != nil {
			return err
		}

		if err = r.AssignParcel(); err != nil {
			return err
		}
		if err = orderRepo.Update(ctx, o); err != nil {
			return err
		}
	}

	return uow.RiderRepository().Update(ctx, r)
}
