package commands

import (
	"context"
	"time"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/services"
)

// RecomputeSurgeCommandHandler rebuilds the per-zone surge multipliers
// from a snapshot of active order pickup points and available rider
// positions. The scan is read-only; the tracker swap is atomic and
// existing orders keep the multipliers they were priced with.
type RecomputeSurgeCommandHandler struct {
	uowFactory FleetScanUoWFactory
	surge      *services.SurgeZoneTracker
}

// NewRecomputeSurgeCommandHandler creates a handler for surge recomputes.
func NewRecomputeSurgeCommandHandler(
	uowFactory FleetScanUoWFactory,
	surge *services.SurgeZoneTracker,
) RecomputeSurgeCommandHandler {
	return RecomputeSurgeCommandHandler{
		uowFactory: uowFactory,
		surge:      surge,
	}
}

// Handle processes the recompute command.
func (h *RecomputeSurgeCommandHandler) Handle(ctx context.Context, cmd RecomputeSurgeCommand) error {
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

	active, err := uow.OrderRepository().GetAllActive(ctx)
	if err != nil {
		return err
	}
	riders, err := uow.RiderRepository().GetAllAvailable(ctx)
	if err != nil {
		return err
	}

	demand := make([]kernel.GeoPoint, 0, len(active))
	for _, o := range active {
		demand = append(demand, o.PickupPoint())
	}

	supply := make([]kernel.GeoPoint, 0, len(riders))
	for _, r := range riders {
		if r.Location() != nil {
			supply = append(supply, *r.Location())
		}
	}

	h.surge.Recompute(demand, supply, now)
	return nil
}
