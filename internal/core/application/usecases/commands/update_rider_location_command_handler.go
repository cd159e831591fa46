package commands

import (
	"context"
	"time"
)

// UpdateRiderLocationCommandHandler records rider position reports.
type UpdateRiderLocationCommandHandler struct {
	uowFactory RiderUoWFactory
}

// NewUpdateRiderLocationCommandHandler creates a handler for position
// reports.
func NewUpdateRiderLocationCommandHandler(uowFactory RiderUoWFactory) UpdateRiderLocationCommandHandler {
	return UpdateRiderLocationCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the position report.
func (h *UpdateRiderLocationCommandHandler) Handle(ctx context.Context, cmd UpdateRiderLocationCommand) error {
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

	riderRepo := uow.RiderRepository()
	r, err := riderRepo.Get(ctx, cmd.RiderID())
	if err != nil {
		return err
	}

	if err = r.UpdateLocation(cmd.Location(), now); err != nil {
		return err
	}
	if err = riderRepo.Update(ctx, r); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
