package commands

import (
	"context"
)

// UpdateRiderStatusCommandHandler applies shift changes. The aggregate
// rejects going OFFLINE while parcels are assigned.
type UpdateRiderStatusCommandHandler struct {
	uowFactory RiderUoWFactory
}

// NewUpdateRiderStatusCommandHandler creates a handler for rider status
// changes.
func NewUpdateRiderStatusCommandHandler(uowFactory RiderUoWFactory) UpdateRiderStatusCommandHandler {
	return UpdateRiderStatusCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the status change command.
func (h *UpdateRiderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateRiderStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

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

	if err = r.SetStatus(cmd.Status()); err != nil {
		return err
	}
	if err = riderRepo.Update(ctx, r); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
