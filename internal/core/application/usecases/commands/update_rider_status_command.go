package commands

import (
	"errors"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/rider"
	"parcelhub/internal/pkg/guard"
)

var ErrUpdateRiderStatusCommandIsNotConstructed = errors.New(
	"UpdateRiderStatusCommand must be created via NewUpdateRiderStatusCommand constructor",
)

// UpdateRiderStatusCommand represents a rider going on or off shift.
type UpdateRiderStatusCommand struct { //nolint:recvcheck //using for validation
	riderID kernel.UUID
	status  rider.Status

	guard guard.ConstructorGuard
}

// NewUpdateRiderStatusCommand creates a status change request.
func NewUpdateRiderStatusCommand(
	riderID kernel.UUID, status rider.Status,
) (UpdateRiderStatusCommand, error) {
	cmd := UpdateRiderStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setRiderID(riderID),
		cmd.setStatus(status),
	); err != nil {
		return UpdateRiderStatusCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateRiderStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateRiderStatusCommandIsNotConstructed)
}

// RiderID returns the rider changing status.
func (c UpdateRiderStatusCommand) RiderID() kernel.UUID {
	return c.riderID
}

// Status returns the requested operational status.
func (c UpdateRiderStatusCommand) Status() rider.Status {
	return c.status
}

func (c *UpdateRiderStatusCommand) setRiderID(riderID kernel.UUID) error {
	if err := riderID.Validate(); err != nil {
		return err
	}

	c.riderID = riderID
	return nil
}

func (c *UpdateRiderStatusCommand) setStatus(status rider.Status) error {
	if err := status.Validate(); err != nil {
		return err
	}

	c.status = status
	return nil
}
