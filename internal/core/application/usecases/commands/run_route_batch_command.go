package commands

import (
	"errors"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/pkg/guard"
)

var ErrRunRouteBatchCommandIsNotConstructed = errors.New(
	"RunRouteBatchCommand must be created via NewRunRouteBatchCommand constructor",
)

// RunRouteBatchCommand represents a batching pass over one warehouse's
// held parcels. Triggered by the scheduler or by an operator.
type RunRouteBatchCommand struct { //nolint:recvcheck //using for validation
	warehouseID kernel.UUID

	guard guard.ConstructorGuard
}

// NewRunRouteBatchCommand creates a batch run request.
func NewRunRouteBatchCommand(warehouseID kernel.UUID) (RunRouteBatchCommand, error) {
	cmd := RunRouteBatchCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setWarehouseID(warehouseID); err != nil {
		return RunRouteBatchCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RunRouteBatchCommand) Validate() error {
	return c.guard.Validate(ErrRunRouteBatchCommandIsNotConstructed)
}

// WarehouseID returns the hub to batch.
func (c RunRouteBatchCommand) WarehouseID() kernel.UUID {
	return c.warehouseID
}

func (c *RunRouteBatchCommand) setWarehouseID(warehouseID kernel.UUID) error {
	if err := warehouseID.Validate(); err != nil {
		return err
	}

	c.warehouseID = warehouseID
	return nil
}
