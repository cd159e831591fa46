package commands

import (
	"errors"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/pkg/guard"
)

var ErrMarkReceivedAtWarehouseCommandIsNotConstructed = errors.New(
	"MarkReceivedAtWarehouseCommand must be created via NewMarkReceivedAtWarehouseCommand constructor",
)

// MarkReceivedAtWarehouseCommand represents a hub intake scan: the named
// parcel has physically arrived at the named warehouse.
type MarkReceivedAtWarehouseCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	warehouseID kernel.UUID

	guard guard.ConstructorGuard
}

// NewMarkReceivedAtWarehouseCommand creates an intake command.
func NewMarkReceivedAtWarehouseCommand(
	orderID kernel.UUID,
	warehouseID kernel.UUID,
) (MarkReceivedAtWarehouseCommand, error) {
	cmd := MarkReceivedAtWarehouseCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setWarehouseID(warehouseID),
	); err != nil {
		return MarkReceivedAtWarehouseCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkReceivedAtWarehouseCommand) Validate() error {
	return c.guard.Validate(ErrMarkReceivedAtWarehouseCommandIsNotConstructed)
}

// OrderID returns the scanned parcel's order.
func (c MarkReceivedAtWarehouseCommand) OrderID() kernel.UUID {
	return c.orderID
}

// WarehouseID returns the receiving hub.
func (c MarkReceivedAtWarehouseCommand) WarehouseID() kernel.UUID {
	return c.warehouseID
}

func (c *MarkReceivedAtWarehouseCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *MarkReceivedAtWarehouseCommand) setWarehouseID(warehouseID kernel.UUID) error {
	if err := warehouseID.Validate(); err != nil {
		return err
	}

	c.warehouseID = warehouseID
	return nil
}
