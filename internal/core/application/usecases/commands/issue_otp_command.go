package commands

import (
	"errors"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/order"
	"parcelhub/internal/pkg/guard"
)

var ErrIssueOTPCommandIsNotConstructed = errors.New(
	"IssueOTPCommand must be created via NewIssueOTPCommand constructor",
)

// IssueOTPCommand represents a request for a fresh handoff code for one
// order and phase. Re-issuing replaces any existing code and resets its
// attempt counter.
type IssueOTPCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	phase   order.HandoffPhase

	guard guard.ConstructorGuard
}

// NewIssueOTPCommand creates an issue request.
func NewIssueOTPCommand(orderID kernel.UUID, phase order.HandoffPhase) (IssueOTPCommand, error) {
	cmd := IssueOTPCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setPhase(phase),
	); err != nil {
		return IssueOTPCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c IssueOTPCommand) Validate() error {
	return c.guard.Validate(ErrIssueOTPCommandIsNotConstructed)
}

// OrderID returns the order the code is for.
func (c IssueOTPCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Phase returns the custody transfer the code protects.
func (c IssueOTPCommand) Phase() order.HandoffPhase {
	return c.phase
}

func (c *IssueOTPCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *IssueOTPCommand) setPhase(phase order.HandoffPhase) error {
	if err := phase.Validate(); err != nil {
		return err
	}

	c.phase = phase
	return nil
}
