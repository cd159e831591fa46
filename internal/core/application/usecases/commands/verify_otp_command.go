package commands

import (
	"errors"

	"parcelhub/internal/core/domain/model/handoff"
	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/order"
	"parcelhub/internal/pkg/guard"
)

var (
	ErrVerifyOTPCommandIsNotConstructed = errors.New(
		"VerifyOTPCommand must be created via NewVerifyOTPCommand constructor",
	)
	ErrCodeLengthIsInvalid = errors.New("code must be exactly six digits")
)

// VerifyOTPCommand represents a handoff code check at a custody transfer.
type VerifyOTPCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	phase   order.HandoffPhase
	code    string

	guard guard.ConstructorGuard
}

// NewVerifyOTPCommand creates a verification request. The candidate code
// must be exactly six digits; anything else is rejected before touching
// the store.
func NewVerifyOTPCommand(
	orderID kernel.UUID,
	phase order.HandoffPhase,
	code string,
) (VerifyOTPCommand, error) {
	cmd := VerifyOTPCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setPhase(phase),
		cmd.setCode(code),
	); err != nil {
		return VerifyOTPCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c VerifyOTPCommand) Validate() error {
	return c.guard.Validate(ErrVerifyOTPCommandIsNotConstructed)
}

// OrderID returns the order being handed over.
func (c VerifyOTPCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Phase returns the custody transfer being verified.
func (c VerifyOTPCommand) Phase() order.HandoffPhase {
	return c.phase
}

// Code returns the candidate code.
func (c VerifyOTPCommand) Code() string {
	return c.code
}

func (c *VerifyOTPCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *VerifyOTPCommand) setPhase(phase order.HandoffPhase) error {
	if err := phase.Validate(); err != nil {
		return err
	}

	c.phase = phase
	return nil
}

func (c *VerifyOTPCommand) setCode(code string) error {
	if len(code) != handoff.CodeLength {
		return ErrCodeLengthIsInvalid
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return ErrCodeLengthIsInvalid
		}
	}

	c.code = code
	return nil
}
