package commands

import (
	"errors"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/order"
	"parcelhub/internal/pkg/guard"
)

var (
	ErrRequestTransitionCommandIsNotConstructed = errors.New(
		"RequestTransitionCommand must be created via NewRequestTransitionCommand constructor",
	)
	ErrActorIDIsRequired = errors.New("actor id is required")
)

// MetadataRiderID is the metadata key carrying the rider to assign when
// the target status is PICKUP_RIDER_ASSIGNED.
const MetadataRiderID = "rider_id"

// MetadataWarehouseID is the metadata key carrying the receiving hub when
// the target status is AT_WAREHOUSE.
const MetadataWarehouseID = "warehouse_id"

// RequestTransitionCommand represents a request to move an order to a new
// lifecycle status on behalf of an actor. The transition table and the
// OTP gates are enforced by the order aggregate; the handler adds the
// rider and warehouse counter effects of the edge.
type RequestTransitionCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	target   order.Status
	actor    order.Actor
	actorID  string
	metadata map[string]string

	guard guard.ConstructorGuard
}

// NewRequestTransitionCommand creates a transition request. Validates the
// order id, the target status, the actor class and that the actor is
// identified. Metadata is free-form and lands on the audit event.
func NewRequestTransitionCommand(
	orderID kernel.UUID,
	target order.Status,
	actor order.Actor,
	actorID string,
	metadata map[string]string,
) (RequestTransitionCommand, error) {
	cmd := RequestTransitionCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setTarget(target),
		cmd.setActor(actor),
		cmd.setActorID(actorID),
	); err != nil {
		return RequestTransitionCommand{}, err
	}

	cmd.metadata = make(map[string]string, len(metadata))
	for k, v := range metadata {
		cmd.metadata[k] = v
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RequestTransitionCommand) Validate() error {
	return c.guard.Validate(ErrRequestTransitionCommandIsNotConstructed)
}

// OrderID returns the order to transition.
func (c RequestTransitionCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Target returns the requested status.
func (c RequestTransitionCommand) Target() order.Status {
	return c.target
}

// Actor returns the requesting actor class.
func (c RequestTransitionCommand) Actor() order.Actor {
	return c.actor
}

// ActorID returns the requesting actor's identifier.
func (c RequestTransitionCommand) ActorID() string {
	return c.actorID
}

// Metadata returns the free-form audit metadata as a copy.
func (c RequestTransitionCommand) Metadata() map[string]string {
	out := make(map[string]string, len(c.metadata))
	for k, v := range c.metadata {
		out[k] = v
	}
	return out
}

func (c *RequestTransitionCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *RequestTransitionCommand) setTarget(target order.Status) error {
	if err := target.Validate(); err != nil {
		return err
	}

	c.target = target
	return nil
}

func (c *RequestTransitionCommand) setActor(actor order.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	c.actor = actor
	return nil
}

func (c *RequestTransitionCommand) setActorID(actorID string) error {
	if actorID == "" {
		return ErrActorIDIsRequired
	}

	c.actorID = actorID
	return nil
}
