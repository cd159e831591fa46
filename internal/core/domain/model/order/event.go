package order

import (
	"time"

	"parcelhub/internal/core/domain/model/kernel"
)

// Event is one append-only audit record of a status change. Events are
// never mutated or deleted; the full sequence for an order reconstructs
// its history.
//
// FromStatus is nil only for the creation event, which records the order
// entering ORDER_PLACED.
type Event struct {
	id         kernel.UUID
	orderID    kernel.UUID
	fromStatus *Status
	toStatus   Status
	actor      Actor
	actorID    string
	metadata   map[string]string
	occurredAt time.Time
}

// newEvent is called by the Order aggregate on every accepted transition.
// Events acquire identity here so the audit row can be persisted
// standalone.
func newEvent(
	orderID kernel.UUID,
	fromStatus *Status,
	toStatus Status,
	actor Actor,
	actorID string,
	metadata map[string]string,
	occurredAt time.Time,
) Event {
	return Event{
		id:         kernel.NewUUID(),
		orderID:    orderID,
		fromStatus: fromStatus,
		toStatus:   toStatus,
		actor:      actor,
		actorID:    actorID,
		metadata:   metadata,
		occurredAt: occurredAt,
	}
}

// RestoreEvent rehydrates an audit record from persistence.
func RestoreEvent(
	id kernel.UUID,
	orderID kernel.UUID,
	fromStatus *Status,
	toStatus Status,
	actor Actor,
	actorID string,
	metadata map[string]string,
	occurredAt time.Time,
) Event {
	return Event{
		id:         id,
		orderID:    orderID,
		fromStatus: fromStatus,
		toStatus:   toStatus,
		actor:      actor,
		actorID:    actorID,
		metadata:   metadata,
		occurredAt: occurredAt,
	}
}

// ID returns the event's unique identifier.
func (e Event) ID() kernel.UUID { return e.id }

// OrderID returns the order this event belongs to.
func (e Event) OrderID() kernel.UUID { return e.orderID }

// FromStatus returns the prior status, or nil for the creation event.
func (e Event) FromStatus() *Status { return e.fromStatus }

// ToStatus returns the status the order moved into.
func (e Event) ToStatus() Status { return e.toStatus }

// Actor returns the actor class that requested the transition.
func (e Event) Actor() Actor { return e.actor }

// ActorID returns the free-form identifier of the concrete actor.
func (e Event) ActorID() string { return e.actorID }

// Metadata returns the free-form context attached to the transition.
func (e Event) Metadata() map[string]string { return e.metadata }

// OccurredAt returns when the transition was applied.
func (e Event) OccurredAt() time.Time { return e.occurredAt }
