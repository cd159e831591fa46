package order

import (
	"fmt"

	"parcelhub/internal/pkg/errs"
)

// Actor classifies who is requesting a status transition. The state
// machine gates every edge on the actor class, so a customer can never
// force a warehouse scan and a rider can never confirm a payment.
type Actor int

const (
	// ActorUnknown represents an invalid or undefined actor.
	ActorUnknown Actor = iota

	// ActorCustomer is the person who booked the delivery.
	ActorCustomer

	// ActorRider is a pickup or delivery rider.
	ActorRider

	// ActorSystem is an automated channel: payment callbacks, the route
	// batcher, scheduled jobs.
	ActorSystem

	// ActorAdmin is an operations staff member.
	ActorAdmin
)

func getActorStrings() map[Actor]string {
	return map[Actor]string{
		ActorUnknown:  "UNKNOWN",
		ActorCustomer: "CUSTOMER",
		ActorRider:    "RIDER",
		ActorSystem:   "SYSTEM",
		ActorAdmin:    "ADMIN",
	}
}

// allowedActors maps each requestable target status to the actor classes
// permitted to drive an order into it. CANCELLED is handled separately
// (Status.canCancel) because its rule depends on the current status, and
// ROUTE_OPTIMIZED is deliberately absent: only the batcher sets it.
func allowedActors() map[Status][]Actor {
	return map[Status][]Actor{
		StatusPaymentConfirmed:      {ActorSystem, ActorAdmin},
		StatusPickupScheduled:       {ActorSystem, ActorAdmin},
		StatusPickupRiderAssigned:   {ActorSystem, ActorAdmin},
		StatusPickupEnRoute:         {ActorRider},
		StatusPickedUp:              {ActorRider},
		StatusInTransitToWarehouse:  {ActorRider},
		StatusAtWarehouse:           {ActorSystem, ActorAdmin},
		StatusDeliveryRiderAssigned: {ActorSystem, ActorAdmin},
		StatusOutForDelivery:        {ActorRider},
		StatusDelivered:             {ActorRider},
		StatusCompleted:             {ActorSystem, ActorAdmin},
		StatusRefunded:              {ActorSystem, ActorAdmin},
	}
}

// ActorFromString parses an actor class from its persisted form.
func ActorFromString(s string) (Actor, error) {
	for actor, str := range getActorStrings() {
		if str == s && actor != ActorUnknown {
			return actor, nil
		}
	}
	return ActorUnknown, errs.NewValueIsInvalidErrorWithCause(
		"actor is invalid", fmt.Errorf("%q is not a valid actor", s))
}

// Validate checks if the Actor value is valid.
func (a Actor) Validate() error {
	if a == ActorUnknown {
		return errs.NewValueIsInvalidErrorWithCause(
			"actor is invalid", fmt.Errorf("%d is not a valid actor", a))
	}
	if _, ok := getActorStrings()[a]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"actor is invalid", fmt.Errorf("%d is not a valid actor", a))
	}
	return nil
}

// String implements fmt.Stringer.
func (a Actor) String() string {
	if str, ok := getActorStrings()[a]; ok {
		return str
	}
	return "UNKNOWN"
}
