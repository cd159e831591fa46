package order

import (
	"fmt"

	"parcelhub/internal/pkg/errs"
)

// Status represents the lifecycle state of an order in the hub-and-spoke
// flow. It implements a state machine with an explicit successor table so
// reachability can be checked mechanically rather than through scattered
// conditionals.
//
// The main progression is a strict chain:
//
//	ORDER_PLACED -> PAYMENT_CONFIRMED -> PICKUP_SCHEDULED
//	  -> PICKUP_RIDER_ASSIGNED -> PICKUP_EN_ROUTE -> PICKED_UP
//	  -> IN_TRANSIT_TO_WAREHOUSE -> AT_WAREHOUSE -> ROUTE_OPTIMIZED
//	  -> DELIVERY_RIDER_ASSIGNED -> OUT_FOR_DELIVERY -> DELIVERED
//	  -> COMPLETED
//
// with two escape edges: every non-terminal state may move to CANCELLED,
// and CANCELLED or DELIVERED may move to REFUNDED. COMPLETED, CANCELLED
// and REFUNDED are terminal.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// StatusOrderPlaced is the initial status of every order.
	StatusOrderPlaced

	// StatusPaymentConfirmed means the payment callback succeeded.
	StatusPaymentConfirmed

	// StatusPickupScheduled means a pickup window has been set.
	StatusPickupScheduled

	// StatusPickupRiderAssigned means a rider accepted the pickup leg.
	StatusPickupRiderAssigned

	// StatusPickupEnRoute means the pickup rider is heading to the sender.
	StatusPickupEnRoute

	// StatusPickedUp means custody passed from sender to rider.
	// Entry requires a verified pickup OTP.
	StatusPickedUp

	// StatusInTransitToWarehouse means the parcel is moving to the hub.
	StatusInTransitToWarehouse

	// StatusAtWarehouse means the parcel was scanned into the hub and is
	// eligible for route batching.
	StatusAtWarehouse

	// StatusRouteOptimized means the batcher placed the parcel on a
	// planned route. This status is only ever set by the batcher, never
	// through a direct transition request.
	StatusRouteOptimized

	// StatusDeliveryRiderAssigned means a rider accepted the delivery leg.
	StatusDeliveryRiderAssigned

	// StatusOutForDelivery means the delivery rider left the hub.
	StatusOutForDelivery

	// StatusDelivered means custody passed from rider to recipient.
	// Entry requires a verified drop OTP.
	StatusDelivered

	// StatusCompleted is the terminal happy-path status.
	StatusCompleted

	// StatusCancelled is terminal. Customers may cancel before PICKED_UP;
	// system and admin actors may cancel any time before DELIVERED.
	StatusCancelled

	// StatusRefunded is terminal, reachable from CANCELLED or DELIVERED
	// once a refund is issued.
	StatusRefunded
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:               "UNKNOWN",
		StatusOrderPlaced:           "ORDER_PLACED",
		StatusPaymentConfirmed:      "PAYMENT_CONFIRMED",
		StatusPickupScheduled:       "PICKUP_SCHEDULED",
		StatusPickupRiderAssigned:   "PICKUP_RIDER_ASSIGNED",
		StatusPickupEnRoute:         "PICKUP_EN_ROUTE",
		StatusPickedUp:              "PICKED_UP",
		StatusInTransitToWarehouse:  "IN_TRANSIT_TO_WAREHOUSE",
		StatusAtWarehouse:           "AT_WAREHOUSE",
		StatusRouteOptimized:        "ROUTE_OPTIMIZED",
		StatusDeliveryRiderAssigned: "DELIVERY_RIDER_ASSIGNED",
		StatusOutForDelivery:        "OUT_FOR_DELIVERY",
		StatusDelivered:             "DELIVERED",
		StatusCompleted:             "COMPLETED",
		StatusCancelled:             "CANCELLED",
		StatusRefunded:              "REFUNDED",
	}
}

// AllStatuses returns every valid status, in lifecycle order. Useful for
// persistence enum checks and exhaustive tests.
func AllStatuses() []Status {
	return []Status{
		StatusOrderPlaced,
		StatusPaymentConfirmed,
		StatusPickupScheduled,
		StatusPickupRiderAssigned,
		StatusPickupEnRoute,
		StatusPickedUp,
		StatusInTransitToWarehouse,
		StatusAtWarehouse,
		StatusRouteOptimized,
		StatusDeliveryRiderAssigned,
		StatusOutForDelivery,
		StatusDelivered,
		StatusCompleted,
		StatusCancelled,
		StatusRefunded,
	}
}

// successors is the adjacency map of the state machine. A transition
// FROM -> TO is structurally legal iff TO appears in successors[FROM].
// Cancellation and refund edges are included here; actor eligibility is
// layered on top by CanTransition.
func successors() map[Status][]Status {
	return map[Status][]Status{
		StatusOrderPlaced:           {StatusPaymentConfirmed, StatusCancelled},
		StatusPaymentConfirmed:      {StatusPickupScheduled, StatusCancelled},
		StatusPickupScheduled:       {StatusPickupRiderAssigned, StatusCancelled},
		StatusPickupRiderAssigned:   {StatusPickupEnRoute, StatusCancelled},
		StatusPickupEnRoute:         {StatusPickedUp, StatusCancelled},
		StatusPickedUp:              {StatusInTransitToWarehouse, StatusCancelled},
		StatusInTransitToWarehouse:  {StatusAtWarehouse, StatusCancelled},
		StatusAtWarehouse:           {StatusRouteOptimized, StatusCancelled},
		StatusRouteOptimized:        {StatusDeliveryRiderAssigned, StatusCancelled},
		StatusDeliveryRiderAssigned: {StatusOutForDelivery, StatusCancelled},
		StatusOutForDelivery:        {StatusDelivered, StatusCancelled},
		StatusDelivered:             {StatusCompleted, StatusRefunded},
		StatusCompleted:             {},
		StatusCancelled:             {StatusRefunded},
		StatusRefunded:              {},
	}
}

// StatusFromString parses a status from its persisted representation.
func StatusFromString(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s && status != StatusUnknown {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause(
		"status is invalid", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is valid. StatusUnknown (0) and any
// out-of-range value are invalid.
func (s Status) Validate() error {
	if s == StatusUnknown {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the persisted SCREAMING_SNAKE representation.
// This method implements the fmt.Stringer interface and is safe to call
// on any Status value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether the status admits no further transitions.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusRefunded
}

// Successors returns the statuses directly reachable from s.
// The returned slice is a copy and safe to modify.
func (s Status) Successors() []Status {
	next := successors()[s]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// CanTransition reports whether the edge s -> target exists for the given
// actor. It checks structural legality first, then the actor gate:
//
//   - each non-cancel target has a fixed set of actor classes allowed to
//     drive the order into it (see allowedActors),
//   - CANCELLED is allowed to customers only before PICKED_UP, and to
//     system/admin actors any time before DELIVERED,
//   - ROUTE_OPTIMIZED is never grantable through this check; only the
//     route batcher sets it (Order.AssignToRoute).
//
// Returns nil when the transition is allowed, or an InvalidTransitionError
// naming the edge and actor otherwise.
func (s Status) CanTransition(target Status, actor Actor) error {
	if err := target.Validate(); err != nil {
		return err
	}

	legal := false
	for _, next := range successors()[s] {
		if next == target {
			legal = true
			break
		}
	}
	if !legal {
		return errs.NewInvalidTransitionError(s.String(), target.String(), actor.String())
	}

	if target == StatusCancelled {
		return s.canCancel(actor)
	}

	allowed, ok := allowedActors()[target]
	if !ok {
		// ROUTE_OPTIMIZED and any future batcher-only status.
		return errs.NewInvalidTransitionError(s.String(), target.String(), actor.String())
	}
	for _, a := range allowed {
		if a == actor {
			return nil
		}
	}
	return errs.NewInvalidTransitionError(s.String(), target.String(), actor.String())
}

// canCancel enforces the cancellation windows: customers before custody
// transfer, system/admin before delivery.
func (s Status) canCancel(actor Actor) error {
	switch actor {
	case ActorCustomer:
		if s.isBefore(StatusPickedUp) {
			return nil
		}
	case ActorSystem, ActorAdmin:
		if s.isBefore(StatusDelivered) {
			return nil
		}
	case ActorRider, ActorUnknown:
	}
	return errs.NewInvalidTransitionError(s.String(), StatusCancelled.String(), actor.String())
}

// isBefore reports whether s precedes other on the main progression
// chain. Terminal escape states never precede anything.
func (s Status) isBefore(other Status) bool {
	if s.IsTerminal() {
		return false
	}
	return s < other
}
