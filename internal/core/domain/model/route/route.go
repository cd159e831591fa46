// Package route contains the Route aggregate: an ordered stop sequence
// assigned to one rider for one trip out of a warehouse. Routes are
// created only by the route batcher and become immutable once completed.
package route

import (
	"errors"
	"fmt"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/pkg/errs"
)

// ErrRouteIsNotConstructed is returned when a Route instance was not
// created through NewRoute or RestoreRoute.
var ErrRouteIsNotConstructed = errors.New("Route must be created via NewRoute constructor")

// Status is the route's execution state.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown Status = iota

	// StatusPlanned means the batcher emitted the route and the rider
	// has not started it.
	StatusPlanned

	// StatusInProgress means the rider is driving the route.
	StatusInProgress

	// StatusCompleted is terminal; the route is immutable from here.
	StatusCompleted

	// StatusCancelled is terminal.
	StatusCancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:    "UNKNOWN",
		StatusPlanned:    "PLANNED",
		StatusInProgress: "IN_PROGRESS",
		StatusCompleted:  "COMPLETED",
		StatusCancelled:  "CANCELLED",
	}
}

// StatusFromString parses a route status from its persisted form.
func StatusFromString(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s && status != StatusUnknown {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause(
		"route status is invalid", fmt.Errorf("%q is not a valid route status", s))
}

// Validate checks if the Status value is valid.
func (s Status) Validate() error {
	if s == StatusUnknown {
		return errs.NewValueIsInvalidErrorWithCause(
			"route status is invalid", fmt.Errorf("%d is not a valid route status", s))
	}
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"route status is invalid", fmt.Errorf("%d is not a valid route status", s))
	}
	return nil
}

// String implements fmt.Stringer.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// StopKind distinguishes delivery stops from opportunistic return-trip
// pickups folded into the route.
type StopKind int

const (
	StopKindUnknown StopKind = iota
	// StopDelivery drops a warehouse parcel at its recipient.
	StopDelivery
	// StopReturnPickup collects a pending pickup close to the route on
	// the way back.
	StopReturnPickup
)

// String implements fmt.Stringer.
func (k StopKind) String() string {
	switch k {
	case StopDelivery:
		return "DELIVERY"
	case StopReturnPickup:
		return "RETURN_PICKUP"
	default:
		return "UNKNOWN"
	}
}

// Stop is one entry in the ordered stop sequence. Stops are value
// objects; the sequence index is their position in the route's slice.
type Stop struct {
	orderID kernel.UUID
	point   kernel.GeoPoint
	kind    StopKind
}

// NewStop creates a validated stop.
func NewStop(orderID kernel.UUID, point kernel.GeoPoint, kind StopKind) (Stop, error) {
	if err := errors.Join(orderID.Validate(), point.Validate()); err != nil {
		return Stop{}, err
	}
	if kind != StopDelivery && kind != StopReturnPickup {
		return Stop{}, errs.NewValueIsInvalidErrorWithCause(
			"stop kind is invalid", fmt.Errorf("%d is not a valid stop kind", kind))
	}
	return Stop{orderID: orderID, point: point, kind: kind}, nil
}

// OrderID returns the order served at this stop.
func (s Stop) OrderID() kernel.UUID { return s.orderID }

// Point returns the stop's coordinate.
func (s Stop) Point() kernel.GeoPoint { return s.point }

// Kind returns whether the stop is a delivery or a return pickup.
func (s Stop) Kind() StopKind { return s.kind }

// Route is the aggregate for one planned trip. The stop sequence is
// fixed at creation by the batcher; only the execution status changes
// afterwards.
type Route struct {
	id                   kernel.UUID
	riderID              kernel.UUID
	warehouseID          kernel.UUID
	stops                []Stop
	totalDistanceKM      float64
	estimatedDurationMin int
	status               Status
	version              int
	isConstructed        bool
}

// NewRoute creates a PLANNED route with its full stop sequence. At least
// one stop is required, the distance must be non-negative, and the
// delivery stops may not exceed maxParcels; the first parcel beyond the
// cap is reported as unplaceable.
func NewRoute(
	id kernel.UUID,
	riderID kernel.UUID,
	warehouseID kernel.UUID,
	stops []Stop,
	totalDistanceKM float64,
	estimatedDurationMin int,
	maxParcels int,
) (*Route, error) {
	if err := errors.Join(
		id.Validate(), riderID.Validate(), warehouseID.Validate(),
	); err != nil {
		return nil, err
	}
	if len(stops) == 0 {
		return nil, errs.NewValueIsRequiredError("route stops")
	}
	if maxParcels <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"route parcel cap is invalid",
			fmt.Errorf("%d is not greater than 0", maxParcels))
	}
	if totalDistanceKM < 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"route distance is invalid",
			fmt.Errorf("%f is negative", totalDistanceKM))
	}

	deliveries := 0
	for _, s := range stops {
		if s.kind != StopDelivery {
			continue
		}
		deliveries++
		if deliveries > maxParcels {
			return nil, errs.NewNoRouteCapacityError(s.orderID.String())
		}
	}

	copied := make([]Stop, len(stops))
	copy(copied, stops)

	return &Route{
		id:                   id,
		riderID:              riderID,
		warehouseID:          warehouseID,
		stops:                copied,
		totalDistanceKM:      totalDistanceKM,
		estimatedDurationMin: estimatedDurationMin,
		status:               StatusPlanned,
		version:              1,
		isConstructed:        true,
	}, nil
}

// RestoreRoute rehydrates a route from persistence.
func RestoreRoute(
	id kernel.UUID,
	riderID kernel.UUID,
	warehouseID kernel.UUID,
	stops []Stop,
	totalDistanceKM float64,
	estimatedDurationMin int,
	status Status,
	version int,
) *Route {
	return &Route{
		id:                   id,
		riderID:              riderID,
		warehouseID:          warehouseID,
		stops:                stops,
		totalDistanceKM:      totalDistanceKM,
		estimatedDurationMin: estimatedDurationMin,
		status:               status,
		version:              version,
		isConstructed:        true,
	}
}

// Validate ensures the Route instance was properly constructed.
func (r *Route) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRouteIsNotConstructed
	}
	return nil
}

// IsEqual compares two routes by their unique identifiers.
func (r *Route) IsEqual(other *Route) bool {
	return other != nil && r.id.IsEqual(other.id)
}

// ID returns the route's unique identifier.
func (r *Route) ID() kernel.UUID { return r.id }

// Rider returns the assigned rider.
func (r *Route) Rider() kernel.UUID { return r.riderID }

// Warehouse returns the origin hub.
func (r *Route) Warehouse() kernel.UUID { return r.warehouseID }

// Stops returns the ordered stop sequence as a copy.
func (r *Route) Stops() []Stop {
	out := make([]Stop, len(r.stops))
	copy(out, r.stops)
	return out
}

// TotalDistanceKM returns the planned distance.
func (r *Route) TotalDistanceKM() float64 { return r.totalDistanceKM }

// EstimatedDurationMin returns the planned duration.
func (r *Route) EstimatedDurationMin() int { return r.estimatedDurationMin }

// Status returns the route's execution state.
func (r *Route) Status() Status { return r.status }

// Version returns the optimistic-concurrency stamp.
func (r *Route) Version() int { return r.version }

// ParcelCount returns the number of delivery stops.
func (r *Route) ParcelCount() int {
	count := 0
	for _, stop := range r.stops {
		if stop.kind == StopDelivery {
			count++
		}
	}
	return count
}

// Start moves a PLANNED route to IN_PROGRESS.
func (r *Route) Start() error {
	if r.status != StatusPlanned {
		return errs.NewValueIsInvalidErrorWithCause(
			"route status is invalid",
			fmt.Errorf("%s route cannot be started", r.status))
	}
	r.status = StatusInProgress
	return nil
}

// Complete moves an IN_PROGRESS route to COMPLETED, after which the
// route is immutable.
func (r *Route) Complete() error {
	if r.status != StatusInProgress {
		return errs.NewValueIsInvalidErrorWithCause(
			"route status is invalid",
			fmt.Errorf("%s route cannot be completed", r.status))
	}
	r.status = StatusCompleted
	return nil
}

// Cancel aborts a route that has not completed.
func (r *Route) Cancel() error {
	if r.status == StatusCompleted || r.status == StatusCancelled {
		return errs.NewValueIsInvalidErrorWithCause(
			"route status is invalid",
			fmt.Errorf("%s route cannot be cancelled", r.status))
	}
	r.status = StatusCancelled
	return nil
}
