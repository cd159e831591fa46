package rider

import (
	"errors"
	"fmt"
	"time"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/pkg/errs"
)

// ErrRiderIsNotConstructed is returned when a Rider instance was not
// created through NewRider or RestoreRider.
var ErrRiderIsNotConstructed = errors.New("Rider must be created via NewRider constructor")

// Rider is the aggregate for one courier. It owns the load counter and
// enforces the capacity invariant: currentLoad never exceeds maxCapacity.
// The counter is mutated only inside the same transaction as the order
// transition that causes it, so two concurrent assignments cannot both
// push a rider over the limit.
type Rider struct {
	id              kernel.UUID
	name            string
	homeWarehouseID kernel.UUID
	vehicleClass    kernel.VehicleClass
	status          Status
	currentLoad     int
	maxCapacity     int
	location        *kernel.GeoPoint
	locationAt      *time.Time
	version         int
	isConstructed   bool
}

// NewRider creates a rider in OFFLINE status with zero load.
//
// Parameters:
//   - id: unique identifier
//   - name: display name, non-empty
//   - homeWarehouseID: the hub the rider operates from
//   - vehicleClass: bounds package-size eligibility
//   - maxCapacity: per-trip parcel limit, positive
func NewRider(
	id kernel.UUID,
	name string,
	homeWarehouseID kernel.UUID,
	vehicleClass kernel.VehicleClass,
	maxCapacity int,
) (*Rider, error) {
	r := &Rider{
		status:        StatusOffline,
		version:       1,
		isConstructed: true,
	}

	if err := errors.Join(
		r.setID(id),
		r.setName(name),
		r.setHomeWarehouse(homeWarehouseID),
		r.setVehicleClass(vehicleClass),
		r.setMaxCapacity(maxCapacity),
	); err != nil {
		return nil, err
	}

	return r, nil
}

// RestoreRider rehydrates a rider from persistence.
func RestoreRider(
	id kernel.UUID,
	name string,
	homeWarehouseID kernel.UUID,
	vehicleClass kernel.VehicleClass,
	status Status,
	currentLoad int,
	maxCapacity int,
	location *kernel.GeoPoint,
	locationAt *time.Time,
	version int,
) *Rider {
	return &Rider{
		id:              id,
		name:            name,
		homeWarehouseID: homeWarehouseID,
		vehicleClass:    vehicleClass,
		status:          status,
		currentLoad:     currentLoad,
		maxCapacity:     maxCapacity,
		location:        location,
		locationAt:      locationAt,
		version:         version,
		isConstructed:   true,
	}
}

// Validate ensures the Rider instance was properly constructed.
func (r *Rider) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRiderIsNotConstructed
	}
	return nil
}

// IsEqual compares two riders by their unique identifiers.
func (r *Rider) IsEqual(other *Rider) bool {
	return other != nil && r.id.IsEqual(other.id)
}

// ID returns the rider's unique identifier.
func (r *Rider) ID() kernel.UUID { return r.id }

// Name returns the rider's display name.
func (r *Rider) Name() string { return r.name }

// HomeWarehouse returns the hub the rider operates from.
func (r *Rider) HomeWarehouse() kernel.UUID { return r.homeWarehouseID }

// VehicleClass returns the rider's vehicle class.
func (r *Rider) VehicleClass() kernel.VehicleClass { return r.vehicleClass }

// Status returns the rider's operational status.
func (r *Rider) Status() Status { return r.status }

// CurrentLoad returns the count of parcels presently assigned.
func (r *Rider) CurrentLoad() int { return r.currentLoad }

// MaxCapacity returns the per-trip parcel limit.
func (r *Rider) MaxCapacity() int { return r.maxCapacity }

// RemainingCapacity returns how many more parcels the rider can take.
func (r *Rider) RemainingCapacity() int { return r.maxCapacity - r.currentLoad }

// Location returns the last known position, nil if never reported.
func (r *Rider) Location() *kernel.GeoPoint { return r.location }

// LocationAt returns when the position was reported, nil if never.
func (r *Rider) LocationAt() *time.Time { return r.locationAt }

// Version returns the optimistic-concurrency stamp.
func (r *Rider) Version() int { return r.version }

// IsAvailable reports whether the rider can accept new work: AVAILABLE
// status and positive remaining capacity.
func (r *Rider) IsAvailable() bool {
	return r.status == StatusAvailable && r.RemainingCapacity() > 0
}

// CanCarry reports whether the rider's vehicle handles the size class.
func (r *Rider) CanCarry(size kernel.PackageSize) bool {
	return r.vehicleClass.CanCarry(size)
}

// SetStatus changes the rider's operational status. A rider carrying
// parcels cannot go OFFLINE.
func (r *Rider) SetStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if status == StatusOffline && r.currentLoad > 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"rider status is invalid",
			fmt.Errorf("cannot go offline with %d parcels assigned", r.currentLoad))
	}

	r.status = status
	return nil
}

// UpdateLocation records the rider's reported position.
func (r *Rider) UpdateLocation(point kernel.GeoPoint, now time.Time) error {
	if err := point.Validate(); err != nil {
		return err
	}

	r.location = &point
	r.locationAt = &now
	return nil
}

// AssignParcel increments the load counter, failing with
// CapacityExceededError at the limit. Call inside the same unit of work
// as the order transition.
func (r *Rider) AssignParcel() error {
	if r.currentLoad >= r.maxCapacity {
		return errs.NewCapacityExceededError("rider", r.id.String(), r.maxCapacity)
	}

	r.currentLoad++
	return nil
}

// ReleaseParcel decrements the load counter when a parcel leaves the
// rider's custody. Never goes below zero.
func (r *Rider) ReleaseParcel() {
	if r.currentLoad > 0 {
		r.currentLoad--
	}
}

func (r *Rider) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

func (r *Rider) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("rider name")
	}
	r.name = name
	return nil
}

func (r *Rider) setHomeWarehouse(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.homeWarehouseID = id
	return nil
}

func (r *Rider) setVehicleClass(class kernel.VehicleClass) error {
	if err := class.Validate(); err != nil {
		return err
	}
	r.vehicleClass = class
	return nil
}

func (r *Rider) setMaxCapacity(capacity int) error {
	if capacity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"max capacity is invalid", fmt.Errorf("%d is not greater than 0", capacity))
	}
	r.maxCapacity = capacity
	return nil
}
