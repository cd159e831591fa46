// Package warehouse contains the Warehouse aggregate: the hub location
// and its capacity-bounded parcel counter.
package warehouse

import (
	"errors"
	"fmt"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/pkg/errs"
)

// ErrWarehouseIsNotConstructed is returned when a Warehouse instance was
// not created through NewWarehouse or RestoreWarehouse.
var ErrWarehouseIsNotConstructed = errors.New("Warehouse must be created via NewWarehouse constructor")

// Warehouse is one hub in the network. It enforces the intake invariant:
// currentLoad never exceeds capacity. Intake above capacity is rejected
// and the parcel stays in transit until space frees up.
type Warehouse struct {
	id            kernel.UUID
	name          string
	location      kernel.GeoPoint
	capacity      int
	currentLoad   int
	version       int
	isConstructed bool
}

// NewWarehouse creates an empty warehouse.
func NewWarehouse(
	id kernel.UUID,
	name string,
	location kernel.GeoPoint,
	capacity int,
) (*Warehouse, error) {
	w := &Warehouse{
		version:       1,
		isConstructed: true,
	}

	if err := errors.Join(
		w.setID(id),
		w.setName(name),
		w.setLocation(location),
		w.setCapacity(capacity),
	); err != nil {
		return nil, err
	}

	return w, nil
}

// RestoreWarehouse rehydrates a warehouse from persistence.
func RestoreWarehouse(
	id kernel.UUID,
	name string,
	location kernel.GeoPoint,
	capacity int,
	currentLoad int,
	version int,
) *Warehouse {
	return &Warehouse{
		id:            id,
		name:          name,
		location:      location,
		capacity:      capacity,
		currentLoad:   currentLoad,
		version:       version,
		isConstructed: true,
	}
}

// Validate ensures the Warehouse instance was properly constructed.
func (w *Warehouse) Validate() error {
	if w == nil || !w.isConstructed {
		return ErrWarehouseIsNotConstructed
	}
	return nil
}

// IsEqual compares two warehouses by their unique identifiers.
func (w *Warehouse) IsEqual(other *Warehouse) bool {
	return other != nil && w.id.IsEqual(other.id)
}

// ID returns the warehouse's unique identifier.
func (w *Warehouse) ID() kernel.UUID { return w.id }

// Name returns the warehouse's display name.
func (w *Warehouse) Name() string { return w.name }

// Location returns the hub's coordinate.
func (w *Warehouse) Location() kernel.GeoPoint { return w.location }

// Capacity returns the parcel capacity.
func (w *Warehouse) Capacity() int { return w.capacity }

// CurrentLoad returns the count of parcels physically present.
func (w *Warehouse) CurrentLoad() int { return w.currentLoad }

// Version returns the optimistic-concurrency stamp.
func (w *Warehouse) Version() int { return w.version }

// Intake increments the load counter on a warehouse scan, failing with
// CapacityExceededError at the limit. Call inside the same unit of work
// as the AT_WAREHOUSE transition.
func (w *Warehouse) Intake() error {
	if w.currentLoad >= w.capacity {
		return errs.NewCapacityExceededError("warehouse", w.id.String(), w.capacity)
	}

	w.currentLoad++
	return nil
}

// Release decrements the load counter when a parcel leaves on a route.
// Never goes below zero.
func (w *Warehouse) Release() {
	if w.currentLoad > 0 {
		w.currentLoad--
	}
}

func (w *Warehouse) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	w.id = id
	return nil
}

func (w *Warehouse) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("warehouse name")
	}
	w.name = name
	return nil
}

func (w *Warehouse) setLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}
	w.location = location
	return nil
}

func (w *Warehouse) setCapacity(capacity int) error {
	if capacity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"capacity is invalid", fmt.Errorf("%d is not greater than 0", capacity))
	}
	w.capacity = capacity
	return nil
}
