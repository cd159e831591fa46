// Package routerepo persists the route aggregate with its ordered stop
// sequence. Stops are written once at route creation and never updated;
// only the route's execution status changes afterwards.
package routerepo

import (
	"fmt"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/route"
	"parcelhub/internal/pkg/errs"

	"github.com/google/uuid"
)

// RouteDTO is the database representation of a route aggregate.
type RouteDTO struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey"`
	RiderID              uuid.UUID `gorm:"type:uuid;not null;index"`
	WarehouseID          uuid.UUID `gorm:"type:uuid;not null;index"`
	Stops                []StopDTO `gorm:"foreignKey:RouteID;constraint:OnDelete:CASCADE"`
	TotalDistanceKM      float64   `gorm:"type:double precision;not null"`
	EstimatedDurationMin int       `gorm:"not null"`
	Status               string    `gorm:"type:varchar(16);not null;index"`
	Version              int       `gorm:"not null"`
}

// TableName overrides GORM's default naming to use "routes".
func (RouteDTO) TableName() string {
	return "routes"
}

// StopDTO is one row of a route's stop sequence. Seq is the stop's
// position; restoring orders by it.
type StopDTO struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	RouteID uuid.UUID `gorm:"type:uuid;not null;index"`
	Seq     int       `gorm:"not null"`
	OrderID uuid.UUID `gorm:"type:uuid;not null;index"`
	Lat     float64   `gorm:"type:double precision;not null"`
	Lng     float64   `gorm:"type:double precision;not null"`
	Kind    string    `gorm:"type:varchar(16);not null"`
}

// TableName overrides GORM's default naming to use "route_stops".
func (StopDTO) TableName() string {
	return "route_stops"
}

// fromDomain converts a route aggregate to its database representation.
// Stop rows get fresh identities; their domain identity is positional.
func fromDomain(r *route.Route) RouteDTO {
	routeID := r.ID().Bytes()
	stops := r.Stops()

	stopDTOs := make([]StopDTO, 0, len(stops))
	for i, stop := range stops {
		stopDTOs = append(stopDTOs, StopDTO{
			ID:      uuid.New(),
			RouteID: routeID,
			Seq:     i,
			OrderID: stop.OrderID().Bytes(),
			Lat:     stop.Point().Lat(),
			Lng:     stop.Point().Lng(),
			Kind:    stop.Kind().String(),
		})
	}

	return RouteDTO{
		ID:                   routeID,
		RiderID:              r.Rider().Bytes(),
		WarehouseID:          r.Warehouse().Bytes(),
		Stops:                stopDTOs,
		TotalDistanceKM:      r.TotalDistanceKM(),
		EstimatedDurationMin: r.EstimatedDurationMin(),
		Status:               r.Status().String(),
		Version:              r.Version(),
	}
}

// toDomain converts a database row back to a route aggregate. Stops must
// be preloaded in Seq order.
func toDomain(dto RouteDTO) (*route.Route, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	riderID, err := kernel.UUIDFromBytes(dto.RiderID[:])
	if err != nil {
		return nil, err
	}
	warehouseID, err := kernel.UUIDFromBytes(dto.WarehouseID[:])
	if err != nil {
		return nil, err
	}

	status, err := route.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	stops := make([]route.Stop, 0, len(dto.Stops))
	for _, stopDTO := range dto.Stops {
		stop, stopErr := stopToDomain(stopDTO)
		if stopErr != nil {
			return nil, stopErr
		}
		stops = append(stops, stop)
	}

	return route.RestoreRoute(
		id, riderID, warehouseID, stops,
		dto.TotalDistanceKM, dto.EstimatedDurationMin,
		status, dto.Version,
	), nil
}

func stopToDomain(dto StopDTO) (route.Stop, error) {
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return route.Stop{}, err
	}

	point, err := kernel.NewGeoPoint(dto.Lat, dto.Lng)
	if err != nil {
		return route.Stop{}, err
	}

	var kind route.StopKind
	switch dto.Kind {
	case route.StopDelivery.String():
		kind = route.StopDelivery
	case route.StopReturnPickup.String():
		kind = route.StopReturnPickup
	default:
		return route.Stop{}, errs.NewValueIsInvalidErrorWithCause(
			"stop kind is invalid", fmt.Errorf("%q is not a valid stop kind", dto.Kind))
	}

	return route.NewStop(orderID, point, kind)
}
