// Package riderrepo persists the rider aggregate. The load counter and
// the version stamp live on the same row, so concurrent slot mutations
// are serialized by the compare-and-swap update.
package riderrepo

import (
	"time"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/rider"

	"github.com/google/uuid"
)

// RiderDTO is the database representation of a rider aggregate.
type RiderDTO struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name            string     `gorm:"type:varchar(255);not null"`
	HomeWarehouseID uuid.UUID  `gorm:"type:uuid;not null;index"`
	VehicleClass    string     `gorm:"type:varchar(16);not null"`
	Status          string     `gorm:"type:varchar(16);not null;index"`
	CurrentLoad     int        `gorm:"not null"`
	MaxCapacity     int        `gorm:"not null"`
	LocationLat     *float64   `gorm:"type:double precision"`
	LocationLng     *float64   `gorm:"type:double precision"`
	LocationAt      *time.Time
	Version         int `gorm:"not null"`
}

// TableName overrides GORM's default naming to use "riders".
func (RiderDTO) TableName() string {
	return "riders"
}

// fromDomain converts a rider aggregate to its database representation.
func fromDomain(r *rider.Rider) RiderDTO {
	dto := RiderDTO{
		ID:              r.ID().Bytes(),
		Name:            r.Name(),
		HomeWarehouseID: r.HomeWarehouse().Bytes(),
		VehicleClass:    r.VehicleClass().String(),
		Status:          r.Status().String(),
		CurrentLoad:     r.CurrentLoad(),
		MaxCapacity:     r.MaxCapacity(),
		LocationAt:      r.LocationAt(),
		Version:         r.Version(),
	}

	if r.Location() != nil {
		lat := r.Location().Lat()
		lng := r.Location().Lng()
		dto.LocationLat = &lat
		dto.LocationLng = &lng
	}

	return dto
}

// toDomain converts a database row back to a rider aggregate.
func toDomain(dto RiderDTO) (*rider.Rider, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	homeWarehouseID, err := kernel.UUIDFromBytes(dto.HomeWarehouseID[:])
	if err != nil {
		return nil, err
	}

	vehicleClass, err := kernel.VehicleClassFromString(dto.VehicleClass)
	if err != nil {
		return nil, err
	}
	status, err := rider.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	var location *kernel.GeoPoint
	if dto.LocationLat != nil && dto.LocationLng != nil {
		point, pointErr := kernel.NewGeoPoint(*dto.LocationLat, *dto.LocationLng)
		if pointErr != nil {
			return nil, pointErr
		}
		location = &point
	}

	return rider.RestoreRider(
		id, dto.Name, homeWarehouseID, vehicleClass, status,
		dto.CurrentLoad, dto.MaxCapacity,
		location, dto.LocationAt, dto.Version,
	), nil
}
