// Package warehouserepo persists the warehouse aggregate.
package warehouserepo

import (
	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/warehouse"

	"github.com/google/uuid"
)

// WarehouseDTO is the database representation of a warehouse aggregate.
type WarehouseDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"type:varchar(255);not null"`
	LocationLat float64   `gorm:"type:double precision;not null"`
	LocationLng float64   `gorm:"type:double precision;not null"`
	Capacity    int       `gorm:"not null"`
	CurrentLoad int       `gorm:"not null"`
	Version     int       `gorm:"not null"`
}

// TableName overrides GORM's default naming to use "warehouses".
func (WarehouseDTO) TableName() string {
	return "warehouses"
}

// fromDomain converts a warehouse aggregate to its database
// representation.
func fromDomain(w *warehouse.Warehouse) WarehouseDTO {
	return WarehouseDTO{
		ID:          w.ID().Bytes(),
		Name:        w.Name(),
		LocationLat: w.Location().Lat(),
		LocationLng: w.Location().Lng(),
		Capacity:    w.Capacity(),
		CurrentLoad: w.CurrentLoad(),
		Version:     w.Version(),
	}
}

// toDomain converts a database row back to a warehouse aggregate.
func toDomain(dto WarehouseDTO) (*warehouse.Warehouse, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	location, err := kernel.NewGeoPoint(dto.LocationLat, dto.LocationLng)
	if err != nil {
		return nil, err
	}

	return warehouse.RestoreWarehouse(
		id, dto.Name, location, dto.Capacity, dto.CurrentLoad, dto.Version,
	), nil
}
