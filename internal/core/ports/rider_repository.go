package ports

import (
	"context"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/rider"
)

// RiderRepository defines the persistence contract for rider aggregates.
type RiderRepository interface {
	// Add persists a new rider aggregate to storage.
	Add(ctx context.Context, aggregate *rider.Rider) error

	// Update persists changes to an existing rider aggregate using the
	// version stamp. Returns StaleStateError when the stored version no
	// longer matches, which is how concurrent capacity mutations lose.
	Update(ctx context.Context, aggregate *rider.Rider) error

	// Get retrieves a rider aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*rider.Rider, error)

	// GetAllAvailableAtWarehouse retrieves AVAILABLE riders homed at the
	// warehouse with positive remaining capacity.
	GetAllAvailableAtWarehouse(ctx context.Context, warehouseID kernel.UUID) ([]*rider.Rider, error)

	// GetAllAvailable retrieves every AVAILABLE rider. The surge
	// recompute scan reads last known locations from this.
	GetAllAvailable(ctx context.Context) ([]*rider.Rider, error)
}
