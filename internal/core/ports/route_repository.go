package ports

import (
	"context"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/route"
)

// RouteRepository defines the persistence contract for route aggregates.
type RouteRepository interface {
	// Add persists a new route aggregate with its stop sequence.
	Add(ctx context.Context, aggregate *route.Route) error

	// Update persists the route's execution status using the version
	// stamp. Returns StaleStateError on a version miss. Stops are fixed
	// at creation and never rewritten.
	Update(ctx context.Context, aggregate *route.Route) error

	// Get retrieves a route aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*route.Route, error)
}
