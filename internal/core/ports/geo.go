package ports

import (
	"context"

	"parcelhub/internal/core/domain/model/kernel"
)

// ResolvedAddress is a geocoder result: the coordinate plus the
// provider's canonical formatting of the address.
type ResolvedAddress struct {
	Point     kernel.GeoPoint
	Formatted string
}

// Geocoder resolves free-form addresses to coordinates. The production
// implementation wraps an external provider behind the address cache;
// on cache hit the provider is never called.
type Geocoder interface {
	// Resolve returns the coordinate for an address.
	Resolve(ctx context.Context, address string) (ResolvedAddress, error)
}

// TravelEstimate is a road distance and duration between two points.
type TravelEstimate struct {
	DistanceKM  float64
	DurationMin int
}

// DistanceSource estimates road travel between two coordinates. The
// production implementation caches pairs under a short TTL and falls
// back to the haversine road estimate when the external source fails;
// fallback results are not written to the cache.
type DistanceSource interface {
	// Estimate returns distance and duration from origin to
	// destination.
	Estimate(ctx context.Context, origin kernel.GeoPoint, destination kernel.GeoPoint) (TravelEstimate, error)
}
