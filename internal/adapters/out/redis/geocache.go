// Package redis provides the Redis-backed adapters: the geo cache in
// front of the external geocoding and routing providers, and the OTP
// record store.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/ports"

	goredis "github.com/redis/go-redis/v9"
)

// Cache TTLs. Addresses move rarely; road distances shift with traffic
// infrastructure, so pairs are kept short.
const (
	AddressTTL  = 30 * 24 * time.Hour
	DistanceTTL = 2 * time.Hour
)

// GeoCache wraps the external geocoder and distance source behind Redis.
// A cache hit never calls the provider. When the distance provider fails,
// the haversine road estimate answers instead, and that fallback is not
// written to the cache so a provider recovery is picked up immediately.
type GeoCache struct {
	client      *goredis.Client
	geocoder    ports.Geocoder
	distances   ports.DistanceSource
	addressTTL  time.Duration
	distanceTTL time.Duration
}

// NewGeoCache creates a cache over the given providers with the default
// TTLs.
func NewGeoCache(
	client *goredis.Client,
	geocoder ports.Geocoder,
	distances ports.DistanceSource,
) *GeoCache {
	return &GeoCache{
		client:      client,
		geocoder:    geocoder,
		distances:   distances,
		addressTTL:  AddressTTL,
		distanceTTL: DistanceTTL,
	}
}

// addressEntry is the cached form of a geocoder result.
type addressEntry struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Formatted string  `json:"formatted"`
}

// distanceEntry is the cached form of a travel estimate.
type distanceEntry struct {
	DistanceKM  float64 `json:"distance_km"`
	DurationMin int     `json:"duration_min"`
}

// Resolve returns the coordinate for an address, from cache when
// possible. Cache transport failures degrade to a provider call rather
// than failing the lookup.
func (c *GeoCache) Resolve(ctx context.Context, address string) (ports.ResolvedAddress, error) {
	key := "geo:" + kernel.AddressHash(address)

	raw, err := c.client.Get(ctx, key).Result()
	if err == nil {
		var entry addressEntry
		if unmarshalErr := json.Unmarshal([]byte(raw), &entry); unmarshalErr == nil {
			point, pointErr := kernel.NewGeoPoint(entry.Lat, entry.Lng)
			if pointErr == nil {
				return ports.ResolvedAddress{Point: point, Formatted: entry.Formatted}, nil
			}
		}
		// A corrupt entry falls through to the provider and gets
		// overwritten below.
	}

	resolved, err := c.geocoder.Resolve(ctx, address)
	if err != nil {
		return ports.ResolvedAddress{}, err
	}

	entry := addressEntry{
		Lat:       resolved.Point.Lat(),
		Lng:       resolved.Point.Lng(),
		Formatted: resolved.Formatted,
	}
	if payload, marshalErr := json.Marshal(entry); marshalErr == nil {
		// A cache write failure must not fail the lookup.
		c.client.Set(ctx, key, payload, c.addressTTL)
	}

	return resolved, nil
}

// Estimate returns road distance and duration between two points, from
// cache when possible. On provider failure the haversine road estimate
// answers, uncached.
func (c *GeoCache) Estimate(
	ctx context.Context,
	origin kernel.GeoPoint,
	destination kernel.GeoPoint,
) (ports.TravelEstimate, error) {
	key := fmt.Sprintf("dist:%s:%s", origin.Hash(), destination.Hash())

	raw, err := c.client.Get(ctx, key).Result()
	if err == nil {
		var entry distanceEntry
		if unmarshalErr := json.Unmarshal([]byte(raw), &entry); unmarshalErr == nil {
			return ports.TravelEstimate{
				DistanceKM:  entry.DistanceKM,
				DurationMin: entry.DurationMin,
			}, nil
		}
	}

	estimate, err := c.distances.Estimate(ctx, origin, destination)
	if err != nil {
		return c.fallbackEstimate(origin, destination)
	}

	entry := distanceEntry{
		DistanceKM:  estimate.DistanceKM,
		DurationMin: estimate.DurationMin,
	}
	if payload, marshalErr := json.Marshal(entry); marshalErr == nil {
		c.client.Set(ctx, key, payload, c.distanceTTL)
	}

	return estimate, nil
}

// fallbackEstimate answers with the haversine road approximation when the
// external source is unavailable.
func (c *GeoCache) fallbackEstimate(
	origin kernel.GeoPoint,
	destination kernel.GeoPoint,
) (ports.TravelEstimate, error) {
	distanceKM, err := origin.RoadDistanceKM(destination)
	if err != nil {
		return ports.TravelEstimate{}, err
	}

	return ports.TravelEstimate{
		DistanceKM:  distanceKM,
		DurationMin: kernel.EstimateDurationMin(distanceKM),
	}, nil
}
