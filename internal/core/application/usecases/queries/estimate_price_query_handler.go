package queries

import (
	"context"
	"fmt"
	"time"

	"parcelhub/internal/core/domain/services"
	"parcelhub/internal/core/ports"
)

// EstimatePriceQueryHandler quotes a delivery price without touching the
// database. It is the only query handler that does provider I/O instead
// of SQL: geocoding and distance estimation run through the same cached
// ports as order creation.
type EstimatePriceQueryHandler struct {
	geocoder  ports.Geocoder
	distances ports.DistanceSource
	pricing   services.PricingEngine
	surge     *services.SurgeZoneTracker
}

// NewEstimatePriceQueryHandler creates a handler for price estimates.
func NewEstimatePriceQueryHandler(
	geocoder ports.Geocoder,
	distances ports.DistanceSource,
	pricing services.PricingEngine,
	surge *services.SurgeZoneTracker,
) EstimatePriceQueryHandler {
	return EstimatePriceQueryHandler{
		geocoder:  geocoder,
		distances: distances,
		pricing:   pricing,
		surge:     surge,
	}
}

// Handle resolves both addresses, estimates travel and runs the pricing
// engine with no subscription attached.
func (h EstimatePriceQueryHandler) Handle(
	ctx context.Context,
	query EstimatePriceQuery,
) (EstimatePriceQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return EstimatePriceQueryResponse{}, err
	}

	pickup, err := h.geocoder.Resolve(ctx, query.PickupAddress())
	if err != nil {
		return EstimatePriceQueryResponse{}, fmt.Errorf("resolving pickup address: %w", err)
	}
	drop, err := h.geocoder.Resolve(ctx, query.DropAddress())
	if err != nil {
		return EstimatePriceQueryResponse{}, fmt.Errorf("resolving drop address: %w", err)
	}
	travel, err := h.distances.Estimate(ctx, pickup.Point, drop.Point)
	if err != nil {
		return EstimatePriceQueryResponse{}, fmt.Errorf("estimating travel: %w", err)
	}

	quote, err := h.pricing.Quote(services.QuoteRequest{
		DistanceKM:      travel.DistanceKM,
		PackageSize:     query.PackageSize(),
		Timing:          query.Timing(),
		Addons:          query.Addons(),
		SurgeMultiplier: h.surge.MultiplierFor(pickup.Point),
		BatchEligible:   true,
		Subscription:    nil,
		Now:             time.Now(),
	})
	if err != nil {
		return EstimatePriceQueryResponse{}, err
	}

	price := quote.Price
	return EstimatePriceQueryResponse{
		DistanceKM:           travel.DistanceKM,
		EstimatedDurationMin: travel.DurationMin,
		BaseCost:             price.BaseCost(),
		SurgeMultiplier:      price.SurgeMultiplier(),
		AddonsCost:           price.AddonsCost(),
		BatchDiscount:        price.BatchDiscount(),
		SubscriptionDiscount: price.SubscriptionDiscount(),
		TotalCost:            price.TotalCost(),
	}, nil
}
