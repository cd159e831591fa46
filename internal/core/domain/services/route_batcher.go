package services

import (
	"sort"
	"time"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/route"
)

// BatchOrder is the batcher's view of one AT_WAREHOUSE order.
type BatchOrder struct {
	ID          kernel.UUID
	DropPoint   kernel.GeoPoint
	PackageSize kernel.PackageSize
	CreatedAt   time.Time
}

// BatchRider is the batcher's view of one available rider at the
// warehouse.
type BatchRider struct {
	ID                kernel.UUID
	VehicleClass      kernel.VehicleClass
	RemainingCapacity int
}

// PickupCandidate is a pending pickup request that may be folded into a
// route as a return-trip stop.
type PickupCandidate struct {
	OrderID     kernel.UUID
	PickupPoint kernel.GeoPoint
	PackageSize kernel.PackageSize
	CreatedAt   time.Time
}

// ProposedStop is one stop of a proposed route, in visit order.
type ProposedStop struct {
	OrderID kernel.UUID
	Point   kernel.GeoPoint
	Kind    route.StopKind
}

// ProposedRoute is the batcher's output for one rider: the ordered stop
// sequence and its round-trip geometry. Persistence happens afterwards;
// the batcher itself never touches a store.
type ProposedRoute struct {
	RiderID              kernel.UUID
	Stops                []ProposedStop
	TotalDistanceKM      float64
	EstimatedDurationMin int
}

// BatchResult is the full plan for one warehouse snapshot.
type BatchResult struct {
	Routes []ProposedRoute

	// Unassigned lists orders no route could take. They stay
	// AT_WAREHOUSE and are retried on the next invocation.
	Unassigned []kernel.UUID
}

// BatchConfig bounds the batcher.
type BatchConfig struct {
	// MaxParcelsPerRoute caps deliveries per route.
	MaxParcelsPerRoute int
	// MaxDetourKM caps the extra distance a return pickup may add.
	MaxDetourKM float64
	// MaxReturnPickups caps folded-in pickups per route.
	MaxReturnPickups int
	// ImprovementPasses bounds the local-improvement budget. When the
	// budget runs out the best-so-far construction is returned.
	ImprovementPasses int
}

// RouteBatcher groups warehouse-resident parcels into capacitated rider
// routes. It is a pure function over an immutable snapshot:
//
//  1. per rider, a greedy nearest-neighbor construction seeded at the
//     warehouse, bounded by the rider's remaining capacity and the
//     per-route maximum, restricted to parcels the vehicle can carry
//  2. a bounded pairwise stop-swap pass that only accepts swaps
//     strictly reducing round-trip distance
//  3. optionally, nearby pending pickups folded in after the delivery
//     stops, each within the detour cap and the pickup count cap,
//     never displacing a delivery and never exceeding capacity
//
// Determinism: ties break by order creation time then order id, and
// riders are processed in id order, so an identical snapshot always
// produces the identical plan.
type RouteBatcher struct {
	cfg BatchConfig
}

// NewRouteBatcher creates a batcher with the given bounds.
func NewRouteBatcher(cfg BatchConfig) RouteBatcher {
	if cfg.ImprovementPasses <= 0 {
		cfg.ImprovementPasses = 2
	}
	return RouteBatcher{cfg: cfg}
}

// MaxParcelsPerRoute returns the per-route parcel cap every plan honors.
func (b RouteBatcher) MaxParcelsPerRoute() int {
	return b.cfg.MaxParcelsPerRoute
}

// Plan produces the route plan for one warehouse snapshot.
func (b RouteBatcher) Plan(
	warehouse kernel.GeoPoint,
	orders []BatchOrder,
	riders []BatchRider,
	pickups []PickupCandidate,
) (BatchResult, error) {
	if err := warehouse.Validate(); err != nil {
		return BatchResult{}, err
	}

	remaining := sortedOrders(orders)
	sortedRiders := sortedRiders(riders)
	remainingPickups := sortedPickups(pickups)

	var routes []ProposedRoute
	for _, rider := range sortedRiders {
		capacity := rider.RemainingCapacity
		if capacity > b.cfg.MaxParcelsPerRoute {
			capacity = b.cfg.MaxParcelsPerRoute
		}
		if capacity <= 0 {
			continue
		}

		stops, rest, err := b.construct(warehouse, remaining, rider, capacity)
		if err != nil {
			return BatchResult{}, err
		}
		remaining = rest
		if len(stops) == 0 {
			continue
		}

		stops, err = b.improve(warehouse, stops)
		if err != nil {
			return BatchResult{}, err
		}

		spare := rider.RemainingCapacity - len(stops)
		stops, remainingPickups, err = b.foldPickups(
			warehouse, stops, remainingPickups, rider, spare)
		if err != nil {
			return BatchResult{}, err
		}

		distance, err := roundTripKM(warehouse, stops)
		if err != nil {
			return BatchResult{}, err
		}

		routes = append(routes, ProposedRoute{
			RiderID:              rider.ID,
			Stops:                stops,
			TotalDistanceKM:      distance,
			EstimatedDurationMin: kernel.EstimateDurationMin(distance),
		})
	}

	unassigned := make([]kernel.UUID, 0, len(remaining))
	for _, o := range remaining {
		unassigned = append(unassigned, o.ID)
	}

	return BatchResult{Routes: routes, Unassigned: unassigned}, nil
}

// construct runs the greedy nearest-neighbor pass for one rider and
// returns the stops plus the orders still unassigned.
func (b RouteBatcher) construct(
	warehouse kernel.GeoPoint,
	remaining []BatchOrder,
	rider BatchRider,
	capacity int,
) ([]ProposedStop, []BatchOrder, error) {
	var stops []ProposedStop
	current := warehouse
	pool := remaining

	for len(stops) < capacity {
		best := -1
		bestDist := 0.0
		for i, o := range pool {
			if !rider.VehicleClass.CanCarry(o.PackageSize) {
				continue
			}
			d, err := current.RoadDistanceKM(o.DropPoint)
			if err != nil {
				return nil, nil, err
			}
			// strictly-less keeps the earliest candidate on ties,
			// which is the creation-time order
			if best == -1 || d < bestDist {
				best = i
				bestDist = d
			}
		}
		if best == -1 {
			break
		}

		chosen := pool[best]
		stops = append(stops, ProposedStop{
			OrderID: chosen.ID,
			Point:   chosen.DropPoint,
			Kind:    route.StopDelivery,
		})
		current = chosen.DropPoint
		pool = append(append([]BatchOrder{}, pool[:best]...), pool[best+1:]...)
	}

	return stops, pool, nil
}

// improve runs bounded pairwise stop-swap passes, accepting only swaps
// that strictly reduce the round-trip distance.
func (b RouteBatcher) improve(
	warehouse kernel.GeoPoint,
	stops []ProposedStop,
) ([]ProposedStop, error) {
	if len(stops) < 2 {
		return stops, nil
	}

	current, err := roundTripKM(warehouse, stops)
	if err != nil {
		return nil, err
	}

	for pass := 0; pass < b.cfg.ImprovementPasses; pass++ {
		improved := false
		for i := 0; i < len(stops)-1; i++ {
			for j := i + 1; j < len(stops); j++ {
				stops[i], stops[j] = stops[j], stops[i]
				candidate, err := roundTripKM(warehouse, stops)
				if err != nil {
					return nil, err
				}
				if candidate < current {
					current = candidate
					improved = true
				} else {
					stops[i], stops[j] = stops[j], stops[i]
				}
			}
		}
		if !improved {
			break
		}
	}

	return stops, nil
}

// foldPickups appends return-trip pickups after the delivery stops. A
// candidate qualifies when the detour it adds to the return leg stays
// within the cap, the per-route pickup count cap is not hit, the rider
// has spare capacity and the vehicle can carry it.
func (b RouteBatcher) foldPickups(
	warehouse kernel.GeoPoint,
	stops []ProposedStop,
	pickups []PickupCandidate,
	rider BatchRider,
	spare int,
) ([]ProposedStop, []PickupCandidate, error) {
	if len(stops) == 0 || spare <= 0 || b.cfg.MaxReturnPickups <= 0 {
		return stops, pickups, nil
	}

	last := stops[len(stops)-1].Point
	taken := 0
	var leftover []PickupCandidate

	for _, p := range pickups {
		if taken >= b.cfg.MaxReturnPickups || taken >= spare ||
			!rider.VehicleClass.CanCarry(p.PackageSize) {
			leftover = append(leftover, p)
			continue
		}

		legIn, err := last.RoadDistanceKM(p.PickupPoint)
		if err != nil {
			return nil, nil, err
		}
		legOut, err := p.PickupPoint.RoadDistanceKM(warehouse)
		if err != nil {
			return nil, nil, err
		}
		direct, err := last.RoadDistanceKM(warehouse)
		if err != nil {
			return nil, nil, err
		}

		if legIn+legOut-direct > b.cfg.MaxDetourKM {
			leftover = append(leftover, p)
			continue
		}

		stops = append(stops, ProposedStop{
			OrderID: p.OrderID,
			Point:   p.PickupPoint,
			Kind:    route.StopReturnPickup,
		})
		last = p.PickupPoint
		taken++
	}

	return stops, leftover, nil
}

// roundTripKM is warehouse -> stops in order -> warehouse.
func roundTripKM(warehouse kernel.GeoPoint, stops []ProposedStop) (float64, error) {
	total := 0.0
	current := warehouse
	for _, s := range stops {
		d, err := current.RoadDistanceKM(s.Point)
		if err != nil {
			return 0, err
		}
		total += d
		current = s.Point
	}
	back, err := current.RoadDistanceKM(warehouse)
	if err != nil {
		return 0, err
	}
	return total + back, nil
}

func sortedOrders(orders []BatchOrder) []BatchOrder {
	out := make([]BatchOrder, len(orders))
	copy(out, orders)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

func sortedRiders(riders []BatchRider) []BatchRider {
	out := make([]BatchRider, len(riders))
	copy(out, riders)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

func sortedPickups(pickups []PickupCandidate) []PickupCandidate {
	out := make([]PickupCandidate, len(pickups))
	copy(out, pickups)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].OrderID.String() < out[j].OrderID.String()
	})
	return out
}
