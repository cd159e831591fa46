package services

import (
	"errors"
	"sync"
	"time"

	"parcelhub/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// surge multiplier bands over the demand/supply ratio. The function is
// monotonic non-decreasing and capped.
var (
	surgeNone = decimal.NewFromInt(1)
	surgeLow  = decimal.RequireFromString("1.2")
	surgeMid  = decimal.RequireFromString("1.4")
	surgeCap  = decimal.RequireFromString("1.6")
)

// SurgeZone is one demand zone: a circle around a center point.
type SurgeZone struct {
	id       kernel.UUID
	name     string
	center   kernel.GeoPoint
	radiusKM float64
}

// NewSurgeZone creates a validated zone.
func NewSurgeZone(id kernel.UUID, name string, center kernel.GeoPoint, radiusKM float64) (SurgeZone, error) {
	if err := errors.Join(id.Validate(), center.Validate()); err != nil {
		return SurgeZone{}, err
	}
	return SurgeZone{id: id, name: name, center: center, radiusKM: radiusKM}, nil
}

// ID returns the zone's unique identifier.
func (z SurgeZone) ID() kernel.UUID { return z.id }

// Name returns the zone's display name.
func (z SurgeZone) Name() string { return z.name }

// Center returns the zone's center point.
func (z SurgeZone) Center() kernel.GeoPoint { return z.center }

// RadiusKM returns the zone's radius.
func (z SurgeZone) RadiusKM() float64 { return z.radiusKM }

// contains reports whether a point falls inside the zone.
func (z SurgeZone) contains(p kernel.GeoPoint) bool {
	d, err := z.center.RoadDistanceKM(p)
	if err != nil {
		return false
	}
	return d <= z.radiusKM
}

// ZoneSnapshot is the per-zone state read by pricing.
type ZoneSnapshot struct {
	Zone            SurgeZone
	Multiplier      decimal.Decimal
	ActiveOrders    int
	AvailableRiders int
}

// SurgeZoneTracker holds the current multiplier per zone. Multipliers
// change only in Recompute, which a single scheduler tick calls from a
// point-in-time scan; request paths only read. An RWMutex keeps the
// reads cheap and the recompute atomic.
type SurgeZoneTracker struct {
	mu             sync.RWMutex
	zones          []SurgeZone
	snapshots      map[string]ZoneSnapshot
	lastRecomputed time.Time
}

// NewSurgeZoneTracker creates a tracker over a fixed zone set. Every
// zone starts at multiplier 1.
func NewSurgeZoneTracker(zones []SurgeZone) *SurgeZoneTracker {
	snapshots := make(map[string]ZoneSnapshot, len(zones))
	for _, zone := range zones {
		snapshots[zone.id.String()] = ZoneSnapshot{Zone: zone, Multiplier: surgeNone}
	}
	return &SurgeZoneTracker{
		zones:     zones,
		snapshots: snapshots,
	}
}

// MultiplierFor returns the frozen multiplier for the zone containing
// the point, or 1 when no zone covers it. Callers freeze this value on
// the order; later recomputes never touch existing orders.
func (t *SurgeZoneTracker) MultiplierFor(point kernel.GeoPoint) decimal.Decimal {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, zone := range t.zones {
		if zone.contains(point) {
			return t.snapshots[zone.id.String()].Multiplier
		}
	}
	return surgeNone
}

// Snapshots returns the current per-zone state, for reporting.
func (t *SurgeZoneTracker) Snapshots() []ZoneSnapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]ZoneSnapshot, 0, len(t.zones))
	for _, zone := range t.zones {
		out = append(out, t.snapshots[zone.id.String()])
	}
	return out
}

// LastRecomputedAt returns when Recompute last ran.
func (t *SurgeZoneTracker) LastRecomputedAt() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastRecomputed
}

// Recompute rebuilds every zone's multiplier from a point-in-time scan
// of active order and available rider positions. Only the surge
// recompute job calls this.
func (t *SurgeZoneTracker) Recompute(
	activeOrders []kernel.GeoPoint,
	availableRiders []kernel.GeoPoint,
	now time.Time,
) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, zone := range t.zones {
		orders := 0
		for _, p := range activeOrders {
			if zone.contains(p) {
				orders++
			}
		}
		riders := 0
		for _, p := range availableRiders {
			if zone.contains(p) {
				riders++
			}
		}

		t.snapshots[zone.id.String()] = ZoneSnapshot{
			Zone:            zone,
			Multiplier:      multiplierForRatio(orders, riders),
			ActiveOrders:    orders,
			AvailableRiders: riders,
		}
	}
	t.lastRecomputed = now
}

// multiplierForRatio maps the demand/supply ratio onto the surge bands.
// Zero available riders jumps straight to the cap.
func multiplierForRatio(orders int, riders int) decimal.Decimal {
	if riders == 0 {
		if orders == 0 {
			return surgeNone
		}
		return surgeCap
	}

	ratio := float64(orders) / float64(riders)
	switch {
	case ratio < 2:
		return surgeNone
	case ratio < 4:
		return surgeLow
	case ratio < 6:
		return surgeMid
	default:
		return surgeCap
	}
}
